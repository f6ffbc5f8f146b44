package hotload

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, opts Options) *atomic.Int32 {
	t.Helper()
	w, err := New(opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) { calls.Add(1) })
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("watcher did not stop after cancel")
		}
	})
	return &calls
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0o644))

	calls := startWatcher(t, Options{Root: root, Debounce: 100 * time.Millisecond})

	for i := range 5 {
		name := filepath.Join(root, "file"+string(rune('a'+i))+".go")
		require.NoError(t, os.WriteFile(name, []byte("package main\n"), 0o644))
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcher_IgnoresExcludedPaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "target"), 0o755))

	ignore := func(rel string, isDir bool) bool {
		return rel == "target" || rel == "codetree.txt"
	}
	calls := startWatcher(t, Options{Root: root, Debounce: 50 * time.Millisecond, Ignore: ignore})

	require.NoError(t, os.WriteFile(filepath.Join(root, "codetree.txt"), []byte("report"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "scratch.tmp"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "target", "out.o"), []byte("x"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())

	require.NoError(t, os.WriteFile(filepath.Join(root, "lib.rs"), []byte("fn f() {}\n"), 0o644))
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_NewSubdirectoryIsWatched(t *testing.T) {
	root := t.TempDir()
	calls := startWatcher(t, Options{Root: root, Debounce: 50 * time.Millisecond})

	sub := filepath.Join(root, "pkg")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "a.go"), []byte("package pkg\n"), 0o644))
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_UnchangedContentIgnored(t *testing.T) {
	root := t.TempDir()
	name := filepath.Join(root, "config.yaml")
	require.NoError(t, os.WriteFile(name, []byte("a: 1\n"), 0o644))

	w, err := New(Options{Root: root})
	require.NoError(t, err)
	defer w.Close()

	// 内容相同的写入不算变化
	require.NoError(t, os.WriteFile(name, []byte("a: 1\n"), 0o644))
	assert.False(t, w.onWrite(name))

	require.NoError(t, os.WriteFile(name, []byte("a: 2\n"), 0o644))
	assert.True(t, w.onWrite(name))

	require.NoError(t, os.Remove(name))
	assert.True(t, w.onRemoveOrRename(name))
	assert.NotContains(t, w.cache, name)
}

func TestWatcher_MissingRoot(t *testing.T) {
	_, err := New(Options{Root: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
}

func TestDebouncer(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	assert.Nil(t, d.C())

	d.arm()
	d.arm()
	select {
	case <-d.C():
	case <-time.After(time.Second):
		t.Fatal("debouncer did not fire")
	}
	d.fired()
	assert.Nil(t, d.C())
	d.stop()
}

func TestMatchesAny(t *testing.T) {
	assert.True(t, matchesAny(".codetree-123.tmp", nil))
	assert.True(t, matchesAny("main.go~", nil))
	assert.True(t, matchesAny("debug.log", []string{"*.log"}))
	assert.False(t, matchesAny("main.go", []string{"*.log"}))
}
