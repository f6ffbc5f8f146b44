package diskusage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasure_RegularFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(p, []byte("hello\n"), 0o644))

	m, err := Measure(p)
	require.NoError(t, err)
	assert.Equal(t, int64(6), m.Logical)
	assert.GreaterOrEqual(t, m.Allocated, int64(0))
	if m.Fallback {
		assert.Equal(t, m.Logical, m.Allocated)
	}
}

func TestMeasure_Missing(t *testing.T) {
	_, err := Measure(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMeasure_Repeatable(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "grow.bin")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	first, err := Measure(p)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(p, make([]byte, 128*1024), 0o644))
	second, err := Measure(p)
	require.NoError(t, err)
	assert.Greater(t, second.Logical, first.Logical)
}

func TestTree(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a", "b/c", "b/d/e"} {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, make([]byte, 400), 0o644))
	}
	size, files := Tree(dir)
	assert.Equal(t, 3, files)
	assert.Equal(t, int64(1200), size.Logical)

	_, files = Tree(filepath.Join(dir, "missing"))
	assert.Zero(t, files)
}
