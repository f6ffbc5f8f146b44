//go:build unix

package diskusage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasure_SparseFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sparse.img")
	f, err := os.Create(p)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(64<<20))
	require.NoError(t, f.Close())

	m, err := Measure(p)
	require.NoError(t, err)
	assert.False(t, m.Fallback)
	assert.Equal(t, int64(64<<20), m.Logical)
	// 未写入的空洞不占用块
	assert.Less(t, m.Allocated, m.Logical)
}

func TestMeasure_AllocatedIsBlockMultiple(t *testing.T) {
	p := filepath.Join(t.TempDir(), "small.txt")
	require.NoError(t, os.WriteFile(p, []byte("abc"), 0o644))
	m, err := Measure(p)
	require.NoError(t, err)
	assert.Zero(t, m.Allocated%blockUnit)
}

func TestMeasure_DoesNotFollowSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "big")
	require.NoError(t, os.WriteFile(target, make([]byte, 1<<20), 0o644))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	m, err := Measure(link)
	require.NoError(t, err)
	assert.Less(t, m.Logical, int64(1<<20))
}
