package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/codetree/pkg/models"
	"github.com/yeisme/codetree/pkg/utils/exclude"
	"github.com/yeisme/codetree/pkg/utils/sensitive"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func rustMain() string {
	var b strings.Builder
	b.WriteString("// entry point\n// second comment\n\nfn main() {\n")
	for range 8 {
		b.WriteString("    work();\n")
	}
	b.WriteString("}\n")
	return b.String()
}

var rustSig = models.MatchedSignature{Name: "Rust", Kind: models.SignatureProject, ExcludeDirs: []string{"target"}}

func scenario(t *testing.T) string {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/main.rs": rustMain(),
		".env":        "API_KEY=xyz\nDEBUG=1\nPORT=8080\n",
	})
	for i := range 5 {
		writeTree(t, root, map[string]string{
			filepath.ToSlash(filepath.Join("target", "debug", string(rune('a'+i)))): strings.Repeat("x", 400),
		})
	}
	return root
}

func find(root *models.Entry, rel string) *models.Entry {
	var found *models.Entry
	root.Walk(func(e *models.Entry) bool {
		if e.Path == rel {
			found = e
			return false
		}
		return found == nil
	})
	return found
}

func TestScan_Scenario(t *testing.T) {
	root := scenario(t)
	policy := exclude.NewPolicy(exclude.Options{Root: root, Signatures: []models.MatchedSignature{rustSig}})

	res, err := New(Options{Root: root, Policy: policy}).Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Root.FileCount)
	assert.Equal(t, ".", res.Root.Path)
	require.Len(t, res.Root.Children, 2)
	assert.Equal(t, ".env", res.Root.Children[0].Name)
	assert.Equal(t, "src", res.Root.Children[1].Name)

	mainRs := find(res.Root, "src/main.rs")
	require.NotNil(t, mainRs)
	assert.Equal(t, models.LineCounts{Code: 10, Comment: 2, Blank: 1, Total: 13}, mainRs.Lines)
	assert.Equal(t, "Rust", mainRs.Language)
	assert.Equal(t, ".rs", mainRs.Extension)
	assert.Equal(t, 2, mainRs.Depth)
	require.NotNil(t, mainRs.Content)
	assert.Equal(t, rustMain(), *mainRs.Content)

	env := find(res.Root, ".env")
	require.NotNil(t, env)
	assert.True(t, env.Redacted)
	assert.Nil(t, env.Content)
	assert.Equal(t, 3, env.Lines.Total)
	assert.Equal(t, int64(len("API_KEY=xyz\nDEBUG=1\nPORT=8080\n")), env.Size.Logical)

	require.Len(t, res.Redactions, 1)
	assert.Equal(t, ".env", res.Redactions[0].Path)
	assert.Equal(t, models.RedactEnvFile, res.Redactions[0].Reason)

	require.Len(t, res.Exclusions, 1)
	ex := res.Exclusions[0]
	assert.Equal(t, "target", ex.Path)
	assert.Equal(t, models.RuleProject, ex.Rule)
	assert.Equal(t, "Rust", ex.Signature)
	assert.Equal(t, 5, ex.FileCount)
	assert.Equal(t, int64(2000), ex.Size.Logical)

	assert.Nil(t, find(res.Root, "target"))
	assert.Empty(t, res.Errors)

	// 目录汇总等于被包含后代之和
	assert.Equal(t, mainRs.Lines.Total+env.Lines.Total, res.Root.Lines.Total)
	assert.Equal(t, mainRs.Size.Logical+env.Size.Logical, res.Root.Size.Logical)
}

func TestScan_Deterministic(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{}
	for _, d := range []string{"a", "b", "c", "d"} {
		for _, f := range []string{"x.go", "y.py", "z.txt"} {
			files[d+"/"+f] = "package x\n// c\n\n"
		}
	}
	writeTree(t, root, files)

	a, err := New(Options{Root: root, Concurrency: 1}).Scan(context.Background())
	require.NoError(t, err)
	b, err := New(Options{Root: root, Concurrency: runtime.NumCPU() * 4}).Scan(context.Background())
	require.NoError(t, err)

	var pa, pb []string
	a.Root.Walk(func(e *models.Entry) bool { pa = append(pa, e.Path); return true })
	b.Root.Walk(func(e *models.Entry) bool { pb = append(pb, e.Path); return true })
	assert.Equal(t, pa, pb)
	assert.Equal(t, a.Root.Lines, b.Root.Lines)
	assert.Equal(t, 12, a.Root.FileCount)
	assert.Equal(t, "a/x.go", pa[2])
}

func TestScan_EmptyAndBinary(t *testing.T) {
	root := t.TempDir()
	bin := append([]byte("MZ"), make([]byte, 100)...)
	writeTree(t, root, map[string]string{"empty.go": "", "blob.dat": string(bin)})

	res, err := New(Options{Root: root}).Scan(context.Background())
	require.NoError(t, err)

	empty := find(res.Root, "empty.go")
	require.NotNil(t, empty)
	assert.Equal(t, 0, empty.Lines.Total)
	require.NotNil(t, empty.Content)
	assert.Equal(t, "", *empty.Content)

	blob := find(res.Root, "blob.dat")
	require.NotNil(t, blob)
	assert.True(t, blob.Binary)
	assert.Nil(t, blob.Content)
	assert.Zero(t, blob.Lines.Total)
	assert.Equal(t, int64(len(bin)), blob.Size.Logical)
	assert.Equal(t, 2, res.Root.FileCount)
}

func TestScan_LargeFileStreamed(t *testing.T) {
	root := t.TempDir()
	content := strings.Repeat("x := 1\n", 200) + "password = \"hunter2hunter2\"\n"
	writeTree(t, root, map[string]string{"big.go": content})

	res, err := New(Options{Root: root, MaxContentBytes: 64}).Scan(context.Background())
	require.NoError(t, err)
	big := find(res.Root, "big.go")
	require.NotNil(t, big)
	assert.True(t, big.ContentOmitted)
	assert.Nil(t, big.Content)
	assert.Equal(t, 201, big.Lines.Code)
	// 样本覆盖整个文件，凭据仍然被识别
	assert.True(t, big.Redacted)
	require.Len(t, res.Redactions, 1)
	assert.Less(t, len(content), sensitive.SampleBytes)
}

func TestScan_Symlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	writeTree(t, root, map[string]string{"real/a.go": "package a\n"})
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "loop")))

	res, err := New(Options{Root: root}).Scan(context.Background())
	require.NoError(t, err)
	link := find(res.Root, "loop")
	require.NotNil(t, link)
	assert.Equal(t, models.KindSymlink, link.Kind)
	assert.Equal(t, filepath.Join(root, "real"), link.SymlinkTarget)
	assert.Empty(t, link.Children)
	assert.Equal(t, 1, res.Root.FileCount)
}

func TestScan_OutputArtifactExcluded(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "codetree.txt")
	writeTree(t, root, map[string]string{"main.go": "package main\n", "codetree.txt": "old report"})

	policy := exclude.NewPolicy(exclude.Options{Root: root, Artifacts: []string{out}})
	res, err := New(Options{Root: root, Policy: policy}).Scan(context.Background())
	require.NoError(t, err)
	assert.Nil(t, find(res.Root, "codetree.txt"))
	require.Len(t, res.Exclusions, 1)
	assert.Equal(t, models.RuleOutputArtifact, res.Exclusions[0].Rule)
}

func TestScan_PermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	writeTree(t, root, map[string]string{"secret/a.go": "package a\n", "ok.go": "package ok\n"})
	locked := filepath.Join(root, "secret")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	res, err := New(Options{Root: root}).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "secret", res.Errors[0].Path)
	assert.Equal(t, models.ErrorPermissionDenied, res.Errors[0].Kind)
	assert.Equal(t, 1, res.Root.FileCount)
}

func TestScan_RootErrors(t *testing.T) {
	_, err := New(Options{Root: filepath.Join(t.TempDir(), "missing")}).Scan(context.Background())
	assert.True(t, errors.Is(err, models.ErrRootNotFound))

	file := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = New(Options{Root: file}).Scan(context.Background())
	assert.True(t, errors.Is(err, models.ErrRootNotDirectory))
}

func TestScan_Canceled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.go": "package a\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Options{Root: root}).Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func Test_prepareConcurrency(t *testing.T) {
	if got := prepareConcurrency(5); got != 5 {
		t.Fatalf("got %d", got)
	}
	if got := prepareConcurrency(0); got < 1 || got > runtime.NumCPU() {
		t.Fatalf("default conc %d", got)
	}
}
