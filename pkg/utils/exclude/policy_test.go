package exclude

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/codetree/pkg/models"
)

var (
	nodeSig = models.MatchedSignature{
		Name:         "Node.js",
		Kind:         models.SignatureProject,
		ExcludeDirs:  []string{"node_modules", "dist", "build"},
		ExcludeFiles: []string{"package-lock.json"},
	}
	reactSig = models.MatchedSignature{
		Name:        "React",
		Kind:        models.SignatureFramework,
		ExcludeDirs: []string{"build", ".next"},
	}
	pythonSig = models.MatchedSignature{
		Name:        "Python",
		Kind:        models.SignatureProject,
		ExcludeDirs: []string{"__pycache__", ".venv", "venv"},
	}
)

func decide(p *Policy, root, rel string, kind models.EntryKind) models.ExclusionDecision {
	return p.Decide(rel, filepath.Join(root, filepath.FromSlash(rel)), kind)
}

func TestDecide_DefaultRules(t *testing.T) {
	root := t.TempDir()
	p := NewPolicy(Options{Root: root})

	d := decide(p, root, ".git", models.KindDir)
	assert.Equal(t, models.RuleDefault, d.Rule)
	assert.True(t, d.Excluded())

	d = decide(p, root, "pkg/sub/.svn", models.KindDir)
	assert.Equal(t, models.RuleDefault, d.Rule)

	d = decide(p, root, "docs/.DS_Store", models.KindFile)
	assert.Equal(t, models.RuleDefault, d.Rule)

	// 同名文件不受目录规则影响
	d = decide(p, root, ".git", models.KindFile)
	assert.Equal(t, models.RuleIncluded, d.Rule)
	assert.False(t, d.Excluded())

	// .env 不排除，交给脱敏处理
	assert.Equal(t, models.RuleIncluded, decide(p, root, ".env", models.KindFile).Rule)

	// CI 配置和普通目录名默认保留
	for _, dir := range []string{".github", ".gitlab", "cache", "fonts", "out"} {
		assert.Equal(t, models.RuleIncluded, decide(p, root, dir, models.KindDir).Rule, dir)
	}
}

func TestDecide_OutputArtifactFirst(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "codetree.json")
	p := NewPolicy(Options{Root: root, Artifacts: []string{out}, UserExcludes: []string{"*.json"}})

	d := p.Decide("codetree.json", out, models.KindFile)
	assert.Equal(t, models.RuleOutputArtifact, d.Rule)

	d = decide(p, root, "other.json", models.KindFile)
	assert.Equal(t, models.RuleUser, d.Rule)
}

func TestDecide_ProjectRuleUnionAndAttribution(t *testing.T) {
	root := t.TempDir()
	p := NewPolicy(Options{Root: root, Signatures: []models.MatchedSignature{reactSig, nodeSig}})

	d := decide(p, root, "node_modules", models.KindDir)
	require.Equal(t, models.RuleProject, d.Rule)
	assert.Equal(t, "Node.js", d.Signature)

	d = decide(p, root, ".next", models.KindDir)
	require.Equal(t, models.RuleProject, d.Rule)
	assert.Equal(t, "React", d.Signature)

	// 两个签名都声明了 build，归属字典序最小的签名
	d = decide(p, root, "web/build", models.KindDir)
	require.Equal(t, models.RuleProject, d.Rule)
	assert.Equal(t, "Node.js", d.Signature)

	d = decide(p, root, "package-lock.json", models.KindFile)
	assert.Equal(t, models.RuleProject, d.Rule)

	assert.Equal(t, models.RuleIncluded, decide(p, root, "src", models.KindDir).Rule)
}

func TestDecide_DefaultBeatsProject(t *testing.T) {
	root := t.TempDir()
	p := NewPolicy(Options{Root: root, Signatures: []models.MatchedSignature{pythonSig}})

	d := decide(p, root, ".venv", models.KindDir)
	assert.Equal(t, models.RuleDefault, d.Rule)
	assert.Empty(t, d.Signature)

	d = decide(p, root, "venv", models.KindDir)
	assert.Equal(t, models.RuleProject, d.Rule)
}

func TestDecide_UserPatterns(t *testing.T) {
	root := t.TempDir()
	p := NewPolicy(Options{Root: root, UserExcludes: []string{"./docs/", "*.log", "tmp/*", "  ", "internal/gen"}})

	assert.Equal(t, models.RuleUser, decide(p, root, "docs", models.KindDir).Rule)
	assert.Equal(t, models.RuleUser, decide(p, root, "docs/a.md", models.KindFile).Rule)
	assert.Equal(t, models.RuleUser, decide(p, root, "a/b/debug.log", models.KindFile).Rule)
	assert.Equal(t, models.RuleUser, decide(p, root, "tmp", models.KindDir).Rule)
	assert.Equal(t, models.RuleUser, decide(p, root, "internal/gen/x.go", models.KindFile).Rule)
	assert.Equal(t, models.RuleIncluded, decide(p, root, "internal/generator.go", models.KindFile).Rule)
	assert.Equal(t, models.RuleIncluded, decide(p, root, "docsite", models.KindDir).Rule)
}

func TestDecide_Gitignore(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("coverage/\n*.tmp\n"), 0o644))

	off := NewPolicy(Options{Root: root})
	assert.Equal(t, models.RuleIncluded, decide(off, root, "coverage", models.KindDir).Rule)

	on := NewPolicy(Options{Root: root, Gitignore: true})
	assert.Equal(t, models.RuleGitignore, decide(on, root, "coverage", models.KindDir).Rule)
	assert.Equal(t, models.RuleGitignore, decide(on, root, "x/y.tmp", models.KindFile).Rule)
	assert.Equal(t, models.RuleIncluded, decide(on, root, "main.go", models.KindFile).Rule)
}

func TestDecide_OrderIndependent(t *testing.T) {
	root := t.TempDir()
	a := NewPolicy(Options{Root: root, Signatures: []models.MatchedSignature{nodeSig, reactSig}})
	b := NewPolicy(Options{Root: root, Signatures: []models.MatchedSignature{reactSig, nodeSig}})
	for _, rel := range []string{"build", "dist", ".next", "src"} {
		assert.Equal(t, decide(a, root, rel, models.KindDir), decide(b, root, rel, models.KindDir), rel)
	}
}
