// Package exclude 决定扫描过程中哪些路径需要排除，以及排除的原因
//
// 规则按固定优先级求值，第一个命中的规则生效:
//  1. 本次运行要写出的报告文件（output-artifact）
//  2. 内置的版本控制/编辑器/系统噪音（default-rule）
//  3. 命中的项目签名声明的构建与依赖目录（project-rule）
//  4. 用户显式排除（user-rule）
//  5. 根目录 .gitignore（gitignore，需开启）
package exclude

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	gitignore "github.com/monochromegane/go-gitignore"
	"github.com/rs/zerolog/log"

	"github.com/yeisme/codetree/pkg/models"
)

// DefaultDirs 内置排除的目录名及原因，在任意层级生效
var DefaultDirs = map[string]string{
	".git":    "git metadata",
	".hg":     "mercurial metadata",
	".svn":    "subversion metadata",
	".bzr":    "bazaar metadata",
	"_darcs":  "darcs metadata",
	"CVS":     "cvs metadata",
	".idea":   "editor settings",
	".vscode": "editor settings",
	".venv":   "python virtual environment",
}

// DefaultFiles 内置排除的文件名及原因
var DefaultFiles = map[string]string{
	".DS_Store":   "macOS folder metadata",
	"Thumbs.db":   "windows thumbnail cache",
	"desktop.ini": "windows folder settings",
}

// Options 构造 Policy 的输入
type Options struct {
	Root         string                    // 扫描根目录（绝对路径），用于定位 .gitignore
	Artifacts    []string                  // 本次运行要写出的文件（绝对路径）
	Signatures   []models.MatchedSignature // 项目分类结果
	UserExcludes []string                  // 用户排除模式
	Gitignore    bool                      // 是否遵循根目录 .gitignore
}

type projectRule struct {
	pattern   string
	signature string
}

// Policy 排除策略，构造后只读，可被多个 goroutine 同时使用
type Policy struct {
	artifacts   map[string]struct{}
	projectDirs []projectRule
	projectFile []projectRule
	user        []string
	ignore      gitignore.IgnoreMatcher
}

// NewPolicy 根据分类结果与用户配置构造排除策略
func NewPolicy(opts Options) *Policy {
	p := &Policy{artifacts: make(map[string]struct{}, len(opts.Artifacts))}
	for _, a := range opts.Artifacts {
		if abs, err := filepath.Abs(a); err == nil {
			p.artifacts[filepath.Clean(abs)] = struct{}{}
		}
	}

	// 签名按名称排序，使同一模式总是归属于字典序最小的签名
	sigs := append([]models.MatchedSignature(nil), opts.Signatures...)
	sort.SliceStable(sigs, func(i, j int) bool { return sigs[i].Name < sigs[j].Name })
	for _, s := range sigs {
		for _, d := range s.ExcludeDirs {
			p.projectDirs = append(p.projectDirs, projectRule{pattern: d, signature: s.Name})
		}
		for _, f := range s.ExcludeFiles {
			p.projectFile = append(p.projectFile, projectRule{pattern: f, signature: s.Name})
		}
	}

	for _, raw := range opts.UserExcludes {
		if n := normalizePattern(raw); n != "" {
			p.user = append(p.user, n)
		}
	}

	if opts.Gitignore && opts.Root != "" {
		p.ignore = loadGitIgnore(opts.Root)
	}
	return p
}

// loadGitIgnore 加载根目录下的 .gitignore，不存在或解析失败时返回 nil
func loadGitIgnore(root string) gitignore.IgnoreMatcher {
	gitIgnorePath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(gitIgnorePath); err != nil {
		return nil
	}
	matcher, err := gitignore.NewGitIgnore(gitIgnorePath, root)
	if err != nil {
		log.Warn().Err(err).Str("path", gitIgnorePath).Msg("could not parse .gitignore")
		return nil
	}
	return matcher
}

// Decide 判定一个路径是否被排除
// relPath 为相对根目录、以 / 分隔的路径；absPath 为绝对路径
// 结果只取决于路径本身、命中的签名和用户模式，与遍历顺序无关
func (p *Policy) Decide(relPath, absPath string, kind models.EntryKind) models.ExclusionDecision {
	isDir := kind == models.KindDir

	if _, ok := p.artifacts[filepath.Clean(absPath)]; ok && !isDir {
		return models.ExclusionDecision{Rule: models.RuleOutputArtifact, Reason: "report output of this run"}
	}

	base := filepath.Base(filepath.FromSlash(relPath))
	if isDir {
		if reason, ok := DefaultDirs[base]; ok {
			return models.ExclusionDecision{Rule: models.RuleDefault, Reason: reason}
		}
	} else if reason, ok := DefaultFiles[base]; ok {
		return models.ExclusionDecision{Rule: models.RuleDefault, Reason: reason}
	}

	rules := p.projectFile
	what := "generated file"
	if isDir {
		rules = p.projectDirs
		what = "build/dependency directory"
	}
	for _, r := range rules {
		if nameMatches(relPath, r.pattern) {
			return models.ExclusionDecision{
				Rule:      models.RuleProject,
				Reason:    fmt.Sprintf("%s %s", r.signature, what),
				Signature: r.signature,
			}
		}
	}

	for _, pat := range p.user {
		if userPatternMatches(relPath, pat) {
			return models.ExclusionDecision{Rule: models.RuleUser, Reason: "matches " + pat}
		}
	}

	if p.ignore != nil && p.ignore.Match(absPath, isDir) {
		return models.ExclusionDecision{Rule: models.RuleGitignore, Reason: "listed in .gitignore"}
	}

	return models.ExclusionDecision{Rule: models.RuleIncluded}
}
