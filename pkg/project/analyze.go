// Package project 串联分类、排除、扫描与统计，产出一次运行的完整报告
package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yeisme/codetree/pkg/models"
	"github.com/yeisme/codetree/pkg/scanner"
	"github.com/yeisme/codetree/pkg/stats"
	"github.com/yeisme/codetree/pkg/utils/detect"
	"github.com/yeisme/codetree/pkg/utils/exclude"
	"github.com/yeisme/codetree/pkg/utils/log"
)

// AnalyzeOptions 一次分析的输入
type AnalyzeOptions struct {
	Root             string   // 扫描根目录
	Artifacts        []string // 本次运行会写出的文件，扫描时排除
	Exclude          []string // 用户排除模式
	RespectGitignore bool
	Concurrency      int
	MaxContentBytes  int64

	// Now 报告时间来源，为 nil 时使用 time.Now
	Now func() time.Time
}

// Analyze 对 Root 做一次完整的无状态分析
// 根目录不存在或不是目录时返回 models.ErrRootNotFound / models.ErrRootNotDirectory
func Analyze(ctx context.Context, opts AnalyzeOptions) (*models.Report, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", opts.Root, err)
	}
	if err := checkRoot(root); err != nil {
		return nil, err
	}

	signatures, err := detect.Classify(os.DirFS(root))
	if err != nil {
		return nil, fmt.Errorf("classify project: %w", err)
	}
	log.Debug().Int("signatures", len(signatures)).Msg("project classified")

	policy := exclude.NewPolicy(exclude.Options{
		Root:         root,
		Artifacts:    opts.Artifacts,
		Signatures:   signatures,
		UserExcludes: opts.Exclude,
		Gitignore:    opts.RespectGitignore,
	})

	res, err := scanner.New(scanner.Options{
		Root:            root,
		Policy:          policy,
		Concurrency:     opts.Concurrency,
		MaxContentBytes: opts.MaxContentBytes,
	}).Scan(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	report := &models.Report{
		Root:        root,
		GeneratedAt: now().UTC(),
		Signatures:  signatures,
		Tree:        res.Root,
		Statistics:  stats.Aggregate(res.Root, res.Redactions, res.Exclusions),
		Exclusions:  stats.SummarizeExclusions(res.Exclusions),
		Redactions:  res.Redactions,
		Errors:      res.Errors,
	}
	log.Info().
		Str("root", root).
		Int("files", report.Statistics.Totals.Files).
		Int("lines", report.Statistics.Totals.Lines.Total).
		Int("excluded", len(res.Exclusions)).
		Int("redacted", len(res.Redactions)).
		Msg("analysis finished")
	return report, nil
}

func checkRoot(root string) error {
	st, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", models.ErrRootNotFound, root)
		}
		return fmt.Errorf("stat root: %w", err)
	}
	if !st.IsDir() {
		return fmt.Errorf("%w: %s", models.ErrRootNotDirectory, root)
	}
	return nil
}
