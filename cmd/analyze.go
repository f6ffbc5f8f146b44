package cmd

import (
	"bytes"
	gocontext "context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/yeisme/codetree/pkg/configs"
	"github.com/yeisme/codetree/pkg/models"
	"github.com/yeisme/codetree/pkg/project"
	"github.com/yeisme/codetree/pkg/report"
	"github.com/yeisme/codetree/pkg/style"
	"github.com/yeisme/codetree/pkg/utils/detect"
	"github.com/yeisme/codetree/pkg/utils/exclude"
	"github.com/yeisme/codetree/pkg/utils/hotload"
	"github.com/yeisme/codetree/pkg/utils/log"
)

var (
	watchFlag     bool
	clipboardFlag bool
	previewFlag   bool
)

// analysis 一次命令执行中不变的参数，watch 模式下每次重新分析都复用
type analysis struct {
	root     string
	scan     configs.ScanConfig
	renderer report.Renderer
	outPath  string // 为空表示写到标准输出
	quiet    bool
	stdout   io.Writer
	stderr   io.Writer
}

func newAnalysis(cmd *cobra.Command, dir string, cfg *configs.Config) (*analysis, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", dir, err)
	}

	format, err := report.ParseFormat(cfg.Scan.Format)
	if err != nil {
		return nil, err
	}
	renderer, err := report.New(format)
	if err != nil {
		return nil, err
	}
	if h, ok := renderer.(*report.HTMLRenderer); ok {
		h.Theme = cfg.Scan.Theme
	}

	outPath, err := project.OutputPath(root, cfg.Scan.Output, renderer.Extension())
	if err != nil {
		return nil, err
	}

	return &analysis{
		root:     root,
		scan:     cfg.Scan,
		renderer: renderer,
		outPath:  outPath,
		quiet:    cfg.App.Quiet,
		stdout:   cmd.OutOrStdout(),
		stderr:   cmd.ErrOrStderr(),
	}, nil
}

func (a *analysis) artifacts() []string {
	if a.outPath == "" {
		return nil
	}
	return []string{a.outPath}
}

// run 执行一次完整的分析并输出报告
func (a *analysis) run(ctx gocontext.Context) (*models.Report, error) {
	spinner := style.NewSpinner(a.stderr, "Analyzing "+a.root)
	if !a.quiet {
		spinner.Start()
	}
	start := time.Now()
	rep, err := project.Analyze(ctx, project.AnalyzeOptions{
		Root:             a.root,
		Artifacts:        a.artifacts(),
		Exclude:          a.scan.Exclude,
		RespectGitignore: a.scan.RespectGitignore,
		Concurrency:      a.scan.Concurrency,
		MaxContentBytes:  a.scan.MaxContentBytes,
	})
	spinner.Stop()
	if err != nil {
		return nil, err
	}

	data, err := project.Render(a.renderer, rep)
	if err != nil {
		return nil, err
	}
	if a.outPath == "" {
		if _, err := a.stdout.Write(data); err != nil {
			return nil, fmt.Errorf("write report: %w", err)
		}
	} else if err := project.WriteReport(a.outPath, data); err != nil {
		return nil, err
	}

	if clipboardFlag {
		if err := clipboard.WriteAll(string(data)); err != nil {
			log.Warn().Err(err).Msg("failed to copy report to clipboard")
		} else {
			log.Info().Int("bytes", len(data)).Msg("report copied to clipboard")
		}
	}
	if previewFlag {
		if err := a.preview(rep); err != nil {
			log.Warn().Err(err).Msg("failed to render preview")
		}
	}
	if !a.quiet {
		a.summary(rep, time.Since(start))
	}
	return rep, nil
}

// preview 在终端中以渲染后的 Markdown 展示报告
func (a *analysis) preview(rep *models.Report) error {
	var md bytes.Buffer
	if err := (&report.MarkdownRenderer{}).Render(&md, rep); err != nil {
		return err
	}
	return style.RenderMarkdown(a.stdout, md.String(), 0, "")
}

// summary 在标准错误上打印简短的运行摘要
func (a *analysis) summary(rep *models.Report, elapsed time.Duration) {
	t := rep.Statistics.Totals
	dest := a.outPath
	if dest == "" {
		dest = "stdout"
	}
	items := []style.KeyValue{
		{Key: "Report", Value: dest, Tone: style.ToneAccent},
		{Key: "Files", Value: humanize.Comma(int64(t.Files))},
		{Key: "Lines", Value: humanize.Comma(int64(t.Lines.Total))},
		{Key: "Size", Value: humanize.IBytes(uint64(t.Size.Logical))},
		{Key: "Excluded", Value: strconv.Itoa(rep.Statistics.Excluded.Entries), Tone: style.ToneMuted},
		{Key: "Elapsed", Value: elapsed.Round(time.Millisecond).String(), Tone: style.ToneMuted},
	}
	if t.RedactedFiles > 0 {
		items = append(items, style.KeyValue{Key: "Redacted", Value: strconv.Itoa(t.RedactedFiles), Tone: style.ToneWarning})
	}
	if len(rep.Errors) > 0 {
		items = append(items, style.KeyValue{Key: "Errors", Value: strconv.Itoa(len(rep.Errors)), Tone: style.ToneDanger})
	}
	_ = style.PrintKeyValues(a.stderr, items)

	if len(rep.Errors) > 0 {
		errs := make([]any, 0, len(rep.Errors))
		for _, e := range rep.Errors {
			errs = append(errs, fmt.Sprintf("%s: %s", e.Path, e.Message))
		}
		_ = style.PrintList(a.stderr, errs...)
	}
}

// ignoreFunc 让 watch 与扫描使用同一套排除规则
func (a *analysis) ignoreFunc() (hotload.IgnoreFunc, error) {
	signatures, err := detect.Classify(os.DirFS(a.root))
	if err != nil {
		return nil, err
	}
	policy := exclude.NewPolicy(exclude.Options{
		Root:         a.root,
		Artifacts:    a.artifacts(),
		Signatures:   signatures,
		UserExcludes: a.scan.Exclude,
		Gitignore:    a.scan.RespectGitignore,
	})
	return func(rel string, isDir bool) bool {
		kind := models.KindFile
		if isDir {
			kind = models.KindDir
		}
		return policy.Decide(rel, filepath.Join(a.root, filepath.FromSlash(rel)), kind).Rule != models.RuleIncluded
	}, nil
}

func runAnalyze(cmd *cobra.Command, dir string) error {
	a, err := newAnalysis(cmd, dir, ctCtx.Config)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if _, err := a.run(ctx); err != nil {
		return err
	}
	if !watchFlag {
		return nil
	}

	ignore, err := a.ignoreFunc()
	if err != nil {
		return err
	}
	watch := ctCtx.Config.App.Watch
	log.Info().Str("root", a.root).Msg("watching for changes, press Ctrl+C to stop")
	err = hotload.Watch(ctx, hotload.Options{
		Root:           a.root,
		Debounce:       time.Duration(watch.Debounce) * time.Millisecond,
		IgnorePatterns: watch.IgnorePatterns,
		Ignore:         ignore,
	}, func(ctx gocontext.Context) {
		// 每次都是一次全新的分析，失败时保留上一份报告并继续监视
		if _, err := a.run(ctx); err != nil && !errors.Is(err, gocontext.Canceled) {
			log.Error().Err(err).Msg("analysis failed")
		}
	})
	return err
}
