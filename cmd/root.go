// Package cmd provides command-line interface commands for codetree
package cmd

import (
	gocontext "context"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"runtime/trace"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yeisme/codetree/pkg/context"
	"github.com/yeisme/codetree/pkg/report"
	"github.com/yeisme/codetree/pkg/utils/version"
)

var (
	ctCtx *context.CodetreeContext
	v     = viper.New()

	// Global flags
	configPathFlag    string
	debugFlag         bool
	verboseFlag       bool
	quietFlag         bool
	cpuProfileFlag    string
	traceFlag         string
	versionEnableFlag bool
)

// rootCmd 不带子命令时分析一个项目目录
var rootCmd = &cobra.Command{
	Use:   "codetree [DIR]",
	Short: "Analyze a project directory and produce a shareable report",
	Long: `codetree scans a project directory and produces a structured report of it:
the directory tree, detected project types and frameworks, per-language line
statistics, on-disk size accounting and redaction of sensitive files.

The report is written to <DIR>/<output>.<ext> (default: codetree.txt).

Examples:
  # Analyze the current directory, text report
  codetree

  # Markdown report of another project, printed to stdout
  codetree ../service -f markdown -o -

  # HTML report, re-generated whenever the project changes
  codetree -f html --watch

  # Skip extra paths and honor .gitignore
  codetree -e "*.snap" -e fixtures/ --gitignore`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionEnableFlag {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetShortVersionString())
			return nil
		}
		root := "."
		if len(args) > 0 {
			root = args[0]
		}
		return runAnalyze(cmd, root)
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cpuProfileFlag != "" {
			f, err := os.Create(cpuProfileFlag)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
		}
		if traceFlag != "" {
			f, err := os.Create(traceFlag)
			if err != nil {
				return fmt.Errorf("could not create trace file: %w", err)
			}
			if err := trace.Start(f); err != nil {
				return fmt.Errorf("could not start trace: %w", err)
			}
		}

		ctx, err := context.InitCodetreeContext(cmd.Context(), v, configPathFlag)
		if err != nil {
			return err
		}
		ctCtx = ctx
		ctCtx.Logger.Info().Msgf("Execute Command: %s %s", "codetree", strings.Join(os.Args[1:], " "))
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if cpuProfileFlag != "" {
			pprof.StopCPUProfile()
		}
		if traceFlag != "" {
			trace.Stop()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// 致命错误（根目录不存在、配置无效等）打印到标准错误并以状态码 1 退出
func Execute() {
	ctx, stop := signal.NotifyContext(gocontext.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPathFlag, "config", "c", "", "config file (default: .codetree.yaml, ./configs, $HOME/.config/codetree)")
	pf.StringVar(&cpuProfileFlag, "cpu-profile", "", "write cpu profile to `file`")
	pf.StringVar(&traceFlag, "trace", "", "write execution trace to `file`")
	pf.BoolVar(&debugFlag, "debug", false, "enable debug mode (prints additional information)")
	pf.BoolVarP(&verboseFlag, "verbose", "V", false, "enable verbose output (prints more detailed information)")
	pf.BoolVar(&quietFlag, "quiet", false, "suppress all output except errors")
	_ = pf.MarkHidden("cpu-profile")
	_ = pf.MarkHidden("trace")

	f := rootCmd.Flags()
	f.BoolVarP(&versionEnableFlag, "version", "v", false, "show version information")
	f.StringP("format", "f", "text", fmt.Sprintf("report format (%s)", strings.Join(report.Formats(), ", ")))
	f.StringP("output", "o", "codetree", `report file name without extension, written inside DIR; "-" prints to stdout`)
	f.StringSliceP("exclude", "e", nil, "additional exclude pattern (glob, directory name or path prefix), repeatable")
	f.Bool("gitignore", false, "also exclude paths matched by the root .gitignore")
	f.IntP("jobs", "j", 0, "number of concurrent scan workers (default: number of CPUs)")
	f.Int64("max-content-bytes", 1<<20, "files larger than this are counted but their content is omitted")
	f.String("theme", "github", "syntax highlighting theme for the html report")
	f.BoolVarP(&watchFlag, "watch", "w", false, "re-run the analysis whenever the project changes")
	f.BoolVar(&clipboardFlag, "clipboard", false, "copy the rendered report to the clipboard")
	f.BoolVar(&previewFlag, "preview", false, "preview the report as rendered markdown in the terminal")

	// 命令行标志覆盖配置文件与环境变量
	for key, name := range map[string]string{
		"scan.format":            "format",
		"scan.output":            "output",
		"scan.exclude":           "exclude",
		"scan.respect_gitignore": "gitignore",
		"scan.concurrency":       "jobs",
		"scan.max_content_bytes": "max-content-bytes",
		"scan.theme":             "theme",
	} {
		_ = v.BindPFlag(key, f.Lookup(name))
	}
	for key, name := range map[string]string{
		"app.debug":   "debug",
		"app.verbose": "verbose",
		"app.quiet":   "quiet",
	} {
		_ = v.BindPFlag(key, pf.Lookup(name))
	}
}
