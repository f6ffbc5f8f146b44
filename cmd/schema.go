package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yeisme/codetree/pkg/style"
	"github.com/yeisme/codetree/pkg/utils/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [report|config]",
	Short: "Print the JSON Schema of the report or the config file",
	Long: `codetree schema prints the JSON Schema of the canonical JSON report.

Examples:
  codetree schema             # Schema of the json report (same as "schema report")
  codetree schema config      # Schema of the configuration file`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"report", "config"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var buf bytes.Buffer
		target := "report"
		if len(args) > 0 {
			target = args[0]
		}

		var err error
		switch target {
		case "config":
			err = schema.GenConfigSchema(&buf)
		default:
			err = schema.GenReportSchema(&buf)
		}
		if err != nil {
			return fmt.Errorf("generate %s schema: %w", target, err)
		}
		return style.PrintHighlighted(cmd.OutOrStdout(), buf.String(), "json")
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
