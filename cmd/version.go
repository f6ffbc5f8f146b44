package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yeisme/codetree/pkg/style"
	"github.com/yeisme/codetree/pkg/utils/version"
)

var (
	// Version command flags
	versionDetailed bool
	versionJSON     bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `
Display version information for codetree.

Examples:
  # Show short version info (default)
  codetree version

  # Show detailed version info
  codetree version --detailed

  # Show version info in JSON format
  codetree version --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		switch {
		case versionJSON:
			return style.PrintJSON(out, version.GetVersion())
		case versionDetailed:
			_, err := fmt.Fprintln(out, version.GetVersionString())
			return err
		default:
			_, err := fmt.Fprintln(out, version.GetShortVersionString())
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVarP(&versionDetailed, "detailed", "d", false, "show detailed version information")
	versionCmd.Flags().BoolVarP(&versionJSON, "json", "j", false, "output version information in JSON format")
}
