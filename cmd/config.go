package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yeisme/codetree/pkg/configs"
	"github.com/yeisme/codetree/pkg/utils/log"
)

var (
	configCmd = &cobra.Command{
		Use:     "config",
		Short:   "Manage codetree configuration",
		Long:    `codetree config allows you to view and initialize codetree configuration settings.`,
		Aliases: []string{"c"},
	}

	configListCmd = &cobra.Command{
		Use:   "list [section]",
		Short: "List codetree configuration",
		Long: `codetree config list displays the current configuration settings.

You can specify a section to display only that part of the configuration:
  - app:  Application and watch settings
  - log:  Logging settings
  - scan: Scan and report settings

Examples:
  codetree config list                    # Show all configuration (viper raw data)
  codetree config list --all              # Show all configuration with defaults
  codetree config list scan               # Show only scan settings
  codetree config list --format json      # Output in JSON format
  codetree config list scan --all -f toml # Show scan config with defaults in TOML`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			section := ""
			if len(args) > 0 {
				section = args[0]
			}

			formatStr, _ := cmd.Flags().GetString("format")
			format, err := configs.ParseOutputFormat(formatStr)
			if err != nil {
				return err
			}
			showAll, _ := cmd.Flags().GetBool("all")

			data, err := configs.GetConfigSection(ctCtx.Viper, section, showAll)
			if err != nil {
				return fmt.Errorf("get config section: %w", err)
			}
			return configs.OutputData(data, format, cmd.OutOrStdout())
		},
		Aliases: []string{"ls"},
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Initialize codetree configuration",
		Long: `codetree config init creates a new configuration file with default settings.

Examples:
  codetree config init                                 # Create .codetree.yaml in current directory
  codetree config init --path ~/.config/codetree/codetree.toml
  codetree config init --format json                   # Create .codetree.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("path")
			formatStr, _ := cmd.Flags().GetString("format")
			force, _ := cmd.Flags().GetBool("force")

			format, err := configs.ParseOutputFormat(formatStr)
			if err != nil {
				return err
			}
			if path == "" {
				path = ".codetree." + string(format)
			}

			if err := configs.WriteDefaultConfig(path, force); err != nil {
				return err
			}
			log.Info().Str("path", path).Msg("config file created")
			fmt.Fprintf(cmd.ErrOrStderr(), "Config file created: %s\n", path)
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(
		configListCmd,
		configInitCmd,
	)

	configListCmd.Flags().StringP("format", "f", "yaml", fmt.Sprintf("Output format (%s)", strings.Join(configs.ValidFormats(), ", ")))
	configListCmd.Flags().BoolP("all", "a", false, "Show complete configuration with defaults (processed struct)")

	configInitCmd.Flags().StringP("path", "p", "", "Path to the config file (extension selects the format)")
	configInitCmd.Flags().StringP("format", "f", "yaml", "Format of the config file (yaml, json, toml)")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}
