// Package cli provides the command-line interface for tablesplit.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-tablesplit/internal/cli/commands"
	"github.com/benjaminschreck/go-tablesplit/internal/cli/config"
	"github.com/benjaminschreck/go-tablesplit/pkg/tablesplit"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tablesplit",
		Short: "tablesplit - decompose Word tables into regions",
		Long: `tablesplit reads a table from a Word document, checks region metadata
against it, cuts it into standalone sub-tables and flattens their cells into
structured records.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			tablesplit.SetLogger(tablesplit.NewLogger(cmd.ErrOrStderr(), tablesplit.ParseLogLevel(cfg.LogLevel)))
			tablesplit.SetGlobalConfig(cfg.Library())

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				tablesplit.Debug("using config file: %s", configFile)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./tablesplit.yaml)")
	rootCmd.PersistentFlags().Int("table", 0, "0-based index of the table to use")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error|off)")
	rootCmd.PersistentFlags().Int("max-attempts", 0, "Classifier attempts before giving up")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (table|json|csv|markdown)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.OutputTable, config.OutputJSON, config.OutputCSV, config.OutputMarkdown}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error", "off"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version, GitCommit, BuildDate))
	rootCmd.AddCommand(commands.NewVisualizeCommand())
	rootCmd.AddCommand(commands.NewVerifyCommand())
	rootCmd.AddCommand(commands.NewSplitCommand())
	rootCmd.AddCommand(commands.NewExtractCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
