package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-tablesplit/internal/cli/config"
	"github.com/benjaminschreck/go-tablesplit/pkg/tablesplit"
)

// NewVerifyCommand creates the verify command.
func NewVerifyCommand() *cobra.Command {
	var regionsPath string

	cmd := &cobra.Command{
		Use:   "verify <file>",
		Short: "Check region metadata against a table",
		Long: `Check that the regions in --regions partition the rows of the table and
suit their declared types. Problems are printed as JSON unless another output
format is selected, and the command fails when there are any.`,
		Example: `  tablesplit verify form.docx --regions regions.yaml
  tablesplit verify table.xml --regions response.json -o table`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			table, err := loadTable(args[0], cfg)
			if err != nil {
				return err
			}
			metas, err := tablesplit.LoadRegions(regionsPath)
			if err != nil {
				return err
			}

			errs := tablesplit.Verify(table, metas)
			format := cfg.Output
			if !cmd.Flags().Changed("output") && format == config.DefaultOutput {
				format = config.OutputJSON
			}
			if err := renderVerification(cmd.OutOrStdout(), errs, format); err != nil {
				return err
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d verification errors", len(errs))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&regionsPath, "regions", "", "Region metadata file (JSON or YAML)")
	_ = cmd.MarkFlagRequired("regions")
	return cmd
}
