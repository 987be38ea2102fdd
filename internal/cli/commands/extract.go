package commands

import (
	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-tablesplit/pkg/tablesplit"
)

// NewExtractCommand creates the extract command.
func NewExtractCommand() *cobra.Command {
	var regionsPath string

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Flatten table cells into records",
		Long: `Flatten the cells of a table into records with spans, paragraph styles,
runs and the keys of their left and upper neighbours.

With --regions the table is split first and every sub-table is extracted
separately; without it the whole table is extracted as one.`,
		Example: `  tablesplit extract form.docx
  tablesplit extract form.docx --regions regions.yaml -o json
  tablesplit extract table.xml -o markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			table, err := loadTable(args[0], cfg)
			if err != nil {
				return err
			}

			var extracts []tablesplit.ExtractResult
			if regionsPath == "" {
				extracts = []tablesplit.ExtractResult{{
					TableInfo: tablesplit.InfoOf(table),
					Cells:     tablesplit.Extract(table),
				}}
			} else {
				pipeline, err := newRegionPipeline(regionsPath, cfg)
				if err != nil {
					return err
				}
				result, err := pipeline.Process(cmd.Context(), table)
				if err != nil {
					return err
				}
				extracts = result.Extracts
			}

			return renderExtracts(cmd.OutOrStdout(), extracts, cfg.Output)
		},
	}

	cmd.Flags().StringVar(&regionsPath, "regions", "", "Region metadata file; split before extracting")
	return cmd
}
