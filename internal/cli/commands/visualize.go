package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-tablesplit/pkg/tablesplit"
)

// NewVisualizeCommand creates the visualize command.
func NewVisualizeCommand() *cobra.Command {
	var prompt bool

	cmd := &cobra.Command{
		Use:   "visualize <file>",
		Short: "Print a text rendering of a table",
		Long: `Print the row-by-row text rendering of a table that the classifier sees.
Merged cells are tagged with their column and row spans.`,
		Example: `  tablesplit visualize form.docx
  tablesplit visualize form.docx --table 1 --prompt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(args[0], getConfig())
			if err != nil {
				return err
			}
			if prompt {
				_, err = fmt.Fprint(cmd.OutOrStdout(), tablesplit.Prompt(table, nil))
			} else {
				_, err = fmt.Fprint(cmd.OutOrStdout(), tablesplit.Visualize(table))
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&prompt, "prompt", false, "Print the full classifier prompt")
	return cmd
}
