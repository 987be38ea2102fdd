package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-tablesplit/pkg/tablesplit"
)

// indexFile lists the written sub-tables in the output directory
const indexFile = "index.json"

type splitFile struct {
	File   string                `json:"file"`
	Region string                `json:"region"`
	Type   tablesplit.RegionType `json:"table_type"`
}

// NewSplitCommand creates the split command.
func NewSplitCommand() *cobra.Command {
	var (
		regionsPath string
		outDir      string
	)

	cmd := &cobra.Command{
		Use:   "split <file>",
		Short: "Cut a table into standalone sub-tables",
		Long: `Verify the regions in --regions and cut the table into one standalone
sub-table per region. RepeatTable regions are reduced to a header and one
template row without merge markers; Left_RepeatTable and Right_RepeatTable
regions yield one table per label column followed by the data table.

Without --out the sub-tables are printed; with --out each one is written to
its own file together with an index.json.`,
		Example: `  tablesplit split form.docx --regions regions.yaml
  tablesplit split form.docx --regions regions.yaml --out parts/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			table, err := loadTable(args[0], cfg)
			if err != nil {
				return err
			}
			pipeline, err := newRegionPipeline(regionsPath, cfg)
			if err != nil {
				return err
			}
			result, err := pipeline.Process(cmd.Context(), table)
			if err != nil {
				return err
			}

			if outDir == "" {
				return renderSplits(cmd.OutOrStdout(), result.Splits, cfg.Output)
			}
			if err := writeSplits(outDir, result.Splits); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d tables to %s\n", len(result.Splits), outDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&regionsPath, "regions", "", "Region metadata file (JSON or YAML)")
	cmd.Flags().StringVar(&outDir, "out", "", "Directory to write sub-tables to")
	_ = cmd.MarkFlagRequired("regions")
	return cmd
}

// writeSplits writes each sub-table as NN_region_type.xml plus an index
func writeSplits(dir string, splits []tablesplit.SplitResult) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	index := make([]splitFile, 0, len(splits))
	for i, split := range splits {
		name := fmt.Sprintf("%02d_%s_%s.xml", i+1, fileSafe(split.Region), fileSafe(string(split.TableType)))
		if err := os.WriteFile(filepath.Join(dir, name), []byte(split.TableXML), 0o644); err != nil {
			return tablesplit.NewDocumentError("write", name, err)
		}
		index = append(index, splitFile{File: name, Region: split.Region, Type: split.TableType})
	}

	data, err := marshalJSON(index)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, indexFile), data, 0o644); err != nil {
		return tablesplit.NewDocumentError("write", indexFile, err)
	}
	return nil
}
