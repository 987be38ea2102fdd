package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/benjaminschreck/go-tablesplit/internal/cli/config"
	"github.com/benjaminschreck/go-tablesplit/pkg/tablesplit"
)

// textColumnWidth caps the cell text column in table output
const textColumnWidth = 48

// renderWriter renders t in the requested format to its output mirror
func renderWriter(t table.Writer, format string) {
	switch format {
	case config.OutputCSV:
		t.RenderCSV()
	case config.OutputMarkdown, "md":
		t.RenderMarkdown()
	default:
		t.Render()
	}
}

func renderExtracts(w io.Writer, extracts []tablesplit.ExtractResult, format string) error {
	if format == config.OutputJSON {
		return writeJSON(w, extracts)
	}
	if len(extracts) == 0 {
		_, _ = fmt.Fprintln(w, "(0 tables)")
		return nil
	}

	for i, extract := range extracts {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.SetTitle(extractTitle(extract))
		t.AppendHeader(table.Row{"Key", "Rows", "Cols", "Empty", "Left", "Top", "Text"})
		t.SetColumnConfigs([]table.ColumnConfig{{Name: "Text", WidthMax: textColumnWidth}})

		for _, cell := range extract.Cells {
			t.AppendRow(table.Row{
				cell.Key,
				cell.RowSpan,
				cell.ColSpan,
				cell.IsEmpty,
				optional(cell.LeftKey),
				optional(cell.TopKey),
				cell.Text(),
			})
		}
		renderWriter(t, format)
	}
	return nil
}

func extractTitle(extract tablesplit.ExtractResult) string {
	var parts []string
	if extract.Region != "" {
		parts = append(parts, extract.Region)
	}
	if extract.TableType != "" {
		parts = append(parts, string(extract.TableType))
	}
	parts = append(parts, fmt.Sprintf("%dx%d", extract.TableInfo.Rows, extract.TableInfo.Cols))
	return strings.Join(parts, " | ")
}

func renderVerification(w io.Writer, errs []tablesplit.VerificationError, format string) error {
	if format == config.OutputJSON {
		if errs == nil {
			errs = []tablesplit.VerificationError{}
		}
		return writeJSON(w, errs)
	}
	if len(errs) == 0 {
		_, _ = fmt.Fprintln(w, "regions ok")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Error", "Source"})
	t.SetColumnConfigs([]table.ColumnConfig{{Name: "Source", WidthMax: textColumnWidth}})
	for i, e := range errs {
		t.AppendRow(table.Row{i + 1, e.ErrorMsg, e.SourceMeta})
	}
	renderWriter(t, format)
	return nil
}

func renderSplits(w io.Writer, splits []tablesplit.SplitResult, format string) error {
	if format == config.OutputJSON {
		return writeJSON(w, splits)
	}
	for i, split := range splits {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintf(w, "<!-- %s (%s) -->\n%s\n", split.Region, split.TableType, split.TableXML)
	}
	return nil
}

func optional(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
