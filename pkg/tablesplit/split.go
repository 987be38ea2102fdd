package tablesplit

import (
	"strings"

	"github.com/benjaminschreck/go-tablesplit/pkg/tablesplit/xml"
)

// DefaultIndent is the indentation used when serializing sub-tables
const DefaultIndent = "  "

// repeatTemplateRows is how many rows a RepeatTable keeps: the header and one data row
const repeatTemplateRows = 2

// SplitResult is one standalone sub-table produced from a region
type SplitResult struct {
	TableXML  string     `json:"table_xml"`
	TableType RegionType `json:"table_type"`
	// Region is the name of the region the sub-table came from
	Region string     `json:"region"`
	Table  *xml.Table `json:"-"`
}

// Splitter builds sub-tables from verified region metadata
type Splitter struct {
	// Indent is passed to the XML encoder; empty means compact output
	Indent string
	Logger *Logger
}

// NewSplitter creates a splitter using the indentation from config
func NewSplitter(config *Config) *Splitter {
	config = NewConfigWithDefaults(config)
	return &Splitter{Indent: config.Indent, Logger: GetLogger()}
}

// Split decomposes table into one sub-table per region using default settings
func Split(table *xml.Table, metas []RegionMeta) ([]SplitResult, error) {
	return NewSplitter(nil).Split(table, metas)
}

// Split decomposes table into sub-tables. metas must have passed Verify;
// rows outside the table are skipped without error. Neither table nor metas
// are modified.
func (s *Splitter) Split(table *xml.Table, metas []RegionMeta) ([]SplitResult, error) {
	var results []SplitResult
	for _, meta := range metas {
		tables := s.splitRegion(table, meta.Clone())
		s.logger().WithFields(Fields{"region": meta.Name, "type": meta.Type}).
			Debug("split region into %d tables", len(tables))
		for _, sub := range tables {
			result, err := s.newResult(sub, meta)
			if err != nil {
				return nil, err
			}
			results = append(results, result)
		}
	}
	return results, nil
}

func (s *Splitter) splitRegion(table *xml.Table, meta RegionMeta) []*xml.Table {
	switch meta.Type {
	case RegionRepeatTable:
		if len(meta.Rows) > repeatTemplateRows {
			meta.Rows = meta.Rows[:repeatTemplateRows]
		}
		return []*xml.Table{buildForm(table, meta.Rows)}
	case RegionLeftRepeatTable, RegionRightRepeatTable:
		return buildLabeled(table, meta.Rows, meta.SplitColumn())
	default:
		return []*xml.Table{buildForm(table, meta.Rows)}
	}
}

func (s *Splitter) newResult(table *xml.Table, meta RegionMeta) (SplitResult, error) {
	data, err := xml.MarshalTable(table, s.Indent)
	if err != nil {
		return SplitResult{}, WithContext(err, "serialize sub-table", map[string]interface{}{"region": meta.Name})
	}
	return SplitResult{
		TableXML:  string(data),
		TableType: meta.Type,
		Region:    meta.Name,
		Table:     table,
	}, nil
}

func (s *Splitter) logger() *Logger {
	if s.Logger == nil {
		return GetLogger()
	}
	return s.Logger
}

// rowAt looks up a 1-based row number
func rowAt(table *xml.Table, number int) (*xml.TableRow, bool) {
	if number < 1 || number > len(table.Rows) {
		return nil, false
	}
	return &table.Rows[number-1], true
}

// buildForm copies the listed rows in order into a fresh template
func buildForm(table *xml.Table, rows []int) *xml.Table {
	sub := table.CloneTemplate()
	for _, number := range rows {
		if row, ok := rowAt(table, number); ok {
			sub.Rows = append(sub.Rows, *row.Clone())
		}
	}
	return sub
}

// buildLabeled emits one single-cell table per label column 0..k followed by
// the first two rows with the label columns removed
func buildLabeled(table *xml.Table, rows []int, k int) []*xml.Table {
	var tables []*xml.Table

	for col := 0; col <= k; col++ {
		var texts []string
		for _, number := range rows {
			row, ok := rowAt(table, number)
			if !ok || col >= len(row.Cells) {
				continue
			}
			if text := row.Cells[col].GetText(); text != "" {
				texts = append(texts, text)
			}
		}
		tables = append(tables, buildLabelTable(table, strings.Join(texts, " ")))
	}

	data := table.CloneTemplate()
	for i, number := range rows {
		if i == repeatTemplateRows {
			break
		}
		row, ok := rowAt(table, number)
		if !ok {
			continue
		}
		pruned := row.Clone()
		// Descending so earlier indices stay valid
		for col := k; col >= 0; col-- {
			pruned.RemoveCell(col)
		}
		data.Rows = append(data.Rows, *pruned)
	}
	tables = append(tables, data)

	return tables
}

func buildLabelTable(table *xml.Table, text string) *xml.Table {
	sub := table.CloneTemplate()
	sub.Rows = []xml.TableRow{{Cells: []xml.TableCell{*xml.NewTextCell(text)}}}
	return sub
}
