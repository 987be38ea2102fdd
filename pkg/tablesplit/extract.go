package tablesplit

import (
	"fmt"

	"github.com/benjaminschreck/go-tablesplit/pkg/tablesplit/xml"
)

const (
	defaultAlignment = "left"
	defaultMarkColor = "black"
)

// RunRecord is one run of text with its formatting
type RunRecord struct {
	Text   string `json:"text"`
	Bold   bool   `json:"bold"`
	Italic bool   `json:"italic"`
	Color  string `json:"color"`
}

// ParagraphStyle is the paragraph alignment plus the paragraph mark formatting
type ParagraphStyle struct {
	Alignment string `json:"alignment"`
	Bold      bool   `json:"bold"`
	Italic    bool   `json:"italic"`
	Color     string `json:"color"`
}

// ParagraphRecord is one paragraph of a cell
type ParagraphRecord struct {
	Style ParagraphStyle `json:"style"`
	Runs  []RunRecord    `json:"runs"`
}

// CellRecord is the flattened content of one physical cell.
// Key, LeftKey and TopKey use "row-cell" ordinals, not grid columns.
type CellRecord struct {
	Key        string            `json:"key"`
	ColSpan    int               `json:"col_span"`
	RowSpan    int               `json:"row_span"`
	Paragraphs []ParagraphRecord `json:"paragraphs"`
	IsEmpty    bool              `json:"is_empty"`
	LeftKey    *string           `json:"left_key"`
	TopKey     *string           `json:"top_key"`
	// LeftText and TopText hold the text of the neighbouring cells when they exist
	LeftText *string `json:"left_text"`
	TopText  *string `json:"top_text"`
}

// Text returns the concatenated text of all runs, paragraphs separated by newlines
func (c CellRecord) Text() string {
	var text string
	for i, p := range c.Paragraphs {
		if i > 0 {
			text += "\n"
		}
		for _, r := range p.Runs {
			text += r.Text
		}
	}
	return text
}

// TableInfo is the size of a table: physical rows and w:gridCol entries
type TableInfo struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// ExtractResult is the extracted content of one sub-table
type ExtractResult struct {
	TableType RegionType   `json:"table_type"`
	Region    string       `json:"region"`
	TableInfo TableInfo    `json:"table_info"`
	Cells     []CellRecord `json:"cells"`
}

// InfoOf returns the row and column counts of table
func InfoOf(table *xml.Table) TableInfo {
	return TableInfo{Rows: len(table.Rows), Cols: table.ColumnCount()}
}

// Extract flattens table into cell records, rows top to bottom and cells left to right.
// A vertically merged group yields one record on its restart cell whose RowSpan
// counts the continuation cells; the continuation cells yield none.
func Extract(table *xml.Table) []CellRecord {
	grid := BuildGrid(table.Rows)

	var records []CellRecord
	// grid column -> index in records of the restart cell owning the merge
	open := make(map[int]int)

	for r := range table.Rows {
		cells := table.Rows[r].Cells
		for i := range cells {
			cell := &cells[i]
			placement, _ := grid.Cell(r, i)

			switch cell.VMerge() {
			case xml.VMergeContinue:
				if owner, ok := open[placement.Col]; ok {
					records[owner].RowSpan++
					continue
				}
			case xml.VMergeRestart:
				open[placement.Col] = len(records)
			default:
				delete(open, placement.Col)
			}

			records = append(records, extractCell(table, r, i))
		}
	}

	return records
}

// ExtractXML parses a serialized table and extracts its cells
func ExtractXML(tableXML string) ([]CellRecord, error) {
	table, err := xml.ParseTable([]byte(tableXML))
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, ErrNoTable
	}
	return Extract(table), nil
}

// ExtractResults extracts every sub-table produced by the splitter
func ExtractResults(results []SplitResult) ([]ExtractResult, error) {
	out := make([]ExtractResult, 0, len(results))
	for _, result := range results {
		table := result.Table
		if table == nil {
			parsed, err := resultTable(result)
			if err != nil {
				return nil, err
			}
			table = parsed
		}
		out = append(out, ExtractResult{
			TableType: result.TableType,
			Region:    result.Region,
			TableInfo: InfoOf(table),
			Cells:     Extract(table),
		})
	}
	return out, nil
}

func extractCell(table *xml.Table, row, index int) CellRecord {
	cell := &table.Rows[row].Cells[index]
	record := CellRecord{
		Key:        cellKey(row, index),
		ColSpan:    cell.GridSpan(),
		RowSpan:    1,
		Paragraphs: []ParagraphRecord{},
		IsEmpty:    true,
	}

	for _, p := range cell.Paragraphs() {
		para := ParagraphRecord{Style: paragraphStyle(p), Runs: []RunRecord{}}
		for _, run := range p.AllRuns() {
			text := run.GetText()
			if text != "" {
				record.IsEmpty = false
			}
			para.Runs = append(para.Runs, RunRecord{
				Text:   text,
				Bold:   run.Bold(),
				Italic: run.Italic(),
				Color:  run.Color(),
			})
		}
		record.Paragraphs = append(record.Paragraphs, para)
	}

	if index > 0 {
		key := cellKey(row, index-1)
		text := table.Rows[row].Cells[index-1].GetText()
		record.LeftKey = &key
		record.LeftText = &text
	}
	if row > 0 {
		key := cellKey(row-1, index)
		record.TopKey = &key
		if above := table.Rows[row-1].Cells; index < len(above) {
			text := above[index].GetText()
			record.TopText = &text
		}
	}

	return record
}

func paragraphStyle(p *xml.Paragraph) ParagraphStyle {
	style := ParagraphStyle{
		Alignment: defaultAlignment,
		Color:     defaultMarkColor,
	}
	if jc := p.Alignment(); jc != "" {
		style.Alignment = jc
	}
	mark := p.MarkRunProperties()
	style.Bold = xml.IsOn(mark.Child("b"))
	style.Italic = xml.IsOn(mark.Child("i"))
	if color, ok := mark.Child("color").Val(); ok && color != "" {
		style.Color = color
	}
	return style
}

func cellKey(row, index int) string {
	return fmt.Sprintf("%d-%d", row, index)
}
