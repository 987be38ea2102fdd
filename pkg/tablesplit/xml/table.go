package xml

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"
)

// Table represents a table in the document
type Table struct {
	// Namespaces holds the xmlns:prefix declarations written on w:tbl so a
	// serialized table stands on its own
	Namespaces []xml.Attr       `xml:"-"`
	Properties *RawXMLElement   `xml:"tblPr"`
	Grid       *TableGrid       `xml:"tblGrid"`
	Rows       []TableRow       `xml:"tr"`
	Extra      []*RawXMLElement `xml:"-"`
}

// isBlockContent implements the BlockContent interface
func (t *Table) isBlockContent() {}

// UnmarshalXML implements custom XML unmarshaling for Table
func (t *Table) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	t.Namespaces = mergeNamespaceDecls(t.Namespaces, namespaceDecls(start.Attr))

	for {
		token, err := d.Token()
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		if err != nil {
			return err
		}

		switch tok := token.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "tblPr":
				props, err := decodeRaw(d, tok)
				if err != nil {
					return err
				}
				t.Properties = props
			case "tblGrid":
				var grid TableGrid
				if err := d.DecodeElement(&grid, &tok); err != nil {
					return err
				}
				t.Grid = &grid
			case "tr":
				var row TableRow
				if err := d.DecodeElement(&row, &tok); err != nil {
					return err
				}
				t.Rows = append(t.Rows, row)
			default:
				raw, err := decodeRaw(d, tok)
				if err != nil {
					return err
				}
				t.Extra = append(t.Extra, raw)
			}
		case xml.EndElement:
			return nil
		}
	}
}

// MarshalXML implements custom XML marshaling for Table to ensure proper namespacing
func (t Table) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	// Start the table element with w: namespace
	start = xml.StartElement{
		Name: xml.Name{Local: "w:tbl"},
		Attr: mergeNamespaceDecls(
			[]xml.Attr{{Name: xml.Name{Local: "xmlns:w"}, Value: WordNamespace}},
			t.Namespaces,
		),
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if t.Properties != nil {
		if err := encodeRaw(e, t.Properties); err != nil {
			return err
		}
	}

	if t.Grid != nil {
		if err := e.EncodeElement(t.Grid, xml.StartElement{Name: xml.Name{Local: "w:tblGrid"}}); err != nil {
			return err
		}
	}

	for i := range t.Rows {
		if err := e.EncodeElement(&t.Rows[i], xml.StartElement{Name: xml.Name{Local: "w:tr"}}); err != nil {
			return err
		}
	}

	for _, extra := range t.Extra {
		if err := encodeRaw(e, extra); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// CloneTemplate returns a deep copy of the table's properties and column grid with no rows
func (t *Table) CloneTemplate() *Table {
	return &Table{
		Namespaces: copyAttrs(t.Namespaces),
		Properties: t.Properties.Clone(),
		Grid:       t.Grid.Clone(),
	}
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	clone := t.CloneTemplate()
	for i := range t.Rows {
		clone.Rows = append(clone.Rows, *t.Rows[i].Clone())
	}
	for _, extra := range t.Extra {
		clone.Extra = append(clone.Extra, extra.Clone())
	}
	return clone
}

// ColumnCount returns the number of w:gridCol definitions
func (t *Table) ColumnCount() int {
	if t.Grid == nil {
		return 0
	}
	return len(t.Grid.Columns)
}

// TableGrid represents table column definitions
type TableGrid struct {
	Columns []GridColumn `xml:"gridCol"`
}

// UnmarshalXML implements custom XML unmarshaling for TableGrid.
// Column widths that don't parse are kept as zero.
func (g *TableGrid) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "gridCol" {
				var col GridColumn
				for _, attr := range t.Attr {
					if attr.Name.Local == "w" {
						col.Width, _ = strconv.Atoi(strings.TrimSpace(attr.Value))
					}
				}
				g.Columns = append(g.Columns, col)
			}
			if err := d.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// MarshalXML implements custom XML marshaling for TableGrid
func (g TableGrid) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "w:tblGrid"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	for _, col := range g.Columns {
		colStart := xml.StartElement{
			Name: xml.Name{Local: "w:gridCol"},
			Attr: []xml.Attr{{Name: xml.Name{Local: "w:w"}, Value: strconv.Itoa(col.Width)}},
		}
		// Self-closing element
		if err := e.EncodeElement(struct{}{}, colStart); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Clone returns a deep copy of the grid
func (g *TableGrid) Clone() *TableGrid {
	if g == nil {
		return nil
	}
	return &TableGrid{Columns: append([]GridColumn(nil), g.Columns...)}
}

// GridColumn represents a table column
type GridColumn struct {
	Width int `xml:"w,attr"`
}

// TableRow represents a row in a table
type TableRow struct {
	// Attrs preserves attributes such as w14:paraId and w:rsidR
	Attrs      []xml.Attr     `xml:"-"`
	Properties *RawXMLElement `xml:"trPr"`
	Cells      []TableCell    `xml:"tc"`
	// Leading holds preserved elements that precede the first cell (w:tblPrEx),
	// Trailing those that follow it
	Leading  []*RawXMLElement `xml:"-"`
	Trailing []*RawXMLElement `xml:"-"`
}

// UnmarshalXML implements custom XML unmarshaling for TableRow
func (r *TableRow) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r.Attrs = copyAttrs(start.Attr)

	for {
		token, err := d.Token()
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "trPr":
				props, err := decodeRaw(d, t)
				if err != nil {
					return err
				}
				r.Properties = props
			case "tc":
				var cell TableCell
				if err := d.DecodeElement(&cell, &t); err != nil {
					return err
				}
				r.Cells = append(r.Cells, cell)
			default:
				raw, err := decodeRaw(d, t)
				if err != nil {
					return err
				}
				if len(r.Cells) == 0 {
					r.Leading = append(r.Leading, raw)
				} else {
					r.Trailing = append(r.Trailing, raw)
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// MarshalXML implements custom XML marshaling for TableRow to ensure proper namespacing
func (r TableRow) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{
		Name: xml.Name{Local: "w:tr"},
		Attr: qualifiedAttrs(r.Attrs),
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	for _, raw := range r.Leading {
		if err := encodeRaw(e, raw); err != nil {
			return err
		}
	}

	if r.Properties != nil {
		if err := encodeRaw(e, r.Properties); err != nil {
			return err
		}
	}

	for i := range r.Cells {
		if err := e.EncodeElement(&r.Cells[i], xml.StartElement{Name: xml.Name{Local: "w:tc"}}); err != nil {
			return err
		}
	}

	for _, raw := range r.Trailing {
		if err := encodeRaw(e, raw); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Clone returns a deep copy of the row
func (r *TableRow) Clone() *TableRow {
	clone := &TableRow{Attrs: copyAttrs(r.Attrs), Properties: r.Properties.Clone()}
	for i := range r.Cells {
		clone.Cells = append(clone.Cells, *r.Cells[i].Clone())
	}
	for _, raw := range r.Leading {
		clone.Leading = append(clone.Leading, raw.Clone())
	}
	for _, raw := range r.Trailing {
		clone.Trailing = append(clone.Trailing, raw.Clone())
	}
	return clone
}

// RemoveCell removes the cell at the given ordinal index; out-of-range indices are ignored
func (r *TableRow) RemoveCell(index int) bool {
	if index < 0 || index >= len(r.Cells) {
		return false
	}
	r.Cells = append(r.Cells[:index], r.Cells[index+1:]...)
	return true
}

// HasText reports whether any cell of the row carries non-blank text
func (r *TableRow) HasText() bool {
	for i := range r.Cells {
		if strings.TrimSpace(r.Cells[i].GetText()) != "" {
			return true
		}
	}
	return false
}

// VMergeState is the vertical merge marker of a cell
type VMergeState int

const (
	// VMergeNone means the cell has no w:vMerge element
	VMergeNone VMergeState = iota
	// VMergeRestart starts a vertically merged group
	VMergeRestart
	// VMergeContinue extends the group started above
	VMergeContinue
)

func (s VMergeState) String() string {
	switch s {
	case VMergeRestart:
		return "restart"
	case VMergeContinue:
		return "continue"
	default:
		return "none"
	}
}

// TableCell represents a cell in a table
type TableCell struct {
	Properties *RawXMLElement `xml:"tcPr"`
	// Content maintains the order of paragraphs, nested tables and preserved elements
	Content []BlockContent `xml:"-"`
}

// NewTextCell creates a cell with one paragraph carrying text
func NewTextCell(text string) *TableCell {
	return &TableCell{Content: []BlockContent{NewTextParagraph(text)}}
}

// UnmarshalXML implements custom XML unmarshaling for TableCell
func (c *TableCell) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tcPr":
				props, err := decodeRaw(d, t)
				if err != nil {
					return err
				}
				c.Properties = props
			case "p":
				var para Paragraph
				if err := d.DecodeElement(&para, &t); err != nil {
					return err
				}
				c.Content = append(c.Content, &para)
			case "tbl":
				var nested Table
				if err := d.DecodeElement(&nested, &t); err != nil {
					return err
				}
				c.Content = append(c.Content, &nested)
			default:
				raw, err := decodeRaw(d, t)
				if err != nil {
					return err
				}
				c.Content = append(c.Content, raw)
			}
		case xml.EndElement:
			return nil
		}
	}
}

// MarshalXML implements custom XML marshaling for TableCell to ensure proper namespacing
func (c TableCell) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "w:tc"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if c.Properties != nil {
		if err := encodeRaw(e, c.Properties); err != nil {
			return err
		}
	}

	for _, content := range c.Content {
		if err := e.EncodeElement(content, xml.StartElement{Name: xml.Name{Local: "w:p"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Clone returns a deep copy of the cell
func (c *TableCell) Clone() *TableCell {
	clone := &TableCell{Properties: c.Properties.Clone()}
	for _, content := range c.Content {
		switch b := content.(type) {
		case *Paragraph:
			clone.Content = append(clone.Content, b.Clone())
		case *Table:
			clone.Content = append(clone.Content, b.Clone())
		case *RawXMLElement:
			clone.Content = append(clone.Content, b.Clone())
		}
	}
	return clone
}

// Paragraphs returns the paragraphs that are direct children of the cell
func (c *TableCell) Paragraphs() []*Paragraph {
	var paras []*Paragraph
	for _, content := range c.Content {
		if p, ok := content.(*Paragraph); ok {
			paras = append(paras, p)
		}
	}
	return paras
}

// GetText returns the concatenated content of every w:t in the cell, nested tables included
func (c *TableCell) GetText() string {
	var sb strings.Builder
	for _, content := range c.Content {
		switch b := content.(type) {
		case *Paragraph:
			sb.WriteString(b.GetText())
		case *Table:
			for i := range b.Rows {
				for j := range b.Rows[i].Cells {
					sb.WriteString(b.Rows[i].Cells[j].GetText())
				}
			}
		case *RawXMLElement:
			sb.WriteString(b.GetText())
		}
	}
	return sb.String()
}

// HasTextElement reports whether the cell contains at least one w:t element
func (c *TableCell) HasTextElement() bool {
	for _, p := range c.Paragraphs() {
		for _, r := range p.AllRuns() {
			if r.HasText() {
				return true
			}
		}
	}
	return false
}

// GridSpan returns the number of grid columns the cell spans.
// A missing or unparseable w:gridSpan counts as 1.
func (c *TableCell) GridSpan() int {
	val, ok := c.Properties.Child("gridSpan").Val()
	if !ok {
		return 1
	}
	span, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil || span < 1 {
		return 1
	}
	return span
}

// VMerge returns the vertical merge marker of the cell.
// A w:vMerge without w:val, or with a value other than restart, continues the group.
func (c *TableCell) VMerge() VMergeState {
	vMerge := c.Properties.Child("vMerge")
	if vMerge == nil {
		return VMergeNone
	}
	if val, _ := vMerge.Val(); val == "restart" {
		return VMergeRestart
	}
	return VMergeContinue
}

// StripMergeMarkers removes w:vMerge and w:gridSpan from the cell properties
func (c *TableCell) StripMergeMarkers() int {
	return c.Properties.RemoveChildren("vMerge", "gridSpan")
}
