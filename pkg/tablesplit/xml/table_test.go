package xml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mergedTableXML = `<w:tbl xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:w14="http://schemas.microsoft.com/office/word/2010/wordml">
  <w:tblPr><w:tblStyle w:val="TableGrid"/><w:tblW w:w="0" w:type="auto"/></w:tblPr>
  <w:tblGrid><w:gridCol w:w="2000"/><w:gridCol w:w="3000"/><w:gridCol w:w="abc"/></w:tblGrid>
  <w:tr w14:paraId="1A2B3C4D">
    <w:trPr><w:trHeight w:val="400"/></w:trPr>
    <w:tc><w:tcPr><w:tcW w:w="2000" w:type="dxa"/><w:vMerge w:val="restart"/></w:tcPr><w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:rPr><w:b/></w:rPr><w:t>Name</w:t></w:r></w:p></w:tc>
    <w:tc><w:tcPr><w:gridSpan w:val="2"/><w:shd w:val="clear" w:fill="D9D9D9"/></w:tcPr><w:p><w:r><w:t xml:space="preserve"> Value </w:t></w:r></w:p></w:tc>
  </w:tr>
  <w:tr>
    <w:tc><w:tcPr><w:vMerge/></w:tcPr><w:p/></w:tc>
    <w:tc><w:p><w:hyperlink><w:r><w:t>link</w:t></w:r></w:hyperlink></w:p></w:tc>
    <w:tc><w:tcPr><w:gridSpan w:val="x"/></w:tcPr><w:p><w:r><w:t>A</w:t></w:r><w:r><w:t>B</w:t></w:r></w:p></w:tc>
  </w:tr>
</w:tbl>`

func parseFixture(t *testing.T, data string) *Table {
	t.Helper()
	table, err := ParseTable([]byte(data))
	require.NoError(t, err)
	require.NotNil(t, table)
	return table
}

func TestParseTable_Structure(t *testing.T) {
	table := parseFixture(t, mergedTableXML)

	require.Len(t, table.Rows, 2)
	assert.Len(t, table.Rows[0].Cells, 2)
	assert.Len(t, table.Rows[1].Cells, 3)
	require.NotNil(t, table.Grid)
	assert.Equal(t, []GridColumn{{Width: 2000}, {Width: 3000}, {Width: 0}}, table.Grid.Columns)
	assert.Equal(t, 3, table.ColumnCount())
	require.NotNil(t, table.Properties)
	assert.Equal(t, "tblPr", table.Properties.XMLName.Local)
	require.NotNil(t, table.Rows[0].Properties)
	assert.NotNil(t, table.Rows[0].Properties.Child("trHeight"))
}

func TestTableCell_MergeMarkers(t *testing.T) {
	table := parseFixture(t, mergedTableXML)

	tests := []struct {
		name      string
		row, cell int
		wantSpan  int
		wantMerge VMergeState
	}{
		{"restart", 0, 0, 1, VMergeRestart},
		{"grid span", 0, 1, 2, VMergeNone},
		{"vMerge without val continues", 1, 0, 1, VMergeContinue},
		{"no properties", 1, 1, 1, VMergeNone},
		{"unparseable span", 1, 2, 1, VMergeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := table.Rows[tt.row].Cells[tt.cell]
			assert.Equal(t, tt.wantSpan, cell.GridSpan())
			assert.Equal(t, tt.wantMerge, cell.VMerge())
		})
	}
}

func TestTableCell_GetText(t *testing.T) {
	table := parseFixture(t, mergedTableXML)

	assert.Equal(t, "Name", table.Rows[0].Cells[0].GetText())
	assert.Equal(t, " Value ", table.Rows[0].Cells[1].GetText())
	assert.Equal(t, "", table.Rows[1].Cells[0].GetText())
	assert.Equal(t, "link", table.Rows[1].Cells[1].GetText())
	assert.Equal(t, "AB", table.Rows[1].Cells[2].GetText())

	assert.True(t, table.Rows[0].HasText())
	assert.False(t, table.Rows[1].Cells[0].HasTextElement())
}

func TestTableCell_StripMergeMarkers(t *testing.T) {
	table := parseFixture(t, mergedTableXML)

	cell := table.Rows[0].Cells[1]
	assert.Equal(t, 1, cell.StripMergeMarkers())
	assert.Nil(t, cell.Properties.Child("gridSpan"))
	assert.NotNil(t, cell.Properties.Child("shd"), "other properties stay")

	var bare TableCell
	assert.Equal(t, 0, bare.StripMergeMarkers())
}

func TestTable_CloneIsDeep(t *testing.T) {
	table := parseFixture(t, mergedTableXML)
	clone := table.Clone()

	clone.Rows[0].Cells[0].StripMergeMarkers()
	clone.Rows[1].RemoveCell(0)
	clone.Grid.Columns[0].Width = 1
	clone.Properties.RemoveChildren("tblStyle")

	assert.Equal(t, VMergeRestart, table.Rows[0].Cells[0].VMerge())
	assert.Len(t, table.Rows[1].Cells, 3)
	assert.Equal(t, 2000, table.Grid.Columns[0].Width)
	assert.NotNil(t, table.Properties.Child("tblStyle"))
}

func TestTable_CloneTemplate(t *testing.T) {
	table := parseFixture(t, mergedTableXML)
	tmpl := table.CloneTemplate()

	assert.Empty(t, tmpl.Rows)
	assert.Equal(t, table.Grid.Columns, tmpl.Grid.Columns)
	assert.NotNil(t, tmpl.Properties.Child("tblW"))
	assert.Equal(t, table.Namespaces, tmpl.Namespaces)
}

func TestTableRow_RemoveCell(t *testing.T) {
	tests := []struct {
		name    string
		index   int
		want    bool
		wantLen int
	}{
		{"first", 0, true, 2},
		{"last", 2, true, 2},
		{"negative", -1, false, 3},
		{"out of range", 3, false, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := parseFixture(t, mergedTableXML)
			row := table.Rows[1]
			assert.Equal(t, tt.want, row.RemoveCell(tt.index))
			assert.Len(t, row.Cells, tt.wantLen)
		})
	}
}

func TestMarshalTable_RoundTrip(t *testing.T) {
	table := parseFixture(t, mergedTableXML)

	data, err := MarshalTable(table, "  ")
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, "<w:tbl "))
	assert.Contains(t, out, `xmlns:w="`+WordNamespace+`"`)
	assert.Contains(t, out, `xmlns:w14="http://schemas.microsoft.com/office/word/2010/wordml"`)
	assert.Contains(t, out, `<w:shd w:val="clear" w:fill="D9D9D9"></w:shd>`)
	assert.Contains(t, out, `<w:t xml:space="preserve"> Value </w:t>`)
	assert.Contains(t, out, `w14:paraId="1A2B3C4D"`)
	assert.Contains(t, out, `<w:hyperlink>`)

	again := parseFixture(t, out)
	require.Len(t, again.Rows, 2)
	assert.Equal(t, table.Rows[1].Cells[1].GetText(), again.Rows[1].Cells[1].GetText())
	assert.Equal(t, 2, again.Rows[0].Cells[1].GridSpan())
	assert.Equal(t, VMergeContinue, again.Rows[1].Cells[0].VMerge())
	assert.NotNil(t, again.Rows[0].Cells[1].Properties.Child("shd"))
	assert.Equal(t, table.Grid.Columns, again.Grid.Columns)
}

func TestMarshalTable_PropertyBlocks(t *testing.T) {
	wrap := func(body string) string {
		return `<w:tbl xmlns:w="` + WordNamespace + `">` + body + `</w:tbl>`
	}
	cell := `<w:tc><w:p><w:r><w:t>x</w:t></w:r></w:p></w:tc>`

	tests := []struct {
		name string
		xml  string
		want string
	}{
		{"table properties", wrap(`<w:tblPr><w:tblStyle w:val="TableGrid"/></w:tblPr><w:tr>` + cell + `</w:tr>`), `<w:tblPr><w:tblStyle w:val="TableGrid"></w:tblStyle></w:tblPr>`},
		{"table extra element", wrap(`<w:tr>` + cell + `</w:tr><w:bookmarkEnd w:id="7"/>`), `<w:bookmarkEnd w:id="7"></w:bookmarkEnd>`},
		{"row leading element", wrap(`<w:tr><w:tblPrEx><w:tblLayout w:type="fixed"/></w:tblPrEx>` + cell + `</w:tr>`), `<w:tr><w:tblPrEx><w:tblLayout w:type="fixed"></w:tblLayout></w:tblPrEx>`},
		{"row properties", wrap(`<w:tr><w:trPr><w:cantSplit/></w:trPr>` + cell + `</w:tr>`), `<w:trPr><w:cantSplit></w:cantSplit></w:trPr>`},
		{"row trailing element", wrap(`<w:tr>` + cell + `<w:bookmarkEnd w:id="3"/></w:tr>`), `</w:tc><w:bookmarkEnd w:id="3"></w:bookmarkEnd></w:tr>`},
		{"cell properties", wrap(`<w:tr><w:tc><w:tcPr><w:vMerge w:val="restart"/></w:tcPr><w:p/></w:tc></w:tr>`), `<w:tc><w:tcPr><w:vMerge w:val="restart"></w:vMerge></w:tcPr>`},
		{"paragraph properties", wrap(`<w:tr><w:tc><w:p><w:pPr><w:jc w:val="center"/></w:pPr></w:p></w:tc></w:tr>`), `<w:p><w:pPr><w:jc w:val="center"></w:jc></w:pPr></w:p>`},
		{"run properties", wrap(`<w:tr><w:tc><w:p><w:r><w:rPr><w:b/></w:rPr><w:t>x</w:t></w:r></w:p></w:tc></w:tr>`), `<w:r><w:rPr><w:b></w:b></w:rPr><w:t>x</w:t></w:r>`},
		{"preserved paragraph child", wrap(`<w:tr><w:tc><w:p><w:hyperlink w:history="1"><w:r><w:t>x</w:t></w:r></w:hyperlink></w:p></w:tc></w:tr>`), `<w:hyperlink w:history="1"><w:r><w:t>x</w:t></w:r></w:hyperlink>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := parseFixture(t, tt.xml)

			data, err := MarshalTable(table, "")
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.want)

			again := parseFixture(t, string(data))
			assert.Equal(t, len(table.Rows), len(again.Rows))
		})
	}
}

func TestMarshalTable_Compact(t *testing.T) {
	table := &Table{}
	table.Rows = []TableRow{{Cells: []TableCell{*NewTextCell("hello")}}}

	data, err := MarshalTable(table, "")
	require.NoError(t, err)
	assert.Equal(t,
		`<w:tbl xmlns:w="`+WordNamespace+`"><w:tr><w:tc><w:p><w:r><w:t>hello</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`,
		string(data))
}

func TestNewTextRun_PreservesSpaces(t *testing.T) {
	tests := []struct {
		text      string
		wantSpace string
	}{
		{"plain", ""},
		{" leading", "preserve"},
		{"trailing ", "preserve"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			run := NewTextRun(tt.text)
			require.Len(t, run.Content, 1)
			text, ok := run.Content[0].(*Text)
			require.True(t, ok)
			assert.Equal(t, tt.wantSpace, text.Space)
			assert.Equal(t, tt.text, run.GetText())
		})
	}
}

func TestRun_Formatting(t *testing.T) {
	table := parseFixture(t, `<w:tbl xmlns:w="`+WordNamespace+`"><w:tr><w:tc><w:p>
		<w:r><w:rPr><w:b/><w:i w:val="0"/><w:color w:val="FF0000"/></w:rPr><w:t>x</w:t></w:r>
		<w:r><w:rPr><w:b w:val="false"/><w:i/></w:rPr><w:t>y</w:t></w:r>
		<w:r><w:t>z</w:t></w:r>
	</w:p></w:tc></w:tr></w:tbl>`)

	runs := table.Rows[0].Cells[0].Paragraphs()[0].Runs()
	require.Len(t, runs, 3)

	assert.True(t, runs[0].Bold())
	assert.False(t, runs[0].Italic())
	assert.Equal(t, "FF0000", runs[0].Color())

	assert.False(t, runs[1].Bold())
	assert.True(t, runs[1].Italic())
	assert.Equal(t, "", runs[1].Color())

	assert.False(t, runs[2].Bold())
	assert.False(t, runs[2].Italic())
}

func TestParagraph_AllRuns(t *testing.T) {
	table := parseFixture(t, `<w:tbl xmlns:w="`+WordNamespace+`"><w:tr><w:tc><w:p>
		<w:r><w:t>a</w:t></w:r>
		<w:hyperlink><w:r><w:rPr><w:i/></w:rPr><w:t xml:space="preserve"> b </w:t></w:r></w:hyperlink>
		<w:bookmarkStart w:id="0"/>
	</w:p></w:tc></w:tr></w:tbl>`)

	p := table.Rows[0].Cells[0].Paragraphs()[0]
	assert.Len(t, p.Runs(), 1)

	runs := p.AllRuns()
	require.Len(t, runs, 2)
	assert.Equal(t, "a", runs[0].GetText())
	assert.Equal(t, " b ", runs[1].GetText())
	assert.True(t, runs[1].Italic())
	assert.True(t, table.Rows[0].Cells[0].HasTextElement())

	// nested runs are copies
	runs[1].Properties.RemoveChildren("i")
	assert.True(t, p.AllRuns()[1].Italic())
}
