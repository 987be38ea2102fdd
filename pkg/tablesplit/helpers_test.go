package tablesplit

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benjaminschreck/go-tablesplit/pkg/tablesplit/xml"
)

const (
	restart = `<w:vMerge w:val="restart"/>`
	cont    = `<w:vMerge/>`
)

func gridSpan(n int) string {
	return fmt.Sprintf(`<w:gridSpan w:val="%d"/>`, n)
}

// tc builds a cell holding text in one run; an empty text gives an empty paragraph
func tc(text string, props ...string) string {
	var sb strings.Builder
	sb.WriteString("<w:tc>")
	if len(props) > 0 {
		sb.WriteString("<w:tcPr>" + strings.Join(props, "") + "</w:tcPr>")
	}
	if text == "" {
		sb.WriteString("<w:p/>")
	} else {
		sb.WriteString("<w:p><w:r><w:t>" + text + "</w:t></w:r></w:p>")
	}
	sb.WriteString("</w:tc>")
	return sb.String()
}

func tr(cells ...string) string {
	return "<w:tr>" + strings.Join(cells, "") + "</w:tr>"
}

func tableXML(rows ...string) string {
	return `<w:tbl xmlns:w="` + xml.WordNamespace + `">` +
		`<w:tblPr><w:tblStyle w:val="TableGrid"/><w:tblW w:w="0" w:type="auto"/></w:tblPr>` +
		`<w:tblGrid><w:gridCol w:w="1000"/><w:gridCol w:w="2000"/><w:gridCol w:w="3000"/></w:tblGrid>` +
		strings.Join(rows, "") +
		`</w:tbl>`
}

func buildTable(t *testing.T, rows ...string) *xml.Table {
	t.Helper()
	table, err := xml.ParseTable([]byte(tableXML(rows...)))
	require.NoError(t, err)
	require.NotNil(t, table)
	return table
}

// textTable builds a table with one row per entry and one cell per text
func textTable(t *testing.T, rows ...[]string) *xml.Table {
	t.Helper()
	var trs []string
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, text := range row {
			cells[i] = tc(text)
		}
		trs = append(trs, tr(cells...))
	}
	return buildTable(t, trs...)
}

func strPtr(s string) *string {
	return &s
}
