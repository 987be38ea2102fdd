package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjaminschreck/go-tablesplit/internal/cli/config"
	"github.com/benjaminschreck/go-tablesplit/pkg/tablesplit"
)

func TestCommandDefinitions(t *testing.T) {
	tests := []struct {
		name  string
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{"visualize", NewVisualizeCommand(), "visualize <file>", []string{"prompt"}},
		{"verify", NewVerifyCommand(), "verify <file>", []string{"regions"}},
		{"split", NewSplitCommand(), "split <file>", []string{"regions", "out"}},
		{"extract", NewExtractCommand(), "extract <file>", []string{"regions"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Example, "Example should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCommand("1.2.3", "abc123", "2026-01-01")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "tablesplit v1.2.3\ncommit abc123, built 2026-01-01\n", out.String())
}

func sampleExtract() tablesplit.ExtractResult {
	left := "0-0"
	return tablesplit.ExtractResult{
		TableType: tablesplit.RegionForm,
		Region:    "applicant",
		TableInfo: tablesplit.TableInfo{Rows: 1, Cols: 2},
		Cells: []tablesplit.CellRecord{
			{Key: "0-0", ColSpan: 1, RowSpan: 1, Paragraphs: []tablesplit.ParagraphRecord{{Runs: []tablesplit.RunRecord{{Text: "Name"}}}}},
			{Key: "0-1", ColSpan: 1, RowSpan: 1, IsEmpty: true, LeftKey: &left, Paragraphs: []tablesplit.ParagraphRecord{}},
		},
	}
}

func TestRenderExtracts(t *testing.T) {
	tests := []struct {
		format   string
		contains []string
	}{
		{config.OutputTable, []string{"applicant | form | 1x2", "key", "name", "0-0"}},
		{config.OutputMarkdown, []string{"| key |", "| 0-1 |", "name"}},
		{config.OutputCSV, []string{"key,rows,cols,empty,left,top,text", "0-1,1,1,true,0-0,-,"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, renderExtracts(&out, []tablesplit.ExtractResult{sampleExtract()}, tt.format))
			// header case depends on the style
			got := strings.ToLower(out.String())
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
		})
	}

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, renderExtracts(&out, []tablesplit.ExtractResult{sampleExtract()}, config.OutputJSON))

		var decoded []tablesplit.ExtractResult
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		require.Len(t, decoded, 1)
		assert.Equal(t, "applicant", decoded[0].Region)
		assert.Len(t, decoded[0].Cells, 2)
	})

	t.Run("empty", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, renderExtracts(&out, nil, config.OutputTable))
		assert.Equal(t, "(0 tables)\n", out.String())
	})
}

func TestRenderVerification(t *testing.T) {
	errs := []tablesplit.VerificationError{{SourceMeta: `{"name":"a"}`, ErrorMsg: "区域'a'行数为0"}}

	var out bytes.Buffer
	require.NoError(t, renderVerification(&out, errs, config.OutputJSON))
	assert.JSONEq(t, `[{"source_meta":"{\"name\":\"a\"}","error_msg":"区域'a'行数为0"}]`, out.String())

	out.Reset()
	require.NoError(t, renderVerification(&out, nil, config.OutputJSON))
	assert.Equal(t, "[]\n", out.String())

	out.Reset()
	require.NoError(t, renderVerification(&out, errs, config.OutputTable))
	assert.Contains(t, out.String(), "区域'a'行数为0")

	out.Reset()
	require.NoError(t, renderVerification(&out, nil, config.OutputTable))
	assert.Equal(t, "regions ok\n", out.String())
}

func TestRenderSplits(t *testing.T) {
	splits := []tablesplit.SplitResult{
		{TableXML: "<w:tbl/>", TableType: tablesplit.RegionForm, Region: "a"},
		{TableXML: "<w:tbl/>", TableType: tablesplit.RegionRepeatTable, Region: "b"},
	}

	var out bytes.Buffer
	require.NoError(t, renderSplits(&out, splits, config.OutputTable))
	assert.Equal(t, "<!-- a (Form) -->\n<w:tbl/>\n\n<!-- b (RepeatTable) -->\n<w:tbl/>\n", out.String())
}

func TestWriteSplits(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "parts")
	splits := []tablesplit.SplitResult{
		{TableXML: "<w:tbl>1</w:tbl>", TableType: tablesplit.RegionLeftRepeatTable, Region: "教育 经历"},
		{TableXML: "<w:tbl>2</w:tbl>", TableType: tablesplit.RegionLeftRepeatTable, Region: "教育 经历"},
	}
	require.NoError(t, writeSplits(dir, splits))

	data, err := os.ReadFile(filepath.Join(dir, "01_教育_经历_Left_RepeatTable.xml"))
	require.NoError(t, err)
	assert.Equal(t, "<w:tbl>1</w:tbl>", string(data))

	index, err := os.ReadFile(filepath.Join(dir, indexFile))
	require.NoError(t, err)
	var files []splitFile
	require.NoError(t, json.Unmarshal(index, &files))
	require.Len(t, files, 2)
	assert.Equal(t, "02_教育_经历_Left_RepeatTable.xml", files[1].File)
}

func TestFileSafe(t *testing.T) {
	tests := map[string]string{
		"work history": "work_history",
		"a/b\\c":       "a_b_c",
		"  ":           "region",
		"表头-1":         "表头-1",
	}
	for input, want := range tests {
		assert.Equal(t, want, fileSafe(input), input)
	}
	assert.False(t, strings.ContainsAny(fileSafe("../x"), "./"))
}
