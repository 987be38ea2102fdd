package tablesplit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/benjaminschreck/go-tablesplit/pkg/tablesplit/xml"
)

// VerificationError describes one structural problem in region metadata.
// SourceMeta is the JSON of the region or regions involved.
type VerificationError struct {
	SourceMeta string `json:"source_meta" yaml:"source_meta"`
	ErrorMsg   string `json:"error_msg" yaml:"error_msg"`
}

func (e VerificationError) String() string {
	return e.ErrorMsg
}

// Verify checks region metadata against the rows of table and returns every
// problem found. An empty result means the metadata may be split. A nil table
// has no rows. Messages are phrased for the classifier prompt.
func Verify(table *xml.Table, metas []RegionMeta) []VerificationError {
	v := &verifier{metas: metas}
	if table != nil {
		v.rows = table.Rows
	}
	v.checkRowCount()
	v.checkCoverage()
	for _, meta := range metas {
		if v.checkCommon(meta) {
			v.checkType(meta)
		}
	}
	return v.errs
}

type verifier struct {
	rows  []xml.TableRow
	metas []RegionMeta
	errs  []VerificationError
}

func (v *verifier) addAll(format string, args ...interface{}) {
	v.errs = append(v.errs, VerificationError{
		SourceMeta: encodeMeta(v.metas),
		ErrorMsg:   fmt.Sprintf(format, args...),
	})
}

func (v *verifier) add(meta RegionMeta, format string, args ...interface{}) {
	v.errs = append(v.errs, VerificationError{
		SourceMeta: encodeMeta(meta),
		ErrorMsg:   fmt.Sprintf(format, args...),
	})
}

func (v *verifier) checkRowCount() {
	total := 0
	for _, meta := range v.metas {
		total += len(meta.Rows)
	}
	if total != len(v.rows) {
		v.addAll("生成的数据行数与表格行数不一致，请检查：表格共%d行，生成的数据共%d行", len(v.rows), total)
	}
}

func (v *verifier) checkCoverage() {
	seen := make(map[int]int)
	for _, meta := range v.metas {
		for _, row := range meta.Rows {
			seen[row]++
		}
	}

	var missing []int
	for row := 1; row <= len(v.rows); row++ {
		if seen[row] == 0 {
			missing = append(missing, row)
		}
	}
	if len(missing) > 0 {
		v.addAll("以下行号未被任何区域覆盖: %s", rowList(missing))
	}

	var duplicated []int
	for row, count := range seen {
		if count > 1 {
			duplicated = append(duplicated, row)
		}
	}
	if len(duplicated) > 0 {
		sort.Ints(duplicated)
		v.addAll("以下行号被多个区域重复使用: %s", rowList(duplicated))
	}
}

// checkCommon applies the rules shared by every region type and stops at the first violation
func (v *verifier) checkCommon(meta RegionMeta) bool {
	if len(meta.Rows) == 0 {
		v.add(meta, "区域'%s'行数为0", meta.Name)
		return false
	}

	for i := 1; i < len(meta.Rows); i++ {
		if meta.Rows[i] != meta.Rows[i-1]+1 {
			v.add(meta, "区域'%s'的行号不连续: %s", meta.Name, rowList(meta.Rows))
			return false
		}
	}

	for _, row := range meta.Rows {
		if row < 1 || row > len(v.rows) {
			v.add(meta, "区域'%s'的行号%d超出表格范围(1-%d)", meta.Name, row, len(v.rows))
			return false
		}
	}

	return true
}

func (v *verifier) checkType(meta RegionMeta) {
	switch meta.Type {
	case RegionForm:
	case RegionRepeatTable:
		if len(meta.Rows) < 2 {
			v.add(meta, "区域'%s'标记为RepeatTable，但行数<2（至少需要表头+1行数据）", meta.Name)
			return
		}
		header := v.rows[meta.Rows[0]-1]
		if !header.HasText() {
			v.add(meta, "区域'%s'标记为RepeatTable，但第一行（第%d行）没有内容，无法作为表头", meta.Name, meta.Rows[0])
		}
	case RegionLeftRepeatTable, RegionRightRepeatTable:
		if len(meta.Rows) < 2 {
			v.add(meta, "区域'%s'标记为%s，但行数<2", meta.Name, meta.Type)
			return
		}
		for _, row := range meta.Rows {
			if n := len(v.rows[row-1].Cells); n < 2 {
				v.add(meta, "区域'%s'标记为%s，但第%d行只有%d列，无法形成左右结构", meta.Name, meta.Type, row, n)
				break
			}
		}
		if meta.SplitColumn() < 0 {
			v.add(meta, "区域'%s'的split_after_column不能为负数: %d", meta.Name, meta.SplitColumn())
		}
	default:
		v.add(meta, "区域'%s'的类型%q无效，只能是 %s 之一", meta.Name, meta.Type, regionTypeList())
	}
}

// rowList formats row numbers the way they appear in region JSON: [3, 4, 5]
func rowList(rows []int) string {
	parts := make([]string, len(rows))
	for i, row := range rows {
		parts[i] = strconv.Itoa(row)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func regionTypeList() string {
	names := make([]string, len(RegionTypes))
	for i, t := range RegionTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// encodeMeta serializes v as JSON without escaping non-ASCII or HTML characters
func encodeMeta(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
