package tablesplit

import (
	"fmt"
	"strings"

	"github.com/benjaminschreck/go-tablesplit/pkg/tablesplit/xml"
)

const separatorWidth = 70

// emptyCellText marks a cell without text in the visualization
const emptyCellText = "(空)"

// classifyInstructions follows the visualization in the classifier prompt
const classifyInstructions = `
上面是一个 Word 表格的可视化呈现。
任务：将这个表格分割成多个独立的"内容区域"，重点是把需要填写重复内容的区域分割出来。

判断依据：
1. 重复表(RepeatTable)：有明确的表头行，下方是多行结构相同、用于填写重复数据的空白行。
2. 左右重复表(Left_RepeatTable/Right_RepeatTable)：表格被垂直分割，一侧是标题列，另一侧是重复表结构。split_after_column 为最后一个标题列的序号（从 0 开始）。
3. 普通表单(Form)：其他不包含重复数据结构的区域，包括单行字段、跨行字段等。

请只返回 JSON 数组，不要解释：
[
  {
    "name": "区域名称",
    "rows": [1, 2, 3],
    "type": "Form",
    "reason": "原因描述",
    "split_after_column": 0
  }
]
• rows 必须是连续的整数数组，所有区域的 rows 合起来正好覆盖每一行且不重复
• type 只能是 "Form"、"RepeatTable"、"Left_RepeatTable" 或 "Right_RepeatTable"
• split_after_column 只用于 Left_RepeatTable 和 Right_RepeatTable
`

// Visualize renders table as text for the classifier: one line per row with the
// cell texts and a [跨N列,跨M行] tag on merged cells
func Visualize(table *xml.Table) string {
	grid := BuildGrid(table.Rows)

	var sb strings.Builder
	sb.WriteString(strings.Repeat("=", separatorWidth))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "这是一个word中的表格，表格行数: %d\n", len(table.Rows))
	sb.WriteString(strings.Repeat("=", separatorWidth))
	sb.WriteString("\n")

	for r := range table.Rows {
		cells := table.Rows[r].Cells
		parts := make([]string, len(cells))
		for i := range cells {
			placement, _ := grid.Cell(r, i)
			parts[i] = visualizeCell(&cells[i], placement)
		}
		fmt.Fprintf(&sb, "第%d行 | %s |\n", r+1, strings.Join(parts, " | "))
		sb.WriteString(strings.Repeat("-", separatorWidth))
		sb.WriteString("\n")
	}

	return sb.String()
}

func visualizeCell(cell *xml.TableCell, placement Placement) string {
	text := cell.GetText()
	if text == "" {
		text = emptyCellText
	}

	var tags []string
	if placement.ColSpan > 1 {
		tags = append(tags, fmt.Sprintf("跨%d列", placement.ColSpan))
	}
	if placement.Merge == xml.VMergeRestart && placement.RowSpan > 1 {
		tags = append(tags, fmt.Sprintf("跨%d行", placement.RowSpan))
	}
	if len(tags) == 0 {
		return text
	}
	return text + "[" + strings.Join(tags, ",") + "]"
}

// Prompt builds the classifier prompt for table. feedback holds the problems
// found in the previous answer and is empty on the first attempt.
func Prompt(table *xml.Table, feedback []VerificationError) string {
	var sb strings.Builder
	sb.WriteString(Visualize(table))
	sb.WriteString(classifyInstructions)

	if len(feedback) > 0 {
		sb.WriteString("\n上一次返回的结果没有通过校验，请修正以下问题后重新返回完整的 JSON：\n")
		for _, e := range feedback {
			fmt.Fprintf(&sb, "- %s\n", e.ErrorMsg)
		}
	}

	return sb.String()
}
