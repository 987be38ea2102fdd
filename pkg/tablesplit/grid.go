package tablesplit

import (
	"github.com/benjaminschreck/go-tablesplit/pkg/tablesplit/xml"
)

// Coord is a zero-based position in the logical column grid
type Coord struct {
	Row int
	Col int
}

// Span is the extent of a merged cell in grid rows and columns
type Span struct {
	RowSpan int
	ColSpan int
}

// Placement describes where one physical w:tc sits in the logical grid
type Placement struct {
	// Row and Index are the physical (row ordinal, cell ordinal) position
	Row   int
	Index int
	// Col is the grid column the cell starts at
	Col     int
	ColSpan int
	// RowSpan is the number of grid rows a restart cell covers; 1 otherwise
	RowSpan int
	Merge   xml.VMergeState
	// Owner is the grid coordinate of the restart cell a continuation cell belongs to.
	// It is nil for every other cell, including continuation cells with no restart above.
	Owner *Coord
}

// Grid is the logical column grid reconstructed from w:gridSpan and w:vMerge
type Grid struct {
	cells [][]Placement
	spans map[Coord]Span
}

// BuildGrid resolves the merge markers of rows into grid positions and spans.
// Malformed markers never fail: an unparseable span counts as 1 and a
// continuation cell without a restart above is treated as a plain cell.
func BuildGrid(rows []xml.TableRow) *Grid {
	g := &Grid{
		cells: make([][]Placement, len(rows)),
		spans: make(map[Coord]Span),
	}

	// grid column -> restart coordinate of the merge currently covering it
	open := make(map[int]Coord)
	// grid column -> last grid row covered by that merge
	until := make(map[int]int)

	occupied := func(col, row int) bool {
		last, ok := until[col]
		return ok && last >= row && open[col].Row < row
	}

	for r := range rows {
		cells := rows[r].Cells
		g.cells[r] = make([]Placement, len(cells))
		col := 0

		for i := range cells {
			cell := &cells[i]
			merge := cell.VMerge()
			if merge != xml.VMergeContinue {
				for occupied(col, r) {
					col++
				}
			}

			p := Placement{
				Row:     r,
				Index:   i,
				Col:     col,
				ColSpan: cell.GridSpan(),
				RowSpan: 1,
				Merge:   merge,
			}

			switch merge {
			case xml.VMergeRestart:
				p.RowSpan = countContinuations(rows, r, col) + 1
				origin := Coord{Row: r, Col: col}
				g.spans[origin] = Span{RowSpan: p.RowSpan, ColSpan: p.ColSpan}
				for c := col; c < col+p.ColSpan; c++ {
					open[c] = origin
					until[c] = r + p.RowSpan - 1
				}
			case xml.VMergeContinue:
				if occupied(col, r) {
					owner := open[col]
					p.Owner = &owner
				}
			}

			g.cells[r][i] = p
			col += p.ColSpan
		}
	}

	return g
}

// countContinuations counts the consecutive rows after start whose cell at
// grid column col carries a continue marker
func countContinuations(rows []xml.TableRow, start, col int) int {
	count := 0
	for r := start + 1; r < len(rows); r++ {
		cell := cellStartingAt(rows[r].Cells, col)
		if cell == nil || cell.VMerge() != xml.VMergeContinue {
			break
		}
		count++
	}
	return count
}

// cellStartingAt returns the cell whose first grid column is col, counting
// columns by the w:gridSpan of the cells before it
func cellStartingAt(cells []xml.TableCell, col int) *xml.TableCell {
	current := 0
	for i := range cells {
		if current == col {
			return &cells[i]
		}
		if current > col {
			return nil
		}
		current += cells[i].GridSpan()
	}
	return nil
}

// Rows returns the number of physical rows in the grid
func (g *Grid) Rows() int {
	return len(g.cells)
}

// Row returns the placements of the cells of a physical row
func (g *Grid) Row(row int) []Placement {
	if row < 0 || row >= len(g.cells) {
		return nil
	}
	return g.cells[row]
}

// Cell returns the placement of the cell at the given physical position
func (g *Grid) Cell(row, index int) (Placement, bool) {
	cells := g.Row(row)
	if index < 0 || index >= len(cells) {
		return Placement{}, false
	}
	return cells[index], true
}

// SpanAt returns the span recorded for a restart cell at the grid coordinate
func (g *Grid) SpanAt(c Coord) (Span, bool) {
	span, ok := g.spans[c]
	return span, ok
}

// Spans returns a copy of every restart coordinate and its span
func (g *Grid) Spans() map[Coord]Span {
	out := make(map[Coord]Span, len(g.spans))
	for k, v := range g.spans {
		out[k] = v
	}
	return out
}
