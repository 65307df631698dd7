// Package grid provides the shared in-memory model for two-dimensional
// labeled grids. Both the spreadsheet-derived grid and the document template
// grid use the same representation, so the mapping stages can treat them
// uniformly.
package grid

import (
	"fmt"
)

// Cell is a single addressable grid position. Row and Col are 1-based.
// A cell with RowSpan or ColSpan greater than 1 is the anchor of a merge
// span and logically occupies the whole rectangle; covered positions are
// not stored as independent cells.
type Cell struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Text     string `json:"text"`
	IsHeader bool   `json:"is_header"`
	RowSpan  int    `json:"row_span"`
	ColSpan  int    `json:"col_span"`
}

// Span describes a merged rectangle anchored at its top-left cell.
type Span struct {
	Row     int `json:"row"`
	Col     int `json:"col"`
	RowSpan int `json:"row_span"`
	ColSpan int `json:"col_span"`
}

// Contains reports whether the (row, col) position falls inside the span.
func (s Span) Contains(row, col int) bool {
	return row >= s.Row && row < s.Row+s.RowSpan &&
		col >= s.Col && col < s.Col+s.ColSpan
}

// Grid is an immutable collection of cells with declared bounds.
// Build one with NewGrid and treat it as read-only afterward; the mapping
// pipeline shares a single Grid across concurrent matchers without locking.
type Grid struct {
	rowCount int
	colCount int
	cells    []Cell
	index    map[[2]int]int // (row, col) -> position in cells
}

// NewGrid builds a grid from cells and declared bounds. Cells with zero
// spans are normalized to span 1. It returns an error when a cell anchor
// lies outside the declared bounds or two cells share an anchor position.
func NewGrid(rowCount, colCount int, cells []Cell) (*Grid, error) {
	if rowCount < 0 || colCount < 0 {
		return nil, fmt.Errorf("grid: negative bounds %dx%d", rowCount, colCount)
	}

	g := &Grid{
		rowCount: rowCount,
		colCount: colCount,
		cells:    make([]Cell, 0, len(cells)),
		index:    make(map[[2]int]int, len(cells)),
	}

	for _, c := range cells {
		if c.RowSpan < 1 {
			c.RowSpan = 1
		}
		if c.ColSpan < 1 {
			c.ColSpan = 1
		}
		if c.Row < 1 || c.Col < 1 || c.Row > rowCount || c.Col > colCount {
			return nil, fmt.Errorf("grid: cell (%d,%d) outside declared bounds %dx%d", c.Row, c.Col, rowCount, colCount)
		}
		key := [2]int{c.Row, c.Col}
		if _, dup := g.index[key]; dup {
			return nil, fmt.Errorf("grid: duplicate cell anchor (%d,%d)", c.Row, c.Col)
		}
		g.index[key] = len(g.cells)
		g.cells = append(g.cells, c)
	}

	return g, nil
}

// RowCount returns the declared number of rows.
func (g *Grid) RowCount() int { return g.rowCount }

// ColCount returns the declared number of columns.
func (g *Grid) ColCount() int { return g.colCount }

// Cells returns all cells in insertion order. Callers must not mutate the
// returned slice.
func (g *Grid) Cells() []Cell { return g.cells }

// CellAt returns the cell anchored at (row, col). Positions covered by a
// merge span but not its anchor report no cell.
func (g *Grid) CellAt(row, col int) (Cell, bool) {
	i, ok := g.index[[2]int{row, col}]
	if !ok {
		return Cell{}, false
	}
	return g.cells[i], true
}

// TextAt returns the text of the cell anchored at (row, col), or "" when
// there is none.
func (g *Grid) TextAt(row, col int) string {
	c, ok := g.CellAt(row, col)
	if !ok {
		return ""
	}
	return c.Text
}

// InBounds reports whether (row, col) lies within the declared bounds.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 1 && row <= g.rowCount && col >= 1 && col <= g.colCount
}

// Spans returns the merge spans of every cell spanning more than one
// position, in cell insertion order.
func (g *Grid) Spans() []Span {
	var spans []Span
	for _, c := range g.cells {
		if c.RowSpan > 1 || c.ColSpan > 1 {
			spans = append(spans, Span{Row: c.Row, Col: c.Col, RowSpan: c.RowSpan, ColSpan: c.ColSpan})
		}
	}
	return spans
}

// NonEmptyInRow counts cells in the given row whose text is non-empty.
func (g *Grid) NonEmptyInRow(row int) int {
	n := 0
	for _, c := range g.cells {
		if c.Row == row && c.Text != "" {
			n++
		}
	}
	return n
}

// RowCells returns the cells anchored in the given row ordered by column.
func (g *Grid) RowCells(row int) []Cell {
	var out []Cell
	for col := 1; col <= g.colCount; col++ {
		if c, ok := g.CellAt(row, col); ok {
			out = append(out, c)
		}
	}
	return out
}
