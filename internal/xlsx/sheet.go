// Package xlsx implements the workbook-reading collaborators on top of
// excelize: a spreadsheet reader that normalizes cell values to plain
// strings, and a template reader that produces the shared grid model with
// merge-derived spans and a pluggable header/data classification.
package xlsx

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/formworks/sheetmap/internal/grid"
)

// ErrNoSheet is returned when the requested sheet does not exist. This is a
// hard input error; the pipeline cannot run without the sheet.
var ErrNoSheet = errors.New("xlsx: sheet not found")

// SheetReader exposes one worksheet as normalized cell text plus bounds.
type SheetReader struct {
	f     *excelize.File
	sheet string
	rows  [][]string
	cols  int
}

// NewSheetReader opens a workbook from raw bytes. An empty sheet name
// selects the first sheet.
func NewSheetReader(data []byte, sheet string) (*SheetReader, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("xlsx: open workbook: %w", err)
	}

	list := f.GetSheetList()
	if len(list) == 0 {
		f.Close()
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrNoSheet)
	}
	if sheet == "" {
		sheet = list[0]
	} else if !containsSheet(list, sheet) {
		f.Close()
		return nil, fmt.Errorf("%w: %q", ErrNoSheet, sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("xlsx: read sheet %q: %w", sheet, err)
	}

	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	return &SheetReader{f: f, sheet: sheet, rows: rows, cols: cols}, nil
}

// Close releases the underlying workbook.
func (r *SheetReader) Close() error { return r.f.Close() }

// Sheet returns the selected sheet name.
func (r *SheetReader) Sheet() string { return r.sheet }

// Bounds returns the row and column counts of the sheet's used range.
func (r *SheetReader) Bounds() (rows, cols int) { return len(r.rows), r.cols }

// CellText returns the normalized text of the cell at the 1-based position.
// Rich text and formula results are flattened to plain strings and date
// values are rewritten to YYYY-MM-DD.
func (r *SheetReader) CellText(row, col int) string {
	return r.cellValue(row, col).PlainText()
}

// cellValue resolves a cell into the tagged value union.
func (r *SheetReader) cellValue(row, col int) CellValue {
	if row < 1 || row > len(r.rows) || col < 1 {
		return CellValue{}
	}

	cached := ""
	if col <= len(r.rows[row-1]) {
		cached = r.rows[row-1][col-1]
	}

	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return CellValue{Kind: ValuePlain, Text: cached}
	}

	if formula, err := r.f.GetCellFormula(r.sheet, name); err == nil && formula != "" {
		return CellValue{Kind: ValueFormula, Text: cached, Formula: formula}
	}
	if runs, err := r.f.GetCellRichText(r.sheet, name); err == nil && len(runs) > 0 {
		var b bytes.Buffer
		for _, run := range runs {
			b.WriteString(run.Text)
		}
		return CellValue{Kind: ValueRich, Text: b.String()}
	}
	return CellValue{Kind: ValuePlain, Text: cached}
}

// Grid builds the immutable grid representation of the sheet, including
// merge spans. Empty single cells are dropped; spreadsheet consumers only
// care about positions that carry text.
func (r *SheetReader) Grid() (*grid.Grid, error) {
	return r.buildGrid(false)
}

// DenseGrid is like Grid but keeps empty cells. Template consumers need
// empty value cells to stay addressable so label adjacency can target them.
func (r *SheetReader) DenseGrid() (*grid.Grid, error) {
	return r.buildGrid(true)
}

func (r *SheetReader) buildGrid(includeEmpty bool) (*grid.Grid, error) {
	spans, err := mergeSpans(r.f, r.sheet)
	if err != nil {
		return nil, err
	}

	covered := coveredPositions(spans)

	var cells []grid.Cell
	for row := 1; row <= len(r.rows); row++ {
		for col := 1; col <= r.cols; col++ {
			if covered[[2]int{row, col}] {
				continue
			}
			text := r.CellText(row, col)
			c := grid.Cell{Row: row, Col: col, Text: text, RowSpan: 1, ColSpan: 1}
			if s, ok := spans[[2]int{row, col}]; ok {
				c.RowSpan = s.RowSpan
				c.ColSpan = s.ColSpan
			}
			if !includeEmpty && text == "" && c.RowSpan == 1 && c.ColSpan == 1 {
				continue
			}
			cells = append(cells, c)
		}
	}

	return grid.NewGrid(len(r.rows), r.cols, cells)
}

// mergeSpans maps anchor positions to spans for all merged ranges.
func mergeSpans(f *excelize.File, sheet string) (map[[2]int]grid.Span, error) {
	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx: read merged cells: %w", err)
	}

	spans := make(map[[2]int]grid.Span, len(merges))
	for _, mc := range merges {
		sc, sr, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
		if err != nil {
			continue
		}
		ec, er, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err != nil {
			continue
		}
		spans[[2]int{sr, sc}] = grid.Span{
			Row:     sr,
			Col:     sc,
			RowSpan: er - sr + 1,
			ColSpan: ec - sc + 1,
		}
	}
	return spans, nil
}

// coveredPositions marks every span position except its anchor; those are
// not independently addressable in the grid model.
func coveredPositions(spans map[[2]int]grid.Span) map[[2]int]bool {
	covered := make(map[[2]int]bool)
	for anchor, s := range spans {
		for row := s.Row; row < s.Row+s.RowSpan; row++ {
			for col := s.Col; col < s.Col+s.ColSpan; col++ {
				if row == anchor[0] && col == anchor[1] {
					continue
				}
				covered[[2]int{row, col}] = true
			}
		}
	}
	return covered
}

func containsSheet(list []string, name string) bool {
	for _, s := range list {
		if s == name {
			return true
		}
	}
	return false
}
