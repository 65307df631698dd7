package mapping

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/formworks/sheetmap/internal/grid"
)

// sectionMarkerRe matches leading ordinal section markers like "3." that
// identify section headings rather than field labels.
var sectionMarkerRe = regexp.MustCompile(`^\d+\.\s*`)

// normalize strips all whitespace and lowercases, the shared comparison
// form for column names, label texts, and aliases.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// cellRef is a template cell position.
type cellRef struct {
	row int
	col int
}

// labelCells filters template cells down to plausible field labels: header
// cells, or cells whose text length falls in the label range. Section
// headings and the document title are never labels nor data targets.
func labelCells(tmpl *grid.Grid, minLen, maxLen int, docTitle string) []grid.Cell {
	normTitle := normalize(docTitle)
	var out []grid.Cell
	for row := 1; row <= tmpl.RowCount(); row++ {
		for col := 1; col <= tmpl.ColCount(); col++ {
			c, ok := tmpl.CellAt(row, col)
			if !ok {
				continue
			}
			text := strings.TrimSpace(c.Text)
			if text == "" {
				continue
			}
			if sectionMarkerRe.MatchString(text) {
				continue
			}
			if normTitle != "" && normalize(text) == normTitle {
				continue
			}
			n := utf8.RuneCountInString(text)
			if c.IsHeader || (n >= minLen && n <= maxLen) {
				out = append(out, c)
			}
		}
	}
	return out
}

// DataCellFor resolves the data cell adjacent to the label anchored at
// (labelRow, labelCol), using the same right-then-below heuristic the rule
// matcher applies. It reports false when no label cell exists there or no
// adjacent data cell can be found.
func DataCellFor(tmpl *grid.Grid, labelRow, labelCol, maxBelow int) (int, int, bool) {
	label, ok := tmpl.CellAt(labelRow, labelCol)
	if !ok {
		return 0, 0, false
	}
	if maxBelow <= 0 {
		maxBelow = 2
	}
	ref, ok := adjacentDataCell(tmpl, label, maxBelow)
	if !ok {
		return 0, 0, false
	}
	return ref.row, ref.col, true
}

// adjacentDataCell locates the data cell paired with a label: the nearest
// non-header cell strictly right of the label's column span on the same
// row, then the nearest non-header cell below the label's row span within
// maxBelow rows.
func adjacentDataCell(tmpl *grid.Grid, label grid.Cell, maxBelow int) (cellRef, bool) {
	for col := label.Col + label.ColSpan; col <= tmpl.ColCount(); col++ {
		if c, ok := tmpl.CellAt(label.Row, col); ok && !c.IsHeader {
			return cellRef{row: c.Row, col: c.Col}, true
		}
	}
	for row := label.Row + label.RowSpan; row <= label.Row+label.RowSpan+maxBelow-1 && row <= tmpl.RowCount(); row++ {
		if c, ok := tmpl.CellAt(row, label.Col); ok && !c.IsHeader {
			return cellRef{row: c.Row, col: c.Col}, true
		}
	}
	return cellRef{}, false
}
