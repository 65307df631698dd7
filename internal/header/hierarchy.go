package header

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/formworks/sheetmap/internal/grid"
)

// shortDateTokenRe matches weekday/date markers like "12 (월)" or "3(Tue)"
// that appear as sub-header noise under merge propagation.
var shortDateTokenRe = regexp.MustCompile(`^\d{1,2}\s*\(.{1,3}\)$`)

// ExtractMergeSpans collects merged rectangles anchored at header rows whose
// anchor cell has non-empty text. Spans anchored elsewhere do not contribute
// to header synthesis and are dropped.
func (d *Detector) ExtractMergeSpans(g *grid.Grid, headerRows []int) []grid.Span {
	rowSet := make(map[int]bool, len(headerRows))
	for _, r := range headerRows {
		rowSet[r] = true
	}

	var spans []grid.Span
	for _, s := range g.Spans() {
		if !rowSet[s.Row] {
			continue
		}
		if strings.TrimSpace(g.TextAt(s.Row, s.Col)) == "" {
			continue
		}
		spans = append(spans, s)
	}
	return spans
}

// SynthesizeColumns builds one hierarchical column per spreadsheet column
// that has any header value, after propagating merged-cell text across the
// covered positions.
//
// Identity fields (serial number, name, birth date, contact, ...) keep only
// their deepest label so group headers above them do not pollute the name.
// Every other column concatenates its distinct stacked values top to bottom,
// dropping bare numbers and weekday markers that merge propagation smears
// across columns. Names are made globally unique with _2, _3, ... suffixes.
//
// The function is pure: identical grid, header rows, and spans always yield
// identical output.
func (d *Detector) SynthesizeColumns(g *grid.Grid, headerRows []int, spans []grid.Span) []Column {
	values := d.propagate(g, headerRows, spans)
	depth := d.mainRowIndex(g, headerRows)

	used := make(map[string]bool)
	var columns []Column

	for col := 1; col <= g.ColCount(); col++ {
		stack := stackForColumn(values, headerRows, col)
		if len(stack) == 0 {
			continue
		}

		name := d.synthesizeName(stack)
		name = uniqueName(name, used)
		used[name] = true

		columns = append(columns, Column{Name: name, SourceCol: col, Depth: depth})
	}

	return columns
}

// propagate copies each span anchor's text into the covered header-row
// positions that lack their own value. A position's explicit value is never
// overwritten.
func (d *Detector) propagate(g *grid.Grid, headerRows []int, spans []grid.Span) map[int]map[int]string {
	values := make(map[int]map[int]string, len(headerRows))
	for _, row := range headerRows {
		values[row] = make(map[int]string)
		for _, c := range g.RowCells(row) {
			if t := strings.TrimSpace(c.Text); t != "" {
				values[row][c.Col] = t
			}
		}
	}

	for _, s := range spans {
		text := strings.TrimSpace(g.TextAt(s.Row, s.Col))
		if text == "" {
			continue
		}
		for _, row := range headerRows {
			if row < s.Row || row >= s.Row+s.RowSpan {
				continue
			}
			for col := s.Col; col < s.Col+s.ColSpan; col++ {
				if values[row][col] == "" {
					values[row][col] = text
				}
			}
		}
	}

	return values
}

// stackForColumn returns the distinct per-row values for one column, top
// row first.
func stackForColumn(values map[int]map[int]string, headerRows []int, col int) []string {
	var stack []string
	seen := make(map[string]bool)
	for _, row := range headerRows {
		v := values[row][col]
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		stack = append(stack, v)
	}
	return stack
}

func (d *Detector) synthesizeName(stack []string) string {
	last := stack[len(stack)-1]

	// Fixed-identity fields short-circuit to their deepest label.
	for _, v := range stack {
		if containsLabel(d.opts.BasicLabels, normalizeLabel(v)) {
			return last
		}
	}

	var parts []string
	for _, v := range stack {
		if pureNumberRe.MatchString(v) || shortDateTokenRe.MatchString(v) {
			continue
		}
		parts = append(parts, v)
	}
	if len(parts) == 0 {
		return last
	}
	return strings.Join(parts, "_")
}

// mainRowIndex re-derives the main header row's position within headerRows
// by re-scoring; ties keep the earliest row, matching DetectHeaderRows.
func (d *Detector) mainRowIndex(g *grid.Grid, headerRows []int) int {
	best := 0
	bestScore := -1 << 31
	for i, row := range headerRows {
		score, ok := d.scoreHeaderRow(g, row)
		if !ok {
			continue
		}
		if score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best
}

func uniqueName(name string, used map[string]bool) string {
	if !used[name] {
		return name
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d", name, i)
		if !used[candidate] {
			return candidate
		}
	}
}
