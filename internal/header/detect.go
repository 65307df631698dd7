package header

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/formworks/sheetmap/internal/grid"
)

var pureNumberRe = regexp.MustCompile(`^\d+$`)

// DetectHeaderRows scores non-metadata rows within MaxHeaderRows, picks the
// best-scoring row as the main header row (earliest row wins ties), then
// extends the header block upward and downward. It returns the header rows
// in ascending order and the first data row.
//
// When no row scores at all the grid is treated as header-on-row-1 with
// data starting on row 2; a degraded but safe default.
func (d *Detector) DetectHeaderRows(g *grid.Grid, metaRows []int) (headerRows []int, dataStartRow int) {
	metaSet := make(map[int]bool, len(metaRows))
	for _, r := range metaRows {
		metaSet[r] = true
	}

	limit := d.opts.MaxHeaderRows
	if g.RowCount() < limit {
		limit = g.RowCount()
	}

	mainRow := 0
	bestScore := 0
	for row := 1; row <= limit; row++ {
		if metaSet[row] {
			continue
		}
		score, ok := d.scoreHeaderRow(g, row)
		if !ok {
			continue
		}
		// Strict comparison keeps the earliest row on equal scores.
		if mainRow == 0 || score > bestScore {
			mainRow = row
			bestScore = score
		}
	}

	if mainRow == 0 {
		return []int{1}, 2
	}

	// Extend upward: rows immediately above the main header often hold the
	// outer category labels of merged header stacks.
	for row := mainRow - 1; row >= mainRow-2 && row >= 1; row-- {
		if metaSet[row] || g.NonEmptyInRow(row) == 0 {
			break
		}
		headerRows = append([]int{row}, headerRows...)
	}
	headerRows = append(headerRows, mainRow)

	// Extend downward: sub-header rows carry repetition counters or weekday
	// markers; the first row whose leading columns are purely numeric is data.
	dataStartRow = 0
	for row := mainRow + 1; row <= mainRow+3 && row <= g.RowCount(); row++ {
		if d.looksLikeDataRow(g, row) {
			dataStartRow = row
			break
		}
		if d.hasSubHeaderCell(g, row) {
			headerRows = append(headerRows, row)
			continue
		}
		break
	}
	if dataStartRow == 0 {
		dataStartRow = headerRows[len(headerRows)-1] + 1
	}

	return headerRows, dataStartRow
}

// scoreHeaderRow computes the heuristic header score for one row. Rows with
// fewer than MinScoredCells non-empty cells are excluded (ok=false).
func (d *Detector) scoreHeaderRow(g *grid.Grid, row int) (score int, ok bool) {
	cells := g.RowCells(row)

	nonEmpty := 0
	shortLabels := 0
	hasNumberLabel := false
	hasNameLabel := false
	hasMetaCell := false

	for _, c := range cells {
		text := strings.TrimSpace(c.Text)
		if text == "" {
			continue
		}
		nonEmpty++

		n := utf8.RuneCountInString(text)
		if n >= d.opts.ShortLabelMin && n <= d.opts.ShortLabelMax {
			shortLabels++
		}

		norm := normalizeLabel(text)
		if containsLabel(d.opts.NumberLabels, norm) {
			hasNumberLabel = true
		}
		if containsLabel(d.opts.NameLabels, norm) {
			hasNameLabel = true
		}
		if isMetaPattern(text) {
			hasMetaCell = true
		}
	}

	if nonEmpty < d.opts.MinScoredCells {
		return 0, false
	}

	score = nonEmpty*d.opts.NonEmptyWeight + shortLabels*d.opts.ShortLabelWeight
	if hasNumberLabel {
		score += d.opts.NumberLabelBonus
	}
	if hasNameLabel {
		score += d.opts.NameLabelBonus
	}
	if hasMetaCell {
		score -= d.opts.MetaPatternPenalty
	}
	return score, true
}

// looksLikeDataRow reports whether the row's first or second column is a
// pure number, the signature of a serial-numbered data row.
func (d *Detector) looksLikeDataRow(g *grid.Grid, row int) bool {
	for col := 1; col <= 2; col++ {
		if pureNumberRe.MatchString(strings.TrimSpace(g.TextAt(row, col))) {
			return true
		}
	}
	return false
}

func (d *Detector) hasSubHeaderCell(g *grid.Grid, row int) bool {
	for _, c := range g.RowCells(row) {
		text := strings.TrimSpace(c.Text)
		if text == "" {
			continue
		}
		for _, re := range d.opts.subHeaderRes {
			if re.MatchString(text) {
				return true
			}
		}
	}
	return false
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

func containsLabel(labels []string, normalized string) bool {
	for _, l := range labels {
		if normalizeLabel(l) == normalized {
			return true
		}
	}
	return false
}
