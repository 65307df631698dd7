package mapping

import (
	"fmt"
	"sort"

	"github.com/formworks/sheetmap/internal/grid"
)

// MinConfidence is the floor below which a merged candidate is rejected
// rather than guessed.
const MinConfidence = 0.5

// Finalize walks merged candidates in confidence order and accepts each one
// whose target cell is unclaimed, in bounds, and whose confidence clears
// the floor. Rejections become human-readable issues; they never abort the
// run.
func Finalize(tmpl *grid.Grid, merged []Candidate) ([]FinalMapping, []string) {
	ordered := make([]Candidate, len(merged))
	copy(ordered, merged)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Confidence > ordered[j].Confidence
	})

	usedTargets := make(map[cellRef]bool)
	usedColumns := make(map[string]bool)

	var final []FinalMapping
	var issues []string

	for _, c := range ordered {
		ref := cellRef{row: c.TargetRow, col: c.TargetCol}
		switch {
		case c.Confidence < MinConfidence:
			issues = append(issues, fmt.Sprintf(
				"low-confidence: column %q -> cell (%d,%d) scored %.2f, below %.2f",
				c.SourceColumn, c.TargetRow, c.TargetCol, c.Confidence, MinConfidence))
		case !tmpl.InBounds(c.TargetRow, c.TargetCol):
			issues = append(issues, fmt.Sprintf(
				"out-of-range: column %q targets cell (%d,%d) outside template bounds %dx%d",
				c.SourceColumn, c.TargetRow, c.TargetCol, tmpl.RowCount(), tmpl.ColCount()))
		case usedTargets[ref]:
			issues = append(issues, fmt.Sprintf(
				"duplicate-cell: column %q targets cell (%d,%d), already claimed by a higher-confidence mapping",
				c.SourceColumn, c.TargetRow, c.TargetCol))
		case usedColumns[c.SourceColumn]:
			issues = append(issues, fmt.Sprintf(
				"duplicate-column: column %q already mapped", c.SourceColumn))
		default:
			usedTargets[ref] = true
			usedColumns[c.SourceColumn] = true
			final = append(final, FinalMapping{
				SourceColumn: c.SourceColumn,
				TargetRow:    c.TargetRow,
				TargetCol:    c.TargetCol,
			})
		}
	}

	return final, issues
}
