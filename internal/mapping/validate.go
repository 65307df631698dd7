package mapping

import (
	"fmt"
	"strings"

	"github.com/formworks/sheetmap/internal/grid"
)

// Alias-overlap suggestion scores.
const (
	suggestExactScore    = 100
	suggestContainsScore = 70
)

// Validate checks a finalized mapping against the required-field checklist.
// Unmapped required fields produce missing issues. For each one the
// validator also tries to propose a pairing of an unused spreadsheet column
// and the field's template data cell; proposals are advisory and never
// applied.
func Validate(tmpl *grid.Grid, final []FinalMapping, allColumns []string, checklist []RequiredField, opts SpatialOptions) ValidationResult {
	opts = opts.withDefaults()

	mappedColumns := make(map[string]bool, len(final))
	claimedTargets := make(map[cellRef]bool, len(final))
	for _, fm := range final {
		mappedColumns[fm.SourceColumn] = true
		claimedTargets[cellRef{row: fm.TargetRow, col: fm.TargetCol}] = true
	}

	var unusedColumns []string
	for _, col := range allColumns {
		if !mappedColumns[col] {
			unusedColumns = append(unusedColumns, col)
		}
	}

	labels := labelCells(tmpl, opts.LabelMinLen, opts.LabelMaxLen, opts.DocumentTitle)

	result := ValidationResult{
		TotalRequiredFields: len(checklist),
	}

	for _, field := range checklist {
		if fieldIsMapped(field, final) {
			result.MappedFields++
			continue
		}

		result.Issues = append(result.Issues, Issue{
			Kind:    IssueMissing,
			Field:   field.Name,
			Message: fmt.Sprintf("required field %q is not mapped", field.Name),
		})

		suggestion, ok := suggestFor(tmpl, field, labels, unusedColumns, claimedTargets, opts)
		if ok {
			// Suggested targets count as claimed so later fields cannot
			// propose the same cell.
			claimedTargets[cellRef{row: suggestion.TargetRow, col: suggestion.TargetCol}] = true
			result.Suggestions = append(result.Suggestions, suggestion)
		}
	}

	result.IsValid = result.MissingFields() == 0
	return result
}

// fieldIsMapped reports whether any finalized source column matches the
// field name or one of its aliases, by exact or containment comparison.
func fieldIsMapped(field RequiredField, final []FinalMapping) bool {
	terms := fieldTerms(field)
	for _, fm := range final {
		col := normalize(fm.SourceColumn)
		for _, term := range terms {
			if col == term || strings.Contains(col, term) || strings.Contains(term, col) {
				return true
			}
		}
	}
	return false
}

// suggestFor proposes the best unused column for a missing field, paired
// with the field's template data cell. No suggestion is made when the label
// cell cannot be located, its data cell is unresolvable or already claimed,
// or no column overlaps the field's aliases.
func suggestFor(tmpl *grid.Grid, field RequiredField, labels []grid.Cell, unusedColumns []string, claimed map[cellRef]bool, opts SpatialOptions) (FinalMapping, bool) {
	label, ok := findFieldLabel(field, labels)
	if !ok {
		return FinalMapping{}, false
	}
	target, ok := adjacentDataCell(tmpl, label, opts.MaxBelowRows)
	if !ok || claimed[target] {
		return FinalMapping{}, false
	}

	terms := fieldTerms(field)
	bestScore := 0
	bestColumn := ""
	for _, col := range unusedColumns {
		norm := normalize(col)
		for _, term := range terms {
			score := 0
			switch {
			case norm == term:
				score = suggestExactScore
			case strings.Contains(norm, term) || strings.Contains(term, norm):
				score = suggestContainsScore
			}
			if score > bestScore {
				bestScore = score
				bestColumn = col
			}
		}
	}
	if bestColumn == "" {
		return FinalMapping{}, false
	}

	return FinalMapping{
		SourceColumn: bestColumn,
		TargetRow:    target.row,
		TargetCol:    target.col,
	}, true
}

func findFieldLabel(field RequiredField, labels []grid.Cell) (grid.Cell, bool) {
	terms := fieldTerms(field)
	for _, label := range labels {
		norm := normalize(label.Text)
		for _, term := range terms {
			if norm == term || strings.Contains(norm, term) || strings.Contains(term, norm) {
				return label, true
			}
		}
	}
	return grid.Cell{}, false
}

func fieldTerms(field RequiredField) []string {
	terms := make([]string, 0, 1+len(field.Aliases))
	if t := normalize(field.Name); t != "" {
		terms = append(terms, t)
	}
	for _, a := range field.Aliases {
		if t := normalize(a); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}
