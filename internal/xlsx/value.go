package xlsx

import (
	"strings"
	"time"
)

// ValueKind discriminates the cell value union.
type ValueKind int

const (
	ValuePlain ValueKind = iota
	ValueRich
	ValueFormula
)

// CellValue is the tagged union of the cell value shapes a workbook can
// hold: a plain value, a rich-text run sequence, or a formula with its
// cached result. Conversion to text is exhaustive over the kinds; no
// runtime property probing.
type CellValue struct {
	Kind    ValueKind
	Text    string // plain value, flattened rich text, or formula result
	Formula string // set for ValueFormula
}

// PlainText returns the normalized plain-string form of the value.
func (v CellValue) PlainText() string {
	switch v.Kind {
	case ValuePlain, ValueRich, ValueFormula:
		return normalizeText(v.Text)
	default:
		return ""
	}
}

// normalizeText trims and collapses internal whitespace runs, and rewrites
// recognizable date strings to YYYY-MM-DD.
func normalizeText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	if d, ok := normalizeDate(s); ok {
		return d
	}
	return s
}

// dateLayouts are the spreadsheet display formats we rewrite. Layouts are
// tried in order; first parse wins.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"01-02-06",
	"1/2/06",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006년 1월 2일",
}

func normalizeDate(s string) (string, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}
