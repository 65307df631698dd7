package header

import (
	"regexp"
	"strings"

	"github.com/formworks/sheetmap/internal/grid"
)

// metaPatternRe matches `label : value` cells: a letters-and-spaces key,
// a colon (ASCII or fullwidth), and any non-empty value.
var metaPatternRe = regexp.MustCompile(`^\s*([\p{L}][\p{L} ]*?)\s*[:：]\s*(\S.*)$`)

// DetectMetadataRows scans the first MaxMetadataRows rows. A row is
// metadata when any non-empty cell matches the `label : value` pattern.
// All key/value matches are merged into one map; a duplicate key keeps the
// later value, which is accepted, non-fatal ambiguity.
func (d *Detector) DetectMetadataRows(g *grid.Grid) ([]int, map[string]string) {
	metaInfo := make(map[string]string)
	var metaRows []int

	limit := d.opts.MaxMetadataRows
	if g.RowCount() < limit {
		limit = g.RowCount()
	}

	for row := 1; row <= limit; row++ {
		isMeta := false
		for _, c := range g.RowCells(row) {
			text := strings.TrimSpace(c.Text)
			if text == "" {
				continue
			}
			m := metaPatternRe.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			isMeta = true
			metaInfo[strings.TrimSpace(m[1])] = strings.TrimSpace(m[2])
		}
		if isMeta {
			metaRows = append(metaRows, row)
		}
	}

	return metaRows, metaInfo
}

// isMetaPattern reports whether a single cell text looks like `label : value`.
func isMetaPattern(text string) bool {
	return metaPatternRe.MatchString(strings.TrimSpace(text))
}
