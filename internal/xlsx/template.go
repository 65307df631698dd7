package xlsx

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/formworks/sheetmap/internal/grid"
)

// Classifier decides whether a template cell is a field label (header) or a
// value target. The classification policy is the caller's concern; pass nil
// to use the text heuristic default.
type Classifier func(c grid.Cell) bool

var templateNumberRe = regexp.MustCompile(`^[\d.,%\s-]+$`)

// DefaultClassifier treats short, non-numeric text as a label. Template
// authors put field names in short labeled cells and leave value cells
// empty or numeric.
func DefaultClassifier(c grid.Cell) bool {
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return false
	}
	if templateNumberRe.MatchString(text) {
		return false
	}
	n := utf8.RuneCountInString(text)
	return n >= 1 && n <= 20
}

// ReadTemplate decodes template bytes into the shared grid model with
// merge-derived spans and a header/data flag per cell. An empty sheet name
// selects the first sheet.
func ReadTemplate(data []byte, sheet string, classify Classifier) (*grid.Grid, error) {
	if classify == nil {
		classify = DefaultClassifier
	}

	r, err := NewSheetReader(data, sheet)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	g, err := r.DenseGrid()
	if err != nil {
		return nil, err
	}

	cells := make([]grid.Cell, 0, len(g.Cells()))
	for _, c := range g.Cells() {
		c.IsHeader = classify(c)
		cells = append(cells, c)
	}
	return grid.NewGrid(g.RowCount(), g.ColCount(), cells)
}
