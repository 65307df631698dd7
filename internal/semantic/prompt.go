package semantic

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/formworks/sheetmap/internal/grid"
)

//go:embed templates/structure_system.tmpl
var structureSystemPrompt string

//go:embed templates/structure_user.tmpl
var structureUserTmpl string

//go:embed templates/columns_system.tmpl
var columnsSystemPrompt string

//go:embed templates/columns_user.tmpl
var columnsUserTmpl string

var (
	structureUserTemplate = template.Must(template.New("structure_user").Parse(structureUserTmpl))
	columnsUserTemplate   = template.Must(template.New("columns_user").Parse(columnsUserTmpl))
)

// promptData feeds the user prompt templates.
type promptData struct {
	RowCount int
	ColCount int
	Grid     string
	Columns  []string
}

// renderUserPrompt executes a user template against the template grid and
// column list.
func renderUserPrompt(t *template.Template, tmpl *grid.Grid, columns []string) (string, error) {
	data := promptData{
		RowCount: tmpl.RowCount(),
		ColCount: tmpl.ColCount(),
		Grid:     describeGrid(tmpl),
		Columns:  columns,
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

// describeGrid renders the template grid as one line per non-empty cell so
// the reasoning service sees positions, spans, and the header flag.
func describeGrid(g *grid.Grid) string {
	var b strings.Builder
	for row := 1; row <= g.RowCount(); row++ {
		for col := 1; col <= g.ColCount(); col++ {
			c, ok := g.CellAt(row, col)
			if !ok || strings.TrimSpace(c.Text) == "" {
				continue
			}
			fmt.Fprintf(&b, "R%dC%d", c.Row, c.Col)
			if c.RowSpan > 1 || c.ColSpan > 1 {
				fmt.Fprintf(&b, " (spans %dx%d)", c.RowSpan, c.ColSpan)
			}
			if c.IsHeader {
				b.WriteString(" [label]")
			}
			fmt.Fprintf(&b, ": %s\n", c.Text)
		}
	}
	return b.String()
}
