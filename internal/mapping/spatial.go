package mapping

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/formworks/sheetmap/internal/grid"
)

// Override pins a recurring composite column directly to a template cell,
// bypassing label matching. SourcePattern is matched as a substring of the
// normalized column name.
type Override struct {
	SourcePattern string `json:"source_pattern" yaml:"source_pattern" mapstructure:"source_pattern"`
	Row           int    `json:"row" yaml:"row" mapstructure:"row"`
	Col           int    `json:"col" yaml:"col" mapstructure:"col"`
}

// SpatialOptions tunes the rule matcher. Zero values take the defaults.
type SpatialOptions struct {
	LabelMinLen        int
	LabelMaxLen        int
	MaxBelowRows       int
	ExactConfidence    float64
	ContainsConfidence float64
	OverrideConfidence float64
	DocumentTitle      string
	Overrides          []Override
}

func (o SpatialOptions) withDefaults() SpatialOptions {
	if o.LabelMinLen <= 0 {
		o.LabelMinLen = 2
	}
	if o.LabelMaxLen <= 0 {
		o.LabelMaxLen = 15
	}
	if o.MaxBelowRows <= 0 {
		o.MaxBelowRows = 2
	}
	if o.ExactConfidence <= 0 {
		o.ExactConfidence = 0.95
	}
	if o.ContainsConfidence <= 0 {
		o.ContainsConfidence = 0.85
	}
	if o.OverrideConfidence <= 0 {
		o.OverrideConfidence = 0.98
	}
	return o
}

// SpatialMatcher proposes mappings from label/data adjacency in the
// template grid. It is deterministic and greedy: each column and each
// target cell is claimed at most once, first qualifying pair wins.
type SpatialMatcher struct {
	opts   SpatialOptions
	logger *slog.Logger
}

// NewSpatialMatcher creates a spatial rule matcher.
func NewSpatialMatcher(opts SpatialOptions, logger *slog.Logger) *SpatialMatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &SpatialMatcher{opts: opts.withDefaults(), logger: logger}
}

// Name identifies the matcher in logs and candidate origins.
func (m *SpatialMatcher) Name() string { return "spatial" }

// Match proposes one candidate per matchable spreadsheet column. The
// returned slice is freshly allocated; the inputs are never mutated.
func (m *SpatialMatcher) Match(tmpl *grid.Grid, columns []string) []Candidate {
	labels := labelCells(tmpl, m.opts.LabelMinLen, m.opts.LabelMaxLen, m.opts.DocumentTitle)

	usedColumns := make(map[string]bool)
	usedTargets := make(map[cellRef]bool)
	usedLabels := make(map[cellRef]bool)

	var candidates []Candidate

	// Literal overrides run before general matching and claim both sides.
	for _, col := range columns {
		norm := normalize(col)
		for _, ov := range m.opts.Overrides {
			if ov.SourcePattern == "" || !strings.Contains(norm, normalize(ov.SourcePattern)) {
				continue
			}
			target := cellRef{row: ov.Row, col: ov.Col}
			if usedColumns[col] || usedTargets[target] {
				continue
			}
			usedColumns[col] = true
			usedTargets[target] = true
			candidates = append(candidates, Candidate{
				SourceColumn: col,
				TargetRow:    ov.Row,
				TargetCol:    ov.Col,
				Confidence:   m.opts.OverrideConfidence,
				Origin:       OriginRule,
				Reason:       fmt.Sprintf("override %q", ov.SourcePattern),
			})
			break
		}
	}

	for _, col := range columns {
		if usedColumns[col] {
			continue
		}
		norm := normalize(col)
		if norm == "" {
			continue
		}

		for _, label := range labels {
			ref := cellRef{row: label.Row, col: label.Col}
			if usedLabels[ref] {
				continue
			}

			confidence, reason := matchConfidence(norm, normalize(label.Text), m.opts)
			if confidence == 0 {
				continue
			}

			target, ok := adjacentDataCell(tmpl, label, m.opts.MaxBelowRows)
			if !ok || usedTargets[target] {
				continue
			}

			usedColumns[col] = true
			usedLabels[ref] = true
			usedTargets[target] = true
			candidates = append(candidates, Candidate{
				SourceColumn: col,
				TargetRow:    target.row,
				TargetCol:    target.col,
				LabelText:    label.Text,
				Confidence:   confidence,
				Origin:       OriginRule,
				Reason:       reason,
			})
			break
		}
	}

	m.logger.Debug("spatial matching complete",
		"columns", len(columns),
		"label_cells", len(labels),
		"candidates", len(candidates),
	)

	return candidates
}

func matchConfidence(col, label string, opts SpatialOptions) (float64, string) {
	if label == "" {
		return 0, ""
	}
	if col == label {
		return opts.ExactConfidence, "exact label match"
	}
	if strings.Contains(col, label) || strings.Contains(label, col) {
		return opts.ContainsConfidence, "label containment"
	}
	return 0, ""
}
