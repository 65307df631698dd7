// Package pipeline wires the mapping stages together: header inference,
// concurrent candidate generation, consensus merging, finalization, and
// checklist validation.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/formworks/sheetmap/internal/grid"
	"github.com/formworks/sheetmap/internal/header"
	"github.com/formworks/sheetmap/internal/mapping"
)

// Source is a candidate generator. Sources receive read-only snapshots and
// return freshly allocated candidate lists; a failing source returns an
// empty list rather than an error.
type Source interface {
	Name() string
	Match(ctx context.Context, tmpl *grid.Grid, columns []string) []mapping.Candidate
}

// Result is everything one pipeline run produces. All of it is ephemeral;
// the pipeline holds no cross-run state.
type Result struct {
	RunID      string                   `json:"run_id"`
	Analysis   header.AnalysisResult    `json:"analysis"`
	Mappings   []mapping.FinalMapping   `json:"mappings"`
	Issues     []string                 `json:"issues,omitempty"`
	Validation mapping.ValidationResult `json:"validation"`
}

// Pipeline runs the full grid-to-mapping sequence.
type Pipeline struct {
	detector    *header.Detector
	spatial     *mapping.SpatialMatcher
	semantic    []Source
	spatialOpts mapping.SpatialOptions
	checklist   []mapping.RequiredField
	logger      *slog.Logger
}

// New creates a pipeline. The semantic sources may be empty; the rule
// matcher alone still produces a usable mapping.
func New(detector *header.Detector, spatial *mapping.SpatialMatcher, semantic []Source, spatialOpts mapping.SpatialOptions, checklist []mapping.RequiredField, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		detector:    detector,
		spatial:     spatial,
		semantic:    semantic,
		spatialOpts: spatialOpts,
		checklist:   checklist,
		logger:      logger,
	}
}

// Run maps the spreadsheet grid onto the template grid. Unreadable input
// grids are the only terminal failure; matcher failures degrade to missing
// candidates and are reported through issues and validation instead.
func (p *Pipeline) Run(ctx context.Context, sheet, tmpl *grid.Grid) (*Result, error) {
	if sheet == nil || tmpl == nil {
		return nil, fmt.Errorf("pipeline: nil input grid")
	}
	if sheet.RowCount() == 0 || sheet.ColCount() == 0 {
		return nil, fmt.Errorf("pipeline: spreadsheet grid has no declared bounds")
	}
	if tmpl.RowCount() == 0 || tmpl.ColCount() == 0 {
		return nil, fmt.Errorf("pipeline: template grid has no declared bounds")
	}

	runID := uuid.New().String()
	log := p.logger.With("run_id", runID)

	// Header inference is a hard dependency of the mapping stage.
	analysis := p.detector.Analyze(sheet)
	columns := make([]string, 0, len(analysis.Columns))
	for _, c := range analysis.Columns {
		columns = append(columns, c.Name)
	}

	candidates := p.collectCandidates(ctx, log, tmpl, columns)
	merged := mapping.Merge(candidates)
	final, issues := mapping.Finalize(tmpl, merged)
	validation := mapping.Validate(tmpl, final, columns, p.checklist, p.spatialOpts)

	log.Info("pipeline run complete",
		"columns", len(columns),
		"candidates", len(candidates),
		"mappings", len(final),
		"issues", len(issues),
		"is_valid", validation.IsValid,
	)

	return &Result{
		RunID:      runID,
		Analysis:   analysis,
		Mappings:   final,
		Issues:     issues,
		Validation: validation,
	}, nil
}

// collectCandidates dispatches the rule matcher and every semantic source
// concurrently and joins all of them regardless of individual failure. The
// concatenation order is fixed (rule first, then sources in registration
// order) so merging stays deterministic.
func (p *Pipeline) collectCandidates(ctx context.Context, log *slog.Logger, tmpl *grid.Grid, columns []string) []mapping.Candidate {
	results := make([][]mapping.Candidate, 1+len(p.semantic))
	done := make(chan int, len(results))

	run := func(slot int, name string, fn func() []mapping.Candidate) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("matcher panicked", "matcher", name, "panic", r)
				results[slot] = nil
			}
			done <- slot
		}()
		results[slot] = fn()
	}

	go run(0, p.spatial.Name(), func() []mapping.Candidate {
		return p.spatial.Match(tmpl, columns)
	})
	for i, src := range p.semantic {
		i, src := i, src
		go run(i+1, src.Name(), func() []mapping.Candidate {
			return src.Match(ctx, tmpl, columns)
		})
	}

	for range results {
		<-done
	}

	var all []mapping.Candidate
	for _, r := range results {
		all = append(all, r...)
	}
	return all
}
