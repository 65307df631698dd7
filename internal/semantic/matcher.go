// Package semantic implements the external semantic matchers: candidate
// generators that describe the template grid and column list to an external
// reasoning service and parse its structured response.
//
// Both matchers are optional and individually failable. A missing API key,
// a transport failure, a timeout, or a malformed response all degrade to an
// empty candidate list; nothing propagates past the matcher boundary.
package semantic

import (
	"context"
	"encoding/json"
	"log/slog"
	"text/template"
	"time"

	"github.com/formworks/sheetmap/internal/grid"
	"github.com/formworks/sheetmap/internal/llm"
	"github.com/formworks/sheetmap/internal/mapping"
)

// Matcher queries the reasoning service with one of the two prompt
// strategies and converts its matches into mapping candidates.
type Matcher struct {
	name         string
	origin       mapping.Origin
	schemaName   string
	systemPrompt string
	userTemplate *template.Template

	client       llm.Client
	timeout      time.Duration
	maxBelowRows int
	logger       *slog.Logger
}

// Config holds the shared matcher settings.
type Config struct {
	Client       llm.Client
	Timeout      time.Duration // Per-call bound; defaults to 45s
	MaxBelowRows int           // Label-to-data-cell scan depth; defaults to 2
	Logger       *slog.Logger
}

// NewStructureMatcher creates the template-structure-oriented matcher.
func NewStructureMatcher(cfg Config) *Matcher {
	return newMatcher("semantic_structure", mapping.OriginExternalA, "structure_matches",
		structureSystemPrompt, structureUserTemplate, cfg)
}

// NewColumnMatcher creates the column-semantics-oriented matcher.
func NewColumnMatcher(cfg Config) *Matcher {
	return newMatcher("semantic_columns", mapping.OriginExternalB, "column_matches",
		columnsSystemPrompt, columnsUserTemplate, cfg)
}

func newMatcher(name string, origin mapping.Origin, schemaName, system string, user *template.Template, cfg Config) *Matcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.MaxBelowRows <= 0 {
		cfg.MaxBelowRows = 2
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{
		name:         name,
		origin:       origin,
		schemaName:   schemaName,
		systemPrompt: system,
		userTemplate: user,
		client:       cfg.Client,
		timeout:      cfg.Timeout,
		maxBelowRows: cfg.MaxBelowRows,
		logger:       logger.With("matcher", name),
	}
}

// Name identifies the matcher in logs.
func (m *Matcher) Name() string { return m.name }

// Match asks the reasoning service for column-to-label matches and derives
// one candidate per usable match. On any failure it returns an empty list.
func (m *Matcher) Match(ctx context.Context, tmpl *grid.Grid, columns []string) []mapping.Candidate {
	if m.client == nil || len(columns) == 0 {
		return nil
	}

	userPrompt, err := renderUserPrompt(m.userTemplate, tmpl, columns)
	if err != nil {
		m.logger.Warn("prompt rendering failed", "error", err)
		return nil
	}

	result, err := m.client.Chat(ctx, &llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "system", Content: m.systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Timeout: m.timeout,
		ResponseFormat: &llm.ResponseFormat{
			Name:   m.schemaName,
			Schema: matchSchemaJSON,
			Strict: true,
		},
	})
	if err != nil {
		m.logger.Warn("reasoning service call failed", "error", err)
		return nil
	}

	var resp matchResponse
	if err := json.Unmarshal(result.ParsedJSON, &resp); err != nil {
		m.logger.Warn("malformed matcher response", "error", err)
		return nil
	}

	return m.toCandidates(tmpl, columns, resp)
}

// toCandidates converts response entries to candidates, dropping entries
// that reference unknown columns or unresolvable label cells.
func (m *Matcher) toCandidates(tmpl *grid.Grid, columns []string, resp matchResponse) []mapping.Candidate {
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}

	var out []mapping.Candidate
	for _, e := range resp.Matches {
		if !known[e.SourceColumn] {
			continue
		}
		row, col, ok := mapping.DataCellFor(tmpl, e.LabelRow, e.LabelCol, m.maxBelowRows)
		if !ok {
			continue
		}
		confidence := e.Confidence
		if confidence < 0 {
			confidence = 0
		} else if confidence > 1 {
			confidence = 1
		}
		out = append(out, mapping.Candidate{
			SourceColumn: e.SourceColumn,
			TargetRow:    row,
			TargetCol:    col,
			LabelText:    tmpl.TextAt(e.LabelRow, e.LabelCol),
			Confidence:   confidence,
			Origin:       m.origin,
			Reason:       "reasoning service match",
		})
	}

	m.logger.Debug("semantic matching complete", "matches", len(resp.Matches), "candidates", len(out))
	return out
}
