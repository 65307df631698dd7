// Package mapping proposes, merges, and validates column-to-cell mappings
// between a spreadsheet's hierarchical columns and a document template grid.
//
// Candidates are generated by independent matchers (the deterministic
// spatial matcher here, plus the external semantic matchers), merged by
// consensus voting, finalized under no-cell-reuse and confidence-floor
// rules, and checked against a required-field checklist. Everything in this
// package is a pure computation over immutable inputs; all state lives in
// per-run values.
package mapping

// Origin identifies which matcher produced a candidate.
type Origin string

const (
	OriginRule      Origin = "rule"
	OriginExternalA Origin = "external_a"
	OriginExternalB Origin = "external_b"
)

// Candidate is a proposed, not-yet-confirmed mapping from a spreadsheet
// column to a template cell. Candidates are created per pipeline run and
// never persisted.
type Candidate struct {
	SourceColumn string  `json:"source_column"`
	TargetRow    int     `json:"target_row"`
	TargetCol    int     `json:"target_col"`
	LabelText    string  `json:"label_text,omitempty"`
	Confidence   float64 `json:"confidence"`
	Origin       Origin  `json:"origin"`
	Reason       string  `json:"reason"`
}

// FinalMapping is an accepted column-to-cell assignment. Within one run all
// source columns and all target cells are distinct; the finalizer enforces
// both.
type FinalMapping struct {
	SourceColumn string `json:"source_column"`
	TargetRow    int    `json:"target_row"`
	TargetCol    int    `json:"target_col"`
}

// IssueKind classifies validation issues.
type IssueKind string

const (
	IssueMissing IssueKind = "missing"
)

// Issue is a single validation finding.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Field   string    `json:"field"`
	Message string    `json:"message"`
}

// RequiredField names a checklist entry with its accepted aliases.
type RequiredField struct {
	Name    string   `json:"name" yaml:"name" mapstructure:"name"`
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty" mapstructure:"aliases"`
}

// ValidationResult reports checklist coverage for a finalized mapping.
// Suggestions are advisory; the validator never mutates the mapping.
type ValidationResult struct {
	IsValid             bool           `json:"is_valid"`
	TotalRequiredFields int            `json:"total_required_fields"`
	MappedFields        int            `json:"mapped_fields"`
	Issues              []Issue        `json:"issues,omitempty"`
	Suggestions         []FinalMapping `json:"suggestions,omitempty"`
}

// MissingFields counts issues of kind missing.
func (v ValidationResult) MissingFields() int {
	n := 0
	for _, is := range v.Issues {
		if is.Kind == IssueMissing {
			n++
		}
	}
	return n
}
