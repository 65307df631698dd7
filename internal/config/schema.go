package config

import (
	"time"

	"github.com/formworks/sheetmap/internal/header"
	"github.com/formworks/sheetmap/internal/mapping"
)

// Config holds sheetmap configuration: the reasoning-service client, the
// heuristic tuning tables, and the required-field checklist. The heuristic
// constants are a default configuration tuned to one document family, not
// invariants; override them per deployment.
type Config struct {
	LLM       LLMCfg                  `mapstructure:"llm" yaml:"llm"`
	Header    HeaderCfg               `mapstructure:"header" yaml:"header"`
	Spatial   SpatialCfg              `mapstructure:"spatial" yaml:"spatial"`
	Checklist []mapping.RequiredField `mapstructure:"checklist" yaml:"checklist"`
}

// LLMCfg configures the external reasoning service. Enabled=false or an
// empty (unresolvable) API key simply disables the semantic matchers.
type LLMCfg struct {
	Model          string `mapstructure:"model" yaml:"model"`
	APIKey         string `mapstructure:"api_key" yaml:"api_key"` // supports ${ENV_VAR} syntax
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries" yaml:"max_retries"`
	RateLimit      int    `mapstructure:"rate_limit" yaml:"rate_limit"` // requests per minute
	Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
}

// Timeout returns the per-call bound as a duration.
func (c LLMCfg) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 45 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// HeaderCfg tunes header inference; see header.Options for field meanings.
type HeaderCfg struct {
	MaxMetadataRows    int      `mapstructure:"max_metadata_rows" yaml:"max_metadata_rows"`
	MaxHeaderRows      int      `mapstructure:"max_header_rows" yaml:"max_header_rows"`
	NonEmptyWeight     int      `mapstructure:"non_empty_weight" yaml:"non_empty_weight"`
	ShortLabelWeight   int      `mapstructure:"short_label_weight" yaml:"short_label_weight"`
	NumberLabelBonus   int      `mapstructure:"number_label_bonus" yaml:"number_label_bonus"`
	NameLabelBonus     int      `mapstructure:"name_label_bonus" yaml:"name_label_bonus"`
	MetaPatternPenalty int      `mapstructure:"meta_pattern_penalty" yaml:"meta_pattern_penalty"`
	NumberLabels       []string `mapstructure:"number_labels" yaml:"number_labels"`
	NameLabels         []string `mapstructure:"name_labels" yaml:"name_labels"`
	BasicLabels        []string `mapstructure:"basic_labels" yaml:"basic_labels"`
	SubHeaderPatterns  []string `mapstructure:"sub_header_patterns" yaml:"sub_header_patterns"`
}

// ToOptions converts the config section into detector options; zero fields
// keep the built-in defaults.
func (c HeaderCfg) ToOptions() header.Options {
	return header.Options{
		MaxMetadataRows:    c.MaxMetadataRows,
		MaxHeaderRows:      c.MaxHeaderRows,
		NonEmptyWeight:     c.NonEmptyWeight,
		ShortLabelWeight:   c.ShortLabelWeight,
		NumberLabelBonus:   c.NumberLabelBonus,
		NameLabelBonus:     c.NameLabelBonus,
		MetaPatternPenalty: c.MetaPatternPenalty,
		NumberLabels:       c.NumberLabels,
		NameLabels:         c.NameLabels,
		BasicLabels:        c.BasicLabels,
		SubHeaderPatterns:  c.SubHeaderPatterns,
	}
}

// SpatialCfg tunes the rule matcher; see mapping.SpatialOptions.
type SpatialCfg struct {
	LabelMinLen   int                `mapstructure:"label_min_len" yaml:"label_min_len"`
	LabelMaxLen   int                `mapstructure:"label_max_len" yaml:"label_max_len"`
	MaxBelowRows  int                `mapstructure:"max_below_rows" yaml:"max_below_rows"`
	DocumentTitle string             `mapstructure:"document_title" yaml:"document_title"`
	Overrides     []mapping.Override `mapstructure:"overrides" yaml:"overrides"`
}

// ToOptions converts the config section into matcher options.
func (c SpatialCfg) ToOptions() mapping.SpatialOptions {
	return mapping.SpatialOptions{
		LabelMinLen:   c.LabelMinLen,
		LabelMaxLen:   c.LabelMaxLen,
		MaxBelowRows:  c.MaxBelowRows,
		DocumentTitle: c.DocumentTitle,
		Overrides:     c.Overrides,
	}
}
