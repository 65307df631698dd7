package header

import "regexp"

// Options tunes the header inference heuristics. The defaults encode the
// thresholds observed to work for program-tracking exports; treat them as a
// starting configuration, not universal truth, and override per document
// family where needed.
type Options struct {
	// MaxMetadataRows bounds the scan for `label : value` metadata rows.
	MaxMetadataRows int
	// MaxHeaderRows bounds the scan for header row candidates.
	MaxHeaderRows int

	// Scoring weights for header row candidates.
	NonEmptyWeight     int // per non-empty cell
	ShortLabelWeight   int // per cell whose text length is in the short-label range
	NumberLabelBonus   int // row contains a serial/number column label
	NameLabelBonus     int // row contains a person-name column label
	MetaPatternPenalty int // row contains a `label : value` cell

	// ShortLabelMin/Max delimit "looks like a field label" text length,
	// counted in runes.
	ShortLabelMin int
	ShortLabelMax int

	// MinScoredCells excludes sparse rows from header scoring.
	MinScoredCells int

	// NumberLabels and NameLabels are normalized label texts that identify
	// serial-number and person-name columns.
	NumberLabels []string
	NameLabels   []string

	// BasicLabels is the allow-list of fixed-identity field labels. A column
	// whose header stack contains one of these takes its deepest value as
	// the final name instead of the concatenated stack.
	BasicLabels []string

	// SubHeaderPatterns recognize rows below the main header that are still
	// header content (ordinal counters, weekday markers).
	SubHeaderPatterns []string

	subHeaderRes []*regexp.Regexp
}

// DefaultOptions returns the tuned defaults for Korean program-tracking
// exports.
func DefaultOptions() Options {
	return Options{
		MaxMetadataRows:    10,
		MaxHeaderRows:      15,
		NonEmptyWeight:     2,
		ShortLabelWeight:   3,
		NumberLabelBonus:   30,
		NameLabelBonus:     30,
		MetaPatternPenalty: 20,
		ShortLabelMin:      2,
		ShortLabelMax:      15,
		MinScoredCells:     3,
		NumberLabels:       []string{"연번", "번호", "순번", "no", "no."},
		NameLabels:         []string{"성명", "이름", "name"},
		BasicLabels: []string{
			"연번", "번호", "순번", "성명", "이름", "성별", "생년월일",
			"연락처", "전화번호", "휴대폰", "이메일", "email", "주소",
			"소속", "직급", "부서",
		},
		SubHeaderPatterns: []string{
			`^\d+회차?$`,
			`^\d{1,2}\s*\([월화수목금토일]\)$`,
			`^\d{1,2}\s*\([A-Za-z]{3}\)$`,
		},
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MaxMetadataRows <= 0 {
		o.MaxMetadataRows = def.MaxMetadataRows
	}
	if o.MaxHeaderRows <= 0 {
		o.MaxHeaderRows = def.MaxHeaderRows
	}
	if o.NonEmptyWeight <= 0 {
		o.NonEmptyWeight = def.NonEmptyWeight
	}
	if o.ShortLabelWeight <= 0 {
		o.ShortLabelWeight = def.ShortLabelWeight
	}
	if o.NumberLabelBonus <= 0 {
		o.NumberLabelBonus = def.NumberLabelBonus
	}
	if o.NameLabelBonus <= 0 {
		o.NameLabelBonus = def.NameLabelBonus
	}
	if o.MetaPatternPenalty <= 0 {
		o.MetaPatternPenalty = def.MetaPatternPenalty
	}
	if o.ShortLabelMin <= 0 {
		o.ShortLabelMin = def.ShortLabelMin
	}
	if o.ShortLabelMax <= 0 {
		o.ShortLabelMax = def.ShortLabelMax
	}
	if o.MinScoredCells <= 0 {
		o.MinScoredCells = def.MinScoredCells
	}
	if len(o.NumberLabels) == 0 {
		o.NumberLabels = def.NumberLabels
	}
	if len(o.NameLabels) == 0 {
		o.NameLabels = def.NameLabels
	}
	if len(o.BasicLabels) == 0 {
		o.BasicLabels = def.BasicLabels
	}
	if len(o.SubHeaderPatterns) == 0 {
		o.SubHeaderPatterns = def.SubHeaderPatterns
	}

	o.subHeaderRes = make([]*regexp.Regexp, 0, len(o.SubHeaderPatterns))
	for _, p := range o.SubHeaderPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			// Bad user-supplied pattern: skip it rather than fail the run.
			continue
		}
		o.subHeaderRes = append(o.subHeaderRes, re)
	}
	return o
}
