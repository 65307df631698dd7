// Package header infers structure from human-authored spreadsheet grids:
// which rows are document metadata, which rows form the (possibly stacked)
// header, where data begins, and a stable hierarchical name per column.
//
// Ad-hoc exports routinely spread a field's meaning over two or three header
// rows plus merged cells (category over sub-category over a repetition
// counter). Reading a single header row collapses distinct fields into the
// same name, so the detector synthesizes one name from the whole stack.
package header

import (
	"log/slog"

	"github.com/formworks/sheetmap/internal/grid"
)

// Column is a spreadsheet column with its synthesized hierarchical name.
// Name is unique within an AnalysisResult; the detector suffixes collisions
// with _2, _3, ... at construction time.
type Column struct {
	Name      string `json:"name"`
	SourceCol int    `json:"source_col"`
	Depth     int    `json:"depth"`
}

// AnalysisResult is the full output of header inference for one grid.
// DataStartRow is always greater than the last header row, and HeaderRows
// is ascending and disjoint from MetaRows.
type AnalysisResult struct {
	MetaRows     []int             `json:"meta_rows"`
	HeaderRows   []int             `json:"header_rows"`
	DataStartRow int               `json:"data_start_row"`
	Columns      []Column          `json:"columns"`
	MetaInfo     map[string]string `json:"meta_info"`
}

// Detector runs header inference with a fixed set of heuristic options.
type Detector struct {
	opts   Options
	logger *slog.Logger
}

// NewDetector creates a detector. Zero-valued option fields fall back to
// the defaults from DefaultOptions.
func NewDetector(opts Options, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{opts: opts.withDefaults(), logger: logger}
}

// Analyze runs the full inference sequence: metadata rows, header rows,
// data start, merge spans, and hierarchical column synthesis.
func (d *Detector) Analyze(g *grid.Grid) AnalysisResult {
	metaRows, metaInfo := d.DetectMetadataRows(g)
	headerRows, dataStart := d.DetectHeaderRows(g, metaRows)
	spans := d.ExtractMergeSpans(g, headerRows)
	columns := d.SynthesizeColumns(g, headerRows, spans)

	d.logger.Debug("header analysis complete",
		"meta_rows", len(metaRows),
		"header_rows", headerRows,
		"data_start_row", dataStart,
		"columns", len(columns),
	)

	return AnalysisResult{
		MetaRows:     metaRows,
		HeaderRows:   headerRows,
		DataStartRow: dataStart,
		Columns:      columns,
		MetaInfo:     metaInfo,
	}
}
