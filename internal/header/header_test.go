package header

import (
	"reflect"
	"testing"

	"github.com/formworks/sheetmap/internal/grid"
)

func mustGrid(t *testing.T, rows, cols int, cells []grid.Cell) *grid.Grid {
	t.Helper()
	g, err := grid.NewGrid(rows, cols, cells)
	if err != nil {
		t.Fatalf("NewGrid() error = %v", err)
	}
	return g
}

func newTestDetector() *Detector {
	return NewDetector(Options{}, nil)
}

func TestDetectMetadataRows(t *testing.T) {
	d := newTestDetector()

	t.Run("label colon value rows", func(t *testing.T) {
		g := mustGrid(t, 4, 3, []grid.Cell{
			{Row: 1, Col: 1, Text: "사업명 : 청년 성장 프로그램"},
			{Row: 2, Col: 1, Text: "담당자： 김철수"},
			{Row: 3, Col: 1, Text: "연번"},
			{Row: 3, Col: 2, Text: "성명"},
			{Row: 3, Col: 3, Text: "연락처"},
		})

		rows, info := d.DetectMetadataRows(g)
		if !reflect.DeepEqual(rows, []int{1, 2}) {
			t.Errorf("meta rows = %v, want [1 2]", rows)
		}
		if info["사업명"] != "청년 성장 프로그램" {
			t.Errorf("사업명 = %q", info["사업명"])
		}
		if info["담당자"] != "김철수" {
			t.Errorf("담당자 = %q, fullwidth colon not handled", info["담당자"])
		}
	})

	t.Run("duplicate key keeps later value", func(t *testing.T) {
		g := mustGrid(t, 2, 1, []grid.Cell{
			{Row: 1, Col: 1, Text: "기간 : 2024.01"},
			{Row: 2, Col: 1, Text: "기간 : 2024.03"},
		})

		_, info := d.DetectMetadataRows(g)
		if info["기간"] != "2024.03" {
			t.Errorf("기간 = %q, want later value", info["기간"])
		}
	})

	t.Run("no metadata", func(t *testing.T) {
		g := mustGrid(t, 1, 2, []grid.Cell{
			{Row: 1, Col: 1, Text: "연번"},
			{Row: 1, Col: 2, Text: "성명"},
		})

		rows, info := d.DetectMetadataRows(g)
		if len(rows) != 0 {
			t.Errorf("meta rows = %v, want none", rows)
		}
		if len(info) != 0 {
			t.Errorf("meta info = %v, want empty", info)
		}
	})
}

func TestDetectHeaderRows(t *testing.T) {
	d := newTestDetector()

	t.Run("main header with sub-header row", func(t *testing.T) {
		g := mustGrid(t, 4, 4, []grid.Cell{
			{Row: 1, Col: 1, Text: "사업명 : 청년 성장 프로그램"},
			{Row: 2, Col: 1, Text: "연번"},
			{Row: 2, Col: 2, Text: "성명"},
			{Row: 2, Col: 3, Text: "출석", ColSpan: 2},
			{Row: 3, Col: 3, Text: "1회차"},
			{Row: 3, Col: 4, Text: "2회차"},
			{Row: 4, Col: 1, Text: "1"},
			{Row: 4, Col: 2, Text: "홍길동"},
		})

		metaRows, _ := d.DetectMetadataRows(g)
		headerRows, dataStart := d.DetectHeaderRows(g, metaRows)
		if !reflect.DeepEqual(headerRows, []int{2, 3}) {
			t.Errorf("header rows = %v, want [2 3]", headerRows)
		}
		if dataStart != 4 {
			t.Errorf("data start = %d, want 4", dataStart)
		}
	})

	t.Run("upward extension over sparse category row", func(t *testing.T) {
		g := mustGrid(t, 3, 4, []grid.Cell{
			{Row: 1, Col: 1, Text: "기본정보", ColSpan: 2},
			{Row: 2, Col: 1, Text: "연번"},
			{Row: 2, Col: 2, Text: "성명"},
			{Row: 2, Col: 3, Text: "생년월일"},
			{Row: 2, Col: 4, Text: "연락처"},
			{Row: 3, Col: 1, Text: "1"},
		})

		headerRows, dataStart := d.DetectHeaderRows(g, nil)
		if !reflect.DeepEqual(headerRows, []int{1, 2}) {
			t.Errorf("header rows = %v, want [1 2]", headerRows)
		}
		if dataStart != 3 {
			t.Errorf("data start = %d, want 3", dataStart)
		}
	})

	t.Run("numeric leading cell wins over sub-header marker", func(t *testing.T) {
		// Row 2 carries a sub-header-looking token, but its first column is a
		// serial number, so it is data.
		g := mustGrid(t, 2, 3, []grid.Cell{
			{Row: 1, Col: 1, Text: "연번"},
			{Row: 1, Col: 2, Text: "성명"},
			{Row: 1, Col: 3, Text: "회차"},
			{Row: 2, Col: 1, Text: "1"},
			{Row: 2, Col: 2, Text: "홍길동"},
			{Row: 2, Col: 3, Text: "1회차"},
		})

		headerRows, dataStart := d.DetectHeaderRows(g, nil)
		if !reflect.DeepEqual(headerRows, []int{1}) {
			t.Errorf("header rows = %v, want [1]", headerRows)
		}
		if dataStart != 2 {
			t.Errorf("data start = %d, want 2", dataStart)
		}
	})

	t.Run("fallback when no row qualifies", func(t *testing.T) {
		// Every row is below the minimum scored-cell count.
		g := mustGrid(t, 3, 3, []grid.Cell{
			{Row: 1, Col: 1, Text: "메모"},
			{Row: 2, Col: 1, Text: "a"},
			{Row: 2, Col: 2, Text: "b"},
		})

		headerRows, dataStart := d.DetectHeaderRows(g, nil)
		if !reflect.DeepEqual(headerRows, []int{1}) {
			t.Errorf("header rows = %v, want [1]", headerRows)
		}
		if dataStart != 2 {
			t.Errorf("data start = %d, want 2", dataStart)
		}
	})

	t.Run("no sub-header stops at data", func(t *testing.T) {
		g := mustGrid(t, 3, 3, []grid.Cell{
			{Row: 1, Col: 1, Text: "연번"},
			{Row: 1, Col: 2, Text: "성명"},
			{Row: 1, Col: 3, Text: "연락처"},
			{Row: 2, Col: 1, Text: "1"},
			{Row: 2, Col: 2, Text: "홍길동"},
			{Row: 3, Col: 1, Text: "2"},
		})

		headerRows, dataStart := d.DetectHeaderRows(g, nil)
		if !reflect.DeepEqual(headerRows, []int{1}) {
			t.Errorf("header rows = %v, want [1]", headerRows)
		}
		if dataStart != 2 {
			t.Errorf("data start = %d, want 2", dataStart)
		}
	})
}

func TestExtractMergeSpans(t *testing.T) {
	d := newTestDetector()

	g := mustGrid(t, 4, 4, []grid.Cell{
		{Row: 1, Col: 1, Text: "출석", ColSpan: 2},
		{Row: 1, Col: 3, Text: "", ColSpan: 2},
		{Row: 3, Col: 1, Text: "비고", RowSpan: 2},
	})

	spans := d.ExtractMergeSpans(g, []int{1})
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Row != 1 || spans[0].Col != 1 {
		t.Errorf("unexpected span %+v", spans[0])
	}
}

func TestSynthesizeColumns(t *testing.T) {
	d := newTestDetector()

	t.Run("composite names from stacked headers", func(t *testing.T) {
		g := mustGrid(t, 3, 2, []grid.Cell{
			{Row: 1, Col: 1, Text: "4. Program", ColSpan: 2},
			{Row: 2, Col: 1, Text: "Expert Talk", ColSpan: 2},
			{Row: 3, Col: 1, Text: "1회"},
			{Row: 3, Col: 2, Text: "2회"},
		})

		headerRows := []int{1, 2, 3}
		spans := d.ExtractMergeSpans(g, headerRows)
		cols := d.SynthesizeColumns(g, headerRows, spans)

		want := []string{"4. Program_Expert Talk_1회", "4. Program_Expert Talk_2회"}
		if len(cols) != len(want) {
			t.Fatalf("expected %d columns, got %d: %+v", len(want), len(cols), cols)
		}
		for i, w := range want {
			if cols[i].Name != w {
				t.Errorf("column %d = %q, want %q", i, cols[i].Name, w)
			}
			if cols[i].SourceCol != i+1 {
				t.Errorf("column %d source = %d, want %d", i, cols[i].SourceCol, i+1)
			}
		}
	})

	t.Run("identity fields keep deepest label", func(t *testing.T) {
		g := mustGrid(t, 2, 2, []grid.Cell{
			{Row: 1, Col: 1, Text: "1. Personal Info", ColSpan: 2},
			{Row: 2, Col: 1, Text: "성명"},
			{Row: 2, Col: 2, Text: "생년월일"},
		})

		headerRows := []int{1, 2}
		cols := d.SynthesizeColumns(g, headerRows, d.ExtractMergeSpans(g, headerRows))
		if len(cols) != 2 {
			t.Fatalf("expected 2 columns, got %d", len(cols))
		}
		if cols[0].Name != "성명" {
			t.Errorf("column 1 = %q, want 성명", cols[0].Name)
		}
		if cols[1].Name != "생년월일" {
			t.Errorf("column 2 = %q, want 생년월일", cols[1].Name)
		}
	})

	t.Run("weekday markers dropped, collisions suffixed", func(t *testing.T) {
		g := mustGrid(t, 2, 2, []grid.Cell{
			{Row: 1, Col: 1, Text: "Attendance", ColSpan: 2},
			{Row: 2, Col: 1, Text: "12 (월)"},
			{Row: 2, Col: 2, Text: "13 (화)"},
		})

		headerRows := []int{1, 2}
		cols := d.SynthesizeColumns(g, headerRows, d.ExtractMergeSpans(g, headerRows))
		if len(cols) != 2 {
			t.Fatalf("expected 2 columns, got %d", len(cols))
		}
		if cols[0].Name != "Attendance" {
			t.Errorf("column 1 = %q, want Attendance", cols[0].Name)
		}
		if cols[1].Name != "Attendance_2" {
			t.Errorf("column 2 = %q, want Attendance_2", cols[1].Name)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		g := mustGrid(t, 3, 3, []grid.Cell{
			{Row: 1, Col: 1, Text: "출석", ColSpan: 3},
			{Row: 2, Col: 1, Text: "1회차"},
			{Row: 2, Col: 2, Text: "2회차"},
			{Row: 2, Col: 3, Text: "3회차"},
		})

		headerRows := []int{1, 2}
		spans := d.ExtractMergeSpans(g, headerRows)
		first := d.SynthesizeColumns(g, headerRows, spans)
		second := d.SynthesizeColumns(g, headerRows, spans)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("repeated synthesis differs:\n%+v\n%+v", first, second)
		}
	})
}

func TestAnalyze(t *testing.T) {
	d := newTestDetector()

	g := mustGrid(t, 4, 6, []grid.Cell{
		{Row: 1, Col: 1, Text: "사업명 : 청년 성장 프로그램"},
		{Row: 2, Col: 1, Text: "연번", RowSpan: 2},
		{Row: 2, Col: 2, Text: "성명", RowSpan: 2},
		{Row: 2, Col: 3, Text: "생년월일", RowSpan: 2},
		{Row: 2, Col: 4, Text: "연락처", RowSpan: 2},
		{Row: 2, Col: 5, Text: "출석", ColSpan: 2},
		{Row: 3, Col: 5, Text: "1회차"},
		{Row: 3, Col: 6, Text: "2회차"},
		{Row: 4, Col: 1, Text: "1"},
		{Row: 4, Col: 2, Text: "홍길동"},
		{Row: 4, Col: 3, Text: "1990-01-01"},
		{Row: 4, Col: 4, Text: "010-1234-5678"},
		{Row: 4, Col: 5, Text: "O"},
		{Row: 4, Col: 6, Text: "X"},
	})

	res := d.Analyze(g)

	if !reflect.DeepEqual(res.MetaRows, []int{1}) {
		t.Errorf("meta rows = %v, want [1]", res.MetaRows)
	}
	if !reflect.DeepEqual(res.HeaderRows, []int{2, 3}) {
		t.Errorf("header rows = %v, want [2 3]", res.HeaderRows)
	}
	if res.DataStartRow != 4 {
		t.Errorf("data start = %d, want 4", res.DataStartRow)
	}

	names := make([]string, 0, len(res.Columns))
	for _, c := range res.Columns {
		names = append(names, c.Name)
	}
	want := []string{"연번", "성명", "생년월일", "연락처", "출석_1회차", "출석_2회차"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("columns = %v, want %v", names, want)
	}

	// Names must be unique.
	seen := make(map[string]bool)
	for _, n := range names {
		if seen[n] {
			t.Errorf("duplicate column name %q", n)
		}
		seen[n] = true
	}
}
