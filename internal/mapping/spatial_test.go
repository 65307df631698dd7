package mapping

import (
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

// testTemplate is a small attendance-report template: labels in column 1,
// empty value cells in column 2.
func testTemplate(t *testing.T) *grid.Grid {
	t.Helper()
	return mustGrid(t, 5, 4, []grid.Cell{
		{Row: 1, Col: 1, Text: "참가 확인서"},
		{Row: 2, Col: 1, Text: "성명", IsHeader: true},
		{Row: 2, Col: 2, Text: ""},
		{Row: 3, Col: 1, Text: "생년월일", IsHeader: true},
		{Row: 3, Col: 2, Text: ""},
		{Row: 4, Col: 1, Text: "연락처", IsHeader: true},
		{Row: 4, Col: 2, Text: ""},
		{Row: 5, Col: 1, Text: "주소", IsHeader: true},
		{Row: 5, Col: 2, Text: ""},
	})
}

func TestSpatialMatcher(t *testing.T) {
	t.Run("exact label match", func(t *testing.T) {
		m := NewSpatialMatcher(SpatialOptions{DocumentTitle: "참가 확인서"}, nil)
		got := m.Match(testTemplate(t), []string{"성명", "연락처"})

		if len(got) != 2 {
			t.Fatalf("expected 2 candidates, got %d: %+v", len(got), got)
		}
		if got[0].TargetRow != 2 || got[0].TargetCol != 2 {
			t.Errorf("성명 target = (%d,%d), want (2,2)", got[0].TargetRow, got[0].TargetCol)
		}
		if got[0].Confidence != 0.95 {
			t.Errorf("exact confidence = %v, want 0.95", got[0].Confidence)
		}
		if got[0].Origin != OriginRule {
			t.Errorf("origin = %v, want rule", got[0].Origin)
		}
		if got[1].TargetRow != 4 || got[1].TargetCol != 2 {
			t.Errorf("연락처 target = (%d,%d), want (4,2)", got[1].TargetRow, got[1].TargetCol)
		}
	})

	t.Run("containment match", func(t *testing.T) {
		m := NewSpatialMatcher(SpatialOptions{}, nil)
		got := m.Match(testTemplate(t), []string{"참가자 성명"})

		if len(got) != 1 {
			t.Fatalf("expected 1 candidate, got %d", len(got))
		}
		if got[0].Confidence != 0.85 {
			t.Errorf("containment confidence = %v, want 0.85", got[0].Confidence)
		}
		if got[0].LabelText != "성명" {
			t.Errorf("label = %q, want 성명", got[0].LabelText)
		}
	})

	t.Run("override claims column and cell first", func(t *testing.T) {
		m := NewSpatialMatcher(SpatialOptions{
			Overrides: []Override{{SourcePattern: "출석", Row: 3, Col: 4}},
		}, nil)
		got := m.Match(testTemplate(t), []string{"출석_1회차"})

		if len(got) != 1 {
			t.Fatalf("expected 1 candidate, got %d", len(got))
		}
		if got[0].TargetRow != 3 || got[0].TargetCol != 4 {
			t.Errorf("target = (%d,%d), want (3,4)", got[0].TargetRow, got[0].TargetCol)
		}
		if got[0].Confidence != 0.98 {
			t.Errorf("override confidence = %v, want 0.98", got[0].Confidence)
		}
	})

	t.Run("label claimed at most once", func(t *testing.T) {
		m := NewSpatialMatcher(SpatialOptions{}, nil)
		got := m.Match(testTemplate(t), []string{"성명", "담당자 성명"})

		if len(got) != 1 {
			t.Fatalf("expected 1 candidate, got %d: %+v", len(got), got)
		}
		if got[0].SourceColumn != "성명" {
			t.Errorf("matched column = %q, want 성명", got[0].SourceColumn)
		}
	})

	t.Run("data cell beyond label col span", func(t *testing.T) {
		tmpl := mustGrid(t, 1, 4, []grid.Cell{
			{Row: 1, Col: 1, Text: "성명", IsHeader: true, ColSpan: 2},
			{Row: 1, Col: 3, Text: ""},
		})
		m := NewSpatialMatcher(SpatialOptions{}, nil)
		got := m.Match(tmpl, []string{"성명"})

		if len(got) != 1 {
			t.Fatalf("expected 1 candidate, got %d", len(got))
		}
		if got[0].TargetRow != 1 || got[0].TargetCol != 3 {
			t.Errorf("target = (%d,%d), want (1,3)", got[0].TargetRow, got[0].TargetCol)
		}
	})

	t.Run("data cell below label", func(t *testing.T) {
		tmpl := mustGrid(t, 3, 1, []grid.Cell{
			{Row: 1, Col: 1, Text: "주소", IsHeader: true},
			{Row: 3, Col: 1, Text: ""},
		})
		m := NewSpatialMatcher(SpatialOptions{}, nil)
		got := m.Match(tmpl, []string{"주소"})

		if len(got) != 1 {
			t.Fatalf("expected 1 candidate, got %d", len(got))
		}
		if got[0].TargetRow != 3 || got[0].TargetCol != 1 {
			t.Errorf("target = (%d,%d), want (3,1)", got[0].TargetRow, got[0].TargetCol)
		}
	})

	t.Run("section headings are not labels", func(t *testing.T) {
		tmpl := mustGrid(t, 1, 2, []grid.Cell{
			{Row: 1, Col: 1, Text: "1. 인적사항", IsHeader: true},
			{Row: 1, Col: 2, Text: ""},
		})
		m := NewSpatialMatcher(SpatialOptions{}, nil)
		got := m.Match(tmpl, []string{"인적사항"})

		if len(got) != 0 {
			t.Errorf("expected no candidates for section heading, got %+v", got)
		}
	})

	t.Run("unmatched column yields nothing", func(t *testing.T) {
		m := NewSpatialMatcher(SpatialOptions{}, nil)
		got := m.Match(testTemplate(t), []string{"출석_1회차"})
		if len(got) != 0 {
			t.Errorf("expected no candidates, got %+v", got)
		}
	})
}
