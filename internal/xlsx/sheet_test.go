package xlsx

import (
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

// workbookBytes builds a small roster workbook: metadata row, merged header
// block, one data row.
func workbookBytes(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	set := func(cell, value string) {
		if err := f.SetCellValue("Sheet1", cell, value); err != nil {
			t.Fatalf("SetCellValue(%s) error = %v", cell, err)
		}
	}
	set("A1", "사업명 : 청년 성장 프로그램")
	set("A2", "연번")
	set("B2", "성명")
	set("C2", "출석")
	set("A3", "1")
	set("B3", "홍길동")
	set("C3", "O")
	set("D3", "X")

	if err := f.MergeCell("Sheet1", "C2", "D2"); err != nil {
		t.Fatalf("MergeCell() error = %v", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() error = %v", err)
	}
	return buf.Bytes()
}

func TestNewSheetReader(t *testing.T) {
	data := workbookBytes(t)

	t.Run("defaults to first sheet", func(t *testing.T) {
		r, err := NewSheetReader(data, "")
		if err != nil {
			t.Fatalf("NewSheetReader() error = %v", err)
		}
		defer r.Close()

		if r.Sheet() != "Sheet1" {
			t.Errorf("sheet = %q, want Sheet1", r.Sheet())
		}
		rows, cols := r.Bounds()
		if rows != 3 || cols != 4 {
			t.Errorf("bounds = %dx%d, want 3x4", rows, cols)
		}
		if got := r.CellText(3, 2); got != "홍길동" {
			t.Errorf("CellText(3,2) = %q", got)
		}
	})

	t.Run("unknown sheet", func(t *testing.T) {
		_, err := NewSheetReader(data, "없는시트")
		if !errors.Is(err, ErrNoSheet) {
			t.Errorf("error = %v, want ErrNoSheet", err)
		}
	})

	t.Run("garbage bytes", func(t *testing.T) {
		if _, err := NewSheetReader([]byte("not a workbook"), ""); err == nil {
			t.Error("expected error for invalid workbook bytes")
		}
	})
}

func TestSheetGrid(t *testing.T) {
	r, err := NewSheetReader(workbookBytes(t), "")
	if err != nil {
		t.Fatalf("NewSheetReader() error = %v", err)
	}
	defer r.Close()

	g, err := r.Grid()
	if err != nil {
		t.Fatalf("Grid() error = %v", err)
	}

	c, ok := g.CellAt(2, 3)
	if !ok {
		t.Fatal("expected merge anchor at (2,3)")
	}
	if c.ColSpan != 2 {
		t.Errorf("출석 col span = %d, want 2", c.ColSpan)
	}
	// Covered position of the merge is not an independent cell.
	if _, ok := g.CellAt(2, 4); ok {
		t.Error("expected no cell at covered position (2,4)")
	}
	// Sparse grid drops empty cells.
	if _, ok := g.CellAt(1, 2); ok {
		t.Error("expected empty cell (1,2) to be dropped")
	}
}

func TestReadTemplate(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	for cell, value := range map[string]string{
		"A1": "참가 확인서",
		"A2": "성명",
		"A3": "연락처",
	} {
		if err := f.SetCellValue("Sheet1", cell, value); err != nil {
			t.Fatalf("SetCellValue(%s) error = %v", cell, err)
		}
	}
	// Value columns stay empty; pad the used range so they survive.
	if err := f.SetCellValue("Sheet1", "B3", " "); err != nil {
		t.Fatalf("SetCellValue(B3) error = %v", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() error = %v", err)
	}

	g, err := ReadTemplate(buf.Bytes(), "", nil)
	if err != nil {
		t.Fatalf("ReadTemplate() error = %v", err)
	}

	name, ok := g.CellAt(2, 1)
	if !ok {
		t.Fatal("expected label cell at (2,1)")
	}
	if !name.IsHeader {
		t.Error("expected 성명 classified as header")
	}

	// Empty value cells stay addressable in the dense template grid.
	if _, ok := g.CellAt(2, 2); !ok {
		t.Error("expected empty value cell at (2,2)")
	}
}
