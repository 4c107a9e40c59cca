package tabular

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"matterdesk/api/internal/ingest"
)

func buildWorkbook(t *testing.T, sheet string, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func TestReadWithHeader(t *testing.T) {
	buf := buildWorkbook(t, "Contracts", [][]any{
		{"Reference", "Received", "Vendor", "Cycle Time"},
		{"M-1", "2024-01-02", "Acme Ltd", 12},
	})

	sheet, err := Read(buf, "upload.xlsx", "", true)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if sheet.Name != "Contracts" {
		t.Errorf("sheet = %q", sheet.Name)
	}
	wantCols := []string{"Reference", "Received", "Vendor", "Cycle Time"}
	if len(sheet.Columns) != len(wantCols) {
		t.Fatalf("columns = %v", sheet.Columns)
	}
	for i, c := range wantCols {
		if sheet.Columns[i] != c {
			t.Errorf("column %d = %q, want %q", i, sheet.Columns[i], c)
		}
	}
	if len(sheet.Rows) != 1 {
		t.Fatalf("rows = %d", len(sheet.Rows))
	}
	row := sheet.Rows[0]
	if row[0].Kind != ingest.CellText || row[0].Text != "M-1" {
		t.Errorf("ref cell = %+v", row[0])
	}
	if row[1].Kind != ingest.CellDate || row[1].Date != "2024-01-02" {
		t.Errorf("date cell = %+v", row[1])
	}
	if row[3].Kind != ingest.CellNumber || row[3].Number != 12 {
		t.Errorf("number cell = %+v", row[3])
	}
}

func TestReadHeaderless(t *testing.T) {
	buf := buildWorkbook(t, "Sheet", [][]any{
		{"M-1", "Acme"},
		{"M-2", "Zeta"},
	})

	sheet, err := Read(buf, "upload.xlsx", "", false)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(sheet.Columns) != 2 || sheet.Columns[0] != "col_0" || sheet.Columns[1] != "col_1" {
		t.Errorf("columns = %v", sheet.Columns)
	}
	if len(sheet.Rows) != 2 {
		t.Errorf("rows = %d", len(sheet.Rows))
	}
}

func TestReadPrefersTrackerLikeSheet(t *testing.T) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if _, err := f.NewSheet("Matter Tracker"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	if err := f.SetCellValue("Matter Tracker", "A1", "Ref"); err != nil {
		t.Fatalf("set cell: %v", err)
	}
	if err := f.SetCellValue("Sheet1", "A1", "Nope"); err != nil {
		t.Fatalf("set cell: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	sheet, err := Read(buf, "upload.xlsx", "", true)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if sheet.Name != "Matter Tracker" {
		t.Errorf("picked sheet %q, want Matter Tracker", sheet.Name)
	}
}

func TestReadNamedSheet(t *testing.T) {
	buf := buildWorkbook(t, "Legacy", [][]any{{"Ref"}, {"M-1"}})

	if _, err := Read(bytes.NewReader(buf.Bytes()), "u.xlsx", "legacy", true); err != nil {
		t.Errorf("case-insensitive sheet lookup failed: %v", err)
	}
	if _, err := Read(bytes.NewReader(buf.Bytes()), "u.xlsx", "Missing", true); err == nil {
		t.Error("expected error for missing sheet")
	}
}

func TestReadRejectsUnsupportedExtension(t *testing.T) {
	_, err := Read(strings.NewReader("csv,data"), "upload.csv", "", true)
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("err = %v, want unsupported file type", err)
	}
}

func TestReadCorruptWorkbook(t *testing.T) {
	_, err := Read(strings.NewReader("this is not a zip archive"), "upload.xlsx", "", true)
	if err == nil {
		t.Error("expected error for corrupt workbook")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		in   string
		kind ingest.CellKind
	}{
		{"", ingest.CellBlank},
		{"   ", ingest.CellBlank},
		{"2024-01-02", ingest.CellDate},
		{"02/01/2024", ingest.CellDate},
		{"12", ingest.CellNumber},
		{"1,234", ingest.CellNumber},
		{"12.5", ingest.CellNumber},
		{"Acme Ltd", ingest.CellText},
	}
	for _, tc := range cases {
		if got := classify(tc.in); got.Kind != tc.kind {
			t.Errorf("classify(%q).Kind = %v, want %v", tc.in, got.Kind, tc.kind)
		}
	}
}
