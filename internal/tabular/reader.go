// Package tabular reads uploaded spreadsheet workbooks and hands the
// ingestion pipeline an ordered list of column labels plus rows of
// classified cells. Only the Excel formats the tracker accepts as uploads
// are supported.
package tabular

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"matterdesk/api/internal/ingest"
)

var (
	// ErrUnsupportedFile indicates the upload is not an .xlsx/.xlsm workbook.
	ErrUnsupportedFile = errors.New("unsupported file type")
	// ErrSheetNotFound indicates the requested sheet does not exist.
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrEmptySheet indicates the selected sheet has no rows at all.
	ErrEmptySheet = errors.New("worksheet is empty")
)

// Sheet is one worksheet flattened for ingestion: column labels in sheet
// order and data rows aligned to them.
type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]ingest.Cell
}

// preferredSheetNames pick the sheet to import when the caller names none:
// tracker exports usually carry the data on a sheet named like one of these.
var preferredSheetNames = []string{"contract", "matter", "tracker"}

// Read parses a workbook and returns the selected sheet. sheetName may be
// empty; hasHeader controls whether the first row supplies column labels or
// synthetic col_N labels are generated.
func Read(r io.Reader, filename, sheetName string, hasHeader bool) (*Sheet, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".xlsx" && ext != ".xlsm" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	name, err := selectSheet(file, sheetName)
	if err != nil {
		return nil, err
	}

	raw, err := file.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", name, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySheet, name)
	}

	sheet := &Sheet{Name: name}
	dataRows := raw
	if hasHeader {
		for _, label := range raw[0] {
			sheet.Columns = append(sheet.Columns, strings.TrimSpace(label))
		}
		dataRows = raw[1:]
	} else {
		width := 0
		for _, row := range raw {
			if len(row) > width {
				width = len(row)
			}
		}
		for i := 0; i < width; i++ {
			sheet.Columns = append(sheet.Columns, fmt.Sprintf("col_%d", i))
		}
	}

	for _, row := range dataRows {
		cells := make([]ingest.Cell, len(row))
		for i, value := range row {
			cells[i] = classify(value)
		}
		sheet.Rows = append(sheet.Rows, cells)
	}
	return sheet, nil
}

func selectSheet(file *excelize.File, sheetName string) (string, error) {
	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return "", ErrEmptySheet
	}
	if sheetName != "" {
		for _, name := range sheets {
			if strings.EqualFold(name, sheetName) {
				return name, nil
			}
		}
		return "", fmt.Errorf("%w: %s", ErrSheetNotFound, sheetName)
	}
	for _, name := range sheets {
		lower := strings.ToLower(name)
		for _, preferred := range preferredSheetNames {
			if strings.Contains(lower, preferred) {
				return name, nil
			}
		}
	}
	return sheets[0], nil
}

// dateLayouts cover the formatted values excelize produces for date-styled
// cells plus the hand-typed forms seen in tracker exports. Day-first layouts
// come before the Excel default month-first short form.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"01-02-06", // Excel default mm-dd-yy cell style
	"Jan 2, 2006",
	"2 Jan 2006",
	"2006-01-02T15:04:05",
}

// classify decides what kind of cell a formatted value represents. Blank
// beats everything; date layouts beat numbers so "02/01/2006" is a date,
// not arithmetic; anything left is text.
func classify(value string) ingest.Cell {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ingest.Cell{Kind: ingest.CellBlank}
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return ingest.Cell{Kind: ingest.CellDate, Date: parsed.Format("2006-01-02")}
		}
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", ""), 64); err == nil {
		// Keep the raw text too: thousands separators and the like matter to
		// the coercion rules downstream.
		return ingest.Cell{Kind: ingest.CellNumber, Number: f, Text: trimmed}
	}
	return ingest.Cell{Kind: ingest.CellText, Text: trimmed}
}
