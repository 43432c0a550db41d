package ingest

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, sheets map[string][][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for name, rows := range sheets {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("new sheet %s: %v", name, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		t.Fatalf("delete default sheet: %v", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func TestParseWorkbook(t *testing.T) {
	buf := buildWorkbook(t, map[string][][]interface{}{
		SheetCG: {
			{"Citi Email ", "Month", "Hours", "Project Code"},
			{"a@citi.com", "2025-01", "160", "P1"},
			{"", "", "", ""},
		},
		SheetCiti: {
			{"Citi Email", "Month", "Hours"},
			{"a@citi.com", "2025-01", "158"},
		},
		SheetCGDaily: {
			{"Citi Email", "Date", "Hours", "Project Code"},
			{"a@citi.com", "2025-01-06", "8", "P1"},
			{"a@citi.com", "not-a-date", "8", "P1"},
			{"a@citi.com", "2025-01-07", "eight", "P1"},
		},
		SheetCitiDaily: {
			{"Citi Email", "Date", "Hours"},
			{"a@citi.com", "2025-01-06", "7.5"},
		},
	})

	wb, err := ParseWorkbook(buf)
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if len(wb.CG) != 1 {
		t.Fatalf("expected blank row dropped, got %d CG rows", len(wb.CG))
	}
	if wb.CG[0]["Citi Email"] != "a@citi.com" {
		t.Fatalf("header not trimmed: %v", wb.CG[0])
	}
	if len(wb.CGDaily) != 1 {
		t.Fatalf("expected 1 good daily row, got %d", len(wb.CGDaily))
	}
	if wb.SkippedRows != 2 {
		t.Fatalf("expected 2 skipped rows, got %d", wb.SkippedRows)
	}
	if wb.CGDaily[0].Hours != 8 || wb.CGDaily[0].Date.Day() != 6 {
		t.Fatalf("daily row parsed wrong: %+v", wb.CGDaily[0])
	}
	if len(wb.CitiDaily) != 1 || wb.CitiDaily[0].Hours != 7.5 {
		t.Fatalf("citi daily parsed wrong: %+v", wb.CitiDaily)
	}
}

func TestParseWorkbookMissingSheet(t *testing.T) {
	buf := buildWorkbook(t, map[string][][]interface{}{
		SheetCG:   {{"Citi Email"}, {"a@citi.com"}},
		SheetCiti: {{"Citi Email"}, {"a@citi.com"}},
		SheetCGDaily: {
			{"Citi Email", "Date", "Hours"},
		},
	})

	_, err := ParseWorkbook(buf)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if schemaErr.Sheet != SheetCitiDaily {
		t.Fatalf("wrong sheet in error: %v", schemaErr)
	}
}

func TestParseWorkbookMissingJoinColumn(t *testing.T) {
	buf := buildWorkbook(t, map[string][][]interface{}{
		SheetCG:        {{"Email", "Month"}, {"a@citi.com", "2025-01"}},
		SheetCiti:      {{"Citi Email"}, {"a@citi.com"}},
		SheetCGDaily:   {{"Citi Email", "Date", "Hours"}},
		SheetCitiDaily: {{"Citi Email", "Date", "Hours"}},
	})

	_, err := ParseWorkbook(buf)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if schemaErr.Sheet != SheetCG || schemaErr.Column != ColCitiEmail {
		t.Fatalf("wrong error detail: %v", schemaErr)
	}
}

func TestParseWorkbookMissingJoinColumnNoDataRows(t *testing.T) {
	// A header row without the join column fails even when the sheet
	// carries no data rows at all.
	buf := buildWorkbook(t, map[string][][]interface{}{
		SheetCG:        {{"Email", "Month"}},
		SheetCiti:      {{"Citi Email"}, {"a@citi.com"}},
		SheetCGDaily:   {{"Citi Email", "Date", "Hours"}},
		SheetCitiDaily: {{"Citi Email", "Date", "Hours"}},
	})

	_, err := ParseWorkbook(buf)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if schemaErr.Sheet != SheetCG || schemaErr.Column != ColCitiEmail {
		t.Fatalf("wrong error detail: %v", schemaErr)
	}
}

func TestParseGrid(t *testing.T) {
	buf := buildWorkbook(t, map[string][][]interface{}{
		"Grid": {
			{"Citi Email", "Project Code", "1", "2", "15", "31"},
			{"a@citi.com", "P1", "8", "0", "4.5", "8"},
			{"b@citi.com", "", "", "-1", "8", ""},
		},
	})

	// April has 30 days so the 31 column must be ignored.
	entries, skipped, err := ParseGrid(buf, 2025, 4)
	if err != nil {
		t.Fatalf("ParseGrid: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("expected no skipped rows, got %d", skipped)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d: %+v", len(entries), entries)
	}

	total := 0.0
	for _, e := range entries {
		total += e.Hours
		if e.Date.Year() != 2025 || e.Date.Month() != 4 {
			t.Fatalf("entry outside target month: %+v", e)
		}
		if e.Hours <= 0 {
			t.Fatalf("non-positive hours kept: %+v", e)
		}
	}
	if total != 8+4.5+8 {
		t.Fatalf("unexpected total hours %v", total)
	}
}

func TestParseGridMissingColumn(t *testing.T) {
	buf := buildWorkbook(t, map[string][][]interface{}{
		"Grid": {
			{"Email", "1"},
			{"a@citi.com", "8"},
		},
	})

	_, _, err := ParseGrid(buf, 2025, 1)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}
