package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	SheetCG        = "CG"
	SheetCiti      = "CITI"
	SheetCGDaily   = "CG_DAILY"
	SheetCitiDaily = "CITI_DAILY"
)

// DailyRow is one parsed daily-sheet row. The raw Row rides along so
// project-code resolution can consult its columns later.
type DailyRow struct {
	CitiEmail string
	Date      time.Time
	Hours     float64
	Raw       Row
}

// Workbook is a fully parsed upload: the two monthly feeds plus the
// two daily feeds, with per-row failures already counted and dropped.
type Workbook struct {
	CG          []Row
	Citi        []Row
	CGDaily     []DailyRow
	CitiDaily   []DailyRow
	SkippedRows int
}

// ParseWorkbook reads a four-sheet xlsx upload. A missing sheet or a
// monthly sheet without the join column rejects the whole upload;
// malformed daily rows are skipped one by one.
func ParseWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	for _, sheet := range []string{SheetCG, SheetCiti, SheetCGDaily, SheetCitiDaily} {
		if !sheetExists(f, sheet) {
			return nil, missingSheet(sheet)
		}
	}

	wb := &Workbook{}

	var cgHeaders, citiHeaders []string
	if wb.CG, cgHeaders, err = readSheet(f, SheetCG); err != nil {
		return nil, err
	}
	if wb.Citi, citiHeaders, err = readSheet(f, SheetCiti); err != nil {
		return nil, err
	}
	// The join column is checked on the header row itself; a monthly
	// sheet without it is rejected even when it carries no data rows.
	if !hasHeader(cgHeaders, ColCitiEmail) {
		return nil, missingColumn(SheetCG, ColCitiEmail)
	}
	if !hasHeader(citiHeaders, ColCitiEmail) {
		return nil, missingColumn(SheetCiti, ColCitiEmail)
	}

	if wb.CGDaily, wb.SkippedRows, err = readDailySheet(f, SheetCGDaily, wb.SkippedRows); err != nil {
		return nil, err
	}
	if wb.CitiDaily, wb.SkippedRows, err = readDailySheet(f, SheetCitiDaily, wb.SkippedRows); err != nil {
		return nil, err
	}

	return wb, nil
}

func sheetExists(f *excelize.File, name string) bool {
	for _, sheet := range f.GetSheetList() {
		if sheet == name {
			return true
		}
	}
	return false
}

// readSheet turns a sheet into rows keyed by trimmed header names and
// returns the header row alongside.
func readSheet(f *excelize.File, sheet string) ([]Row, []string, error) {
	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(cells) == 0 {
		return nil, nil, nil
	}

	headers := make([]string, len(cells[0]))
	for i, h := range cells[0] {
		headers[i] = strings.TrimSpace(h)
	}

	var rows []Row
	for _, line := range cells[1:] {
		row := make(Row, len(headers))
		empty := true
		for i, header := range headers {
			if header == "" {
				continue
			}
			value := ""
			if i < len(line) {
				value = line[i]
			}
			row[header] = value
			if strings.TrimSpace(value) != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, headers, nil
}

func readDailySheet(f *excelize.File, sheet string, skipped int) ([]DailyRow, int, error) {
	rows, headers, err := readSheet(f, sheet)
	if err != nil {
		return nil, skipped, err
	}
	for _, col := range []string{ColCitiEmail, ColDateHeader, ColHoursHeader} {
		if !hasHeader(headers, col) {
			return nil, skipped, missingColumn(sheet, col)
		}
	}

	var out []DailyRow
	for i, row := range rows {
		email := Choose(row, ColCitiEmail)
		if email == "" {
			skipped++
			continue
		}
		date, err := Date(row[ColDateHeader])
		if err != nil {
			slog.Warn("skipping daily row", "sheet", sheet, "row", i+2, "err", err)
			skipped++
			continue
		}
		hours, err := Hours(row[ColHoursHeader])
		if err != nil {
			slog.Warn("skipping daily row", "sheet", sheet, "row", i+2, "err", err)
			skipped++
			continue
		}
		out = append(out, DailyRow{CitiEmail: email, Date: date, Hours: hours, Raw: row})
	}
	return out, skipped, nil
}

func hasHeader(headers []string, col string) bool {
	for _, h := range headers {
		if h == col {
			return true
		}
	}
	return false
}
