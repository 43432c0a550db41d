package ingest

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// GridEntry is one worker-day cell lifted out of a grid upload.
type GridEntry struct {
	CitiEmail   string
	ProjectCode string
	Date        time.Time
	Hours       float64
}

// ParseGrid reads a single-sheet grid upload where each row is a worker
// and numeric column headers 1..31 hold that day's hours. Zero and
// negative cells carry no information and are dropped; day columns past
// the end of the month are ignored.
func ParseGrid(r io.Reader, year, month int) ([]GridEntry, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, missingSheet("grid")
	}
	rows, headers, err := readSheet(f, sheets[0])
	if err != nil {
		return nil, 0, err
	}
	for _, col := range []string{ColCitiEmail, ColProjectCode} {
		if !hasHeader(headers, col) {
			return nil, 0, missingColumn(sheets[0], col)
		}
	}

	daysInMonth := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()

	var entries []GridEntry
	skipped := 0
	for _, row := range rows {
		email := Choose(row, ColCitiEmail)
		if email == "" {
			skipped++
			continue
		}
		code := Choose(row, ColProjectCode)
		for header, cell := range row {
			day, err := strconv.Atoi(header)
			if err != nil || day < 1 || day > 31 {
				continue
			}
			if day > daysInMonth {
				continue
			}
			hours, err := Hours(cell)
			if err != nil {
				skipped++
				continue
			}
			if hours <= 0 {
				continue
			}
			entries = append(entries, GridEntry{
				CitiEmail:   email,
				ProjectCode: code,
				Date:        time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
				Hours:       hours,
			})
		}
	}
	return entries, skipped, nil
}
