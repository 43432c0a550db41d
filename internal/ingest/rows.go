package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Row is one tabular record with trimmed column names. Values keep
// their raw string form; parsing happens at the point of use so a bad
// cell only costs its own row.
type Row map[string]string

// Choose returns the first non-empty value among the named columns.
// This is the priority-ordered alias resolution used for every field
// that may arrive under several spellings.
func Choose(row Row, names ...string) string {
	for _, name := range names {
		if v, ok := row[name]; ok {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// Hours parses an hour figure. Empty means zero; anything else must be
// numeric.
func Hours(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hours %q: %w", value, err)
	}
	return f, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"01-02-06",
	"1/2/06",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"02-Jan-2006",
	"02 Jan 2006",
}

// Date parses a cell date, tolerating the formats spreadsheets
// commonly emit.
func Date(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unknown date format: %q", value)
}
