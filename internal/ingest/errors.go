package ingest

import "fmt"

// SchemaError rejects a whole upload before any writes: a required
// sheet or column is missing. Per-row data problems are never
// SchemaErrors; those rows are skipped individually.
type SchemaError struct {
	Sheet  string
	Column string
}

func (e *SchemaError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("missing required sheet %q", e.Sheet)
	}
	return fmt.Sprintf("sheet %q is missing required column %q", e.Sheet, e.Column)
}

func missingSheet(sheet string) error {
	return &SchemaError{Sheet: sheet}
}

func missingColumn(sheet, column string) error {
	return &SchemaError{Sheet: sheet, Column: column}
}
