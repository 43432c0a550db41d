package recon

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{
	"Citi Email", "Name", "Month", "Project Code", "Region",
	"Total Hours CG", "Submitted Hours CG", "Status CG",
	"Total Hours CITI", "Submitted Hours CITI", "Status CITI",
	"Expected Hours", "Reconciled Hours", "Reconciled Status", "Reminders",
}

// WriteReportXLSX renders a month's report as a single-sheet workbook.
func WriteReportXLSX(w io.Writer, report *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Report"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, rec := range report.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			rec.CitiEmail, rec.Name, rec.Month, rec.ProjectCode, rec.RegionName,
			rec.TotalHoursCG, rec.SubmittedHoursCG, string(rec.StatusCG),
			rec.TotalHoursCiti, rec.SubmittedHoursCiti, string(rec.StatusCiti),
			rec.ExpectedHours, rec.ReconciledHours, string(rec.ReconciledStatus), rec.Reminders,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f.Write(w)
}
