package billing

import (
	"context"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WriteStatement renders a month's billing statement as a PDF.
func (s *Service) WriteStatement(ctx context.Context, w io.Writer, year, month int, projectCode string) error {
	summary, err := s.Summarize(ctx, year, month, projectCode)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Billing Statement")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %04d-%02d", year, month))
	pdf.Ln(7)
	if projectCode != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Project: %s", projectCode))
		pdf.Ln(7)
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(45, 8, "Project", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Workers", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Hours", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, pt := range summary.Projects {
		pdf.CellFormat(45, 8, pt.ProjectCode, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", pt.Workers), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", pt.Hours), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", pt.Amount), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(100, 8, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", summary.TotalAmount), "1", 1, "R", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Projected annual run rate: %.2f", summary.AnnualProjection))

	return pdf.Output(w)
}
