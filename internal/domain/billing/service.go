package billing

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"timerecon/internal/domain/calendar"
)

// Storage is the read surface billing needs; *Store satisfies it
// against Postgres.
type Storage interface {
	MonthRows(ctx context.Context, month string) ([]row, error)
	MonthlyTotals(ctx context.Context, projectCode string) ([]MonthTotal, error)
}

type Service struct {
	Store Storage
}

func NewService(store Storage) *Service {
	return &Service{Store: store}
}

// Summarize prices one month. Amounts are computed in fixed-point and
// rounded to cents line by line, so project totals always equal the
// sum of their printed lines.
func (s *Service) Summarize(ctx context.Context, year, month int, projectCode string) (*Summary, error) {
	label := calendar.MonthLabel(year, month)
	rows, err := s.Store.MonthRows(ctx, label)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Year: year, Month: month, Projects: []ProjectTotal{}, Lines: []Line{}}
	byProject := make(map[string]*ProjectTotal)
	totalHours := decimal.Zero
	totalAmount := decimal.Zero

	for _, r := range rows {
		if projectCode != "" && !strings.EqualFold(r.ProjectCode, projectCode) {
			continue
		}
		hours := decimal.NewFromFloat(r.Hours)
		amount := hours.Mul(decimal.NewFromFloat(r.BillingRate)).Round(2)

		summary.Lines = append(summary.Lines, Line{
			CitiEmail:   r.CitiEmail,
			Name:        r.Name,
			ProjectCode: r.ProjectCode,
			Hours:       r.Hours,
			Rate:        r.BillingRate,
			Amount:      amount.InexactFloat64(),
		})

		pt, ok := byProject[r.ProjectCode]
		if !ok {
			pt = &ProjectTotal{ProjectCode: r.ProjectCode, ProjectName: r.ProjectName}
			byProject[r.ProjectCode] = pt
		}
		if pt.ProjectName == "" {
			pt.ProjectName = r.ProjectName
		}
		pt.Workers++
		pt.Hours += r.Hours
		pt.Amount, _ = decimal.NewFromFloat(pt.Amount).Add(amount).Float64()

		totalHours = totalHours.Add(hours)
		totalAmount = totalAmount.Add(amount)
	}

	codes := make([]string, 0, len(byProject))
	for code := range byProject {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		summary.Projects = append(summary.Projects, *byProject[code])
	}

	summary.TotalHours = totalHours.InexactFloat64()
	summary.TotalAmount = totalAmount.Round(2).InexactFloat64()

	totals, err := s.Store.MonthlyTotals(ctx, projectCode)
	if err != nil {
		return nil, err
	}
	values := make([]float64, 0, len(totals))
	labels := make([]string, 0, len(totals))
	for _, mt := range totals {
		labels = append(labels, mt.Month)
		values = append(values, decimal.NewFromFloat(mt.Amount).Round(2).InexactFloat64())
	}
	summary.Trend = Trend{Labels: labels, Values: values}
	summary.AnnualProjection = decimal.NewFromFloat(AnnualProjection(values, summary.TotalAmount)).Round(2).InexactFloat64()

	return summary, nil
}
