package recon

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"timerecon/internal/domain/calendar"
	"timerecon/internal/domain/leave"
	"timerecon/internal/domain/worker"
	"timerecon/internal/ingest"
)

// Storage is the persistence surface the reconciliation service needs.
// *Store satisfies it against Postgres.
type Storage interface {
	ReplaceMonthRecords(ctx context.Context, month string, records []Record) error
	ReplaceDailyMonth(ctx context.Context, month string, cg, citi []DailyEntry) error
	ReplaceDailySource(ctx context.Context, source Source, month string, entries []DailyEntry) error
	RecordsForMonth(ctx context.Context, month string) ([]Record, error)
	RecordFor(ctx context.Context, citiEmail, month string) (*Record, error)
	ProjectsForMonth(ctx context.Context, month string) ([]string, error)
	Months(ctx context.Context) ([]string, error)
	DailyForWorker(ctx context.Context, source Source, citiEmail, month string) ([]DailyEntry, error)
	IncrementReminders(ctx context.Context, month string, targets []string, status Status) ([]ReminderTarget, error)
}

// LeaveHours supplies approved leave for a worker-month so expectation
// can be reduced before status is judged.
type LeaveHours interface {
	ApprovedLeaveHours(ctx context.Context, citiEmail string, year, month int) (float64, error)
}

// WorkerSync refreshes worker profiles from ingested rows.
type WorkerSync interface {
	Sync(ctx context.Context, upserts []worker.Upsert) error
}

// IngestMetrics counts ingestion runs and their skipped rows.
type IngestMetrics interface {
	RecordIngest(skipped int)
}

// Notifier delivers reminder nudges. The zero value (nil) disables
// delivery; counters still advance.
type Notifier interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Service struct {
	Store    Storage
	Leave    LeaveHours
	Workers  WorkerSync
	Metrics  IngestMetrics
	Mailer   Notifier
	MailFrom string
}

func NewService(store Storage, leaveHours LeaveHours, workers WorkerSync, m IngestMetrics) *Service {
	return &Service{Store: store, Leave: leaveHours, Workers: workers, Metrics: m}
}

// IngestWorkbook runs the full reconciliation pipeline on a four-sheet
// upload: merge the monthly feeds, score every worker-month, replace
// each affected month's records and daily rows, and refresh worker
// profiles. Months not present in the upload are untouched.
func (s *Service) IngestWorkbook(ctx context.Context, r io.Reader) (*IngestSummary, error) {
	wb, err := ingest.ParseWorkbook(r)
	if err != nil {
		return nil, err
	}
	merged := ingest.MergeMonthly(wb.CG, wb.Citi)

	skipped := wb.SkippedRows
	byMonth := make(map[string][]Record)
	codeByKey := make(map[string]string)
	var upserts []worker.Upsert

	for _, row := range merged {
		email := ingest.CitiEmail(row)
		monthLabel := ingest.Choose(row, ingest.ColMonth)
		if email == "" || monthLabel == "" {
			skipped++
			continue
		}
		year, month, err := calendar.ParseMonthLabel(monthLabel)
		if err != nil {
			slog.Warn("skipping row with bad month", "month", monthLabel, "email", email)
			skipped++
			continue
		}

		rec, err := recordFromRow(row, email, monthLabel)
		if err != nil {
			slog.Warn("skipping unparsable row", "email", email, "month", monthLabel, "err", err)
			skipped++
			continue
		}

		leaveHours, err := s.Leave.ApprovedLeaveHours(ctx, email, year, month)
		if err != nil {
			return nil, fmt.Errorf("leave hours for %s %s: %w", email, monthLabel, err)
		}
		scoreRecord(&rec, year, month, leaveHours)

		byMonth[monthLabel] = append(byMonth[monthLabel], rec)
		if rec.ProjectCode != ProjectUnknown {
			codeByKey[email+"|"+monthLabel] = rec.ProjectCode
		}
		upserts = append(upserts, worker.Upsert{
			EmployeeID:  rec.EmployeeID,
			Name:        rec.Name,
			CGEmail:     rec.CGEmail,
			CitiEmail:   rec.CitiEmail,
			RegionCode:  rec.RegionCode,
			RegionName:  rec.RegionName,
			ProjectCode: rec.ProjectCode,
			BillingRate: rec.BillingRate,
		})
	}

	months := sortedKeys(byMonth)
	total := 0
	for _, month := range months {
		if err := s.Store.ReplaceMonthRecords(ctx, month, byMonth[month]); err != nil {
			return nil, err
		}
		total += len(byMonth[month])
	}

	if len(upserts) > 0 {
		if err := s.Workers.Sync(ctx, upserts); err != nil {
			return nil, fmt.Errorf("sync workers: %w", err)
		}
	}

	dailyRows, dailyMonths, err := s.replaceDaily(ctx, wb, codeByKey)
	if err != nil {
		return nil, err
	}
	for _, month := range dailyMonths {
		if !contains(months, month) {
			months = append(months, month)
		}
	}
	sort.Strings(months)

	if s.Metrics != nil {
		s.Metrics.RecordIngest(skipped)
	}
	return &IngestSummary{
		BatchID:     uuid.NewString(),
		Months:      months,
		Records:     total,
		DailyRows:   dailyRows,
		SkippedRows: skipped,
	}, nil
}

// recordFromRow lifts the raw merged columns into a typed record. Only
// parsing happens here; scoring is a separate step.
func recordFromRow(row ingest.Row, email, monthLabel string) (Record, error) {
	totalCG, err := ingest.Hours(ingest.TotalHoursCG(row))
	if err != nil {
		return Record{}, err
	}
	subCG, err := ingest.Hours(ingest.SubmittedHoursCG(row))
	if err != nil {
		return Record{}, err
	}
	totalCiti, err := ingest.Hours(ingest.TotalHoursCiti(row))
	if err != nil {
		return Record{}, err
	}
	subCiti, err := ingest.Hours(ingest.SubmittedHoursCiti(row))
	if err != nil {
		return Record{}, err
	}
	rate, err := ingest.Hours(ingest.BillingRate(row))
	if err != nil {
		rate = 0
	}

	code := ingest.ProjectCode(row)
	if code == "" {
		code = ProjectUnknown
	}

	return Record{
		EmployeeID:         ingest.EmployeeID(row),
		Month:              monthLabel,
		Name:               ingest.Name(row),
		CGEmail:            ingest.CGEmail(row),
		CitiEmail:          email,
		RegionCode:         ingest.RegionCode(row),
		RegionName:         ingest.RegionName(row),
		ProjectName:        ingest.ProjectName(row),
		ProjectCode:        code,
		BillingRate:        rate,
		TotalHoursCG:       totalCG,
		SubmittedHoursCG:   subCG,
		SubmittedOnCG:      ingest.SubmittedOnCG(row),
		TotalHoursCiti:     totalCiti,
		SubmittedHoursCiti: subCiti,
		Holidays:           ingest.Holidays(row),
	}, nil
}

// scoreRecord fills in the derived fields: leave-adjusted expectation,
// per-source statuses, and the reconciled verdict.
func scoreRecord(rec *Record, year, month int, leaveHours float64) {
	raw := calendar.ExpectedHours(year, month, rec.Holidays)
	effective := leave.EffectiveExpectedHours(raw, leaveHours)
	rec.ExpectedHours = effective
	rec.StatusCG = StatusFrom(sourceTarget(rec.TotalHoursCG, effective), rec.SubmittedHoursCG)
	rec.StatusCiti = StatusFrom(sourceTarget(rec.TotalHoursCiti, effective), rec.SubmittedHoursCiti)
	rec.ReconciledHours, rec.ReconciledStatus = Reconcile(
		rec.StatusCG, rec.StatusCiti, rec.SubmittedHoursCG, rec.SubmittedHoursCiti, effective)
}

// replaceDaily resolves a project code for every daily row and swaps
// each affected month's rows for both sources.
func (s *Service) replaceDaily(ctx context.Context, wb *ingest.Workbook, codeByKey map[string]string) (int, []string, error) {
	cgByMonth := make(map[string][]DailyEntry)
	citiByMonth := make(map[string][]DailyEntry)

	add := func(dst map[string][]DailyEntry, d ingest.DailyRow) {
		monthLabel := calendar.MonthLabel(d.Date.Year(), int(d.Date.Month()))
		dst[monthLabel] = append(dst[monthLabel], DailyEntry{
			CitiEmail:   d.CitiEmail,
			Date:        d.Date,
			Hours:       d.Hours,
			ProjectCode: s.resolveDailyCode(ctx, d, monthLabel, codeByKey),
		})
	}
	for _, d := range wb.CGDaily {
		add(cgByMonth, d)
	}
	for _, d := range wb.CitiDaily {
		add(citiByMonth, d)
	}

	monthSet := make(map[string]bool)
	for month := range cgByMonth {
		monthSet[month] = true
	}
	for month := range citiByMonth {
		monthSet[month] = true
	}

	total := 0
	var months []string
	for month := range monthSet {
		months = append(months, month)
	}
	sort.Strings(months)
	for _, month := range months {
		if err := s.Store.ReplaceDailyMonth(ctx, month, cgByMonth[month], citiByMonth[month]); err != nil {
			return 0, nil, err
		}
		total += len(cgByMonth[month]) + len(citiByMonth[month])
	}
	return total, months, nil
}

// resolveDailyCode walks the fallback chain: the row's own columns,
// this run's monthly records, then the stored record for that
// worker-month.
func (s *Service) resolveDailyCode(ctx context.Context, d ingest.DailyRow, monthLabel string, codeByKey map[string]string) string {
	return ingest.ResolveCode(ProjectUnknown,
		func() (string, bool) {
			code := ingest.DailyProjectCode(d.Raw)
			return code, code != ""
		},
		func() (string, bool) {
			code := codeByKey[d.CitiEmail+"|"+monthLabel]
			return code, code != ""
		},
		func() (string, bool) {
			rec, err := s.Store.RecordFor(ctx, d.CitiEmail, monthLabel)
			if err != nil {
				return "", false
			}
			return rec.ProjectCode, rec.ProjectCode != "" && rec.ProjectCode != ProjectUnknown
		},
	)
}

// IngestGrid loads a single-source day-grid upload for one month.
func (s *Service) IngestGrid(ctx context.Context, r io.Reader, source Source, year, month int) (*IngestSummary, error) {
	entries, skipped, err := ingest.ParseGrid(r, year, month)
	if err != nil {
		return nil, err
	}
	label := calendar.MonthLabel(year, month)

	daily := make([]DailyEntry, 0, len(entries))
	for _, e := range entries {
		code := e.ProjectCode
		if code == "" {
			if rec, err := s.Store.RecordFor(ctx, e.CitiEmail, label); err == nil &&
				rec.ProjectCode != "" && rec.ProjectCode != ProjectUnknown {
				code = rec.ProjectCode
			} else {
				code = ProjectUnknown
			}
		}
		daily = append(daily, DailyEntry{
			CitiEmail:   e.CitiEmail,
			Date:        e.Date,
			Hours:       e.Hours,
			ProjectCode: code,
		})
	}

	if err := s.Store.ReplaceDailySource(ctx, source, label, daily); err != nil {
		return nil, err
	}
	if s.Metrics != nil {
		s.Metrics.RecordIngest(skipped)
	}
	return &IngestSummary{
		BatchID:     uuid.NewString(),
		Months:      []string{label},
		DailyRows:   len(daily),
		SkippedRows: skipped,
	}, nil
}

// Report returns a month's records with rolled-up status counts.
// Status and project filters narrow both the records and the counts.
func (s *Service) Report(ctx context.Context, year, month int, status Status, projectCode string) (*Report, error) {
	label := calendar.MonthLabel(year, month)
	records, err := s.Store.RecordsForMonth(ctx, label)
	if err != nil {
		return nil, err
	}

	filtered := records[:0:0]
	for _, rec := range records {
		if status != "" && rec.ReconciledStatus != status {
			continue
		}
		if projectCode != "" && !strings.EqualFold(rec.ProjectCode, projectCode) {
			continue
		}
		filtered = append(filtered, rec)
	}

	report := &Report{Year: year, Month: month, Records: filtered}
	report.Summary.Total = len(filtered)
	for _, rec := range filtered {
		switch rec.ReconciledStatus {
		case StatusCompleted:
			report.Summary.Completed++
		case StatusPartial:
			report.Summary.Partial++
		case StatusMismatch:
			report.Summary.Mismatch++
		default:
			report.Summary.NotCompleted++
		}
	}
	return report, nil
}

// Daily lines up one worker's day-by-day submissions from both sources
// over a month.
func (s *Service) Daily(ctx context.Context, citiEmail string, year, month int) (*DailyDetail, error) {
	label := calendar.MonthLabel(year, month)
	cg, err := s.Store.DailyForWorker(ctx, SourceCG, citiEmail, label)
	if err != nil {
		return nil, err
	}
	citi, err := s.Store.DailyForWorker(ctx, SourceCiti, citiEmail, label)
	if err != nil {
		return nil, err
	}

	cgByDate := sumByDate(cg)
	citiByDate := sumByDate(citi)

	// Every calendar day of the month appears, with zeros where neither
	// source has an entry, so the result reads as a full month grid.
	first, last := calendar.MonthRange(year, month)
	detail := &DailyDetail{CitiEmail: citiEmail, Items: []DailyDiff{}}
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		d := day.Format(time.DateOnly)
		detail.Items = append(detail.Items, DailyDiff{
			Date:      d,
			HoursCG:   cgByDate[d],
			HoursCiti: citiByDate[d],
			Diff:      cgByDate[d] - citiByDate[d],
		})
	}
	return detail, nil
}

func sumByDate(entries []DailyEntry) map[string]float64 {
	out := make(map[string]float64, len(entries))
	for _, e := range entries {
		out[e.Date.Format(time.DateOnly)] += e.Hours
	}
	return out
}

// TriggerReminders bumps the reminder counter for the named workers,
// for a status class, or for every non-completed record in the month,
// and emails each affected worker when a mailer is configured. A failed
// send never rolls the counter back.
func (s *Service) TriggerReminders(ctx context.Context, year, month int, targetIDs []string, status Status) ([]ReminderTarget, error) {
	label := calendar.MonthLabel(year, month)
	targets, err := s.Store.IncrementReminders(ctx, label, targetIDs, status)
	if err != nil {
		return nil, err
	}
	if s.Mailer != nil {
		for _, t := range targets {
			subject := fmt.Sprintf("Timesheet reminder for %s", t.Month)
			body := fmt.Sprintf("Hi %s,\n\nYour timesheet for %s is not fully submitted. Please complete it.\n", t.Name, t.Month)
			if err := s.Mailer.Send(ctx, s.MailFrom, t.CitiEmail, subject, body); err != nil {
				slog.Warn("reminder email failed", "email", t.CitiEmail, "err", err)
			}
		}
	}
	return targets, nil
}

// Projects lists the distinct project codes active in a month.
func (s *Service) Projects(ctx context.Context, year, month int) ([]string, error) {
	return s.Store.ProjectsForMonth(ctx, calendar.MonthLabel(year, month))
}

// Months lists every month with reconciled data, oldest first.
func (s *Service) Months(ctx context.Context) ([]string, error) {
	return s.Store.Months(ctx)
}

func sortedKeys(m map[string][]Record) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
