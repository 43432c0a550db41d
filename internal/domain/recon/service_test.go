package recon

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"timerecon/internal/domain/worker"
)

type fakeStorage struct {
	Storage
	records map[string][]Record
	cg      map[string][]DailyEntry
	citi    map[string][]DailyEntry
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		records: make(map[string][]Record),
		cg:      make(map[string][]DailyEntry),
		citi:    make(map[string][]DailyEntry),
	}
}

func (f *fakeStorage) ReplaceMonthRecords(_ context.Context, month string, records []Record) error {
	f.records[month] = records
	return nil
}

func (f *fakeStorage) ReplaceDailyMonth(_ context.Context, month string, cg, citi []DailyEntry) error {
	f.cg[month] = cg
	f.citi[month] = citi
	return nil
}

func (f *fakeStorage) ReplaceDailySource(_ context.Context, source Source, month string, entries []DailyEntry) error {
	if source == SourceCG {
		f.cg[month] = entries
	} else {
		f.citi[month] = entries
	}
	return nil
}

func (f *fakeStorage) RecordsForMonth(_ context.Context, month string) ([]Record, error) {
	return f.records[month], nil
}

func (f *fakeStorage) RecordFor(_ context.Context, citiEmail, month string) (*Record, error) {
	for _, rec := range f.records[month] {
		if rec.CitiEmail == citiEmail {
			return &rec, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (f *fakeStorage) DailyForWorker(_ context.Context, source Source, citiEmail, month string) ([]DailyEntry, error) {
	src := f.cg[month]
	if source == SourceCiti {
		src = f.citi[month]
	}
	var out []DailyEntry
	for _, e := range src {
		if e.CitiEmail == citiEmail {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeLeave map[string]float64

func (f fakeLeave) ApprovedLeaveHours(_ context.Context, citiEmail string, _, _ int) (float64, error) {
	return f[citiEmail], nil
}

type fakeWorkers struct {
	upserts []worker.Upsert
}

func (f *fakeWorkers) Sync(_ context.Context, upserts []worker.Upsert) error {
	f.upserts = append(f.upserts, upserts...)
	return nil
}

func (f *fakeStorage) IncrementReminders(_ context.Context, month string, targets []string, status Status) ([]ReminderTarget, error) {
	var out []ReminderTarget
	records := f.records[month]
	for i := range records {
		rec := &records[i]
		match := false
		switch {
		case len(targets) > 0:
			for _, id := range targets {
				if rec.EmployeeID == id || rec.CitiEmail == id {
					match = true
				}
			}
		case status != "":
			match = rec.ReconciledStatus == status
		default:
			match = rec.ReconciledStatus != StatusCompleted
		}
		if !match {
			continue
		}
		rec.Reminders++
		out = append(out, ReminderTarget{CitiEmail: rec.CitiEmail, Name: rec.Name, Month: month, Reminders: rec.Reminders})
	}
	return out, nil
}

type sentMail struct {
	to      string
	subject string
}

type fakeMailer struct {
	sent []sentMail
}

func (f *fakeMailer) Send(_ context.Context, _, to, subject, _ string) error {
	f.sent = append(f.sent, sentMail{to: to, subject: subject})
	return nil
}

func uploadWorkbook(t *testing.T) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheets := map[string][][]interface{}{
		"CG": {
			{"Citi Email", "Month", "ID", "Name", "Total Hours", "Submitted Hours", "Project Code", "Billing Rate"},
			{"a@citi.com", "2025-01", "E1", "Ada", "184", "184", "P1", "95"},
			{"b@citi.com", "2025-01", "E2", "Bob", "184", "40", "", ""},
		},
		"CITI": {
			{"Citi Email", "Month", "Total Hours", "Submitted Hours", "Holidays"},
			{"a@citi.com", "2025-01", "184", "184", ""},
			{"b@citi.com", "2025-01", "184", "120", ""},
		},
		"CG_DAILY": {
			{"Citi Email", "Date", "Hours"},
			{"a@citi.com", "2025-01-06", "8"},
			{"a@citi.com", "2025-01-07", "8"},
		},
		"CITI_DAILY": {
			{"Citi Email", "Date", "Hours", "Project Code"},
			{"a@citi.com", "2025-01-06", "7.5", "P9"},
		},
	}
	for name, rows := range sheets {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
		for i, row := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		t.Fatalf("delete sheet: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	return buf
}

func TestIngestWorkbook(t *testing.T) {
	store := newFakeStorage()
	workers := &fakeWorkers{}
	svc := NewService(store, fakeLeave{}, workers, nil)

	summary, err := svc.IngestWorkbook(context.Background(), uploadWorkbook(t))
	if err != nil {
		t.Fatalf("IngestWorkbook: %v", err)
	}

	if summary.Records != 2 {
		t.Fatalf("expected 2 records, got %d", summary.Records)
	}
	if len(summary.Months) != 1 || summary.Months[0] != "2025-01" {
		t.Fatalf("unexpected months %v", summary.Months)
	}
	if summary.DailyRows != 3 {
		t.Fatalf("expected 3 daily rows, got %d", summary.DailyRows)
	}
	if summary.BatchID == "" {
		t.Fatal("missing batch id")
	}

	// Re-ingesting the same workbook replaces the month wholesale.
	if _, err := svc.IngestWorkbook(context.Background(), uploadWorkbook(t)); err != nil {
		t.Fatalf("IngestWorkbook again: %v", err)
	}

	records := store.records["2025-01"]
	if len(records) != 2 {
		t.Fatalf("re-ingest should leave 2 records, got %d", len(records))
	}
	byEmail := make(map[string]Record)
	for _, rec := range records {
		byEmail[rec.CitiEmail] = rec
	}

	a := byEmail["a@citi.com"]
	if a.ExpectedHours != 184 {
		t.Fatalf("expected 184 expected hours, got %v", a.ExpectedHours)
	}
	if a.ReconciledStatus != StatusCompleted || a.ReconciledHours != 184 {
		t.Fatalf("worker a should reconcile clean: %+v", a)
	}
	if a.ProjectCode != "P1" || a.BillingRate != 95 {
		t.Fatalf("worker a lost identity fields: %+v", a)
	}

	b := byEmail["b@citi.com"]
	if b.ReconciledStatus != StatusMismatch {
		t.Fatalf("worker b should mismatch (40 vs 120), got %s", b.ReconciledStatus)
	}
	if b.ReconciledHours != 40 {
		t.Fatalf("reconciled hours should be the minimum, got %v", b.ReconciledHours)
	}
	if b.ProjectCode != ProjectUnknown {
		t.Fatalf("missing code should fall to the sentinel, got %q", b.ProjectCode)
	}

	// Daily rows without their own code inherit the month's resolved code.
	for _, e := range store.cg["2025-01"] {
		if e.ProjectCode != "P1" {
			t.Fatalf("daily row should inherit P1, got %q", e.ProjectCode)
		}
	}
	// A daily row carrying its own code keeps it.
	if store.citi["2025-01"][0].ProjectCode != "P9" {
		t.Fatalf("daily row with explicit code overwritten: %+v", store.citi["2025-01"][0])
	}

	// Both ingests synced both workers.
	if len(workers.upserts) != 4 {
		t.Fatalf("expected 4 worker upserts, got %d", len(workers.upserts))
	}
}

func TestIngestWorkbookLeaveAdjustsExpectation(t *testing.T) {
	store := newFakeStorage()
	svc := NewService(store, fakeLeave{"a@citi.com": 16}, &fakeWorkers{}, nil)

	if _, err := svc.IngestWorkbook(context.Background(), uploadWorkbook(t)); err != nil {
		t.Fatalf("IngestWorkbook: %v", err)
	}

	for _, rec := range store.records["2025-01"] {
		if rec.CitiEmail != "a@citi.com" {
			continue
		}
		if rec.ExpectedHours != 168 {
			t.Fatalf("expected leave-adjusted 168, got %v", rec.ExpectedHours)
		}
		// Submissions above the adjusted target still cap at it.
		if rec.ReconciledHours != 168 {
			t.Fatalf("reconciled hours should cap at expectation, got %v", rec.ReconciledHours)
		}
		return
	}
	t.Fatal("worker a not found")
}

func TestReportFiltersAndCounts(t *testing.T) {
	store := newFakeStorage()
	store.records["2025-01"] = []Record{
		{CitiEmail: "a@citi.com", ProjectCode: "P1", ReconciledStatus: StatusCompleted},
		{CitiEmail: "b@citi.com", ProjectCode: "P1", ReconciledStatus: StatusMismatch},
		{CitiEmail: "c@citi.com", ProjectCode: "P2", ReconciledStatus: StatusNotCompleted},
	}
	svc := NewService(store, fakeLeave{}, &fakeWorkers{}, nil)

	report, err := svc.Report(context.Background(), 2025, 1, "", "")
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	s := report.Summary
	if s.Total != 3 || s.Completed != 1 || s.Mismatch != 1 || s.NotCompleted != 1 {
		t.Fatalf("bad summary %+v", s)
	}

	report, err = svc.Report(context.Background(), 2025, 1, StatusMismatch, "p1")
	if err != nil {
		t.Fatalf("Report filtered: %v", err)
	}
	if report.Summary.Total != 1 || report.Records[0].CitiEmail != "b@citi.com" {
		t.Fatalf("filters not applied: %+v", report)
	}
}

func TestDailyDiff(t *testing.T) {
	store := newFakeStorage()
	d := func(day int) DailyEntry {
		return DailyEntry{CitiEmail: "a@citi.com", Date: time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC)}
	}
	e1, e2, e3 := d(6), d(7), d(6)
	e1.Hours, e2.Hours, e3.Hours = 8, 8, 7.5
	store.cg["2025-01"] = []DailyEntry{e1, e2}
	store.citi["2025-01"] = []DailyEntry{e3}

	svc := NewService(store, fakeLeave{}, &fakeWorkers{}, nil)
	detail, err := svc.Daily(context.Background(), "a@citi.com", 2025, 1)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	// The grid covers every day of January, zero-filled where neither
	// source submitted anything.
	if len(detail.Items) != 31 {
		t.Fatalf("expected 31 days, got %d", len(detail.Items))
	}
	if detail.Items[0].Date != "2025-01-01" || detail.Items[30].Date != "2025-01-31" {
		t.Fatalf("grid bounds wrong: %s .. %s", detail.Items[0].Date, detail.Items[30].Date)
	}
	jan6 := detail.Items[5]
	if jan6.Date != "2025-01-06" || jan6.Diff != 0.5 {
		t.Fatalf("bad populated day %+v", jan6)
	}
	jan7 := detail.Items[6]
	if jan7.HoursCiti != 0 || jan7.Diff != 8 {
		t.Fatalf("missing-side day should read zero: %+v", jan7)
	}
	empty := detail.Items[0]
	if empty.HoursCG != 0 || empty.HoursCiti != 0 || empty.Diff != 0 {
		t.Fatalf("unsubmitted day should be all zeros: %+v", empty)
	}
}

func TestTriggerRemindersLedger(t *testing.T) {
	store := newFakeStorage()
	store.records["2025-01"] = []Record{
		{EmployeeID: "E1", CitiEmail: "a@citi.com", Name: "Ada", ReconciledStatus: StatusCompleted},
		{EmployeeID: "E2", CitiEmail: "b@citi.com", Name: "Bob", ReconciledStatus: StatusMismatch},
		{EmployeeID: "E3", CitiEmail: "c@citi.com", Name: "Cid", ReconciledStatus: StatusPartial},
	}
	mailer := &fakeMailer{}
	svc := NewService(store, fakeLeave{}, &fakeWorkers{}, nil)
	svc.Mailer = mailer
	svc.MailFrom = "timesheets@example.com"

	// No targets and no status reminds everyone not yet Completed.
	targets, err := svc.TriggerReminders(context.Background(), 2025, 1, nil, "")
	if err != nil {
		t.Fatalf("TriggerReminders: %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(targets))
	}
	if len(mailer.sent) != 2 {
		t.Fatalf("expected 2 reminder emails, got %d", len(mailer.sent))
	}

	// A second trigger with no state change doubles the counters.
	targets, err = svc.TriggerReminders(context.Background(), 2025, 1, nil, "")
	if err != nil {
		t.Fatalf("TriggerReminders again: %v", err)
	}
	for _, target := range targets {
		if target.Reminders != 2 {
			t.Fatalf("expected counter 2 for %s, got %d", target.CitiEmail, target.Reminders)
		}
	}

	// Explicit targets match employee id or citi email, even Completed.
	targets, err = svc.TriggerReminders(context.Background(), 2025, 1, []string{"E1", "c@citi.com"}, "")
	if err != nil {
		t.Fatalf("TriggerReminders targeted: %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("expected 2 targeted workers, got %d", len(targets))
	}
	got := map[string]bool{}
	for _, target := range targets {
		got[target.CitiEmail] = true
	}
	if !got["a@citi.com"] || !got["c@citi.com"] {
		t.Fatalf("unexpected targeted set %v", got)
	}
}
