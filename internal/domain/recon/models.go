package recon

import "time"

// Status is a per-source or overall completion verdict.
type Status string

const (
	StatusCompleted    Status = "Completed"
	StatusPartial      Status = "Partial"
	StatusMismatch     Status = "Mismatch"
	StatusNotCompleted Status = "Not Completed"
)

// ProjectUnknown is the sentinel used when no project code resolves.
const ProjectUnknown = "UNKNOWN"

// Record is the single trusted row per (citi email, month). It is
// replaced wholesale on ingestion; only the reminder counter mutates in
// place.
type Record struct {
	ID                 string    `json:"id,omitempty"`
	EmployeeID         string    `json:"employeeId"`
	Month              string    `json:"month"`
	Name               string    `json:"name"`
	CGEmail            string    `json:"cgEmail"`
	CitiEmail          string    `json:"citiEmail"`
	RegionCode         string    `json:"regionCode"`
	RegionName         string    `json:"regionName"`
	ProjectName        string    `json:"projectName"`
	ProjectCode        string    `json:"projectCode"`
	BillingRate        float64   `json:"billingRate"`
	TotalHoursCG       float64   `json:"totalHoursCg"`
	SubmittedHoursCG   float64   `json:"submittedHoursCg"`
	SubmittedOnCG      string    `json:"submittedOn,omitempty"`
	StatusCG           Status    `json:"statusCg"`
	TotalHoursCiti     float64   `json:"totalHoursCiti"`
	SubmittedHoursCiti float64   `json:"submittedHoursCiti"`
	Holidays           string    `json:"holidays,omitempty"`
	StatusCiti         Status    `json:"statusCiti"`
	ExpectedHours      float64   `json:"expectedHours"`
	ReconciledHours    float64   `json:"reconciledHours"`
	ReconciledStatus   Status    `json:"reconciledStatus"`
	Reminders          int       `json:"reminders"`
	CreatedAt          time.Time `json:"createdAt,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt,omitempty"`
}

// DailyEntry is one day of submitted hours in one source system.
type DailyEntry struct {
	CitiEmail   string    `json:"citiEmail"`
	Date        time.Time `json:"date"`
	Hours       float64   `json:"hours"`
	ProjectCode string    `json:"projectCode"`
}

// Source names the two feeds being reconciled.
type Source string

const (
	SourceCG   Source = "CG"
	SourceCiti Source = "CITI"
)

type ReportSummary struct {
	Total        int `json:"total"`
	Completed    int `json:"completed"`
	Partial      int `json:"partial"`
	Mismatch     int `json:"mismatch"`
	NotCompleted int `json:"not_completed"`
}

type Report struct {
	Year    int           `json:"year"`
	Month   int           `json:"month"`
	Summary ReportSummary `json:"summary"`
	Records []Record      `json:"records"`
}

type DailyDiff struct {
	Date      string  `json:"date"`
	HoursCG   float64 `json:"hoursCg"`
	HoursCiti float64 `json:"hoursCiti"`
	Diff      float64 `json:"diff"`
}

type DailyDetail struct {
	CitiEmail string      `json:"citiEmail"`
	Items     []DailyDiff `json:"items"`
}

// ReminderTarget is one worker nudged by a reminder run.
type ReminderTarget struct {
	CitiEmail string `json:"citiEmail"`
	Name      string `json:"name"`
	Month     string `json:"month"`
	Reminders int    `json:"reminders"`
}

// IngestSummary reports what one ingestion run replaced.
type IngestSummary struct {
	BatchID     string   `json:"batchId"`
	Months      []string `json:"months"`
	Records     int      `json:"records"`
	DailyRows   int      `json:"dailyRows"`
	SkippedRows int      `json:"skippedRows"`
}
