package billing

// Line is one worker's billable contribution to a project in a month.
type Line struct {
	CitiEmail   string  `json:"citiEmail"`
	Name        string  `json:"name"`
	ProjectCode string  `json:"projectCode"`
	Hours       float64 `json:"hours"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

// ProjectTotal rolls one project's lines up for a month.
type ProjectTotal struct {
	ProjectCode string  `json:"projectCode"`
	ProjectName string  `json:"projectName"`
	Workers     int     `json:"workers"`
	Hours       float64 `json:"hours"`
	Amount      float64 `json:"amount"`
}

// Trend is the month-by-month billed total series, oldest first.
type Trend struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Summary is the billing view of one month: per-project totals, the
// underlying worker lines, the historical trend, and a twelve-month
// projection.
type Summary struct {
	Year             int            `json:"year"`
	Month            int            `json:"month"`
	Projects         []ProjectTotal `json:"projects"`
	Lines            []Line         `json:"lines"`
	TotalHours       float64        `json:"totalHours"`
	TotalAmount      float64        `json:"totalAmount"`
	Trend            Trend          `json:"trend"`
	AnnualProjection float64        `json:"annualProjection"`
}

// MonthTotal is one point of the trend series.
type MonthTotal struct {
	Month  string
	Amount float64
}
