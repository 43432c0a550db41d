package worker

import "time"

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Profile is the identity and billing record for one person. The citi
// email is the stable join key across every other entity.
type Profile struct {
	ID                   string     `json:"id"`
	EmployeeID           string     `json:"employeeId"`
	Name                 string     `json:"name"`
	CGEmail              string     `json:"cgEmail"`
	CitiEmail            string     `json:"citiEmail"`
	RegionCode           string     `json:"regionCode"`
	RegionName           string     `json:"regionName"`
	DefaultProjectCode   string     `json:"defaultProjectCode"`
	BillingRate          float64    `json:"billingRate"`
	Status               string     `json:"status"`
	AnnualLeaveAllowance int        `json:"annualLeaveAllowance"`
	StartDate            *time.Time `json:"startDate,omitempty"`
	EndDate              *time.Time `json:"endDate,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// Upsert carries the fields ingestion learned from a merged monthly
// row. Empty fields never overwrite existing values.
type Upsert struct {
	EmployeeID  string
	Name        string
	CGEmail     string
	CitiEmail   string
	RegionCode  string
	RegionName  string
	ProjectCode string
	BillingRate float64
}
