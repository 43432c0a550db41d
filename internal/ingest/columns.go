package ingest

// Column alias chains. Every field that can arrive under more than one
// spelling resolves through a fixed priority list: vendor-suffixed,
// client-suffixed, then unsuffixed; first non-empty wins.

const (
	ColCitiEmail   = "Citi Email"
	ColMonth       = "Month"
	ColDateHeader  = "Date"
	ColHoursHeader = "Hours"
	ColProjectCode = "Project Code"
)

var (
	employeeIDAliases  = []string{"ID_cg", "ID_citi", "ID"}
	nameAliases        = []string{"Name_cg", "Name_citi", "Name"}
	cgEmailAliases     = []string{"CG Email_cg", "CG Email_citi", "CG Email"}
	citiEmailAliases   = []string{"Citi Email", "Citi Email_cg", "Citi Email_citi"}
	regionCodeAliases  = []string{"Region Code_cg", "Region Code_citi", "Region Code"}
	regionNameAliases  = []string{"Region Name_cg", "Region Name_citi", "Region Name"}
	projectNameAliases = []string{"Project Name_cg", "Project Name_citi", "Project Name"}
	billingRateAliases = []string{"Billing Rate_cg", "Billing Rate_citi", "Billing Rate"}

	totalHoursCGAliases       = []string{"Total Hours_cg", "Total Hours"}
	submittedHoursCGAliases   = []string{"Submitted Hours_cg", "Submitted Hours"}
	submittedOnCGAliases      = []string{"Submitted On_cg", "Submitted On"}
	totalHoursCitiAliases     = []string{"Total Hours_citi", "Total Hours"}
	submittedHoursCitiAliases = []string{"Submitted Hours_citi", "Submitted Hours"}
	holidaysAliases           = []string{"Holidays_citi", "Holidays"}
)

// projectCodeAliases is the twelve-variant fallback chain for monthly
// rows.
var projectCodeAliases = []string{
	"Project Code_cg", "Project Code_citi", "Project Code",
	"ProjectCode_cg", "ProjectCode_citi", "ProjectCode",
	"Proj Code_cg", "Proj Code_citi", "Proj Code",
	"Project_cg", "Project_citi", "Project",
}

// dailyProjectCodeAliases is the shorter chain daily rows carry.
var dailyProjectCodeAliases = []string{
	"Project Code", "ProjectCode", "Proj Code", "Project",
}

func EmployeeID(row Row) string  { return Choose(row, employeeIDAliases...) }
func Name(row Row) string        { return Choose(row, nameAliases...) }
func CGEmail(row Row) string     { return Choose(row, cgEmailAliases...) }
func CitiEmail(row Row) string   { return Choose(row, citiEmailAliases...) }
func RegionCode(row Row) string  { return Choose(row, regionCodeAliases...) }
func RegionName(row Row) string  { return Choose(row, regionNameAliases...) }
func ProjectName(row Row) string { return Choose(row, projectNameAliases...) }
func BillingRate(row Row) string { return Choose(row, billingRateAliases...) }

func TotalHoursCG(row Row) string       { return Choose(row, totalHoursCGAliases...) }
func SubmittedHoursCG(row Row) string   { return Choose(row, submittedHoursCGAliases...) }
func SubmittedOnCG(row Row) string      { return Choose(row, submittedOnCGAliases...) }
func TotalHoursCiti(row Row) string     { return Choose(row, totalHoursCitiAliases...) }
func SubmittedHoursCiti(row Row) string { return Choose(row, submittedHoursCitiAliases...) }
func Holidays(row Row) string           { return Choose(row, holidaysAliases...) }

// ProjectCode resolves a monthly row's project code, or "" when no
// variant yields a value; callers apply the UNKNOWN sentinel.
func ProjectCode(row Row) string {
	return Choose(row, projectCodeAliases...)
}

// DailyProjectCode resolves a daily row's own project columns.
func DailyProjectCode(row Row) string {
	return Choose(row, dailyProjectCodeAliases...)
}

// ResolveCode walks an ordered list of strategies and returns the
// first code any of them produces, or the sentinel.
func ResolveCode(sentinel string, strategies ...func() (string, bool)) string {
	for _, strategy := range strategies {
		if code, ok := strategy(); ok && code != "" {
			return code
		}
	}
	return sentinel
}
