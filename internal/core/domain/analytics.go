package domain

import "time"

// DateRange is the span of known creation timestamps in a dataset.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Totals are the headline counts of the executive view.
type Totals struct {
	Total             int `json:"total"`
	Resolved          int `json:"resolved"`
	Unresolved        int `json:"unresolved"`
	ResolvedWithinKPI int `json:"resolvedWithinKpi"`
}

type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// MonthSummary is one month of the monthly trend. Month is 0 for January.
type MonthSummary struct {
	Month      int    `json:"month"`
	Label      string `json:"label"`
	Total      int    `json:"total"`
	Resolved   int    `json:"resolved"`
	Unresolved int    `json:"unresolved"`
}

type AssigneeKPI struct {
	Assignee   string `json:"assignee"`
	WithinKPI  int    `json:"withinKpi"`
	OutsideKPI int    `json:"outsideKpi"`
}

// IssueTypeCounts counts the tracked issue types. Other types are not counted.
type IssueTypeCounts struct {
	ServiceRequest int `json:"SERVICE_REQUEST"`
	ChangeRequest  int `json:"CHANGE_REQUEST"`
	UserAccess     int `json:"USER_ACCESS"`
	Fault          int `json:"FAULT"`
}

// Sum returns the number of tickets counted across all four categories.
func (c IssueTypeCounts) Sum() int {
	return c.ServiceRequest + c.ChangeRequest + c.UserAccess + c.Fault
}

type AppIssueBreakdown struct {
	AppName string `json:"appName"`
	Total   int    `json:"total"`
	IssueTypeCounts
}

type IssueTypeCount struct {
	IssueType string `json:"issueType"`
	Count     int    `json:"count"`
}

// PriorityCounts counts the four recognised priorities. Absent or other
// priorities are not counted.
type PriorityCounts struct {
	Highest int `json:"Highest"`
	High    int `json:"High"`
	Medium  int `json:"Medium"`
	Low     int `json:"Low"`
}

// Sum returns the number of tickets counted across all four buckets.
func (c PriorityCounts) Sum() int {
	return c.Highest + c.High + c.Medium + c.Low
}

type AssigneePriority struct {
	Assignee string `json:"assignee"`
	PriorityCounts
}

// OutsideKPIBreakdown splits tickets outside KPI by resolution.
type OutsideKPIBreakdown struct {
	Total      int `json:"total"`
	Resolved   int `json:"resolved"`
	Unresolved int `json:"unresolved"`
}

// PeriodSummary aggregates one year or month of tickets.
type PeriodSummary struct {
	Period     int                 `json:"period"`
	Total      int                 `json:"total"`
	Resolved   int                 `json:"resolved"`
	Unresolved int                 `json:"unresolved"`
	WithinKPI  int                 `json:"withinKpi"`
	OutsideKPI OutsideKPIBreakdown `json:"outsideKpi"`
}

// ExecutiveDashboard is the summary view available to every role.
type ExecutiveDashboard struct {
	Year         int                 `json:"year"`
	Totals       Totals              `json:"totals"`
	DateRange    *DateRange          `json:"dateRange"`
	YearlyTrend  []YearCount         `json:"yearlyTrend"`
	MonthlyTrend []MonthSummary      `json:"monthlyTrend"`
	AssigneeKPI  []AssigneeKPI       `json:"assigneeKpi"`
	Applications []AppIssueBreakdown `json:"applications"`
	Undated      int                 `json:"undated"`
}

// ManagerDashboard is the detailed view available to managers.
type ManagerDashboard struct {
	Totals             Totals             `json:"totals"`
	DateRange          *DateRange         `json:"dateRange"`
	Priorities         PriorityCounts     `json:"priorities"`
	IssueTypes         []IssueTypeCount   `json:"issueTypes"`
	AssigneePriorities []AssigneePriority `json:"assigneePriorities"`
	KPIReport          []PeriodSummary    `json:"kpiReport"`
	Undated            int                `json:"undated"`
}
