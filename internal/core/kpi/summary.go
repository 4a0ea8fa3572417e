package kpi

import (
	"github.com/lorrc/ticket-insights/internal/core/domain"
)

// SummarizePeriod aggregates the tickets of one year or month.
func SummarizePeriod(period int, items []Annotated) domain.PeriodSummary {
	s := domain.PeriodSummary{Period: period, Total: len(items)}
	for _, a := range items {
		if a.IsResolved() {
			s.Resolved++
		}
		if a.IsUnresolved() {
			s.Unresolved++
		}
		if a.WithinKPI {
			s.WithinKPI++
			continue
		}
		s.OutsideKPI.Total++
		if a.IsResolved() {
			s.OutsideKPI.Resolved++
		}
		if a.IsOpen() {
			s.OutsideKPI.Unresolved++
		}
	}
	return s
}

// SummarizeKPI counts tickets within and outside KPI for one owner.
func SummarizeKPI(assignee string, items []Annotated) domain.AssigneeKPI {
	s := domain.AssigneeKPI{Assignee: assignee}
	for _, a := range items {
		if a.WithinKPI {
			s.WithinKPI++
		} else {
			s.OutsideKPI++
		}
	}
	return s
}

// SummarizeIssueTypes counts the tracked issue types for one application.
func SummarizeIssueTypes(appName string, items []Annotated) domain.AppIssueBreakdown {
	s := domain.AppIssueBreakdown{AppName: appName, Total: len(items)}
	for _, a := range items {
		switch a.IssueType {
		case domain.IssueTypeServiceRequest:
			s.ServiceRequest++
		case domain.IssueTypeChangeRequest:
			s.ChangeRequest++
		case domain.IssueTypeUserAccess:
			s.UserAccess++
		case domain.IssueTypeFault:
			s.Fault++
		}
	}
	return s
}

// SummarizePriorities counts the four recognised priorities.
func SummarizePriorities(items []Annotated) domain.PriorityCounts {
	var c domain.PriorityCounts
	for _, a := range items {
		switch a.Priority {
		case domain.PriorityHighest:
			c.Highest++
		case domain.PriorityHigh:
			c.High++
		case domain.PriorityMedium:
			c.Medium++
		case domain.PriorityLow:
			c.Low++
		}
	}
	return c
}

// SummarizeMonth builds the monthly trend entry for month (0 for January).
// A month outside 0..11 gets an empty label.
func SummarizeMonth(month int, items []Annotated) domain.MonthSummary {
	s := domain.MonthSummary{Month: month, Label: monthLabel(month), Total: len(items)}
	for _, a := range items {
		if a.IsResolved() {
			s.Resolved++
		}
		if a.IsUnresolved() {
			s.Unresolved++
		}
	}
	return s
}

var monthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

func monthLabel(month int) string {
	if month < 0 || month >= len(monthLabels) {
		return ""
	}
	return monthLabels[month]
}

// Totals computes the headline counts.
func Totals(items []Annotated) domain.Totals {
	t := domain.Totals{Total: len(items)}
	for _, a := range items {
		if a.IsResolved() {
			t.Resolved++
			if a.WithinKPI {
				t.ResolvedWithinKPI++
			}
		}
		if a.IsUnresolved() {
			t.Unresolved++
		}
	}
	return t
}

// DateRange returns the earliest and latest known creation timestamps.
// ok is false when no ticket has a known creation time.
func DateRange(tickets []domain.Ticket) (domain.DateRange, bool) {
	var r domain.DateRange
	found := false
	for _, t := range tickets {
		if !t.HasCreated() {
			continue
		}
		if !found || t.Created.Before(r.Start) {
			r.Start = t.Created
		}
		if !found || t.Created.After(r.End) {
			r.End = t.Created
		}
		found = true
	}
	return r, found
}

// CountUndated returns how many tickets have no known creation time.
func CountUndated(tickets []domain.Ticket) int {
	n := 0
	for _, t := range tickets {
		if !t.HasCreated() {
			n++
		}
	}
	return n
}
