package kpi

import (
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
)

// DefaultYear picks the year a dashboard shows when none is requested: the
// year of the latest known creation date, or now's year for an empty dataset.
func DefaultYear(tickets []domain.Ticket, now time.Time) int {
	if r, ok := DateRange(tickets); ok {
		return r.End.Year()
	}
	return now.Year()
}

// BuildExecutive assembles the executive view. The monthly trend and the
// assignee table cover year only; everything else covers the whole dataset.
func (e *Engine) BuildExecutive(tickets []domain.Ticket, year int) domain.ExecutiveDashboard {
	annotated := e.Annotate(tickets)
	inYear := InYear(annotated, year)

	d := domain.ExecutiveDashboard{
		Year:         year,
		Totals:       Totals(annotated),
		DateRange:    dateRangePtr(tickets),
		YearlyTrend:  []domain.YearCount{},
		MonthlyTrend: make([]domain.MonthSummary, 0, 12),
		AssigneeKPI:  []domain.AssigneeKPI{},
		Applications: []domain.AppIssueBreakdown{},
		Undated:      CountUndated(tickets),
	}

	years := GroupBy(annotated, ByYear)
	SortGroups(years)
	for _, g := range years {
		d.YearlyTrend = append(d.YearlyTrend, domain.YearCount{Year: g.Key, Count: len(g.Items)})
	}

	byMonth := make(map[int][]Annotated, 12)
	for _, g := range GroupBy(inYear, ByMonth) {
		byMonth[g.Key] = g.Items
	}
	for m := 0; m < 12; m++ {
		d.MonthlyTrend = append(d.MonthlyTrend, SummarizeMonth(m, byMonth[m]))
	}

	for _, g := range GroupBy(inYear, ByAssignee) {
		d.AssigneeKPI = append(d.AssigneeKPI, SummarizeKPI(g.Key, g.Items))
	}

	for _, g := range GroupBy(annotated, ByAppName) {
		d.Applications = append(d.Applications, SummarizeIssueTypes(g.Key, g.Items))
	}

	return d
}

// BuildManager assembles the manager view over the whole dataset.
func (e *Engine) BuildManager(tickets []domain.Ticket) domain.ManagerDashboard {
	annotated := e.Annotate(tickets)

	d := domain.ManagerDashboard{
		Totals:             Totals(annotated),
		DateRange:          dateRangePtr(tickets),
		Priorities:         SummarizePriorities(annotated),
		IssueTypes:         []domain.IssueTypeCount{},
		AssigneePriorities: []domain.AssigneePriority{},
		KPIReport:          []domain.PeriodSummary{},
		Undated:            CountUndated(tickets),
	}

	for _, g := range GroupBy(annotated, ByIssueType) {
		d.IssueTypes = append(d.IssueTypes, domain.IssueTypeCount{IssueType: string(g.Key), Count: len(g.Items)})
	}

	for _, g := range GroupBy(annotated, ByAssignee) {
		d.AssigneePriorities = append(d.AssigneePriorities, domain.AssigneePriority{
			Assignee:       g.Key,
			PriorityCounts: SummarizePriorities(g.Items),
		})
	}

	years := GroupBy(annotated, ByYear)
	SortGroups(years)
	for _, g := range years {
		d.KPIReport = append(d.KPIReport, SummarizePeriod(g.Key, g.Items))
	}

	return d
}

func dateRangePtr(tickets []domain.Ticket) *domain.DateRange {
	r, ok := DateRange(tickets)
	if !ok {
		return nil
	}
	return &r
}
