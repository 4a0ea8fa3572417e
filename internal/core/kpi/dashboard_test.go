package kpi_test

import (
	"testing"
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/kpi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultYear(t *testing.T) {
	now := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 2024, kpi.DefaultYear(sampleTickets(), now))
	assert.Equal(t, 2026, kpi.DefaultYear(nil, now))
}

func TestBuildExecutive(t *testing.T) {
	d := kpi.NewEngine(nil).BuildExecutive(sampleTickets(), 2024)

	assert.Equal(t, 2024, d.Year)
	assert.Equal(t, 5, d.Totals.Total)
	require.NotNil(t, d.DateRange)
	assert.Equal(t, 1, d.Undated)

	assert.Equal(t, []domain.YearCount{{Year: 2023, Count: 1}, {Year: 2024, Count: 3}}, d.YearlyTrend)

	require.Len(t, d.MonthlyTrend, 12)
	assert.Equal(t, domain.MonthSummary{Month: 0, Label: "Jan", Total: 2, Resolved: 1, Unresolved: 1}, d.MonthlyTrend[0])
	assert.Equal(t, 1, d.MonthlyTrend[5].Total)
	assert.Equal(t, 0, d.MonthlyTrend[11].Total)

	assert.Equal(t, []domain.AssigneeKPI{
		{Assignee: "bob", WithinKPI: 0, OutsideKPI: 1},
		{Assignee: domain.UnassignedLabel, WithinKPI: 1, OutsideKPI: 0},
		{Assignee: "alice", WithinKPI: 0, OutsideKPI: 1},
	}, d.AssigneeKPI)

	require.Len(t, d.Applications, 2)
	billing := d.Applications[0]
	assert.Equal(t, "Billing", billing.AppName)
	assert.Equal(t, 3, billing.Total)
	assert.Equal(t, 1, billing.Fault)
	assert.Equal(t, 1, billing.ServiceRequest)
	assert.Equal(t, 1, billing.ChangeRequest)
}

func TestBuildExecutive_EmptyDataset(t *testing.T) {
	d := kpi.NewEngine(nil).BuildExecutive(nil, 2024)

	assert.Nil(t, d.DateRange)
	assert.Equal(t, domain.Totals{}, d.Totals)
	assert.Empty(t, d.YearlyTrend)
	assert.Len(t, d.MonthlyTrend, 12)
	assert.NotNil(t, d.AssigneeKPI)
	assert.NotNil(t, d.Applications)
}

func TestBuildManager(t *testing.T) {
	d := kpi.NewEngine(nil).BuildManager(sampleTickets())

	assert.Equal(t, domain.PriorityCounts{Highest: 1, High: 1, Medium: 1, Low: 1}, d.Priorities)

	require.Len(t, d.IssueTypes, 5)
	assert.Equal(t, domain.IssueTypeCount{IssueType: "FAULT", Count: 1}, d.IssueTypes[0])
	assert.Equal(t, domain.IssueTypeCount{IssueType: "BUG", Count: 1}, d.IssueTypes[2])

	require.Len(t, d.AssigneePriorities, 3)
	assert.Equal(t, "bob", d.AssigneePriorities[1].Assignee)
	assert.Equal(t, domain.PriorityCounts{High: 1, Medium: 1}, d.AssigneePriorities[1].PriorityCounts)

	require.Len(t, d.KPIReport, 2)
	assert.Equal(t, 2023, d.KPIReport[0].Period)
	assert.Equal(t, 1, d.KPIReport[0].WithinKPI)
	assert.Equal(t, 2024, d.KPIReport[1].Period)
	assert.Equal(t, 2, d.KPIReport[1].OutsideKPI.Total)
}
