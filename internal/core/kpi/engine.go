// Package kpi classifies tickets against priority-dependent resolution
// thresholds and aggregates them into the tables behind each dashboard chart.
// Every function is pure over its input slice.
package kpi

import (
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
)

// Thresholds maps each recognised priority to its maximum resolution time.
type Thresholds map[domain.Priority]time.Duration

// DefaultThresholds returns the standard SLA table.
func DefaultThresholds() Thresholds {
	return Thresholds{
		domain.PriorityHighest: 60 * time.Minute,
		domain.PriorityHigh:    120 * time.Minute,
		domain.PriorityMedium:  480 * time.Minute,
		domain.PriorityLow:     2880 * time.Minute,
	}
}

// Classification is the derived KPI state of one ticket.
// OutsideKPI is always the negation of WithinKPI.
type Classification struct {
	WithinKPI     bool          `json:"withinKpi"`
	OutsideKPI    bool          `json:"outsideKpi"`
	Elapsed       time.Duration `json:"-"`
	DurationKnown bool          `json:"durationKnown"`
}

// Annotated pairs a ticket with its classification for one aggregation pass.
type Annotated struct {
	domain.Ticket
	Classification
}

// Engine applies a threshold table to tickets.
type Engine struct {
	thresholds Thresholds
}

// NewEngine creates an engine. Priorities missing from t, or with a
// non-positive duration, fall back to the default table.
func NewEngine(t Thresholds) *Engine {
	merged := DefaultThresholds()
	for p, d := range t {
		if p.IsKnown() && d > 0 {
			merged[p] = d
		}
	}
	return &Engine{thresholds: merged}
}

// Thresholds returns a copy of the engine's threshold table.
func (e *Engine) Thresholds() Thresholds {
	out := make(Thresholds, len(e.thresholds))
	for p, d := range e.thresholds {
		out[p] = d
	}
	return out
}

// Classify decides whether a ticket was resolved within its priority's
// threshold. Unknown priorities, unknown timestamps and an update before
// creation all count as outside KPI.
func (e *Engine) Classify(t domain.Ticket) Classification {
	c := Classification{OutsideKPI: true}

	if t.Created.IsZero() || t.Updated.IsZero() || t.Updated.Before(t.Created) {
		return c
	}
	c.DurationKnown = true
	c.Elapsed = t.Updated.Sub(t.Created)

	limit, ok := e.thresholds[t.Priority]
	if !ok {
		return c
	}

	c.WithinKPI = c.Elapsed <= limit
	c.OutsideKPI = !c.WithinKPI
	return c
}

// Annotate classifies every ticket, preserving order.
func (e *Engine) Annotate(tickets []domain.Ticket) []Annotated {
	out := make([]Annotated, len(tickets))
	for i, t := range tickets {
		out[i] = Annotated{Ticket: t, Classification: e.Classify(t)}
	}
	return out
}
