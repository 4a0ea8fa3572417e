package domain

import (
	"strings"
	"time"
)

// UnassignedLabel replaces an empty assignee when tickets are grouped by owner.
const UnassignedLabel = "Unassigned"

// Priority is the urgency level that selects a ticket's KPI threshold.
type Priority string

const (
	PriorityHighest Priority = "HIGHEST"
	PriorityHigh    Priority = "HIGH"
	PriorityMedium  Priority = "MEDIUM"
	PriorityLow     Priority = "LOW"
)

// Priorities lists the recognised priorities from most to least urgent.
var Priorities = []Priority{PriorityHighest, PriorityHigh, PriorityMedium, PriorityLow}

// IsKnown reports whether p is one of the four recognised priorities.
func (p Priority) IsKnown() bool {
	switch p {
	case PriorityHighest, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// IssueType categorises the kind of work a ticket represents.
type IssueType string

const (
	IssueTypeServiceRequest IssueType = "SERVICE_REQUEST"
	IssueTypeChangeRequest  IssueType = "CHANGE_REQUEST"
	IssueTypeUserAccess     IssueType = "USER_ACCESS"
	IssueTypeFault          IssueType = "FAULT"
)

// TrackedIssueTypes are the categories counted per application.
var TrackedIssueTypes = []IssueType{
	IssueTypeServiceRequest,
	IssueTypeChangeRequest,
	IssueTypeUserAccess,
	IssueTypeFault,
}

// IsTracked reports whether the issue type is one of the per-application categories.
func (i IssueType) IsTracked() bool {
	switch i {
	case IssueTypeServiceRequest, IssueTypeChangeRequest, IssueTypeUserAccess, IssueTypeFault:
		return true
	}
	return false
}

// Resolution is the outcome recorded on a ticket.
type Resolution string

const (
	ResolutionDone       Resolution = "DONE"
	ResolutionUnresolved Resolution = "UNRESOLVED"
	ResolutionIncomplete Resolution = "INCOMPLETE"
)

// Ticket is a single imported issue record. Values are immutable once built;
// KPI flags are derived separately on every aggregation pass.
type Ticket struct {
	ID         int64
	Key        string
	IssueType  IssueType
	Priority   Priority
	Status     string
	Resolution Resolution
	Reporter   string
	Assignee   string
	AppName    string
	Components string

	ChangePriority  string
	FaultPriority   string
	IssuePriority   string
	DefectPriority  string
	ServicePriority string

	// Created and Updated are timezone-naive. The zero value means unknown.
	Created time.Time
	Updated time.Time
}

// RawTicket is a ticket record as read from an export file. Every field is
// optional.
type RawTicket struct {
	ID              int64  `json:"id"`
	Key             string `json:"key"`
	IssueType       string `json:"issueType"`
	Reporter        string `json:"reporter"`
	Assignee        string `json:"assignee"`
	Priority        string `json:"priority"`
	Status          string `json:"status"`
	Resolution      string `json:"resolution"`
	Created         string `json:"created"`
	Updated         string `json:"updated"`
	ChangePriority  string `json:"changePriority"`
	Components      string `json:"components"`
	FaultPriority   string `json:"faultPriority"`
	IssuePriority   string `json:"issuePriority"`
	AppName         string `json:"appName"`
	DefectPriority  string `json:"defectPriority"`
	ServicePriority string `json:"servicePriority"`
}

// NewTicket builds a Ticket from a raw record. Enumerated fields are trimmed
// and upper-cased; unparseable timestamps become the zero time.
func NewTicket(raw RawTicket) Ticket {
	return Ticket{
		ID:              raw.ID,
		Key:             strings.TrimSpace(raw.Key),
		IssueType:       NormalizeIssueType(raw.IssueType),
		Priority:        NormalizePriority(raw.Priority),
		Status:          strings.TrimSpace(raw.Status),
		Resolution:      NormalizeResolution(raw.Resolution),
		Reporter:        strings.TrimSpace(raw.Reporter),
		Assignee:        strings.TrimSpace(raw.Assignee),
		AppName:         strings.TrimSpace(raw.AppName),
		Components:      strings.TrimSpace(raw.Components),
		ChangePriority:  strings.TrimSpace(raw.ChangePriority),
		FaultPriority:   strings.TrimSpace(raw.FaultPriority),
		IssuePriority:   strings.TrimSpace(raw.IssuePriority),
		DefectPriority:  strings.TrimSpace(raw.DefectPriority),
		ServicePriority: strings.TrimSpace(raw.ServicePriority),
		Created:         ParseTimestamp(raw.Created),
		Updated:         ParseTimestamp(raw.Updated),
	}
}

// NormalizePriority upper-cases and trims a priority label.
func NormalizePriority(s string) Priority {
	return Priority(strings.ToUpper(strings.TrimSpace(s)))
}

// NormalizeIssueType upper-cases a label and joins words with underscores,
// so "Service Request" and "service-request" both map to SERVICE_REQUEST.
func NormalizeIssueType(s string) IssueType {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
	return IssueType(s)
}

// NormalizeResolution upper-cases and trims a resolution label.
func NormalizeResolution(s string) Resolution {
	return Resolution(strings.ToUpper(strings.TrimSpace(s)))
}

var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/Jan/06 3:04 PM",
	"1/2/2006 15:04",
	"1/2/2006",
}

// ParseTimestamp parses the timestamp formats found in ticket exports.
// Zone offsets are dropped and the wall clock kept. It returns the zero time
// when s is empty or matches no known layout.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.000-0700", "2006-01-02T15:04:05-0700"} {
		if t, err := time.Parse(layout, s); err == nil {
			return wallClock(t)
		}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// HasCreated reports whether the creation timestamp is known.
func (t Ticket) HasCreated() bool {
	return !t.Created.IsZero()
}

// IsResolved reports whether the ticket was resolved as DONE.
func (t Ticket) IsResolved() bool {
	return t.Resolution == ResolutionDone
}

// IsUnresolved reports whether the ticket is explicitly UNRESOLVED.
func (t Ticket) IsUnresolved() bool {
	return t.Resolution == ResolutionUnresolved
}

// IsOpen reports whether the ticket is UNRESOLVED or INCOMPLETE.
func (t Ticket) IsOpen() bool {
	return t.Resolution == ResolutionUnresolved || t.Resolution == ResolutionIncomplete
}

// AssigneeOrUnassigned returns the assignee, or UnassignedLabel when empty.
func (t Ticket) AssigneeOrUnassigned() string {
	if t.Assignee == "" {
		return UnassignedLabel
	}
	return t.Assignee
}
