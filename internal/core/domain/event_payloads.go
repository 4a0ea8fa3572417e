package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImportFormat is the file format of an uploaded dataset.
type ImportFormat string

const (
	FormatCSV  ImportFormat = "csv"
	FormatXLSX ImportFormat = "xlsx"
	FormatJSON ImportFormat = "json"
)

// Import records one dataset upload. The most recent import is the active dataset.
type Import struct {
	ID          uuid.UUID
	FileName    string
	Format      ImportFormat
	RowCount    int
	SkippedRows int
	UploadedBy  uuid.UUID
	CreatedAt   time.Time
}

// ImportSnapshot matches the API response shape for imports.
type ImportSnapshot struct {
	ID          string `json:"id"`
	FileName    string `json:"fileName"`
	Format      string `json:"format"`
	RowCount    int    `json:"rowCount"`
	SkippedRows int    `json:"skippedRows"`
	UploadedBy  string `json:"uploadedBy"`
	CreatedAt   string `json:"createdAt"`
}

// TicketSnapshot matches the API response shape for tickets.
type TicketSnapshot struct {
	ID              int64   `json:"id"`
	Key             string  `json:"key"`
	IssueType       string  `json:"issueType"`
	Priority        string  `json:"priority"`
	Status          string  `json:"status"`
	Resolution      string  `json:"resolution"`
	Reporter        string  `json:"reporter"`
	Assignee        string  `json:"assignee"`
	AppName         string  `json:"appName"`
	Components      string  `json:"components"`
	ChangePriority  string  `json:"changePriority,omitempty"`
	FaultPriority   string  `json:"faultPriority,omitempty"`
	IssuePriority   string  `json:"issuePriority,omitempty"`
	DefectPriority  string  `json:"defectPriority,omitempty"`
	ServicePriority string  `json:"servicePriority,omitempty"`
	Created         *string `json:"created"`
	Updated         *string `json:"updated"`
}

// NewImportSnapshot builds an import snapshot from a domain import.
func NewImportSnapshot(imp *Import) ImportSnapshot {
	return ImportSnapshot{
		ID:          imp.ID.String(),
		FileName:    imp.FileName,
		Format:      string(imp.Format),
		RowCount:    imp.RowCount,
		SkippedRows: imp.SkippedRows,
		UploadedBy:  imp.UploadedBy.String(),
		CreatedAt:   imp.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// NewTicketSnapshot builds a ticket snapshot from a domain ticket.
// Unknown timestamps are rendered as null.
func NewTicketSnapshot(ticket Ticket) TicketSnapshot {
	return TicketSnapshot{
		ID:              ticket.ID,
		Key:             ticket.Key,
		IssueType:       string(ticket.IssueType),
		Priority:        string(ticket.Priority),
		Status:          ticket.Status,
		Resolution:      string(ticket.Resolution),
		Reporter:        ticket.Reporter,
		Assignee:        ticket.Assignee,
		AppName:         ticket.AppName,
		Components:      ticket.Components,
		ChangePriority:  ticket.ChangePriority,
		FaultPriority:   ticket.FaultPriority,
		IssuePriority:   ticket.IssuePriority,
		DefectPriority:  ticket.DefectPriority,
		ServicePriority: ticket.ServicePriority,
		Created:         naiveTimestamp(ticket.Created),
		Updated:         naiveTimestamp(ticket.Updated),
	}
}

func naiveTimestamp(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	value := t.Format("2006-01-02T15:04:05")
	return &value
}
