// Package importer reads ticket exports in CSV, XLSX and JSON form.
package importer

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

// Parser dispatches to the reader for each supported format.
type Parser struct{}

var _ ports.DatasetParser = (*Parser)(nil)

func NewParser() *Parser {
	return &Parser{}
}

// Parse reads every ticket row from r.
func (p *Parser) Parse(ctx context.Context, format domain.ImportFormat, r io.Reader) (*ports.ParsedDataset, error) {
	switch format {
	case domain.FormatCSV:
		return parseCSV(ctx, r)
	case domain.FormatXLSX:
		return parseXLSX(ctx, r)
	case domain.FormatJSON:
		return parseJSON(ctx, r)
	}
	return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFormat, format)
}

type field int

const (
	fieldID field = iota
	fieldKey
	fieldIssueType
	fieldReporter
	fieldAssignee
	fieldPriority
	fieldStatus
	fieldResolution
	fieldCreated
	fieldUpdated
	fieldChangePriority
	fieldComponents
	fieldFaultPriority
	fieldIssuePriority
	fieldAppName
	fieldDefectPriority
	fieldServicePriority
)

// headerFields maps normalized header names to ticket fields. Headers are
// matched ignoring case, spaces and punctuation, so "Issue Type",
// "issue_type" and "issueType" are the same column.
var headerFields = map[string]field{
	"id":              fieldID,
	"issueid":         fieldID,
	"key":             fieldKey,
	"issuekey":        fieldKey,
	"issuetype":       fieldIssueType,
	"type":            fieldIssueType,
	"reporter":        fieldReporter,
	"assignee":        fieldAssignee,
	"priority":        fieldPriority,
	"status":          fieldStatus,
	"resolution":      fieldResolution,
	"created":         fieldCreated,
	"updated":         fieldUpdated,
	"changepriority":  fieldChangePriority,
	"components":      fieldComponents,
	"component":       fieldComponents,
	"faultpriority":   fieldFaultPriority,
	"issuepriority":   fieldIssuePriority,
	"appname":         fieldAppName,
	"application":     fieldAppName,
	"defectpriority":  fieldDefectPriority,
	"servicepriority": fieldServicePriority,
}

func normalizeHeader(header string) string {
	var b strings.Builder
	for _, r := range header {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// columnMap is the position of each recognised field in a header row.
type columnMap map[field]int

// mapHeader indexes a header row. The first occurrence of a column wins.
// A header with no recognised column is ErrMissingHeader.
func mapHeader(header []string) (columnMap, error) {
	cols := make(columnMap)
	for i, h := range header {
		f, ok := headerFields[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, seen := cols[f]; !seen {
			cols[f] = i
		}
	}
	if len(cols) == 0 {
		return nil, apperrors.ErrMissingHeader
	}
	return cols, nil
}

func (c columnMap) value(row []string, f field) string {
	idx, ok := c[f]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// record builds a raw ticket from a data row. ok is false when the row has
// an id that is not a whole number.
func (c columnMap) record(row []string) (domain.RawTicket, bool) {
	return buildRecord(func(f field) string { return c.value(row, f) })
}

func buildRecord(value func(field) string) (domain.RawTicket, bool) {
	id, ok := parseID(value(fieldID))
	if !ok {
		return domain.RawTicket{}, false
	}

	return domain.RawTicket{
		ID:              id,
		Key:             value(fieldKey),
		IssueType:       value(fieldIssueType),
		Reporter:        value(fieldReporter),
		Assignee:        value(fieldAssignee),
		Priority:        value(fieldPriority),
		Status:          value(fieldStatus),
		Resolution:      value(fieldResolution),
		Created:         value(fieldCreated),
		Updated:         value(fieldUpdated),
		ChangePriority:  value(fieldChangePriority),
		Components:      value(fieldComponents),
		FaultPriority:   value(fieldFaultPriority),
		IssuePriority:   value(fieldIssuePriority),
		AppName:         value(fieldAppName),
		DefectPriority:  value(fieldDefectPriority),
		ServicePriority: value(fieldServicePriority),
	}, true
}

// parseID accepts integers and integral floats ("42.0" from spreadsheets).
// An empty id is zero.
func parseID(s string) (int64, bool) {
	if s == "" {
		return 0, true
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// collect turns data rows into a dataset. Blank rows are ignored; rows with
// a malformed id are counted as skipped.
func collect(ctx context.Context, cols columnMap, rows [][]string) (*ports.ParsedDataset, error) {
	out := &ports.ParsedDataset{Rows: make([]domain.RawTicket, 0, len(rows))}
	for i, row := range rows {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if isBlank(row) {
			continue
		}
		raw, ok := cols.record(row)
		if !ok {
			out.Skipped++
			continue
		}
		out.Rows = append(out.Rows, raw)
	}
	return out, nil
}
