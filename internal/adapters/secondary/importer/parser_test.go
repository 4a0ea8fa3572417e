package importer

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParser_CSV(t *testing.T) {
	input := "\ufeffID,Key,Issue Type,Priority,Resolution,Assignee,App Name,Created,Updated,Notes\n" +
		"1,OPS-1,Service Request,High,Done,alice,Payroll,2024-01-02T09:00:00,2024-01-02T10:30:00,x\n" +
		",,,,,,,,,\n" +
		"abc,OPS-2,Incident,Low,,bob,CRM,,,\n" +
		"3,OPS-3,Fault,Medium,Unresolved,\"Smith, J\",CRM,02/Jan/24 9:05 AM,\n"

	parsed, err := NewParser().Parse(context.Background(), domain.FormatCSV, strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, parsed.Rows, 2)
	assert.Equal(t, 1, parsed.Skipped)

	first := parsed.Rows[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "OPS-1", first.Key)
	assert.Equal(t, "Service Request", first.IssueType)
	assert.Equal(t, "High", first.Priority)
	assert.Equal(t, "alice", first.Assignee)
	assert.Equal(t, "Payroll", first.AppName)
	assert.Equal(t, "2024-01-02T10:30:00", first.Updated)

	assert.Equal(t, "Smith, J", parsed.Rows[1].Assignee)
	assert.Equal(t, "02/Jan/24 9:05 AM", parsed.Rows[1].Created)
}

func TestParser_CSVHeaderVariants(t *testing.T) {
	input := "issue_type,appName,SERVICE PRIORITY\nChange Request,HR,P2\n"

	parsed, err := NewParser().Parse(context.Background(), domain.FormatCSV, strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, parsed.Rows, 1)
	assert.Equal(t, "Change Request", parsed.Rows[0].IssueType)
	assert.Equal(t, "HR", parsed.Rows[0].AppName)
	assert.Equal(t, "P2", parsed.Rows[0].ServicePriority)
}

func TestParser_CSVErrors(t *testing.T) {
	p := NewParser()

	_, err := p.Parse(context.Background(), domain.FormatCSV, strings.NewReader(""))
	assert.ErrorIs(t, err, apperrors.ErrEmptyUpload)

	_, err = p.Parse(context.Background(), domain.FormatCSV, strings.NewReader("foo,bar\n1,2\n"))
	assert.ErrorIs(t, err, apperrors.ErrMissingHeader)
}

func TestParser_JSON(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		input := `[
			{"id": 7, "key": "OPS-7", "issueType": "Fault", "priority": "Highest", "created": "2024-02-01T08:00:00"},
			{"key": "OPS-8", "App Name": "CRM"},
			42,
			null
		]`

		parsed, err := NewParser().Parse(context.Background(), domain.FormatJSON, strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, parsed.Rows, 2)
		assert.Equal(t, 2, parsed.Skipped)
		assert.Equal(t, int64(7), parsed.Rows[0].ID)
		assert.Equal(t, "Fault", parsed.Rows[0].IssueType)
		assert.Equal(t, "Highest", parsed.Rows[0].Priority)
		assert.Equal(t, "2024-02-01T08:00:00", parsed.Rows[0].Created)
		assert.Equal(t, "OPS-8", parsed.Rows[1].Key)
		assert.Equal(t, "CRM", parsed.Rows[1].AppName)
	})

	t.Run("mixed field types keep the ticket", func(t *testing.T) {
		input := `[
			{"id": "7", "key": "OPS-7"},
			{"id": 8, "created": 1704067200000, "updated": 1704070800000.0},
			{"id": 9, "priority": null, "assignee": {"name": "alice"}, "status": true},
			{"id": "not-a-number", "key": 12}
		]`

		parsed, err := NewParser().Parse(context.Background(), domain.FormatJSON, strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, parsed.Rows, 4)
		assert.Zero(t, parsed.Skipped)

		assert.Equal(t, int64(7), parsed.Rows[0].ID)
		assert.Equal(t, "OPS-7", parsed.Rows[0].Key)

		assert.Equal(t, "2024-01-01T00:00:00Z", parsed.Rows[1].Created)
		assert.Equal(t, "2024-01-01T01:00:00Z", parsed.Rows[1].Updated)
		ticket := domain.NewTicket(parsed.Rows[1])
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ticket.Created)

		assert.Equal(t, int64(9), parsed.Rows[2].ID)
		assert.Empty(t, parsed.Rows[2].Priority)
		assert.Empty(t, parsed.Rows[2].Assignee)
		assert.Empty(t, parsed.Rows[2].Status)

		assert.Zero(t, parsed.Rows[3].ID)
		assert.Equal(t, "12", parsed.Rows[3].Key)
	})

	t.Run("envelope", func(t *testing.T) {
		parsed, err := NewParser().Parse(context.Background(), domain.FormatJSON, strings.NewReader(`{"tickets":[{"id":1}]}`))
		require.NoError(t, err)
		assert.Len(t, parsed.Rows, 1)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := NewParser().Parse(context.Background(), domain.FormatJSON, strings.NewReader("  \n"))
		assert.ErrorIs(t, err, apperrors.ErrEmptyUpload)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := NewParser().Parse(context.Background(), domain.FormatJSON, strings.NewReader(`"tickets"`))
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	})
}

func TestParser_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"ID", "Key", "Priority", "Created", "Updated"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{1, "OPS-1", "High", 45355.375, "2024-03-04T11:00:00"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{2.0, "OPS-2", "Low", "", ""}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	parsed, err := NewParser().Parse(context.Background(), domain.FormatXLSX, &buf)
	require.NoError(t, err)
	require.Len(t, parsed.Rows, 2)

	first := parsed.Rows[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "OPS-1", first.Key)
	assert.Equal(t, "2024-03-04T09:00:00", first.Created)
	assert.Equal(t, "2024-03-04T11:00:00", first.Updated)

	assert.Equal(t, int64(2), parsed.Rows[1].ID)
	assert.Empty(t, parsed.Rows[1].Created)
}

func TestParser_XLSXInvalid(t *testing.T) {
	_, err := NewParser().Parse(context.Background(), domain.FormatXLSX, strings.NewReader("not a zip"))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestParser_UnsupportedFormat(t *testing.T) {
	_, err := NewParser().Parse(context.Background(), domain.ImportFormat("xls"), strings.NewReader(""))
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"", 0, true},
		{"42", 42, true},
		{"42.0", 42, true},
		{"42.5", 0, false},
		{"OPS-1", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseID(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
