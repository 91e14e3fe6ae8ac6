package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-cli/internal/model"
)

func normalizeOne(t *testing.T, headers []string, row map[string]string, opts NormalizeOptions) model.Lead {
	t.Helper()
	hmap, unmapped := MapHeaders(headers)
	return NormalizeRow(headers, row, hmap, unmapped, opts)
}

func TestNormalizeRow_Defaults(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	lead := normalizeOne(t,
		[]string{"Name"},
		map[string]string{"Name": "Jo Field"},
		NormalizeOptions{DefaultAgent: "dana", Now: now},
	)

	assert.Equal(t, "Jo Field", lead.Name)
	assert.Equal(t, model.SourceCSVImport, lead.Source)
	assert.Equal(t, model.StatusNewLead, lead.Status)
	assert.Equal(t, model.PriorityC, lead.Priority)
	assert.Equal(t, "dana", lead.AssignedAgent)
	assert.Equal(t, now, lead.Date)
	assert.Equal(t, now, lead.LastActivity)

	require.Len(t, lead.Activities, 1)
	assert.Equal(t, model.ActivityNote, lead.Activities[0].Type)
	assert.Equal(t, "Lead imported via CSV", lead.Activities[0].Description)

	require.Len(t, lead.StageHistory, 1)
	assert.Equal(t, model.StatusNewLead, lead.StageHistory[0].Stage)
	assert.Equal(t, now, lead.StageHistory[0].EnteredAt)
}

func TestNormalizeRow_FieldCoercion(t *testing.T) {
	t.Parallel()

	headers := []string{"Name", "Employees", "Annual Revenue", "Created Date", "Priority", "Owner"}
	lead := normalizeOne(t, headers, map[string]string{
		"Name":           "Jo Field",
		"Employees":      "~1,200 people",
		"Annual Revenue": "$1,500,000",
		"Created Date":   "2024-06-01",
		"Priority":       "a",
		"Owner":          "marco",
	}, NormalizeOptions{DefaultAgent: "dana"})

	require.NotNil(t, lead.Employees)
	assert.Equal(t, 1200, *lead.Employees)
	assert.Equal(t, 1500000.0, lead.Revenue)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), lead.Date)
	assert.Equal(t, model.PriorityA, lead.Priority)
	assert.Equal(t, "marco", lead.AssignedAgent, "sheet agent column wins over the default")
}

func TestNormalizeRow_InvalidEnumsCoercedWithAuditNote(t *testing.T) {
	t.Parallel()

	headers := []string{"Name", "Status", "Source"}
	lead := normalizeOne(t, headers, map[string]string{
		"Name":   "Jo Field",
		"Status": "Bogus",
		"Source": "Carrier Pigeon",
	}, NormalizeOptions{DefaultAgent: "dana"})

	assert.Equal(t, model.StatusNewLead, lead.Status)
	assert.Equal(t, model.SourceCSVImport, lead.Source, "unrecognized source keeps the import default")
	assert.Contains(t, lead.Notes, "Original status: Bogus")
	assert.Contains(t, lead.Notes, "Original source: Carrier Pigeon")
}

func TestNormalizeRow_ValidEnumsPass(t *testing.T) {
	t.Parallel()

	headers := []string{"Name", "Status", "Source"}
	lead := normalizeOne(t, headers, map[string]string{
		"Name":   "Jo Field",
		"Status": "Meeting Booked",
		"Source": "Referral",
	}, NormalizeOptions{DefaultAgent: "dana"})

	assert.Equal(t, model.StatusMeetingBooked, lead.Status)
	assert.Equal(t, model.SourceReferral, lead.Source)
	assert.Empty(t, lead.Notes)
}

func TestNormalizeRow_UnmappedColumnsPreserved(t *testing.T) {
	t.Parallel()

	headers := []string{"Name", "Favorite Color", "Twitter"}
	lead := normalizeOne(t, headers, map[string]string{
		"Name":           "Jo Field",
		"Favorite Color": "teal",
		"Twitter":        "@jofield",
	}, NormalizeOptions{DefaultAgent: "dana"})

	lines := strings.Split(lead.Notes, "\n")
	assert.Equal(t, []string{"Favorite Color: teal", "Twitter: @jofield"}, lines)
}

func TestNormalizeRow_NameSynthesis(t *testing.T) {
	t.Parallel()

	headers := []string{"Name", "Email", "Company"}

	byEmail := normalizeOne(t, headers, map[string]string{"Email": "jo@acme.test", "Company": "Acme"},
		NormalizeOptions{DefaultAgent: "dana"})
	assert.Equal(t, "jo@acme.test", byEmail.Name, "email outranks company")

	byCompany := normalizeOne(t, headers, map[string]string{"Company": "Acme"},
		NormalizeOptions{DefaultAgent: "dana"})
	assert.Equal(t, "Acme", byCompany.Name)

	placeholder := normalizeOne(t, headers, map[string]string{},
		NormalizeOptions{DefaultAgent: "dana", RowIndex: 3})
	assert.Equal(t, "Imported Lead (Row 5)", placeholder.Name, "row numbers are 1-based after the header")
}

func TestNormalizeRow_BlankCellsLeaveDefaults(t *testing.T) {
	t.Parallel()

	headers := []string{"Name", "Employees", "Priority", "Status"}
	lead := normalizeOne(t, headers, map[string]string{
		"Name":      "Jo Field",
		"Employees": "call us",
		"Priority":  "urgent",
		"Status":    "   ",
	}, NormalizeOptions{DefaultAgent: "dana"})

	assert.Nil(t, lead.Employees, "non-numeric employee counts are dropped")
	assert.Equal(t, model.PriorityC, lead.Priority, "unparseable priority keeps the default")
	assert.Equal(t, model.StatusNewLead, lead.Status)
	assert.Empty(t, lead.Notes, "blank status never generates an audit note")
}

func TestParseDate_Layouts(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{"2024-06-01", "2024/06/01", "06/01/2024", "6/1/2024", "Jun 1, 2024", "June 1, 2024"} {
		got, ok := parseDate(raw)
		require.True(t, ok, "layout %q", raw)
		assert.Equal(t, want, got, "layout %q", raw)
	}

	_, ok := parseDate("next tuesday")
	assert.False(t, ok)
}
