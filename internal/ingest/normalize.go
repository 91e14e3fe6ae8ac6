package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sells-group/lead-cli/internal/model"
)

// NormalizeOptions carries the per-batch context a row needs.
type NormalizeOptions struct {
	// DefaultAgent is assigned to every imported lead unless the sheet
	// carries an agent column.
	DefaultAgent string

	// Now stamps the import time on the record, its seeded activity, and
	// its initial stage history entry.
	Now time.Time

	// RowIndex is the 0-based data row index, used for the name
	// placeholder of last resort. Displayed row numbers are RowIndex+2
	// (1-based, after the header).
	RowIndex int
}

// NormalizeRow converts one raw row into a candidate lead record. Nothing
// is discarded: unmapped columns overflow into notes, and invalid enum
// values are coerced with the original preserved as a note. headers fixes
// the iteration order so output is deterministic.
func NormalizeRow(headers []string, row map[string]string, hmap HeaderMap, unmapped []string, opts NormalizeOptions) model.Lead {
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	lead := model.Lead{
		Source:        model.SourceCSVImport,
		Status:        model.StatusNewLead,
		Priority:      model.PriorityC,
		AssignedAgent: opts.DefaultAgent,
		Date:          now,
		LastActivity:  now,
	}

	var rawSource, rawStatus string

	for _, header := range headers {
		field, ok := hmap[header]
		if !ok {
			continue
		}
		value := strings.TrimSpace(row[header])
		if value == "" {
			continue
		}

		switch field {
		case FieldName:
			lead.Name = value
		case FieldTitle:
			lead.Title = value
		case FieldCompanyName:
			lead.CompanyName = value
		case FieldEmail:
			lead.Email = value
		case FieldWorkDirectPhone:
			lead.WorkDirectPhone = value
		case FieldMobilePhone:
			lead.MobilePhone = value
		case FieldHomePhone:
			lead.HomePhone = value
		case FieldCorporatePhone:
			lead.CorporatePhone = value
		case FieldSalesPhone:
			lead.SalesPhone = value
		case FieldOtherPhone:
			lead.OtherPhone = value
		case FieldPersonLinkedinURL:
			lead.PersonLinkedinURL = value
		case FieldCompanyLinkedinURL:
			lead.CompanyLinkedinURL = value
		case FieldWebsite:
			lead.Website = value
		case FieldAddress:
			lead.Address = value
		case FieldCity:
			lead.City = value
		case FieldState:
			lead.State = value
		case FieldSource:
			rawSource = value
		case FieldStatus:
			rawStatus = value
		case FieldPriority:
			if p, ok := model.ParsePriority(strings.ToUpper(value)); ok {
				lead.Priority = p
			}
		case FieldSegment:
			lead.Segment = value
		case FieldSourceChannel:
			lead.SourceChannel = value
		case FieldEmployees:
			lead.Employees = parseEmployees(value)
		case FieldRevenue:
			if rev, ok := parseRevenue(value); ok {
				lead.Revenue = rev
			}
		case FieldNotes:
			lead.AppendNote(value)
		case FieldNextFollowUp:
			if d, ok := parseDate(value); ok {
				lead.NextFollowUp = &d
			}
		case FieldDate:
			if d, ok := parseDate(value); ok {
				lead.Date = d
			}
		case FieldAssignedAgent:
			lead.AssignedAgent = value
		}
	}

	// Unmapped columns survive as "header: value" notes.
	for _, header := range unmapped {
		if value := strings.TrimSpace(row[header]); value != "" {
			lead.AppendNote(header + ": " + value)
		}
	}

	// Every record gets a non-empty name.
	if lead.Name == "" {
		switch {
		case lead.Email != "":
			lead.Name = lead.Email
		case lead.CompanyName != "":
			lead.Name = lead.CompanyName
		default:
			lead.Name = fmt.Sprintf("Imported Lead (Row %d)", opts.RowIndex+2)
		}
	}

	// Invalid enums are coerced, never rejected; the original value is
	// kept for audit.
	if rawSource != "" {
		if src, ok := model.ParseSource(rawSource); ok {
			lead.Source = src
		} else {
			lead.AppendNote("Original source: " + rawSource)
		}
	}
	if rawStatus != "" {
		if st, ok := model.ParseStatus(rawStatus); ok {
			lead.Status = st
		} else {
			lead.AppendNote("Original status: " + rawStatus)
		}
	}

	lead.Activities = []model.Activity{{
		Type:        model.ActivityNote,
		Description: "Lead imported via CSV",
		Timestamp:   now,
		Agent:       lead.AssignedAgent,
	}}
	lead.StageHistory = []model.StageEntry{{
		Stage:     lead.Status,
		EnteredAt: now,
		Agent:     lead.AssignedAgent,
	}}

	return lead
}

// parseEmployees strips everything but digits ("~1,200 people" -> 1200).
// Returns nil when no digits remain.
func parseEmployees(value string) *int {
	var digits strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return nil
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return nil
	}
	return &n
}

// parseRevenue accepts "$1,500,000" / "1500000.50" style values.
func parseRevenue(value string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return -1
		}
	}, value)
	if cleaned == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, value); err == nil {
			return d.UTC(), true
		}
	}
	return time.Time{}, false
}
