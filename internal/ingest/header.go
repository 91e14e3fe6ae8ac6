package ingest

import "strings"

// Field names a canonical lead field a spreadsheet column can map to.
type Field string

const (
	FieldName               Field = "name"
	FieldTitle              Field = "title"
	FieldCompanyName        Field = "companyName"
	FieldEmail              Field = "email"
	FieldWorkDirectPhone    Field = "workDirectPhone"
	FieldMobilePhone        Field = "mobilePhone"
	FieldHomePhone          Field = "homePhone"
	FieldCorporatePhone     Field = "corporatePhone"
	FieldSalesPhone         Field = "salesPhone"
	FieldOtherPhone         Field = "otherPhone"
	FieldPersonLinkedinURL  Field = "personLinkedinUrl"
	FieldCompanyLinkedinURL Field = "companyLinkedinUrl"
	FieldWebsite            Field = "website"
	FieldAddress            Field = "address"
	FieldCity               Field = "city"
	FieldState              Field = "state"
	FieldSource             Field = "source"
	FieldStatus             Field = "status"
	FieldPriority           Field = "priority"
	FieldSegment            Field = "segment"
	FieldSourceChannel      Field = "sourceChannel"
	FieldEmployees          Field = "employees"
	FieldRevenue            Field = "revenue"
	FieldNotes              Field = "notes"
	FieldNextFollowUp       Field = "nextFollowUp"
	FieldDate               Field = "date"
	FieldAssignedAgent      Field = "assignedAgent"
)

// headerSynonyms maps normalized header strings to canonical fields. Every
// canonical field has at least one entry.
var headerSynonyms = map[string]Field{
	"name":         FieldName,
	"full name":    FieldName,
	"contact name": FieldName,
	"contact":      FieldName,
	"lead name":    FieldName,

	"title":     FieldTitle,
	"job title": FieldTitle,
	"position":  FieldTitle,
	"role":      FieldTitle,

	"company":       FieldCompanyName,
	"company name":  FieldCompanyName,
	"account":       FieldCompanyName,
	"account name":  FieldCompanyName,
	"organization":  FieldCompanyName,
	"organisation":  FieldCompanyName,
	"business name": FieldCompanyName,

	"email":         FieldEmail,
	"e mail":        FieldEmail,
	"email address": FieldEmail,
	"work email":    FieldEmail,

	"phone":             FieldWorkDirectPhone,
	"phone number":      FieldWorkDirectPhone,
	"work phone":        FieldWorkDirectPhone,
	"office phone":      FieldWorkDirectPhone,
	"direct phone":      FieldWorkDirectPhone,
	"direct line":       FieldWorkDirectPhone,
	"work direct phone": FieldWorkDirectPhone,
	"business phone":    FieldWorkDirectPhone,

	"mobile":        FieldMobilePhone,
	"mobile phone":  FieldMobilePhone,
	"mobile number": FieldMobilePhone,
	"cell":          FieldMobilePhone,
	"cell phone":    FieldMobilePhone,

	"home phone":  FieldHomePhone,
	"home number": FieldHomePhone,

	"corporate phone":    FieldCorporatePhone,
	"company phone":      FieldCorporatePhone,
	"hq phone":           FieldCorporatePhone,
	"main phone":         FieldCorporatePhone,
	"headquarters phone": FieldCorporatePhone,

	"sales phone": FieldSalesPhone,
	"sales line":  FieldSalesPhone,

	"other phone":     FieldOtherPhone,
	"alternate phone": FieldOtherPhone,
	"secondary phone": FieldOtherPhone,

	"linkedin":            FieldPersonLinkedinURL,
	"linkedin url":        FieldPersonLinkedinURL,
	"linkedin profile":    FieldPersonLinkedinURL,
	"person linkedin url": FieldPersonLinkedinURL,
	"contact linkedin":    FieldPersonLinkedinURL,

	"company linkedin":     FieldCompanyLinkedinURL,
	"company linkedin url": FieldCompanyLinkedinURL,

	"website":         FieldWebsite,
	"web site":        FieldWebsite,
	"url":             FieldWebsite,
	"domain":          FieldWebsite,
	"company website": FieldWebsite,

	"address":         FieldAddress,
	"street":          FieldAddress,
	"street address":  FieldAddress,
	"mailing address": FieldAddress,

	"city": FieldCity,
	"town": FieldCity,

	"state":          FieldState,
	"province":       FieldState,
	"region":         FieldState,
	"state province": FieldState,

	"source":      FieldSource,
	"lead source": FieldSource,

	"status":         FieldStatus,
	"stage":          FieldStatus,
	"lead status":    FieldStatus,
	"pipeline stage": FieldStatus,

	"priority": FieldPriority,
	"grade":    FieldPriority,
	"rating":   FieldPriority,

	"segment":        FieldSegment,
	"industry":       FieldSegment,
	"vertical":       FieldSegment,
	"market segment": FieldSegment,

	"source channel":      FieldSourceChannel,
	"channel":             FieldSourceChannel,
	"acquisition channel": FieldSourceChannel,

	"employees":           FieldEmployees,
	"employee count":      FieldEmployees,
	"number of employees": FieldEmployees,
	"headcount":           FieldEmployees,
	"company size":        FieldEmployees,

	"revenue":        FieldRevenue,
	"annual revenue": FieldRevenue,

	"notes":       FieldNotes,
	"note":        FieldNotes,
	"comments":    FieldNotes,
	"description": FieldNotes,

	"next follow up":      FieldNextFollowUp,
	"next followup":       FieldNextFollowUp,
	"follow up":           FieldNextFollowUp,
	"follow up date":      FieldNextFollowUp,
	"next follow up date": FieldNextFollowUp,

	"date":         FieldDate,
	"created":      FieldDate,
	"created date": FieldDate,
	"date added":   FieldDate,

	"agent":          FieldAssignedAgent,
	"assigned agent": FieldAssignedAgent,
	"assigned to":    FieldAssignedAgent,
	"owner":          FieldAssignedAgent,
	"lead owner":     FieldAssignedAgent,
	"rep":            FieldAssignedAgent,
	"sales rep":      FieldAssignedAgent,
}

// NormalizeHeader lowercases a raw header, replaces every non-alphanumeric
// run with a single space, and collapses whitespace. "Work-Phone #" and
// "work phone" normalize identically.
func NormalizeHeader(header string) string {
	var b strings.Builder
	b.Grow(len(header))
	for _, r := range strings.ToLower(header) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// HeaderMap associates each raw header with its canonical field.
type HeaderMap map[string]Field

// MapHeaders resolves raw headers against the synonym table. The mapping
// is pure and position-independent: a given header always resolves to the
// same field. Headers with no synonym entry are returned in input order as
// unmapped; the caller decides their fate.
func MapHeaders(headers []string) (HeaderMap, []string) {
	mapped := make(HeaderMap, len(headers))
	var unmapped []string
	for _, h := range headers {
		if h == "" {
			continue
		}
		if field, ok := headerSynonyms[NormalizeHeader(h)]; ok {
			mapped[h] = field
		} else {
			unmapped = append(unmapped, h)
		}
	}
	return mapped, unmapped
}
