package model

import (
	"strings"
	"time"
)

// ActivityType classifies an entry in a lead's activity log.
type ActivityType string

const (
	ActivityCall         ActivityType = "call"
	ActivityFollowUp     ActivityType = "follow-up"
	ActivityNote         ActivityType = "note"
	ActivityStatusChange ActivityType = "status-change"
	ActivityEmail        ActivityType = "email"
	ActivityLinkedIn     ActivityType = "linkedin"
	ActivityCadenceTouch ActivityType = "cadence-touch"
)

// Activity is one entry in a lead's append-only activity log.
type Activity struct {
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
	Timestamp   time.Time    `json:"timestamp"`
	Agent       string       `json:"agent,omitempty"`
}

// StageEntry is one entry in a lead's append-only stage history.
type StageEntry struct {
	Stage     Status    `json:"stage"`
	EnteredAt time.Time `json:"entered_at"`
	Agent     string    `json:"agent,omitempty"`
}

// Qualification tracks the 3-Yes Rule: a lead is qualified the moment all
// three judgments are simultaneously true. QualifiedAt/QualifiedBy are set
// exactly once at that moment and survive later un-toggles.
type Qualification struct {
	RightPerson bool       `json:"right_person"`
	RealNeed    bool       `json:"real_need"`
	Timing      bool       `json:"timing"`
	QualifiedAt *time.Time `json:"qualified_at,omitempty"`
	QualifiedBy string     `json:"qualified_by,omitempty"`
}

// AllYes reports whether all three qualification judgments are true.
func (q Qualification) AllYes() bool {
	return q.RightPerson && q.RealNeed && q.Timing
}

// Touch is one scripted outreach step in a cadence.
type Touch struct {
	Day         int          `json:"day"`
	Type        ActivityType `json:"type"`
	Completed   bool         `json:"completed"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

// Cadence is a day-indexed outreach sequence attached to a lead.
type Cadence struct {
	Type       string    `json:"type"`
	StartedAt  time.Time `json:"started_at"`
	CurrentDay int       `json:"current_day"`
	Touches    []Touch   `json:"touches"`
}

// Lead is the canonical typed lead record, the aggregate root of the
// pipeline. The field set is closed: normalization writes only to these
// fields, with Notes as the overflow bucket for input that has no
// canonical home.
type Lead struct {
	ID string `json:"id"`

	// Contact.
	Name               string `json:"name"`
	Title              string `json:"title,omitempty"`
	CompanyName        string `json:"company_name,omitempty"`
	Email              string `json:"email,omitempty"`
	WorkDirectPhone    string `json:"work_direct_phone,omitempty"`
	MobilePhone        string `json:"mobile_phone,omitempty"`
	HomePhone          string `json:"home_phone,omitempty"`
	CorporatePhone     string `json:"corporate_phone,omitempty"`
	SalesPhone         string `json:"sales_phone,omitempty"`
	OtherPhone         string `json:"other_phone,omitempty"`
	PersonLinkedinURL  string `json:"person_linkedin_url,omitempty"`
	CompanyLinkedinURL string `json:"company_linkedin_url,omitempty"`
	Website            string `json:"website,omitempty"`
	Address            string `json:"address,omitempty"`
	City               string `json:"city,omitempty"`
	State              string `json:"state,omitempty"`

	// Classification.
	Source        Source   `json:"source"`
	Status        Status   `json:"status"`
	Priority      Priority `json:"priority"`
	Segment       string   `json:"segment,omitempty"`
	SourceChannel string   `json:"source_channel,omitempty"`

	// Tracking.
	AssignedAgent string     `json:"assigned_agent"`
	Date          time.Time  `json:"date"`
	CallCount     int        `json:"call_count"`
	LastActivity  time.Time  `json:"last_activity"`
	NextFollowUp  *time.Time `json:"next_follow_up,omitempty"`
	ClosedBy      string     `json:"closed_by,omitempty"`
	ClosedAt      *time.Time `json:"closed_at,omitempty"`
	Revenue       float64    `json:"revenue,omitempty"`
	Employees     *int       `json:"employees,omitempty"`
	Notes         string     `json:"notes,omitempty"`

	Activities    []Activity    `json:"activities"`
	StageHistory  []StageEntry  `json:"stage_history"`
	Qualification Qualification `json:"qualification"`
	Cadence       *Cadence      `json:"cadence,omitempty"`
}

// AppendActivity appends an entry to the activity log and refreshes
// LastActivity.
func (l *Lead) AppendActivity(a Activity) {
	l.Activities = append(l.Activities, a)
	if a.Timestamp.After(l.LastActivity) {
		l.LastActivity = a.Timestamp
	}
}

// AppendNote appends a line to the free-text Notes overflow bucket.
func (l *Lead) AppendNote(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	if l.Notes == "" {
		l.Notes = line
		return
	}
	l.Notes += "\n" + line
}

// HasWebPresence reports whether any of the web/LinkedIn fields is set.
func (l *Lead) HasWebPresence() bool {
	return l.Website != "" || l.CompanyLinkedinURL != "" || l.PersonLinkedinURL != ""
}

// HasContactMethod reports whether the lead is reachable by email or any
// of the direct phone variants.
func (l *Lead) HasContactMethod() bool {
	return l.Email != "" || l.WorkDirectPhone != "" || l.MobilePhone != "" || l.HomePhone != ""
}
