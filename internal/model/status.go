package model

// Status is a lead's position in the sales funnel. The string values are
// stable wire/storage identifiers.
type Status string

const (
	StatusNewLead          Status = "New Lead"
	StatusWorking          Status = "Working"
	StatusConnected        Status = "Connected"
	StatusQualified        Status = "Qualified"
	StatusMeetingBooked    Status = "Meeting Booked"
	StatusMeetingCompleted Status = "Meeting Completed"
	StatusProposalSent     Status = "Proposal Sent"
	StatusNegotiation      Status = "Negotiation"
	StatusClosedWon        Status = "Closed Won"
	StatusClosedLost       Status = "Closed Lost"
	StatusNurture          Status = "Nurture"
)

// AllStatuses lists every pipeline stage in funnel order.
var AllStatuses = []Status{
	StatusNewLead,
	StatusWorking,
	StatusConnected,
	StatusQualified,
	StatusMeetingBooked,
	StatusMeetingCompleted,
	StatusProposalSent,
	StatusNegotiation,
	StatusClosedWon,
	StatusClosedLost,
	StatusNurture,
}

// ParseStatus resolves a raw string to a canonical Status.
// The second return is false when the input is not a known stage.
func ParseStatus(s string) (Status, bool) {
	for _, st := range AllStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return StatusNewLead, false
}

// Valid reports whether s is one of the eleven canonical stages.
func (s Status) Valid() bool {
	_, ok := ParseStatus(string(s))
	return ok
}

// Terminal reports whether the lead is resolved for reporting purposes.
func (s Status) Terminal() bool {
	return s == StatusClosedWon || s == StatusClosedLost || s == StatusNurture
}
