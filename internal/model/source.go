package model

// Source records where a lead originally came from.
type Source string

const (
	SourceCSVImport       Source = "CSV Import"
	SourceManual          Source = "Manual"
	SourceWebsite         Source = "Website"
	SourceReferral        Source = "Referral"
	SourceLinkedIn        Source = "LinkedIn"
	SourceColdHighFit     Source = "Cold – High Fit"
	SourceWarmEngaged     Source = "Warm – Engaged"
	SourceColdQuickSource Source = "Cold – Quick Sourced"
	SourceColdBulkData    Source = "Cold – Bulk Data"
	SourceOther           Source = "Other"
)

// AllSources lists every valid lead source.
var AllSources = []Source{
	SourceCSVImport,
	SourceManual,
	SourceWebsite,
	SourceReferral,
	SourceLinkedIn,
	SourceColdHighFit,
	SourceWarmEngaged,
	SourceColdQuickSource,
	SourceColdBulkData,
	SourceOther,
}

// ParseSource resolves a raw string to a canonical Source. Unknown values
// fall back to SourceOther with ok=false.
func ParseSource(s string) (Source, bool) {
	for _, src := range AllSources {
		if string(src) == s {
			return src, true
		}
	}
	return SourceOther, false
}

// Valid reports whether s is one of the ten canonical sources.
func (s Source) Valid() bool {
	_, ok := ParseSource(string(s))
	return ok
}

// Priority ranks how aggressively a lead should be worked.
type Priority string

const (
	PriorityA Priority = "A"
	PriorityB Priority = "B"
	PriorityC Priority = "C"
)

// ParsePriority resolves a raw string to a Priority, defaulting to C.
func ParsePriority(s string) (Priority, bool) {
	switch Priority(s) {
	case PriorityA, PriorityB, PriorityC:
		return Priority(s), true
	}
	return PriorityC, false
}
