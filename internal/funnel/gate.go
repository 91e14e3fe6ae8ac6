package funnel

import "github.com/sells-group/lead-cli/internal/model"

// GateResult is the outcome of the outreach-readiness quality gate.
type GateResult struct {
	Pass    bool     `json:"pass"`
	Missing []string `json:"missing"`
}

// gateCriteria lists the seven completeness checks in declaration order.
// Missing labels come back in exactly this order.
var gateCriteria = []struct {
	label string
	check func(model.Lead) bool
}{
	{"Company Name", func(l model.Lead) bool { return l.CompanyName != "" }},
	{"Web Presence", func(l model.Lead) bool { return l.HasWebPresence() }},
	{"State", func(l model.Lead) bool { return l.State != "" }},
	{"Segment", func(l model.Lead) bool { return l.Segment != "" }},
	{"Name", func(l model.Lead) bool { return l.Name != "" }},
	{"Contact Method", func(l model.Lead) bool { return l.HasContactMethod() }},
	{"Source Channel", func(l model.Lead) bool { return l.SourceChannel != "" }},
}

// EvaluateGate scores a lead against the seven-criterion quality gate.
// Pure: callable at any time, never mutates the lead.
func EvaluateGate(lead model.Lead) GateResult {
	result := GateResult{Missing: []string{}}
	for _, c := range gateCriteria {
		if !c.check(lead) {
			result.Missing = append(result.Missing, c.label)
		}
	}
	result.Pass = len(result.Missing) == 0
	return result
}
