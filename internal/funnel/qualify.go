package funnel

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-cli/internal/model"
)

// QualificationField names one of the three 3-Yes Rule judgments.
type QualificationField string

const (
	QualRightPerson QualificationField = "rightPerson"
	QualRealNeed    QualificationField = "realNeed"
	QualTiming      QualificationField = "timing"
)

// ToggleQualification flips the named qualification boolean. The first
// time all three judgments are simultaneously true, qualifiedAt/qualifiedBy
// are stamped. Un-toggling afterwards does not clear the stamp: the
// qualification timestamp records a historical fact, not a live derived
// value.
func ToggleQualification(lead model.Lead, field QualificationField, now time.Time) (model.Lead, error) {
	switch field {
	case QualRightPerson:
		lead.Qualification.RightPerson = !lead.Qualification.RightPerson
	case QualRealNeed:
		lead.Qualification.RealNeed = !lead.Qualification.RealNeed
	case QualTiming:
		lead.Qualification.Timing = !lead.Qualification.Timing
	default:
		return lead, eris.Errorf("funnel: unknown qualification field %q", string(field))
	}

	if now.IsZero() {
		now = time.Now().UTC()
	}

	if lead.Qualification.AllYes() && lead.Qualification.QualifiedAt == nil {
		qualifiedAt := now
		lead.Qualification.QualifiedAt = &qualifiedAt
		lead.Qualification.QualifiedBy = lead.AssignedAgent
	}

	if now.After(lead.LastActivity) {
		lead.LastActivity = now
	}
	return lead, nil
}
