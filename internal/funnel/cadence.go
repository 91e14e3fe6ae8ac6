package funnel

import (
	"os"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/lead-cli/internal/model"
)

// TouchSpec is one scripted step in a cadence template.
type TouchSpec struct {
	Day  int                `yaml:"day"`
	Type model.ActivityType `yaml:"type"`
}

// CadenceTemplate is a named, day-indexed outreach script.
type CadenceTemplate struct {
	Type    string      `yaml:"type"`
	Touches []TouchSpec `yaml:"touches"`
}

// DefaultTemplates are the built-in outreach scripts, used when no
// template file is configured.
var DefaultTemplates = []CadenceTemplate{
	{
		Type: "standard",
		Touches: []TouchSpec{
			{Day: 1, Type: model.ActivityCall},
			{Day: 1, Type: model.ActivityEmail},
			{Day: 3, Type: model.ActivityEmail},
			{Day: 5, Type: model.ActivityLinkedIn},
			{Day: 8, Type: model.ActivityCall},
			{Day: 12, Type: model.ActivityEmail},
			{Day: 16, Type: model.ActivityCall},
			{Day: 21, Type: model.ActivityEmail},
		},
	},
	{
		Type: "high-touch",
		Touches: []TouchSpec{
			{Day: 1, Type: model.ActivityCall},
			{Day: 2, Type: model.ActivityEmail},
			{Day: 3, Type: model.ActivityCall},
			{Day: 4, Type: model.ActivityLinkedIn},
			{Day: 5, Type: model.ActivityCall},
			{Day: 7, Type: model.ActivityEmail},
			{Day: 9, Type: model.ActivityCall},
			{Day: 11, Type: model.ActivityEmail},
			{Day: 14, Type: model.ActivityCall},
		},
	},
}

// LoadTemplates reads cadence templates from a YAML file. An empty path
// returns the built-in defaults.
func LoadTemplates(path string) ([]CadenceTemplate, error) {
	if path == "" {
		return DefaultTemplates, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "cadence: read templates %s", path)
	}
	var templates []CadenceTemplate
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, eris.Wrapf(err, "cadence: parse templates %s", path)
	}
	if len(templates) == 0 {
		return nil, eris.Errorf("cadence: no templates in %s", path)
	}
	return templates, nil
}

// Scheduler derives and tracks scripted outreach sequences.
type Scheduler struct {
	templates map[string]CadenceTemplate
}

// NewScheduler indexes the given templates by type.
func NewScheduler(templates []CadenceTemplate) *Scheduler {
	idx := make(map[string]CadenceTemplate, len(templates))
	for _, t := range templates {
		idx[t.Type] = t
	}
	return &Scheduler{templates: idx}
}

// Templates lists the known cadence type names.
func (s *Scheduler) Templates() []string {
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	return names
}

// Start attaches a fresh cadence of the given type to the lead, replacing
// any cadence already in progress.
func (s *Scheduler) Start(lead model.Lead, cadenceType string, now time.Time) (model.Lead, error) {
	tmpl, ok := s.templates[cadenceType]
	if !ok {
		return lead, eris.Errorf("cadence: unknown type %q", cadenceType)
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	touches := make([]model.Touch, len(tmpl.Touches))
	for i, spec := range tmpl.Touches {
		touches[i] = model.Touch{Day: spec.Day, Type: spec.Type}
	}

	lead.Cadence = &model.Cadence{
		Type:       cadenceType,
		StartedAt:  now,
		CurrentDay: 1,
		Touches:    touches,
	}
	lead.AppendActivity(model.Activity{
		Type:        model.ActivityNote,
		Description: "Started " + cadenceType + " cadence",
		Timestamp:   now,
		Agent:       lead.AssignedAgent,
	})
	return lead, nil
}

// CompleteTouch marks the first matching incomplete touch done, logs a
// cadence-touch activity, and bumps the call counter for call touches.
// The input lead's cadence is left untouched.
func CompleteTouch(lead model.Lead, day int, touchType model.ActivityType, agent string, now time.Time) (model.Lead, error) {
	if lead.Cadence == nil {
		return lead, eris.New("cadence: lead has no active cadence")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	for i, t := range lead.Cadence.Touches {
		if t.Day != day || t.Type != touchType || t.Completed {
			continue
		}
		c := *lead.Cadence
		c.Touches = make([]model.Touch, len(lead.Cadence.Touches))
		copy(c.Touches, lead.Cadence.Touches)
		completedAt := now
		c.Touches[i].Completed = true
		c.Touches[i].CompletedAt = &completedAt
		lead.Cadence = &c

		if touchType == model.ActivityCall {
			lead.CallCount++
		}
		lead.AppendActivity(model.Activity{
			Type:        model.ActivityCadenceTouch,
			Description: "Completed day " + strconv.Itoa(day) + " " + string(touchType) + " touch",
			Timestamp:   now,
			Agent:       agent,
		})
		return lead, nil
	}
	return lead, eris.Errorf("cadence: no pending day %d %s touch", day, string(touchType))
}

// Advance recomputes the cadence's current day from elapsed time. Day 1
// is the start day; the counter never moves backwards. The input lead's
// cadence is left untouched so callers can diff against it.
func Advance(lead model.Lead, now time.Time) model.Lead {
	if lead.Cadence == nil {
		return lead
	}
	day := int(now.Sub(lead.Cadence.StartedAt).Hours()/24) + 1
	if day > lead.Cadence.CurrentDay {
		c := *lead.Cadence
		c.CurrentDay = day
		lead.Cadence = &c
	}
	return lead
}

// DueTouches lists incomplete touches scheduled on or before the
// cadence's current day.
func DueTouches(lead model.Lead) []model.Touch {
	if lead.Cadence == nil {
		return nil
	}
	var due []model.Touch
	for _, t := range lead.Cadence.Touches {
		if !t.Completed && t.Day <= lead.Cadence.CurrentDay {
			due = append(due, t)
		}
	}
	return due
}
