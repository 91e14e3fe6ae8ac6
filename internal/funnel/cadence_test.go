package funnel

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-cli/internal/model"
)

func TestScheduler_Start(t *testing.T) {
	t.Parallel()

	sched := NewScheduler(DefaultTemplates)
	now := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)

	lead, err := sched.Start(model.Lead{AssignedAgent: "agent-7"}, "standard", now)
	require.NoError(t, err)

	require.NotNil(t, lead.Cadence)
	assert.Equal(t, "standard", lead.Cadence.Type)
	assert.Equal(t, 1, lead.Cadence.CurrentDay)
	assert.Equal(t, now, lead.Cadence.StartedAt)
	assert.Len(t, lead.Cadence.Touches, 8)
	for _, touch := range lead.Cadence.Touches {
		assert.False(t, touch.Completed)
	}
	require.Len(t, lead.Activities, 1)
}

func TestScheduler_StartUnknownType(t *testing.T) {
	t.Parallel()

	sched := NewScheduler(DefaultTemplates)
	_, err := sched.Start(model.Lead{}, "nonexistent", time.Time{})
	assert.Error(t, err)
}

func TestCompleteTouch(t *testing.T) {
	t.Parallel()

	sched := NewScheduler(DefaultTemplates)
	now := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	lead, err := sched.Start(model.Lead{AssignedAgent: "agent-7"}, "standard", now)
	require.NoError(t, err)

	lead, err = CompleteTouch(lead, 1, model.ActivityCall, "agent-7", now.Add(time.Hour))
	require.NoError(t, err)

	assert.True(t, lead.Cadence.Touches[0].Completed)
	require.NotNil(t, lead.Cadence.Touches[0].CompletedAt)
	assert.Equal(t, 1, lead.CallCount, "call touches bump the call counter")

	last := lead.Activities[len(lead.Activities)-1]
	assert.Equal(t, model.ActivityCadenceTouch, last.Type)

	// The day-1 email is untouched.
	assert.False(t, lead.Cadence.Touches[1].Completed)

	// Email touches do not bump the call counter.
	lead, err = CompleteTouch(lead, 1, model.ActivityEmail, "agent-7", now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, lead.CallCount)
}

func TestCompleteTouch_NoMatch(t *testing.T) {
	t.Parallel()

	sched := NewScheduler(DefaultTemplates)
	lead, err := sched.Start(model.Lead{}, "standard", time.Time{})
	require.NoError(t, err)

	_, err = CompleteTouch(lead, 99, model.ActivityCall, "agent-7", time.Time{})
	assert.Error(t, err)

	// Completing the same touch twice fails the second time.
	lead, err = CompleteTouch(lead, 1, model.ActivityCall, "agent-7", time.Time{})
	require.NoError(t, err)
	_, err = CompleteTouch(lead, 1, model.ActivityCall, "agent-7", time.Time{})
	assert.Error(t, err)
}

func TestCompleteTouch_DoesNotMutate(t *testing.T) {
	t.Parallel()

	sched := NewScheduler(DefaultTemplates)
	now := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	lead, err := sched.Start(model.Lead{AssignedAgent: "agent-7"}, "standard", now)
	require.NoError(t, err)

	updated, err := CompleteTouch(lead, 1, model.ActivityCall, "agent-7", now)
	require.NoError(t, err)

	assert.True(t, updated.Cadence.Touches[0].Completed)
	assert.False(t, lead.Cadence.Touches[0].Completed, "input lead's touch stays incomplete")
	assert.Nil(t, lead.Cadence.Touches[0].CompletedAt)
	assert.Equal(t, 0, lead.CallCount)
}

func TestAdvance_DoesNotMutate(t *testing.T) {
	t.Parallel()

	sched := NewScheduler(DefaultTemplates)
	start := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	lead, err := sched.Start(model.Lead{}, "standard", start)
	require.NoError(t, err)

	updated := Advance(lead, start.Add(4*24*time.Hour))
	assert.Equal(t, 5, updated.Cadence.CurrentDay)
	assert.Equal(t, 1, lead.Cadence.CurrentDay, "input lead's cadence day stays put")
}

func TestCompleteTouch_NoCadence(t *testing.T) {
	t.Parallel()

	_, err := CompleteTouch(model.Lead{}, 1, model.ActivityCall, "agent-7", time.Time{})
	assert.Error(t, err)
}

func TestAdvance(t *testing.T) {
	t.Parallel()

	sched := NewScheduler(DefaultTemplates)
	start := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	lead, err := sched.Start(model.Lead{}, "standard", start)
	require.NoError(t, err)

	lead = Advance(lead, start.Add(4*24*time.Hour))
	assert.Equal(t, 5, lead.Cadence.CurrentDay)

	// Never moves backwards.
	lead = Advance(lead, start.Add(24*time.Hour))
	assert.Equal(t, 5, lead.Cadence.CurrentDay)

	// No cadence, no change.
	bare := Advance(model.Lead{}, start)
	assert.Nil(t, bare.Cadence)
}

func TestDueTouches(t *testing.T) {
	t.Parallel()

	sched := NewScheduler(DefaultTemplates)
	start := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	lead, err := sched.Start(model.Lead{}, "standard", start)
	require.NoError(t, err)

	// Day 1: the two day-1 touches are due.
	assert.Len(t, DueTouches(lead), 2)

	lead, err = CompleteTouch(lead, 1, model.ActivityCall, "agent-7", start)
	require.NoError(t, err)
	assert.Len(t, DueTouches(lead), 1)

	// Day 5: day-3 and day-5 touches join the backlog.
	lead = Advance(lead, start.Add(4*24*time.Hour))
	assert.Len(t, DueTouches(lead), 3)
}

func TestLoadTemplates(t *testing.T) {
	t.Parallel()

	t.Run("empty path returns defaults", func(t *testing.T) {
		t.Parallel()
		templates, err := LoadTemplates("")
		require.NoError(t, err)
		assert.Equal(t, DefaultTemplates, templates)
	})

	t.Run("reads yaml file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "cadences.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
- type: quick
  touches:
    - day: 1
      type: call
    - day: 2
      type: email
`), 0o644))

		templates, err := LoadTemplates(path)
		require.NoError(t, err)
		require.Len(t, templates, 1)
		assert.Equal(t, "quick", templates[0].Type)
		require.Len(t, templates[0].Touches, 2)
		assert.Equal(t, model.ActivityCall, templates[0].Touches[0].Type)
	})

	t.Run("missing file errors", func(t *testing.T) {
		t.Parallel()
		_, err := LoadTemplates(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
