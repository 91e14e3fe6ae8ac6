// Package funnel holds the pipeline state rules for a lead record. All
// mutations are pure: they take a lead value and return the next state,
// leaving persistence to the caller.
package funnel

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-cli/internal/events"
	"github.com/sells-group/lead-cli/internal/model"
)

// Engine validates and applies stage transitions. The injected bus
// receives a lead-status-changed event per applied transition; emission is
// fire-and-forget and never blocks or fails the transition.
type Engine struct {
	bus events.Bus
	now func() time.Time
}

// NewEngine builds a transition engine. A nil bus disables emission.
func NewEngine(bus events.Bus) *Engine {
	if bus == nil {
		bus = events.NopBus{}
	}
	return &Engine{bus: bus, now: func() time.Time { return time.Now().UTC() }}
}

// Transition moves a lead to newStatus and returns the updated record.
// Transitioning to the current status is an idempotent no-op: no history
// entry, no side effects. Entering Closed Won from any other stage stamps
// closedBy/closedAt; a lead that left and re-entered the won stage is
// re-stamped, since the guarded condition genuinely re-fired.
//
// Meeting Booked, Meeting Completed, and Closed Won require an external
// confirmation step (meeting details, contract dates) by policy; that
// precondition belongs to callers, which is why Transition stays a pure
// rule application they can intercept before committing.
func (e *Engine) Transition(ctx context.Context, lead model.Lead, newStatus model.Status, actingAgent string) (model.Lead, error) {
	if !newStatus.Valid() {
		return lead, eris.Errorf("funnel: invalid status %q", string(newStatus))
	}
	if newStatus == lead.Status {
		return lead, nil
	}

	now := e.now()
	oldStatus := lead.Status

	lead.StageHistory = append(lead.StageHistory, model.StageEntry{
		Stage:     newStatus,
		EnteredAt: now,
		Agent:     actingAgent,
	})
	lead.Status = newStatus
	lead.AppendActivity(model.Activity{
		Type:        model.ActivityStatusChange,
		Description: "Status changed from " + string(oldStatus) + " to " + string(newStatus),
		Timestamp:   now,
		Agent:       actingAgent,
	})

	if newStatus == model.StatusClosedWon && oldStatus != model.StatusClosedWon {
		closedAt := now
		lead.ClosedBy = actingAgent
		lead.ClosedAt = &closedAt
	}

	e.bus.Publish(ctx, events.StatusChanged{
		LeadID:    lead.ID,
		OldStatus: string(oldStatus),
		NewStatus: string(newStatus),
	})

	return lead, nil
}
