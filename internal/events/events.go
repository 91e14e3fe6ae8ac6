// Package events carries the fire-and-forget domain event contract between
// the pipeline core and its notification collaborators. Delivery is
// best-effort, at-most-once: publishing never blocks or fails the caller.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// Event type identifiers used on the wire.
const (
	TypeLeadStatusChanged = "lead-status-changed"
	TypeLeadsImported     = "leads-imported"
	TypeLeadCreated       = "lead-created"
)

// Payload is a typed domain event body.
type Payload interface {
	EventType() string
}

// StatusChanged fires when a lead moves to a different pipeline stage.
type StatusChanged struct {
	LeadID    string `json:"leadId"`
	OldStatus string `json:"oldStatus"`
	NewStatus string `json:"newStatus"`
}

func (StatusChanged) EventType() string { return TypeLeadStatusChanged }

// Imported fires once per import batch with the successful row count.
type Imported struct {
	Count int `json:"count"`
}

func (Imported) EventType() string { return TypeLeadsImported }

// Created fires when a single lead is created outside of a bulk import.
type Created struct {
	LeadID string `json:"leadId"`
}

func (Created) EventType() string { return TypeLeadCreated }

// Envelope wraps a payload with transport metadata.
type Envelope struct {
	EventID   uuid.UUID       `json:"event_id"`
	EventType string          `json:"event_type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NewEnvelope wraps a payload for delivery.
func NewEnvelope(p Payload) (Envelope, error) {
	if p == nil {
		return Envelope{}, eris.New("events: nil payload")
	}
	body, err := json.Marshal(p)
	if err != nil {
		return Envelope{}, eris.Wrap(err, "events: marshal payload")
	}
	return Envelope{
		EventID:   uuid.New(),
		EventType: p.EventType(),
		Timestamp: time.Now().UTC(),
		Payload:   body,
	}, nil
}
