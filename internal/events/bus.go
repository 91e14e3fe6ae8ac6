package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Bus publishes domain events. Implementations must never block the caller
// on delivery and must swallow delivery failures (logging them at most).
type Bus interface {
	Publish(ctx context.Context, p Payload)
}

// NopBus discards all events.
type NopBus struct{}

func (NopBus) Publish(context.Context, Payload) {}

// LogBus writes events to the global logger. It is the default sink when
// no webhook is configured.
type LogBus struct{}

func (LogBus) Publish(_ context.Context, p Payload) {
	env, err := NewEnvelope(p)
	if err != nil {
		zap.L().Warn("event dropped", zap.Error(err))
		return
	}
	zap.L().Info("event",
		zap.String("type", env.EventType),
		zap.String("event_id", env.EventID.String()),
		zap.ByteString("payload", env.Payload),
	)
}

// Recorder captures published events in memory. Test double.
type Recorder struct {
	mu     sync.Mutex
	events []Envelope
}

func (r *Recorder) Publish(_ context.Context, p Payload) {
	env, err := NewEnvelope(p)
	if err != nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, env)
}

// Events returns a snapshot of everything published so far.
func (r *Recorder) Events() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Envelope, len(r.events))
	copy(out, r.events)
	return out
}

// OfType returns published envelopes matching the given event type.
func (r *Recorder) OfType(eventType string) []Envelope {
	var out []Envelope
	for _, env := range r.Events() {
		if env.EventType == eventType {
			out = append(out, env)
		}
	}
	return out
}
