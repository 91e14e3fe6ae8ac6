package store

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-cli/internal/model"
)

// LeadFilter specifies criteria for listing leads.
type LeadFilter struct {
	Status        model.Status `json:"status,omitempty"`
	AssignedAgent string       `json:"assigned_agent,omitempty"`
	Company       string       `json:"company,omitempty"`
	Limit         int          `json:"limit,omitempty"`
	Offset        int          `json:"offset,omitempty"`
}

// Store defines the persistence interface for lead records. Mutations are
// whole-record: callers read a lead, derive the next state with the pure
// funnel operations, and write it back.
type Store interface {
	CreateLead(ctx context.Context, lead model.Lead) (*model.Lead, error)
	GetLead(ctx context.Context, id string) (*model.Lead, error)
	UpdateLead(ctx context.Context, lead model.Lead) error
	ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error)
	DeleteLead(ctx context.Context, id string) error
	CountLeadsByStatus(ctx context.Context) (map[model.Status]int, error)

	CreateImportRun(ctx context.Context, run model.ImportRun) error
	ListImportRuns(ctx context.Context, limit int) ([]model.ImportRun, error)

	Migrate(ctx context.Context) error
	Close() error
}

// ErrNotFound is returned when a lead or import run does not exist.
var ErrNotFound = eris.New("store: not found")

// validateLead enforces the record-level required fields shared by both
// backends. Everything else defaults to empty.
func validateLead(l model.Lead) error {
	if strings.TrimSpace(l.Name) == "" {
		return eris.New("store: lead name is required")
	}
	if strings.TrimSpace(l.AssignedAgent) == "" {
		return eris.New("store: assigned agent is required")
	}
	if !l.Status.Valid() {
		return eris.Errorf("store: invalid status %q", string(l.Status))
	}
	return nil
}
