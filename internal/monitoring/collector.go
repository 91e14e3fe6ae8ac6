// Package monitoring reports point-in-time funnel health from the store.
package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-cli/internal/funnel"
	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/internal/store"
)

// FunnelSnapshot holds a point-in-time view of the pipeline.
type FunnelSnapshot struct {
	TotalLeads int            `json:"total_leads"`
	ByStage    map[string]int `json:"by_stage"`
	Open       int            `json:"open"`
	Won        int            `json:"won"`
	Lost       int            `json:"lost"`
	Nurture    int            `json:"nurture"`

	// Data quality over the sampled leads.
	SampledLeads int     `json:"sampled_leads"`
	Qualified    int     `json:"qualified"`
	GatePassRate float64 `json:"gate_pass_rate"`

	// Recent import activity (over the sampled runs).
	ImportRuns   int `json:"import_runs"`
	RowsImported int `json:"rows_imported"`
	RowsFailed   int `json:"rows_failed"`

	CollectedAt time.Time `json:"collected_at"`
}

// Collector gathers funnel metrics from the store.
type Collector struct {
	store store.Store

	// importRunSample caps how many recent runs feed the import counters.
	importRunSample int

	// leadSample caps how many recent leads feed the quality counters.
	leadSample int
}

// NewCollector creates a metrics collector.
func NewCollector(st store.Store) *Collector {
	return &Collector{store: st, importRunSample: 50, leadSample: 500}
}

// Collect builds a snapshot of funnel state and recent import activity.
func (c *Collector) Collect(ctx context.Context) (*FunnelSnapshot, error) {
	counts, err := c.store.CountLeadsByStatus(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: count leads")
	}

	snap := &FunnelSnapshot{
		ByStage:     make(map[string]int, len(model.AllStatuses)),
		CollectedAt: time.Now().UTC(),
	}
	for _, status := range model.AllStatuses {
		n := counts[status]
		snap.ByStage[string(status)] = n
		snap.TotalLeads += n
		switch status {
		case model.StatusClosedWon:
			snap.Won += n
		case model.StatusClosedLost:
			snap.Lost += n
		case model.StatusNurture:
			snap.Nurture += n
		default:
			snap.Open += n
		}
	}

	leads, err := c.store.ListLeads(ctx, store.LeadFilter{Limit: c.leadSample})
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: sample leads")
	}
	snap.SampledLeads = len(leads)
	passed := 0
	for _, lead := range leads {
		if lead.Qualification.AllYes() {
			snap.Qualified++
		}
		if funnel.EvaluateGate(lead).Pass {
			passed++
		}
	}
	if len(leads) > 0 {
		snap.GatePassRate = float64(passed) / float64(len(leads))
	}

	runs, err := c.store.ListImportRuns(ctx, c.importRunSample)
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list import runs")
	}
	snap.ImportRuns = len(runs)
	for _, run := range runs {
		snap.RowsImported += run.Summary.Imported
		snap.RowsFailed += run.Summary.Errors
	}

	return snap, nil
}
