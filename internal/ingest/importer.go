package ingest

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/events"
	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/internal/store"
)

// maxErrorDetails caps how many per-row failures the summary carries.
const maxErrorDetails = 20

// Importer drives the full ingestion pipeline for one uploaded file.
type Importer struct {
	store        store.Store
	bus          events.Bus
	defaultAgent string
	now          func() time.Time
}

// NewImporter wires the orchestrator. The bus receives one leads-imported
// event per batch with at least one successful row.
func NewImporter(st store.Store, bus events.Bus, defaultAgent string) *Importer {
	if bus == nil {
		bus = events.NopBus{}
	}
	return &Importer{
		store:        st,
		bus:          bus,
		defaultAgent: defaultAgent,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Import parses the file, maps its headers once, then normalizes and
// persists every data row independently and strictly in order. A failed
// row is recorded and the batch continues; only parse-level problems
// (unsupported format, oversized file, zero data rows) return an error.
func (im *Importer) Import(ctx context.Context, data []byte, filename, actingAgent string) (*model.ImportSummary, error) {
	table, err := ParseSheet(data, filename)
	if err != nil {
		return nil, err
	}

	agent := actingAgent
	if agent == "" {
		agent = im.defaultAgent
	}

	hmap, unmapped := MapHeaders(table.Headers)
	if len(unmapped) > 0 {
		zap.L().Info("unmapped columns preserved in notes",
			zap.String("file", filename),
			zap.Strings("headers", unmapped),
		)
	}

	summary := &model.ImportSummary{Total: len(table.Rows)}
	startedAt := im.now()

	for i, row := range table.Rows {
		lead := NormalizeRow(table.Headers, row, hmap, unmapped, NormalizeOptions{
			DefaultAgent: agent,
			Now:          im.now(),
			RowIndex:     i,
		})

		// Rows persist one at a time: row N's outcome never depends on
		// row N+1, and the store sets the pace.
		if _, err := im.store.CreateLead(ctx, lead); err != nil {
			summary.Errors++
			if len(summary.ErrorDetails) < maxErrorDetails {
				summary.ErrorDetails = append(summary.ErrorDetails, model.RowError{
					Row:   i + 2,
					Error: eris.Cause(err).Error(),
				})
			}
			zap.L().Warn("row import failed",
				zap.String("file", filename),
				zap.Int("row", i+2),
				zap.Error(err),
			)
			continue
		}
		summary.Imported++
	}

	if summary.Imported > 0 {
		im.bus.Publish(ctx, events.Imported{Count: summary.Imported})
	}

	run := model.ImportRun{
		Filename:  filename,
		Agent:     agent,
		Summary:   *summary,
		CreatedAt: startedAt,
	}
	if err := im.store.CreateImportRun(ctx, run); err != nil {
		// Audit trail is best-effort; the batch outcome stands.
		zap.L().Warn("import run not recorded", zap.String("file", filename), zap.Error(err))
	}

	zap.L().Info("import complete",
		zap.String("file", filename),
		zap.Int("imported", summary.Imported),
		zap.Int("errors", summary.Errors),
		zap.Int("total", summary.Total),
	)
	return summary, nil
}
