package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-cli/internal/events"
	"github.com/sells-group/lead-cli/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "leads.db"
		}
		st, err := store.NewSQLite(dsn)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, err
		}
		return st, nil
	case "postgres":
		st, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, err
		}
		return st, nil
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initBus routes events to the configured webhook, or to the log when no
// webhook URL is set. The returned flush func drains in-flight deliveries.
func initBus() (events.Bus, func()) {
	if cfg.Notify.WebhookURL == "" {
		return events.LogBus{}, func() {}
	}
	wb := events.NewWebhookBus(cfg.Notify.WebhookURL, cfg.Notify.RatePerSec, cfg.Notify.Burst)
	return wb, wb.Flush
}
