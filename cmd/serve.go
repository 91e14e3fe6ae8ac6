package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/funnel"
	"github.com/sells-group/lead-cli/internal/ingest"
	"github.com/sells-group/lead-cli/internal/server"
	"github.com/sells-group/lead-cli/internal/store"
)

var servePort int

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the import and funnel-state HTTP server",
	Long:  "Serves spreadsheet uploads and funnel status over HTTP, and advances lead cadence days on a cron schedule.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		bus, flush := initBus()
		defer flush()

		importer := ingest.NewImporter(st, bus, cfg.Import.DefaultAgent)

		sched, err := cronParser.Parse(cfg.Cadence.AdvanceCron)
		if err != nil {
			return eris.Wrapf(err, "parse cadence.advance_cron %q", cfg.Cadence.AdvanceCron)
		}
		go runCadenceAdvance(ctx, st, sched)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: server.New(st, importer).Routes(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// runCadenceAdvance wakes on the cron schedule and recomputes the cadence
// day for every lead with an active cadence.
func runCadenceAdvance(ctx context.Context, st store.Store, sched cron.Schedule) {
	for {
		next := sched.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := advanceCadences(ctx, st); err != nil {
			zap.L().Error("cadence advance failed", zap.Error(err))
		}
	}
}

func advanceCadences(ctx context.Context, st store.Store) error {
	const pageSize = 200
	now := time.Now().UTC()
	advanced := 0

	for offset := 0; ; offset += pageSize {
		leads, err := st.ListLeads(ctx, store.LeadFilter{Limit: pageSize, Offset: offset})
		if err != nil {
			return eris.Wrap(err, "list leads")
		}

		for _, lead := range leads {
			if lead.Cadence == nil {
				continue
			}
			updated := funnel.Advance(lead, now)
			if updated.Cadence.CurrentDay == lead.Cadence.CurrentDay {
				continue
			}
			if err := st.UpdateLead(ctx, updated); err != nil {
				zap.L().Warn("cadence advance: save failed",
					zap.String("lead_id", lead.ID),
					zap.Error(err),
				)
				continue
			}
			advanced++
		}

		if len(leads) < pageSize {
			break
		}
	}

	zap.L().Info("cadence advance complete", zap.Int("advanced", advanced))
	return nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
