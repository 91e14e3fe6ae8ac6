package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/internal/monitoring"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show funnel and import health",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		snap, err := monitoring.NewCollector(st).Collect(ctx)
		if err != nil {
			return eris.Wrap(err, "status")
		}

		formatSnapshot(os.Stdout, snap)
		return nil
	},
}

func formatSnapshot(w io.Writer, snap *monitoring.FunnelSnapshot) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STAGE\tLEADS")
	for _, status := range model.AllStatuses {
		fmt.Fprintf(tw, "%s\t%d\n", status, snap.ByStage[string(status)])
	}
	tw.Flush()

	fmt.Fprintf(w, "\ntotal %d: %d open, %d won, %d lost, %d nurture\n",
		snap.TotalLeads, snap.Open, snap.Won, snap.Lost, snap.Nurture)
	fmt.Fprintf(w, "quality (last %d leads): %d qualified, %.0f%% pass the gate\n",
		snap.SampledLeads, snap.Qualified, snap.GatePassRate*100)
	fmt.Fprintf(w, "recent imports: %d runs, %d rows imported, %d rows failed\n",
		snap.ImportRuns, snap.RowsImported, snap.RowsFailed)
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
