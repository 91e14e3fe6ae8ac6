package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-cli/internal/funnel"
	"github.com/sells-group/lead-cli/internal/model"
)

var transitionAgent string

var transitionCmd = &cobra.Command{
	Use:   "transition <lead-id> <status>",
	Short: "Move a lead to a new pipeline status",
	Long: `Applies a stage transition: appends stage history, logs a status-change
activity, stamps closed-by attribution on the first entry into Closed Won,
and emits a lead-status-changed event.

Valid statuses: ` + strings.Join(statusNames(), ", "),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		newStatus, ok := model.ParseStatus(args[1])
		if !ok {
			return eris.Errorf("invalid status %q (valid: %s)", args[1], strings.Join(statusNames(), ", "))
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		bus, flush := initBus()
		defer flush()

		lead, err := st.GetLead(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "transition")
		}

		engine := funnel.NewEngine(bus)
		updated, err := engine.Transition(ctx, *lead, newStatus, transitionAgent)
		if err != nil {
			return eris.Wrap(err, "transition")
		}

		if updated.Status == lead.Status && len(updated.StageHistory) == len(lead.StageHistory) {
			fmt.Printf("lead %s already in %s\n", lead.ID, lead.Status)
			return nil
		}

		if err := st.UpdateLead(ctx, updated); err != nil {
			return eris.Wrap(err, "transition: save")
		}

		fmt.Printf("lead %s: %s -> %s\n", updated.ID, lead.Status, updated.Status)
		return nil
	},
}

func statusNames() []string {
	names := make([]string, len(model.AllStatuses))
	for i, s := range model.AllStatuses {
		names[i] = string(s)
	}
	return names
}

func init() {
	transitionCmd.Flags().StringVar(&transitionAgent, "agent", "", "acting agent (required)")
	_ = transitionCmd.MarkFlagRequired("agent")
	rootCmd.AddCommand(transitionCmd)
}
