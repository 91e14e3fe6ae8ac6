package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-cli/internal/funnel"
	"github.com/sells-group/lead-cli/internal/model"
)

var cadenceCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Manage outreach cadences",
	Long:  "Commands for starting, advancing, and completing scripted outreach sequences on a lead.",
}

func initScheduler() (*funnel.Scheduler, error) {
	templates, err := funnel.LoadTemplates(cfg.Cadence.TemplatesPath)
	if err != nil {
		return nil, err
	}
	return funnel.NewScheduler(templates), nil
}

// -- cadence start --

var cadenceStartCmd = &cobra.Command{
	Use:   "start <lead-id> <type>",
	Short: "Start a cadence on a lead",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sched, err := initScheduler()
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		lead, err := st.GetLead(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "cadence start")
		}

		updated, err := sched.Start(*lead, args[1], time.Now().UTC())
		if err != nil {
			return eris.Errorf("%s (known types: %s)", err.Error(), strings.Join(sched.Templates(), ", "))
		}

		if err := st.UpdateLead(ctx, updated); err != nil {
			return eris.Wrap(err, "cadence start: save")
		}

		fmt.Printf("started %s cadence on lead %s (%d touches)\n",
			args[1], updated.ID, len(updated.Cadence.Touches))
		return nil
	},
}

// -- cadence touch --

var cadenceTouchCmd = &cobra.Command{
	Use:   "touch <lead-id>",
	Short: "Mark a cadence touch complete",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		day, _ := cmd.Flags().GetInt("day")
		touchType, _ := cmd.Flags().GetString("type")
		agent, _ := cmd.Flags().GetString("agent")

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		lead, err := st.GetLead(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "cadence touch")
		}

		updated, err := funnel.CompleteTouch(*lead, day, model.ActivityType(touchType), agent, time.Now().UTC())
		if err != nil {
			return err
		}

		if err := st.UpdateLead(ctx, updated); err != nil {
			return eris.Wrap(err, "cadence touch: save")
		}

		fmt.Printf("completed day %d %s touch on lead %s\n", day, touchType, updated.ID)
		return nil
	},
}

// -- cadence due --

var cadenceDueCmd = &cobra.Command{
	Use:   "due <lead-id>",
	Short: "List touches due on a lead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		lead, err := st.GetLead(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "cadence due")
		}

		updated := funnel.Advance(*lead, time.Now().UTC())
		if updated.Cadence != nil && (lead.Cadence == nil || updated.Cadence.CurrentDay != lead.Cadence.CurrentDay) {
			if err := st.UpdateLead(ctx, updated); err != nil {
				return eris.Wrap(err, "cadence due: save")
			}
		}

		due := funnel.DueTouches(updated)
		if len(due) == 0 {
			fmt.Printf("no touches due on lead %s\n", updated.ID)
			return nil
		}

		fmt.Printf("lead %s (day %d):\n", updated.ID, updated.Cadence.CurrentDay)
		for _, t := range due {
			fmt.Printf("  day %d: %s\n", t.Day, t.Type)
		}
		return nil
	},
}

func init() {
	cadenceTouchCmd.Flags().Int("day", 1, "cadence day of the touch")
	cadenceTouchCmd.Flags().String("type", "call", "touch type (call, email, linkedin)")
	cadenceTouchCmd.Flags().String("agent", "", "acting agent (required)")
	_ = cadenceTouchCmd.MarkFlagRequired("agent")

	cadenceCmd.AddCommand(cadenceStartCmd, cadenceTouchCmd, cadenceDueCmd)
	rootCmd.AddCommand(cadenceCmd)
}
