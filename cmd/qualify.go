package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-cli/internal/funnel"
)

var qualifyCmd = &cobra.Command{
	Use:   "qualify <lead-id> <criterion>",
	Short: "Toggle a qualification criterion on a lead",
	Long: `Flips one of the three qualification criteria: rightPerson, realNeed,
timing. When all three become true the lead is stamped qualified; the stamp
survives later un-toggling.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		lead, err := st.GetLead(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "qualify")
		}

		updated, err := funnel.ToggleQualification(*lead, funnel.QualificationField(args[1]), time.Now().UTC())
		if err != nil {
			return eris.Wrap(err, "qualify")
		}

		if err := st.UpdateLead(ctx, updated); err != nil {
			return eris.Wrap(err, "qualify: save")
		}

		q := updated.Qualification
		fmt.Printf("lead %s: rightPerson=%t realNeed=%t timing=%t", updated.ID, q.RightPerson, q.RealNeed, q.Timing)
		if q.QualifiedAt != nil {
			fmt.Printf(" (qualified %s by %s)", q.QualifiedAt.Format("2006-01-02"), q.QualifiedBy)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(qualifyCmd)
}
