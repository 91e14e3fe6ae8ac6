package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-cli/internal/funnel"
)

var gateCmd = &cobra.Command{
	Use:   "gate <lead-id>",
	Short: "Score a lead against the quality gate",
	Long:  "Evaluates record completeness: company name, web presence, state, segment, name, a contact method, and a source channel.",
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
			return eris.Wrap(err, "gate")
		}

		result := funnel.EvaluateGate(*lead)
		if result.Pass {
			fmt.Printf("lead %s passes the quality gate\n", lead.ID)
			return nil
		}

		fmt.Printf("lead %s is missing %d criteria:\n", lead.ID, len(result.Missing))
		for _, criterion := range result.Missing {
			fmt.Printf("  - %s\n", criterion)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gateCmd)
}
