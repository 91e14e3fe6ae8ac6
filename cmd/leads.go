package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-cli/internal/events"
	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/internal/store"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Inspect and manage lead records",
	Long:  "Commands for listing, viewing, creating, and deleting leads.",
}

// -- leads list --

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List leads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		status, _ := cmd.Flags().GetString("status")
		agent, _ := cmd.Flags().GetString("agent")
		company, _ := cmd.Flags().GetString("company")
		limit, _ := cmd.Flags().GetInt("limit")

		filter := store.LeadFilter{
			Status:        model.Status(status),
			AssignedAgent: agent,
			Company:       company,
			Limit:         limit,
		}
		if filter.Status != "" && !filter.Status.Valid() {
			return eris.Errorf("invalid status %q", status)
		}

		leads, err := st.ListLeads(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "leads list")
		}

		if len(leads) == 0 {
			fmt.Fprintln(os.Stderr, "No leads found.")
			return nil
		}

		formatLeadsList(os.Stdout, leads)
		return nil
	},
}

// -- leads show --

var leadsShowCmd = &cobra.Command{
	Use:   "show <lead-id>",
	Short: "Show the full lead record as JSON",
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
			return eris.Wrap(err, "leads show")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(lead)
	},
}

// -- leads create --

var leadsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a single lead",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		bus, flush := initBus()
		defer flush()

		name, _ := cmd.Flags().GetString("name")
		agent, _ := cmd.Flags().GetString("agent")
		company, _ := cmd.Flags().GetString("company")
		email, _ := cmd.Flags().GetString("email")
		phone, _ := cmd.Flags().GetString("phone")
		source, _ := cmd.Flags().GetString("source")

		if agent == "" {
			agent = cfg.Import.DefaultAgent
		}

		now := time.Now().UTC()
		lead := model.Lead{
			Name:            name,
			AssignedAgent:   agent,
			CompanyName:     company,
			Email:           email,
			WorkDirectPhone: phone,
			Source:          model.SourceManual,
			Status:          model.StatusNewLead,
			Priority:        model.PriorityC,
			Date:            now,
			LastActivity:    now,
			StageHistory: []model.StageEntry{
				{Stage: model.StatusNewLead, EnteredAt: now, Agent: agent},
			},
		}
		if source != "" {
			if src, ok := model.ParseSource(source); ok {
				lead.Source = src
			} else {
				lead.AppendNote("Original source: " + source)
			}
		}

		created, err := st.CreateLead(ctx, lead)
		if err != nil {
			return eris.Wrap(err, "leads create")
		}

		bus.Publish(ctx, events.Created{LeadID: created.ID})

		fmt.Printf("created lead %s (%s)\n", created.ID, created.Name)
		return nil
	},
}

// -- leads delete --

var leadsDeleteCmd = &cobra.Command{
	Use:   "delete <lead-id>",
	Short: "Delete a lead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.DeleteLead(ctx, args[0]); err != nil {
			return eris.Wrap(err, "leads delete")
		}

		fmt.Printf("deleted lead %s\n", args[0])
		return nil
	},
}

func formatLeadsList(w io.Writer, leads []model.Lead) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOMPANY\tSTATUS\tPRIORITY\tAGENT\tLAST ACTIVITY")
	for _, l := range leads {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.ID, l.Name, l.CompanyName, l.Status, l.Priority, l.AssignedAgent,
			l.LastActivity.Format("2006-01-02 15:04"),
		)
	}
	tw.Flush()
}

func init() {
	leadsListCmd.Flags().String("status", "", "filter by pipeline status")
	leadsListCmd.Flags().String("agent", "", "filter by assigned agent")
	leadsListCmd.Flags().String("company", "", "filter by company name")
	leadsListCmd.Flags().Int("limit", 50, "max leads to list")

	leadsCreateCmd.Flags().String("name", "", "lead name (required)")
	leadsCreateCmd.Flags().String("agent", "", "assigned agent (default from config)")
	leadsCreateCmd.Flags().String("company", "", "company name")
	leadsCreateCmd.Flags().String("email", "", "email address")
	leadsCreateCmd.Flags().String("phone", "", "work phone")
	leadsCreateCmd.Flags().String("source", "", "lead source")
	_ = leadsCreateCmd.MarkFlagRequired("name")

	leadsCmd.AddCommand(leadsListCmd, leadsShowCmd, leadsCreateCmd, leadsDeleteCmd)
	rootCmd.AddCommand(leadsCmd)
}
