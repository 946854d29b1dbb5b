package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/atio-cli/internal/model"
	"github.com/sells-group/atio-cli/internal/report"
	"github.com/sells-group/atio-cli/internal/store"
)

var decisionsCmd = &cobra.Command{
	Use:   "decisions",
	Short: "Inspect saved decisions",
	Long:  "Commands for listing, viewing and deleting archived action reports.",
}

// -- decisions list --

var decisionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved decisions, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		role, _ := cmd.Flags().GetString("role")
		region, _ := cmd.Flags().GetString("region")
		innovation, _ := cmd.Flags().GetString("innovation")
		limit, _ := cmd.Flags().GetInt("limit")

		decisions, err := st.ListDecisions(ctx, store.DecisionFilter{
			Role:         role,
			Region:       region,
			InnovationID: innovation,
			Limit:        limit,
		})
		if err != nil {
			return eris.Wrap(err, "decisions list")
		}

		if len(decisions) == 0 {
			fmt.Fprintln(os.Stderr, "No decisions found.")
			return nil
		}
		formatDecisionsList(os.Stdout, decisions)
		return nil
	},
}

// -- decisions show --

var decisionsShowCmd = &cobra.Command{
	Use:   "show <decision-id>",
	Short: "Show a saved decision's report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		d, err := st.GetDecision(ctx, args[0])
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return writeIndentedJSON(d)
		}
		return formatDecision(os.Stdout, d)
	},
}

// -- decisions delete --

var decisionsDeleteCmd = &cobra.Command{
	Use:   "delete <decision-id>",
	Short: "Delete a saved decision",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.DeleteDecision(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Deleted decision %s\n", args[0])
		return nil
	},
}

func formatDecisionsList(out io.Writer, decisions []model.SavedDecision) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tROLE\tREGION\tINNOVATIONS\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t-----\t----\t------\t-----------\t-------")

	for _, d := range decisions {
		title := truncateTitle(d.Title, 30)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			truncateID(d.ID),
			title,
			d.Context.Role,
			d.Context.Region,
			strings.Join(d.InnovationIDs, ","),
			d.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

func formatDecision(out io.Writer, d *model.SavedDecision) error {
	fmt.Fprintf(out, "Decision: %s\n", d.ID)
	fmt.Fprintf(out, "Title:    %s\n", d.Title)
	fmt.Fprintf(out, "Saved:    %s\n\n", d.CreatedAt.Format("2006-01-02 15:04:05 MST"))

	var rep report.Report
	if err := json.Unmarshal(d.Report, &rep); err != nil {
		return eris.Wrap(err, "decode saved report")
	}
	return report.WriteText(out, rep)
}

// truncateID returns the first 8 characters of a UUID for display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	decisionsListCmd.Flags().String("role", "", "filter by role")
	decisionsListCmd.Flags().String("region", "", "filter by region")
	decisionsListCmd.Flags().String("innovation", "", "filter by innovation id")
	decisionsListCmd.Flags().Int("limit", 50, "max number of decisions to display")

	decisionsShowCmd.Flags().Bool("json", false, "print as JSON")

	decisionsCmd.AddCommand(decisionsListCmd)
	decisionsCmd.AddCommand(decisionsShowCmd)
	decisionsCmd.AddCommand(decisionsDeleteCmd)
	rootCmd.AddCommand(decisionsCmd)
}
