package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/atio-cli/internal/analysis"
	"github.com/sells-group/atio-cli/internal/model"
	"github.com/sells-group/atio-cli/internal/report"
	"github.com/sells-group/atio-cli/internal/session"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the action report for a set of innovations",
	Long:  "Builds the action report for --ids under the given context. With --save the report is archived as a decision.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		idsFlag, _ := cmd.Flags().GetString("ids")
		ids := splitIDs(idsFlag)
		if len(ids) == 0 {
			return eris.New("report: --ids is required")
		}

		uc, err := contextFromFlags(cmd)
		if err != nil {
			return err
		}

		rep := report.Build(cat, uc, ids)

		asJSON, _ := cmd.Flags().GetBool("json")
		withAnalysis, _ := cmd.Flags().GetBool("analysis")
		switch {
		case asJSON && withAnalysis:
			sim := analysis.Simulate(cat, uc, ids, analysis.Options{StartYear: cfg.Analysis.StartYear})
			err = writeIndentedJSON(map[string]any{"report": rep, "analysis": sim})
		case asJSON:
			err = writeIndentedJSON(rep)
		default:
			err = report.WriteText(os.Stdout, rep)
		}
		if err != nil {
			return err
		}

		title, _ := cmd.Flags().GetString("save")
		if title == "" {
			return nil
		}

		st, err := initStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		body, err := json.Marshal(rep)
		if err != nil {
			return eris.Wrap(err, "report: marshal")
		}
		d := &model.SavedDecision{
			Title:         title,
			Context:       uc,
			InnovationIDs: ids,
			Report:        body,
		}
		if err := st.SaveDecision(ctx, d); err != nil {
			return err
		}
		zap.L().Info("decision saved", zap.String("decision_id", d.ID))
		fmt.Fprintf(os.Stderr, "Saved decision %s\n", d.ID)
		return nil
	},
}

// contextFromFlags builds a user context through a session so that the
// same option checks apply as in the API.
func contextFromFlags(cmd *cobra.Command) (model.UserContext, error) {
	d := session.DefaultDefaults()
	d.Weights = cfg.Scoring.Weights
	s := session.New(d, time.Now())

	str := func(name string) *string {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		v, _ := cmd.Flags().GetString(name)
		return &v
	}
	err := s.Update(model.ContextPatch{
		Role:               str("role"),
		Region:             str("region"),
		AgroEcologicalZone: str("zone"),
		Objective:          str("objective"),
		Crop:               str("crop"),
		BudgetLevel:        str("budget"),
		FarmSize:           str("farm-size"),
		ClimateRiskLevel:   str("climate-risk"),
	})
	return s.Context(), err
}

func writeIndentedJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "encode json")
	}
	return nil
}

func init() {
	f := reportCmd.Flags()
	f.String("ids", "", "comma separated innovation ids to compare")
	f.String("role", "", "user role (farmer, policymaker, sme, researcher, investor, extension)")
	f.String("region", "", "user region")
	f.String("zone", "", "agro-ecological zone")
	f.String("objective", "", "primary objective")
	f.String("crop", "", "primary crop")
	f.String("budget", "", "budget level (low, medium, high)")
	f.String("farm-size", "", "farm size (small, medium, large)")
	f.String("climate-risk", "", "climate risk level (low, medium, high)")
	f.Bool("json", false, "print the report as JSON")
	f.Bool("analysis", false, "include the impact simulation (with --json)")
	f.String("save", "", "archive the report as a decision with this title")
	rootCmd.AddCommand(reportCmd)
}
