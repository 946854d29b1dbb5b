package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/atio-cli/internal/model"
	"github.com/sells-group/atio-cli/internal/scorer"
)

var scoreCmd = &cobra.Command{
	Use:   "score <innovation-id>",
	Short: "Explain the feasibility score of one innovation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}
		inn, ok := cat.Get(args[0])
		if !ok {
			return eris.Errorf("innovation %s not found", args[0])
		}

		region, _ := cmd.Flags().GetString("region")
		w, err := weightsFromFlags(cmd.Flags(), cfg.Scoring.Weights)
		if err != nil {
			return err
		}

		formatBreakdown(os.Stdout, inn, region, w, scorer.Explain(inn, w, region))
		return nil
	},
}

func formatBreakdown(out io.Writer, inn model.Innovation, region string, w model.RankingWeights, b scorer.Breakdown) {
	if region == "" {
		region = "(none)"
	}
	match := "partial"
	if b.RegionMatched {
		match = "listed"
	}

	fmt.Fprintf(out, "%s (%s)\n", inn.Title, inn.ID)
	fmt.Fprintf(out, "Region: %s\n\n", region)
	fmt.Fprintf(out, "  readiness  %d/%d x %.2f = %.4f\n", inn.ReadinessLevel, model.MaxLevel, w.Readiness, b.Readiness)
	fmt.Fprintf(out, "  adoption   %d/%d x %.2f = %.4f\n", inn.AdoptionLevel, model.MaxLevel, w.Adoption, b.Adoption)
	fmt.Fprintf(out, "  sdg        %d/5 x %.2f = %.4f\n", len(inn.SDGs), w.SDG, b.SDG)
	fmt.Fprintf(out, "  regional   %s x %.2f = %.4f\n", match, w.Regional, b.Regional)
	fmt.Fprintf(out, "  raw        %.4f\n", b.Raw)
	fmt.Fprintf(out, "Score: %d\n", b.Score)
	if b.SDGOverflow {
		fmt.Fprintln(out, "Note: SDG count exceeds 5, the SDG term is above its weight.")
	}
}

func init() {
	scoreCmd.Flags().String("region", "", "user region")
	addWeightFlags(scoreCmd.Flags())
	rootCmd.AddCommand(scoreCmd)
}
