package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sells-group/atio-cli/internal/model"
	"github.com/sells-group/atio-cli/internal/ranking"
	"github.com/sells-group/atio-cli/internal/scorer"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank innovations for a region",
	Long:  "Filters the catalog to innovations applicable in --region, scores them and prints them in --sort order.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		region, _ := cmd.Flags().GetString("region")
		sortFlag, _ := cmd.Flags().GetString("sort")
		if !cmd.Flags().Changed("sort") {
			sortFlag = cfg.Scoring.SortKey
		}
		key, err := ranking.ParseSortKey(sortFlag)
		if err != nil {
			return err
		}

		w, err := weightsFromFlags(cmd.Flags(), cfg.Scoring.Weights)
		if err != nil {
			return err
		}

		ranked := ranking.Rank(cat.Innovations(), region, w, key)
		if len(ranked) == 0 {
			fmt.Fprintln(os.Stderr, "No innovations apply to this region.")
			return nil
		}
		formatRanked(os.Stdout, ranked)
		return nil
	},
}

// weightsFromFlags overrides base with the weight flags the user set.
func weightsFromFlags(fs *pflag.FlagSet, base model.RankingWeights) (model.RankingWeights, error) {
	for name, dst := range map[string]*float64{
		"readiness": &base.Readiness,
		"adoption":  &base.Adoption,
		"sdg":       &base.SDG,
		"regional":  &base.Regional,
	} {
		if fs.Changed(name) {
			*dst, _ = fs.GetFloat64(name)
		}
	}
	if snap, _ := fs.GetBool("snap"); snap {
		base = scorer.SnapWeights(base)
	}
	return base, scorer.ValidateWeights(base)
}

func addWeightFlags(fs *pflag.FlagSet) {
	fs.Float64("readiness", 0, "readiness weight (default from config)")
	fs.Float64("adoption", 0, "adoption weight (default from config)")
	fs.Float64("sdg", 0, "SDG alignment weight (default from config)")
	fs.Float64("regional", 0, "regional fit weight (default from config)")
	fs.Bool("snap", false, "clamp weights to [0,1] in steps of 0.05")
}

func formatRanked(out io.Writer, ranked []ranking.Ranked) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tID\tTITLE\tSCORE\tTRL\tADOPTION\tSDGS\tREGIONS")
	_, _ = fmt.Fprintln(w, "-\t--\t-----\t-----\t---\t--------\t----\t-------")

	for i, r := range ranked {
		title := truncateTitle(r.Innovation.Title, 40)
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d/%d\t%d/%d\t%d\t%s\n",
			i+1,
			r.Innovation.ID,
			title,
			r.Score,
			r.Innovation.ReadinessLevel, model.MaxLevel,
			r.Innovation.AdoptionLevel, model.MaxLevel,
			len(r.Innovation.SDGs),
			strings.Join(r.Innovation.Regions, ", "),
		)
	}
	_ = w.Flush()
}

func init() {
	rankCmd.Flags().String("region", "", "user region (empty keeps every innovation)")
	rankCmd.Flags().String("sort", "score", "sort key: score, readiness or adoption")
	addWeightFlags(rankCmd.Flags())
	rootCmd.AddCommand(rankCmd)
}
