package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/atio-cli/internal/catalog"
	"github.com/sells-group/atio-cli/internal/model"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the innovation catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every innovation in catalog order",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return writeIndentedJSON(cat.Innovations())
		}
		formatCatalogList(os.Stdout, cat.Innovations())
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <innovation-id>",
	Short: "Show one innovation",
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
		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return writeIndentedJSON(inn)
		}
		formatInnovation(os.Stdout, cat, inn)
		return nil
	},
}

var catalogSDGsCmd = &cobra.Command{
	Use:   "sdgs",
	Short: "List the Sustainable Development Goals referenced by the catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ID\tNAME\tCOLOR")
		for _, s := range cat.SDGs() {
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", s.ID, s.Name, s.Color)
		}
		return w.Flush()
	},
}

func formatCatalogList(out io.Writer, innovations []model.Innovation) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tTYPE\tTRL\tADOPTION\tRISK\tREGIONS")
	_, _ = fmt.Fprintln(w, "--\t-----\t----\t---\t--------\t----\t-------")
	for _, inn := range innovations {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			inn.ID,
			inn.Title,
			inn.Type,
			inn.ReadinessLevel,
			inn.AdoptionLevel,
			inn.RiskLevel,
			strings.Join(inn.Regions, ", "),
		)
	}
	_ = w.Flush()
}

func formatInnovation(out io.Writer, cat *catalog.Catalog, inn model.Innovation) {
	title := cases.Title(language.English)

	fmt.Fprintf(out, "%s (%s)\n", inn.Title, inn.ID)
	fmt.Fprintf(out, "%s\n\n", inn.Description)
	fmt.Fprintf(out, "Type:         %s\n", inn.Type)
	fmt.Fprintf(out, "Provider:     %s\n", inn.Provider)
	fmt.Fprintf(out, "Impact:       %s\n", inn.ImpactType)
	fmt.Fprintf(out, "Readiness:    %d/%d\n", inn.ReadinessLevel, model.MaxLevel)
	fmt.Fprintf(out, "Adoption:     %d/%d\n", inn.AdoptionLevel, model.MaxLevel)
	fmt.Fprintf(out, "Risk:         %s\n", title.String(string(inn.RiskLevel)))
	fmt.Fprintf(out, "Scalability:  %s\n", title.String(string(inn.Scalability)))
	fmt.Fprintf(out, "Regions:      %s\n", strings.Join(inn.Regions, ", "))
	fmt.Fprintf(out, "Target users: %s\n", strings.Join(inn.TargetUsers, ", "))
	fmt.Fprintf(out, "Use cases:    %s\n", strings.Join(inn.UseCases, ", "))

	fmt.Fprintln(out, "SDGs:")
	for _, id := range inn.SDGs {
		s, _ := cat.SDG(id)
		fmt.Fprintf(out, "  %d  %s\n", s.ID, s.Name)
	}
	fmt.Fprintf(out, "Source:       %s\n", inn.DataSource)
}

func init() {
	catalogListCmd.Flags().Bool("json", false, "print as JSON")
	catalogShowCmd.Flags().Bool("json", false, "print as JSON")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogSDGsCmd)
	rootCmd.AddCommand(catalogCmd)
}
