package report

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteText renders r as plain text for terminals.
func WriteText(w io.Writer, r Report) error {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	b.WriteString("ACTION OUTPUT & RECOMMENDATIONS\n\n")
	p.Fprintf(&b, "Role:      %s\n", r.Context.Role)
	p.Fprintf(&b, "Region:    %s\n", r.Context.Region)
	p.Fprintf(&b, "Objective: %s\n", r.Context.Objective)
	p.Fprintf(&b, "Zone:      %s\n", r.Context.Zone)
	p.Fprintf(&b, "Crop:      %s\n\n", r.Context.Crop)

	p.Fprintf(&b, "Regional baseline (%s, %s)\n", r.Indicators.Region, r.Indicators.Crop)
	p.Fprintf(&b, "  Production:        %d t\n", r.Indicators.Production)
	p.Fprintf(&b, "  Yield:             %.1f t/ha\n", r.Indicators.Yield)
	p.Fprintf(&b, "  Post-harvest loss: %.0f%%\n\n", r.Indicators.PostHarvestLoss)

	p.Fprintf(&b, "Top %d recommended innovations\n", TopN)
	if len(r.Recommendations) == 0 {
		b.WriteString("  (none selected)\n")
	}
	for _, rec := range r.Recommendations {
		p.Fprintf(&b, "  %d. %s  [score %d]\n", rec.Rank, rec.Title, rec.Score)
		p.Fprintf(&b, "     readiness %d%%  adoption %d%%  risk %s  scalability %s\n",
			rec.ReadinessPct, rec.AdoptionPct, rec.RiskLevel, rec.Scalability)
		names := make([]string, 0, len(rec.SDGs))
		for _, s := range rec.SDGs {
			if s.Name != "" {
				names = append(names, p.Sprintf("%d %s", s.ID, s.Name))
			} else {
				names = append(names, p.Sprintf("%d", s.ID))
			}
		}
		p.Fprintf(&b, "     SDGs: %s\n", strings.Join(names, ", "))
		if len(rec.UseCases) > 0 {
			p.Fprintf(&b, "     Use cases: %s\n", strings.Join(rec.UseCases, ", "))
		}
	}

	b.WriteString("\nExpected impact\n")
	for _, k := range r.Impact {
		p.Fprintf(&b, "  %-18s %s (%s)\n", k.Name, k.Value, k.Detail)
	}
	for _, s := range r.Sustainability {
		p.Fprintf(&b, "  %-18s %d -> %d\n", s.Name, s.Current, s.Projected)
	}

	b.WriteString("\nRisks & implementation considerations\n")
	for _, c := range r.Risks {
		p.Fprintf(&b, "  - %s: %s\n", c.Title, c.Detail)
	}

	b.WriteString("\nImplementation steps\n")
	for _, s := range r.Steps {
		p.Fprintf(&b, "  %d. %s: %s\n", s.Number, s.Title, s.Detail)
	}

	if len(r.Policy) > 0 {
		b.WriteString("\nPolicy recommendations\n")
		for _, line := range r.Policy {
			p.Fprintf(&b, "  - %s\n", line)
		}
	}
	if inv := r.Investment; inv != nil {
		b.WriteString("\nInvestment readiness\n")
		p.Fprintf(&b, "  Market readiness: %s\n", inv.MarketReadiness)
		p.Fprintf(&b, "  ROI potential:    %d%%\n", inv.ROIPct)
		p.Fprintf(&b, "  Payback period:   %.1f yrs\n", inv.PaybackYears)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return eris.Wrap(err, "report: write text")
	}
	return nil
}
