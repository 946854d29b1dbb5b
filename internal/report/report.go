// Package report aggregates a comparison selection into the action output:
// top recommendations, expected impact, risks, implementation steps and
// role-specific guidance.
package report

import (
	"math"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/atio-cli/internal/analysis"
	"github.com/sells-group/atio-cli/internal/catalog"
	"github.com/sells-group/atio-cli/internal/model"
	"github.com/sells-group/atio-cli/internal/scorer"
)

// TopN is the number of recommendations kept in a report.
const TopN = 3

const notSpecified = "Not specified"

// Report is the generated action output.
type Report struct {
	Context         ContextSummary         `json:"context"`
	Recommendations []Recommendation       `json:"recommendations"`
	Indicators      model.RegionIndicators `json:"indicators"`
	Impact          []analysis.KPI         `json:"impact"`
	Sustainability  []analysis.IndexDelta  `json:"sustainability"`
	Risks           []Consideration        `json:"risks"`
	Steps           []Step                 `json:"steps"`
	Policy          []string               `json:"policy_recommendations,omitempty"`
	Investment      *InvestmentReadiness   `json:"investment_readiness,omitempty"`
}

// ContextSummary is the display form of the user context.
type ContextSummary struct {
	Role      string `json:"role"`
	Region    string `json:"region"`
	Objective string `json:"objective"`
	Zone      string `json:"zone"`
	Crop      string `json:"crop"`
}

// Recommendation is one ranked innovation in the report.
type Recommendation struct {
	Rank         int              `json:"rank"`
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Type         string           `json:"type"`
	Provider     string           `json:"provider"`
	Score        int              `json:"score"`
	Breakdown    scorer.Breakdown `json:"breakdown"`
	ReadinessPct int              `json:"readiness_pct"`
	AdoptionPct  int              `json:"adoption_pct"`
	RiskLevel    model.Level      `json:"risk_level"`
	Scalability  model.Level      `json:"scalability"`
	SDGs         []model.SDG      `json:"sdgs"`
	UseCases     []string         `json:"use_cases"`
}

// Consideration is a risk or implementation caveat.
type Consideration struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Step is an implementation step.
type Step struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// InvestmentReadiness is shown to investors.
type InvestmentReadiness struct {
	MarketReadiness string  `json:"market_readiness"`
	ROIPct          int     `json:"roi_pct"`
	PaybackYears    float64 `json:"payback_years"`
}

var risks = []Consideration{
	{Title: "Climate Risk", Detail: "Moderate drought risk this season - ensure water-efficient technologies are prioritized"},
	{Title: "Initial Investment", Detail: "Some innovations require upfront capital - consider phased implementation or microfinance options"},
	{Title: "Training Requirement", Detail: "Extension support recommended for optimal adoption and impact"},
}

var steps = []Step{
	{Number: 1, Title: "Pilot Testing (Months 1-3)", Detail: "Start with small-scale pilot of top-ranked innovation on 0.5-1 hectare"},
	{Number: 2, Title: "Training & Capacity Building (Month 2-4)", Detail: "Engage with local extension services for technical training and support"},
	{Number: 3, Title: "Monitoring & Evaluation (Ongoing)", Detail: "Track yield, losses, soil health, and income metrics against baseline"},
	{Number: 4, Title: "Scaling Up (Months 6-12)", Detail: "Expand successful innovations to full farm operation based on pilot results"},
}

// Build generates the report for the innovations in ids. Scores use the
// fixed report weights, not the user's weights. The best TopN by score are
// kept; ties keep the order of ids. Unknown ids are skipped.
func Build(c *catalog.Catalog, ctx model.UserContext, ids []string) Report {
	w := scorer.ReportWeights()

	recs := make([]Recommendation, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		inn, ok := c.Get(id)
		if !ok {
			continue
		}
		recs = append(recs, recommendation(c, inn, scorer.Explain(inn, w, ctx.Region)))
	}
	slices.SortStableFunc(recs, func(a, b Recommendation) int {
		return b.Score - a.Score
	})
	if len(recs) > TopN {
		recs = recs[:TopN]
	}
	for i := range recs {
		recs[i].Rank = i + 1
	}

	ind, _ := c.Indicators(ctx.Region)
	kpis := analysis.KPIs(analysis.DefaultStartYear)

	r := Report{
		Context:         Summarize(ctx),
		Recommendations: recs,
		Indicators:      ind,
		Impact:          kpis[:3],
		Sustainability:  analysis.Sustainability(ind),
		Risks:           slices.Clone(risks),
		Steps:           slices.Clone(steps),
	}

	switch ctx.Role {
	case "policymaker":
		r.Policy = policyRecommendations(ctx.Region)
	case "investor":
		r.Investment = &InvestmentReadiness{MarketReadiness: "High", ROIPct: 125, PaybackYears: 2.3}
	}
	return r
}

// Summarize returns the display form of ctx. Empty fields read
// "Not specified"; objective dashes become spaces.
func Summarize(ctx model.UserContext) ContextSummary {
	return ContextSummary{
		Role:      orNotSpecified(cases.Title(language.English).String(ctx.Role)),
		Region:    orNotSpecified(ctx.Region),
		Objective: orNotSpecified(strings.ReplaceAll(ctx.Objective, "-", " ")),
		Zone:      orNotSpecified(ctx.AgroEcologicalZone),
		Crop:      orNotSpecified(ctx.Crop),
	}
}

func recommendation(c *catalog.Catalog, inn model.Innovation, b scorer.Breakdown) Recommendation {
	sdgs := make([]model.SDG, 0, len(inn.SDGs))
	for _, id := range inn.SDGs {
		sdg, ok := c.SDG(id)
		if !ok {
			sdg = model.SDG{ID: id}
		}
		sdgs = append(sdgs, sdg)
	}
	return Recommendation{
		ID:           inn.ID,
		Title:        inn.Title,
		Description:  inn.Description,
		Type:         inn.Type,
		Provider:     inn.Provider,
		Score:        b.Score,
		Breakdown:    b,
		ReadinessPct: levelPct(inn.ReadinessLevel),
		AdoptionPct:  levelPct(inn.AdoptionLevel),
		RiskLevel:    inn.RiskLevel,
		Scalability:  inn.Scalability,
		SDGs:         sdgs,
		UseCases:     slices.Clone(inn.UseCases),
	}
}

func policyRecommendations(region string) []string {
	if region == "" {
		region = "the region"
	}
	return []string{
		"Establish subsidy programs for water-efficient irrigation systems in " + region,
		"Support farmer cooperatives to access hermetic storage technology at scale",
		"Integrate climate-smart varieties into national seed distribution systems",
	}
}

func levelPct(level int) int {
	return int(math.Round(float64(level) / model.MaxLevel * 100))
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return notSpecified
	}
	return s
}
