// Package analysis builds the analyze-and-simulate view: regional baseline,
// yield and loss projections, sustainability deltas and headline KPIs for a
// comparison selection.
package analysis

import (
	"fmt"
	"math"
	"strconv"

	"github.com/sells-group/atio-cli/internal/catalog"
	"github.com/sells-group/atio-cli/internal/model"
)

// DefaultStartYear is the first year of the yield projection.
const DefaultStartYear = 2026

// Sustainability index gains expected from adopting the selection.
const (
	SoilHealthGain      = 18
	WaterEfficiencyGain = 25
	BiodiversityGain    = 8
)

var (
	yieldUplift   = []float64{0, 0.4, 0.7, 1.0, 1.3}
	lossFactors   = []float64{1, 0.85, 0.70, 0.55}
	lossPeriods   = []string{"Current", "Year 1", "Year 2", "Year 3"}
	climateNotes  = []RiskNote{
		{Level: "warning", Title: "Moderate drought risk this season", Detail: "Recommended: Implement drip irrigation and drought-tolerant varieties"},
		{Level: "positive", Title: "Selected innovations reduce climate vulnerability", Detail: "Climate resilience score improved by 34%"},
	}
	valueAddedOps = []Opportunity{
		{Name: "Mobile Grain Milling", Description: "Process grain at farm-gate to reduce transport costs", RevenuePerTonne: 340},
		{Name: "Solar Drying Units", Description: "Extend shelf-life and improve quality for premium markets", RevenuePerTonne: 220},
	}
)

// YieldPoint is one year of the yield projection in t/ha.
type YieldPoint struct {
	Year           string  `json:"year"`
	Baseline       float64 `json:"baseline"`
	WithInnovation float64 `json:"with_innovation"`
}

// LossPoint is one period of the post-harvest loss projection in percent.
type LossPoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// IndexDelta is a sustainability index before and after adoption.
type IndexDelta struct {
	Name      string `json:"name"`
	Current   int    `json:"current"`
	Projected int    `json:"projected"`
}

// KPI is a headline projection.
type KPI struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Detail string `json:"detail"`
}

// RiskNote is a climate risk observation.
type RiskNote struct {
	Level  string `json:"level"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Opportunity is a value-added processing option.
type Opportunity struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	RevenuePerTonne int    `json:"revenue_per_tonne"`
}

// Simulation is the full analyze-stage output.
type Simulation struct {
	Selected         []model.Innovation     `json:"selected"`
	Indicators       model.RegionIndicators `json:"indicators"`
	IndicatorsExact  bool                   `json:"indicators_exact"`
	YieldProjection  []YieldPoint           `json:"yield_projection"`
	LossReduction    []LossPoint            `json:"loss_reduction"`
	Sustainability   []IndexDelta           `json:"sustainability"`
	KPIs             []KPI                  `json:"kpis"`
	ClimateRisks     []RiskNote             `json:"climate_risks"`
	ValueAddedOffers []Opportunity          `json:"value_added,omitempty"`
}

// Options tunes a simulation.
type Options struct {
	StartYear int
}

// Simulate projects outcomes for the innovations in ids. Unknown ids are
// skipped; the selection comes back in catalog order.
func Simulate(c *catalog.Catalog, ctx model.UserContext, ids []string, opts Options) Simulation {
	start := opts.StartYear
	if start == 0 {
		start = DefaultStartYear
	}

	ind, exact := c.Indicators(ctx.Region)

	sim := Simulation{
		Selected:        c.Lookup(ids),
		Indicators:      ind,
		IndicatorsExact: exact,
		YieldProjection: YieldProjection(ind.Yield, start),
		LossReduction:   LossReduction(ind.PostHarvestLoss),
		Sustainability:  Sustainability(ind),
		KPIs:            KPIs(start),
		ClimateRisks:    append([]RiskNote(nil), climateNotes...),
	}
	if ctx.Objective == "add-value" {
		sim.ValueAddedOffers = append([]Opportunity(nil), valueAddedOps...)
	}
	return sim
}

// YieldProjection returns five years of baseline vs. with-innovation yield.
func YieldProjection(baseline float64, startYear int) []YieldPoint {
	out := make([]YieldPoint, len(yieldUplift))
	for i, up := range yieldUplift {
		out[i] = YieldPoint{
			Year:           strconv.Itoa(startYear + i),
			Baseline:       baseline,
			WithInnovation: round2(baseline + up),
		}
	}
	return out
}

// LossReduction returns the post-harvest loss path starting from current.
func LossReduction(current float64) []LossPoint {
	out := make([]LossPoint, len(lossFactors))
	for i, f := range lossFactors {
		out[i] = LossPoint{Period: lossPeriods[i], Value: round2(current * f)}
	}
	return out
}

// Sustainability returns the expected index changes for a region.
func Sustainability(ind model.RegionIndicators) []IndexDelta {
	return []IndexDelta{
		{Name: "Soil Health", Current: ind.SoilHealthIndex, Projected: ind.SoilHealthIndex + SoilHealthGain},
		{Name: "Water Efficiency", Current: ind.WaterEfficiencyIndex, Projected: ind.WaterEfficiencyIndex + WaterEfficiencyGain},
		{Name: "Biodiversity", Current: ind.BiodiversityIndex, Projected: ind.BiodiversityIndex + BiodiversityGain},
	}
}

// KPIs returns the headline projections for a projection starting in
// startYear.
func KPIs(startYear int) []KPI {
	horizon := len(yieldUplift)
	return []KPI{
		{Name: "Yield Increase", Value: "+48%", Detail: fmt.Sprintf("By %d (%d-year horizon)", startYear+horizon-1, horizon)},
		{Name: "Loss Reduction", Value: "-65%", Detail: "Post-harvest losses"},
		{Name: "Income Potential", Value: "+$1,240", Detail: "Per hectare, annual increase"},
		{Name: "Soil Health", Value: "+18%", Detail: "Health index score"},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
