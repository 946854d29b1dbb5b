package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/atio-cli/internal/catalog"
	"github.com/sells-group/atio-cli/internal/model"
)

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}

func recIDs(r Report) []string {
	out := make([]string, len(r.Recommendations))
	for i, rec := range r.Recommendations {
		out[i] = rec.ID
	}
	return out
}

func TestBuild_TopThreeByReportScore(t *testing.T) {
	c := defaultCatalog(t)
	ctx := model.UserContext{Role: "farmer", Region: "East Africa", Objective: "reduce-losses"}

	r := Build(c, ctx, []string{"8", "4", "1", "2"})

	assert.Equal(t, []string{"2", "1", "4"}, recIDs(r))
	assert.Equal(t, []int{81, 78, 71}, []int{
		r.Recommendations[0].Score, r.Recommendations[1].Score, r.Recommendations[2].Score,
	})
	assert.Equal(t, 1, r.Recommendations[0].Rank)
	assert.Equal(t, 3, r.Recommendations[2].Rank)
}

func TestBuild_IgnoresSessionWeights(t *testing.T) {
	c := defaultCatalog(t)
	ctx := model.UserContext{
		Region:  "East Africa",
		Weights: model.RankingWeights{SDG: 1},
	}

	r := Build(c, ctx, []string{"1"})
	require.Len(t, r.Recommendations, 1)
	assert.Equal(t, 78, r.Recommendations[0].Score)
}

func TestBuild_TiesKeepSelectionOrder(t *testing.T) {
	c := defaultCatalog(t)
	ctx := model.UserContext{Region: "East Africa"}

	assert.Equal(t, []string{"5", "1"}, recIDs(Build(c, ctx, []string{"5", "1"})))
	assert.Equal(t, []string{"1", "5"}, recIDs(Build(c, ctx, []string{"1", "5"})))
}

func TestBuild_SkipsUnknownAndDuplicates(t *testing.T) {
	c := defaultCatalog(t)
	r := Build(c, model.UserContext{}, []string{"nope", "3", "3"})
	assert.Equal(t, []string{"3"}, recIDs(r))
}

func TestBuild_EmptySelection(t *testing.T) {
	c := defaultCatalog(t)
	r := Build(c, model.UserContext{}, nil)

	assert.Empty(t, r.Recommendations)
	assert.Len(t, r.Risks, 3)
	assert.Len(t, r.Steps, 4)
	assert.Equal(t, "East Africa", r.Indicators.Region, "unknown region falls back to the first row")
}

func TestBuild_RecommendationDetail(t *testing.T) {
	c := defaultCatalog(t)
	r := Build(c, model.UserContext{Region: "East Africa"}, []string{"1"})
	rec := r.Recommendations[0]

	assert.Equal(t, "Solar-Powered Drip Irrigation System", rec.Title)
	assert.Equal(t, 89, rec.ReadinessPct)
	assert.Equal(t, 67, rec.AdoptionPct)
	require.Len(t, rec.SDGs, 3)
	assert.Equal(t, 2, rec.SDGs[0].ID)
	assert.NotEmpty(t, rec.SDGs[0].Name)
	assert.NotEmpty(t, rec.SDGs[0].Color)
	assert.True(t, rec.Breakdown.RegionMatched)
}

func TestBuild_ImpactIndicators(t *testing.T) {
	c := defaultCatalog(t)
	r := Build(c, model.UserContext{Region: "West Africa"}, nil)

	require.Len(t, r.Impact, 3)
	assert.Equal(t, "+48%", r.Impact[0].Value)
	assert.Equal(t, "-65%", r.Impact[1].Value)
	assert.Equal(t, "+$1,240", r.Impact[2].Value)

	require.Len(t, r.Sustainability, 3)
	assert.Equal(t, 58, r.Sustainability[0].Current)
	assert.Equal(t, 76, r.Sustainability[0].Projected)
	assert.Equal(t, 77, r.Sustainability[1].Projected)
	assert.Equal(t, 76, r.Sustainability[2].Projected)
}

func TestBuild_RoleSections(t *testing.T) {
	c := defaultCatalog(t)

	policy := Build(c, model.UserContext{Role: "policymaker", Region: "South Asia"}, nil)
	require.Len(t, policy.Policy, 3)
	assert.Contains(t, policy.Policy[0], "in South Asia")
	assert.Nil(t, policy.Investment)

	inv := Build(c, model.UserContext{Role: "investor"}, nil)
	require.NotNil(t, inv.Investment)
	assert.Equal(t, "High", inv.Investment.MarketReadiness)
	assert.Equal(t, 125, inv.Investment.ROIPct)
	assert.InDelta(t, 2.3, inv.Investment.PaybackYears, 1e-9)
	assert.Empty(t, inv.Policy)

	farmer := Build(c, model.UserContext{Role: "farmer"}, nil)
	assert.Empty(t, farmer.Policy)
	assert.Nil(t, farmer.Investment)
}

func TestSummarize(t *testing.T) {
	s := Summarize(model.UserContext{Role: "policymaker", Region: "West Africa", Objective: "improve-sustainability"})
	assert.Equal(t, "Policymaker", s.Role)
	assert.Equal(t, "West Africa", s.Region)
	assert.Equal(t, "improve sustainability", s.Objective)
	assert.Equal(t, "Not specified", s.Zone)
	assert.Equal(t, "Not specified", s.Crop)

	empty := Summarize(model.UserContext{})
	assert.Equal(t, ContextSummary{
		Role: "Not specified", Region: "Not specified", Objective: "Not specified",
		Zone: "Not specified", Crop: "Not specified",
	}, empty)
}

func TestWriteText(t *testing.T) {
	c := defaultCatalog(t)
	r := Build(c, model.UserContext{Role: "investor", Region: "South Asia", Objective: "add-value"}, []string{"2", "10"})

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, r))
	out := buf.String()

	assert.Contains(t, out, "Production:        125,000,000 t")
	assert.Contains(t, out, "1. Hermetic Storage Technology")
	assert.Contains(t, out, "ROI potential:    125%")
	assert.Contains(t, out, "Objective: add value")
	assert.Contains(t, out, "4. Scaling Up (Months 6-12)")
}
