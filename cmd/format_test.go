package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/atio-cli/internal/catalog"
	"github.com/sells-group/atio-cli/internal/model"
	"github.com/sells-group/atio-cli/internal/ranking"
	"github.com/sells-group/atio-cli/internal/report"
	"github.com/sells-group/atio-cli/internal/scorer"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}

func TestFormatRanked(t *testing.T) {
	c := testCatalog(t)
	ranked := ranking.Rank(c.Innovations(), "East Africa", scorer.DefaultWeights(), model.SortByScore)

	var buf bytes.Buffer
	formatRanked(&buf, ranked)

	out := buf.String()
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "SCORE")
	assert.Contains(t, out, "Hermetic Storage Technology")
	assert.Contains(t, out, "81")
	assert.Contains(t, out, "9/9")
	assert.NotContains(t, out, "Bio-Fertilizer")
}

func TestFormatRanked_TruncatesLongTitles(t *testing.T) {
	ranked := []ranking.Ranked{{
		Innovation: model.Innovation{ID: "x", Title: "An Exceptionally Long Innovation Title That Keeps Going"},
		Score:      50,
	}}
	var buf bytes.Buffer
	formatRanked(&buf, ranked)
	assert.Contains(t, buf.String(), "An Exceptionally Long Innovation Titl...")
}

func TestTruncateTitle(t *testing.T) {
	assert.Equal(t, "short", truncateTitle("short", 10))
	assert.Equal(t, "exactly10!", truncateTitle("exactly10!", 10))
	assert.Equal(t, "abcdefg...", truncateTitle("abcdefghijk", 10))

	got := truncateTitle("Système d'irrigation goutte-à-goutte solaire à haute efficacité", 40)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 40, utf8.RuneCountInString(got))
	assert.Equal(t, "Système d'irrigation goutte-à-goutte ...", got)
}

func TestFormatRanked_MultibyteTitle(t *testing.T) {
	ranked := []ranking.Ranked{{
		Innovation: model.Innovation{ID: "x", Title: "Système d'irrigation goutte-à-goutte solaire à haute efficacité"},
		Score:      50,
	}}
	var buf bytes.Buffer
	formatRanked(&buf, ranked)
	assert.True(t, utf8.ValidString(buf.String()))
	assert.Contains(t, buf.String(), "goutte-à-goutte ...")
}

func TestFormatBreakdown(t *testing.T) {
	c := testCatalog(t)
	inn, ok := c.Get("1")
	require.True(t, ok)
	w := scorer.DefaultWeights()

	var buf bytes.Buffer
	formatBreakdown(&buf, inn, "East Africa", w, scorer.Explain(inn, w, "East Africa"))
	out := buf.String()
	assert.Contains(t, out, "Solar-Powered Drip Irrigation System (1)")
	assert.Contains(t, out, "regional   listed")
	assert.Contains(t, out, "Score: 78")

	buf.Reset()
	formatBreakdown(&buf, inn, "", w, scorer.Explain(inn, w, ""))
	out = buf.String()
	assert.Contains(t, out, "Region: (none)")
	assert.Contains(t, out, "regional   partial")
	assert.Contains(t, out, "Score: 71")
}

func TestWeightsFromFlags(t *testing.T) {
	base := scorer.DefaultWeights()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addWeightFlags(fs)
	require.NoError(t, fs.Parse([]string{"--sdg=0.5"}))
	w, err := weightsFromFlags(fs, base)
	require.NoError(t, err)
	assert.InDelta(t, 0.35, w.Readiness, 0.0001, "unset flags keep the base")
	assert.InDelta(t, 0.5, w.SDG, 0.0001)

	fs = pflag.NewFlagSet("test", pflag.ContinueOnError)
	addWeightFlags(fs)
	require.NoError(t, fs.Parse([]string{"--adoption=1.7", "--regional=0.33", "--snap"}))
	w, err = weightsFromFlags(fs, base)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, w.Adoption, 0.0001)
	assert.InDelta(t, 0.35, w.Regional, 0.0001)

	fs = pflag.NewFlagSet("test", pflag.ContinueOnError)
	addWeightFlags(fs)
	require.NoError(t, fs.Parse([]string{"--readiness=-1"}))
	_, err = weightsFromFlags(fs, base)
	assert.ErrorIs(t, err, scorer.ErrInvalidWeights)
}

func TestFormatCatalogList(t *testing.T) {
	c := testCatalog(t)
	var buf bytes.Buffer
	formatCatalogList(&buf, c.Innovations())

	out := buf.String()
	assert.Contains(t, out, "REGIONS")
	assert.Contains(t, out, "IoT Soil Moisture Sensors")
	assert.Contains(t, out, "Global")
}

func TestFormatInnovation(t *testing.T) {
	c := testCatalog(t)
	inn, _ := c.Get("2")

	var buf bytes.Buffer
	formatInnovation(&buf, c, inn)
	out := buf.String()
	assert.Contains(t, out, "Hermetic Storage Technology (2)")
	assert.Contains(t, out, "Provider:     GrainPro")
	assert.Contains(t, out, "Readiness:    9/9")
	assert.Contains(t, out, "SDGs:")
}

func TestFormatDecisionsList(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)
	decisions := []model.SavedDecision{
		{
			ID:            "abc12345-6789-0000-0000-000000000000",
			Title:         "Storage plan for the long rains season in Kenya",
			Context:       model.UserContext{Role: "farmer", Region: "East Africa"},
			InnovationIDs: []string{"2", "8"},
			CreatedAt:     now,
		},
	}

	var buf bytes.Buffer
	formatDecisionsList(&buf, decisions)
	out := buf.String()
	assert.Contains(t, out, "abc12345")
	assert.NotContains(t, out, "abc12345-6789")
	assert.Contains(t, out, "Storage plan for the long r...")

	buf.Reset()
	decisions[0].Title = "Stockage hermétique à la récolte, région côtière"
	formatDecisionsList(&buf, decisions)
	assert.True(t, utf8.ValidString(buf.String()))
	assert.Contains(t, buf.String(), "Stockage hermétique à la ré...")
	assert.Contains(t, out, "2,8")
	assert.Contains(t, out, "2026-03-02 09:15")
}

func TestFormatDecision(t *testing.T) {
	c := testCatalog(t)
	rep := report.Build(c, model.UserContext{Role: "farmer", Region: "East Africa"}, []string{"2"})
	body, err := json.Marshal(rep)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = formatDecision(&buf, &model.SavedDecision{
		ID:        "d-1",
		Title:     "Storage plan",
		Report:    body,
		CreatedAt: time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Title:    Storage plan")
	assert.Contains(t, buf.String(), "Hermetic Storage Technology")

	err = formatDecision(&buf, &model.SavedDecision{ID: "d-2", Report: json.RawMessage(`"nope"`)})
	assert.Error(t, err)
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc12345", truncateID("abc12345-6789"))
	assert.Equal(t, "short", truncateID("short"))
}
