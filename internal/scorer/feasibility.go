package scorer

import (
	"math"

	"github.com/sells-group/atio-cli/internal/model"
)

const (
	// sdgNorm is the SDG count that yields the full SDG weight. Counts above
	// it push the term past the weight; the term is not capped.
	sdgNorm = 5

	// partialRegionFactor scales the regional weight when the user's region
	// is not listed on the innovation.
	partialRegionFactor = 0.5
)

// Breakdown is the per-component view of a feasibility score.
type Breakdown struct {
	Readiness     float64 `json:"readiness"`
	Adoption      float64 `json:"adoption"`
	SDG           float64 `json:"sdg"`
	Regional      float64 `json:"regional"`
	Raw           float64 `json:"raw"`
	Score         int     `json:"score"`
	RegionMatched bool    `json:"region_matched"`
	// SDGOverflow is set when the SDG count exceeds the normalisation
	// constant, so the SDG term exceeds its weight.
	SDGOverflow bool `json:"sdg_overflow,omitempty"`
}

// Score returns the feasibility score of inn for a user in userRegion.
// The result is round(raw*100) and is not clamped to [0,100].
func Score(inn model.Innovation, w model.RankingWeights, userRegion string) int {
	return Explain(inn, w, userRegion).Score
}

// Explain computes the feasibility score and its components.
func Explain(inn model.Innovation, w model.RankingWeights, userRegion string) Breakdown {
	b := Breakdown{
		Readiness: float64(inn.ReadinessLevel) / model.MaxLevel * w.Readiness,
		Adoption:  float64(inn.AdoptionLevel) / model.MaxLevel * w.Adoption,
		SDG:       float64(len(inn.SDGs)) / sdgNorm * w.SDG,
	}

	// An unset region never matches, so it always takes the partial branch.
	if inn.InRegion(userRegion) {
		b.Regional = w.Regional
		b.RegionMatched = true
	} else {
		b.Regional = w.Regional * partialRegionFactor
	}

	b.Raw = b.Readiness + b.Adoption + b.SDG + b.Regional
	b.Score = roundScore(b.Raw * 100)
	b.SDGOverflow = len(inn.SDGs) > sdgNorm
	return b
}

// roundScore rounds half towards +Inf (78.5 -> 79, -0.5 -> 0).
func roundScore(v float64) int {
	return int(math.Floor(v + 0.5))
}
