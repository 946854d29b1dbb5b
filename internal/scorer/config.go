// Package scorer computes the feasibility score of an innovation from
// user-adjustable ranking weights.
package scorer

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/atio-cli/internal/model"
)

// WeightStep is the slider increment for ranking weights.
const WeightStep = 0.05

// DefaultWeights returns the weights a new session starts with.
func DefaultWeights() model.RankingWeights {
	return model.RankingWeights{
		Readiness: 0.35,
		Adoption:  0.30,
		SDG:       0.20,
		Regional:  0.15,
	}
}

// ReportWeights returns the fixed weights used when building the action
// report. They are deliberately independent of the session weights.
func ReportWeights() model.RankingWeights {
	return model.RankingWeights{
		Readiness: 0.35,
		Adoption:  0.30,
		SDG:       0.20,
		Regional:  0.15,
	}
}

// WeightSum returns the sum of all component weights.
func WeightSum(w model.RankingWeights) float64 {
	return w.Readiness + w.Adoption + w.SDG + w.Regional
}

// ErrInvalidWeights is returned by ValidateWeights.
var ErrInvalidWeights = eris.New("scorer: invalid weights")

// ValidateWeights checks caller-supplied weights. Only sign and NaN are
// checked: weights do not have to sum to 1.
func ValidateWeights(w model.RankingWeights) error {
	var errs []string

	weights := []struct {
		name string
		v    float64
	}{
		{"readiness", w.Readiness},
		{"adoption", w.Adoption},
		{"sdg", w.SDG},
		{"regional", w.Regional},
	}
	for _, c := range weights {
		switch {
		case math.IsNaN(c.v) || math.IsInf(c.v, 0):
			errs = append(errs, fmt.Sprintf("%s weight must be a finite number", c.name))
		case c.v < 0:
			errs = append(errs, fmt.Sprintf("%s weight must be >= 0", c.name))
		}
	}

	if len(errs) > 0 {
		return eris.Wrapf(ErrInvalidWeights, "%s", strings.Join(errs, "; "))
	}
	return nil
}

// SnapWeight clamps v to [0,1] and rounds it to the nearest WeightStep,
// mirroring the weight sliders.
func SnapWeight(v float64) float64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 1
	}
	steps := math.Round(v / WeightStep)
	return math.Round(steps*WeightStep*100) / 100
}

// SnapWeights applies SnapWeight to every component.
func SnapWeights(w model.RankingWeights) model.RankingWeights {
	return model.RankingWeights{
		Readiness: SnapWeight(w.Readiness),
		Adoption:  SnapWeight(w.Adoption),
		SDG:       SnapWeight(w.SDG),
		Regional:  SnapWeight(w.Regional),
	}
}
