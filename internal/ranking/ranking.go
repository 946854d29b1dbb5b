// Package ranking filters innovations by regional applicability, scores
// them and orders them by a sort key.
//
// Pipeline: catalog -> filter(region) -> score(weights) -> stable sort(key)
package ranking

import (
	"slices"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/atio-cli/internal/model"
	"github.com/sells-group/atio-cli/internal/scorer"
)

// ErrUnknownSortKey is returned by ParseSortKey for unrecognised keys.
var ErrUnknownSortKey = eris.New("ranking: unknown sort key")

// Ranked pairs an innovation with its feasibility score.
type Ranked struct {
	Innovation model.Innovation `json:"innovation"`
	Score      int              `json:"score"`
}

// SortKeys lists the supported sort keys.
func SortKeys() []model.SortKey {
	return []model.SortKey{model.SortByScore, model.SortByReadiness, model.SortByAdoption}
}

// ParseSortKey parses a sort key. The empty string selects score.
func ParseSortKey(s string) (model.SortKey, error) {
	switch model.SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", model.SortByScore:
		return model.SortByScore, nil
	case model.SortByReadiness:
		return model.SortByReadiness, nil
	case model.SortByAdoption:
		return model.SortByAdoption, nil
	}
	return "", eris.Wrapf(ErrUnknownSortKey, "%q", s)
}

// Filter keeps the innovations applicable to userRegion: those listing the
// region or "Global". An empty region keeps everything. Order is preserved
// and the result is always a fresh slice.
func Filter(innovations []model.Innovation, userRegion string) []model.Innovation {
	out := make([]model.Innovation, 0, len(innovations))
	for _, inn := range innovations {
		if userRegion == "" || inn.InRegion(userRegion) || inn.IsGlobal() {
			out = append(out, inn)
		}
	}
	return out
}

// Rank filters, scores and sorts innovations. Sorting is descending and
// stable, so ties keep input order. An unrecognised key sorts by score.
func Rank(innovations []model.Innovation, userRegion string, w model.RankingWeights, key model.SortKey) []Ranked {
	filtered := Filter(innovations, userRegion)

	ranked := make([]Ranked, len(filtered))
	for i, inn := range filtered {
		ranked[i] = Ranked{
			Innovation: inn,
			Score:      scorer.Score(inn, w, userRegion),
		}
	}

	sortKey := keyFunc(key)
	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		return sortKey(b) - sortKey(a)
	})
	return ranked
}

func keyFunc(key model.SortKey) func(Ranked) int {
	switch key {
	case model.SortByReadiness:
		return func(r Ranked) int { return r.Innovation.ReadinessLevel }
	case model.SortByAdoption:
		return func(r Ranked) int { return r.Innovation.AdoptionLevel }
	default:
		return func(r Ranked) int { return r.Score }
	}
}

// Select returns the entries of ranked whose innovation id is in ids,
// keeping ranked order. This is the column order of the comparison table.
func Select(ranked []Ranked, ids []string) []Ranked {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []Ranked
	for _, r := range ranked {
		if _, ok := want[r.Innovation.ID]; ok {
			out = append(out, r)
		}
	}
	return out
}
