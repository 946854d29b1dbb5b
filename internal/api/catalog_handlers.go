package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/atio-cli/internal/model"
	"github.com/sells-group/atio-cli/internal/ranking"
	"github.com/sells-group/atio-cli/internal/scorer"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"innovations": s.catalog.Len(),
		"sessions":    s.sessions.Len(),
	})
}

type optionsResponse struct {
	model.Options
	SortKeys []model.SortKey      `json:"sort_keys"`
	Stages   []stageInfo          `json:"stages"`
	Weights  model.RankingWeights `json:"default_weights"`
}

type stageInfo struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Step  int    `json:"step"`
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	resp := optionsResponse{
		Options:  model.ContextOptions(),
		SortKeys: ranking.SortKeys(),
		Stages:   stages(),
		Weights:  s.defaultWeights(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Innovations())
}

func (s *Server) handleGetInnovation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	inn, ok := s.catalog.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "innovation " + id + " not found"})
		return
	}
	writeJSON(w, http.StatusOK, inn)
}

func (s *Server) handleSDGs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.SDGs())
}

type rankResponse struct {
	Region  string               `json:"region"`
	SortKey model.SortKey        `json:"sort_key"`
	Weights model.RankingWeights `json:"weights"`
	Results []ranking.Ranked     `json:"results"`
}

// handleRank ranks the catalog without touching any session.
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	key, err := ranking.ParseSortKey(q.Get("sort"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	weights, err := weightsFromQuery(q, s.defaultWeights())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := scorer.ValidateWeights(weights); err != nil {
		s.writeError(w, r, err)
		return
	}

	region := q.Get("region")
	results := ranking.Rank(s.catalog.Innovations(), region, weights, key)
	s.metrics.rankings.WithLabelValues(string(key)).Inc()

	writeJSON(w, http.StatusOK, rankResponse{
		Region:  region,
		SortKey: key,
		Weights: weights,
		Results: results,
	})
}

func (s *Server) defaultWeights() model.RankingWeights {
	if s.opts.DefaultWeights == (model.RankingWeights{}) {
		return scorer.DefaultWeights()
	}
	return s.opts.DefaultWeights
}

// weightsFromQuery overrides base with any weight present in q.
func weightsFromQuery(q url.Values, base model.RankingWeights) (model.RankingWeights, error) {
	fields := []struct {
		name string
		dst  *float64
	}{
		{"readiness", &base.Readiness},
		{"adoption", &base.Adoption},
		{"sdg", &base.SDG},
		{"regional", &base.Regional},
	}
	for _, f := range fields {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return base, eris.Wrapf(errBadRequest, "%s weight %q is not a number", f.name, raw)
		}
		*f.dst = v
	}
	return base, nil
}
