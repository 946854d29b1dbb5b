package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/atio-cli/internal/analysis"
	"github.com/sells-group/atio-cli/internal/model"
	"github.com/sells-group/atio-cli/internal/ranking"
	"github.com/sells-group/atio-cli/internal/report"
	"github.com/sells-group/atio-cli/internal/scorer"
	"github.com/sells-group/atio-cli/internal/session"
	"github.com/sells-group/atio-cli/internal/workflow"
)

func stages() []stageInfo {
	all := workflow.Stages()
	out := make([]stageInfo, len(all))
	for i, st := range all {
		out[i] = stageInfo{ID: string(st), Label: st.Label(), Step: st.Step()}
	}
	return out
}

// mutate runs fn against the session named in the URL and writes the
// resulting snapshot.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*session.Session) error) {
	snap, err := s.sessions.Do(chi.URLParam(r, "sessionID"), fn)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// view captures the context and comparison selection of the URL's session.
func (s *Server) view(r *http.Request) (model.UserContext, []string, error) {
	snap, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		return model.UserContext{}, nil, err
	}
	return snap.Context, snap.Comparison, nil
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusCreated, s.sessions.Create())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "sessionID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type onboardRequest struct {
	Role      string `json:"role"`
	Region    string `json:"region"`
	Objective string `json:"objective"`
}

func (s *Server) handleOnboard(w http.ResponseWriter, r *http.Request) {
	var req onboardRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(sess *session.Session) error {
		return sess.Onboard(req.Role, req.Region, req.Objective)
	})
}

func (s *Server) handleUpdateContext(w http.ResponseWriter, r *http.Request) {
	var patch model.ContextPatch
	if err := decodeBody(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(sess *session.Session) error {
		return sess.Update(patch)
	})
}

// handleSetWeights replaces the session weights. With ?snap=true values
// are clamped to [0,1] and rounded to the slider step first.
func (s *Server) handleSetWeights(w http.ResponseWriter, r *http.Request) {
	var weights model.RankingWeights
	if err := decodeBody(r, &weights); err != nil {
		s.writeError(w, r, err)
		return
	}
	if r.URL.Query().Get("snap") == "true" {
		weights = scorer.SnapWeights(weights)
	}
	s.mutate(w, r, func(sess *session.Session) error {
		return sess.SetWeights(weights)
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *session.Session) error {
		sess.Logout()
		return nil
	})
}

type stageRequest struct {
	Stage string `json:"stage"`
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	var req stageRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	to, err := workflow.ParseStage(req.Stage)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(sess *session.Session) error {
		return sess.Advance(to)
	})
}

type exploreEntry struct {
	ranking.Ranked
	InComparison bool `json:"in_comparison"`
}

type exploreResponse struct {
	Region     string               `json:"region"`
	SortKey    model.SortKey        `json:"sort_key"`
	Weights    model.RankingWeights `json:"weights"`
	Results    []exploreEntry       `json:"results"`
	Comparison []ranking.Ranked     `json:"comparison"`
}

// handleExplore ranks the catalog for the session. A sort query parameter
// is stored on the session. The comparison table lists the selected
// innovations in ranked order.
func (s *Server) handleExplore(w http.ResponseWriter, r *http.Request) {
	var (
		ctx model.UserContext
		ids []string
	)
	_, err := s.sessions.Do(chi.URLParam(r, "sessionID"), func(sess *session.Session) error {
		if raw := r.URL.Query().Get("sort"); raw != "" {
			key, err := ranking.ParseSortKey(raw)
			if err != nil {
				return err
			}
			sess.SetSortKey(key)
		}
		ctx = sess.Context()
		ids = sess.ComparisonIDs()
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ranked := ranking.Rank(s.catalog.Innovations(), ctx.Region, ctx.Weights, ctx.SortKey)
	s.metrics.rankings.WithLabelValues(string(ctx.SortKey)).Inc()

	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}
	results := make([]exploreEntry, len(ranked))
	for i, rk := range ranked {
		results[i] = exploreEntry{Ranked: rk, InComparison: selected[rk.Innovation.ID]}
	}

	writeJSON(w, http.StatusOK, exploreResponse{
		Region:     ctx.Region,
		SortKey:    ctx.SortKey,
		Weights:    ctx.Weights,
		Results:    results,
		Comparison: ranking.Select(ranked, ids),
	})
}

func (s *Server) handleAddComparison(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "innovationID")
	if !s.catalog.Has(id) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "innovation " + id + " not found"})
		return
	}
	s.mutate(w, r, func(sess *session.Session) error {
		return sess.AddToComparison(id)
	})
}

func (s *Server) handleRemoveComparison(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "innovationID")
	s.mutate(w, r, func(sess *session.Session) error {
		sess.RemoveFromComparison(id)
		return nil
	})
}

func (s *Server) handleClearComparison(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *session.Session) error {
		sess.ClearComparison()
		return nil
	})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, ids, err := s.view(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sim := analysis.Simulate(s.catalog, ctx, ids, analysis.Options{StartYear: s.opts.StartYear})
	writeJSON(w, http.StatusOK, sim)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx, ids, err := s.view(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Build(s.catalog, ctx, ids))
}

// handleExport accepts the formats the front end offers but produces none
// of them yet.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.Get(chi.URLParam(r, "sessionID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	format := chi.URLParam(r, "format")
	switch format {
	case "pdf", "csv", "link":
		writeJSON(w, http.StatusNotImplemented, errorBody{Error: "export to " + format + " is not implemented"})
	default:
		s.writeError(w, r, eris.Wrapf(errBadRequest, "unknown export format %q", format))
	}
}
