package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/atio-cli/internal/model"
	"github.com/sells-group/atio-cli/internal/report"
	"github.com/sells-group/atio-cli/internal/store"
)

type saveDecisionRequest struct {
	Title string `json:"title"`
}

// handleSaveDecision archives the session's current report.
func (s *Server) handleSaveDecision(w http.ResponseWriter, r *http.Request) {
	var req saveDecisionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.writeError(w, r, eris.Wrap(errBadRequest, "title is required"))
		return
	}

	ctx, ids, err := s.view(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := json.Marshal(report.Build(s.catalog, ctx, ids))
	if err != nil {
		s.writeError(w, r, eris.Wrap(err, "api: marshal report"))
		return
	}

	d := &model.SavedDecision{
		Title:         req.Title,
		Context:       ctx,
		InnovationIDs: ids,
		Report:        body,
	}
	if err := s.store.SaveDecision(r.Context(), d); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.decisionsSaved.Inc()
	s.log.Info("decision saved",
		zap.String("decision_id", d.ID),
		zap.Int("innovations", len(ids)),
	)
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleListDecisions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.DecisionFilter{
		Role:         q.Get("role"),
		Region:       q.Get("region"),
		InnovationID: q.Get("innovation"),
	}
	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		s.writeError(w, r, err)
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		s.writeError(w, r, err)
		return
	}

	decisions, err := s.store.ListDecisions(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if decisions == nil {
		decisions = []model.SavedDecision{}
	}
	writeJSON(w, http.StatusOK, decisions)
}

func (s *Server) handleGetDecision(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.GetDecision(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDeleteDecision(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteDecision(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, eris.Wrapf(errBadRequest, "%q is not a non-negative integer", raw)
	}
	return v, nil
}
