package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/atio-cli/internal/comparison"
	"github.com/sells-group/atio-cli/internal/ranking"
	"github.com/sells-group/atio-cli/internal/scorer"
	"github.com/sells-group/atio-cli/internal/session"
	"github.com/sells-group/atio-cli/internal/store"
	"github.com/sells-group/atio-cli/internal/workflow"
)

const maxBodyBytes = 1 << 20

// errBadRequest marks malformed input that has no domain sentinel.
var errBadRequest = eris.New("api: bad request")

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, session.ErrInvalidContext),
		errors.Is(err, scorer.ErrInvalidWeights),
		errors.Is(err, ranking.ErrUnknownSortKey),
		errors.Is(err, workflow.ErrUnknownStage):
		return http.StatusBadRequest
	case errors.Is(err, workflow.ErrInvalidTransition),
		errors.Is(err, workflow.ErrRequirementsNotMet),
		errors.Is(err, comparison.ErrFull):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		msg = "internal server error"
	}
	writeJSON(w, status, errorBody{Error: msg})
}

// decodeBody decodes a JSON request body into v. Unknown fields are
// rejected.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return eris.Wrapf(errBadRequest, "invalid request body: %v", err)
	}
	return nil
}
