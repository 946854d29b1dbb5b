// Package store persists saved decisions.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/atio-cli/internal/model"
)

// ErrNotFound is returned when a decision id does not exist.
var ErrNotFound = eris.New("store: not found")

const defaultListLimit = 100

// DecisionFilter specifies criteria for listing saved decisions.
type DecisionFilter struct {
	Role         string `json:"role,omitempty"`
	Region       string `json:"region,omitempty"`
	InnovationID string `json:"innovation_id,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	Offset       int    `json:"offset,omitempty"`
}

func (f DecisionFilter) limit() int {
	if f.Limit <= 0 {
		return defaultListLimit
	}
	return f.Limit
}

// Store defines the persistence interface for saved decisions.
type Store interface {
	SaveDecision(ctx context.Context, d *model.SavedDecision) error
	GetDecision(ctx context.Context, id string) (*model.SavedDecision, error)
	ListDecisions(ctx context.Context, filter DecisionFilter) ([]model.SavedDecision, error)
	DeleteDecision(ctx context.Context, id string) error

	Migrate(ctx context.Context) error
	Close() error
}

// prepare fills in the id and creation time of a new decision and checks
// the required fields.
func prepare(d *model.SavedDecision) error {
	if d == nil {
		return eris.New("store: nil decision")
	}
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		return eris.New("store: decision title is required")
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	if d.InnovationIDs == nil {
		d.InnovationIDs = []string{}
	}
	return nil
}
