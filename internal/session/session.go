// Package session holds the per-user decision state: the user context,
// ranking weights, comparison selection and workflow stage.
package session

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/atio-cli/internal/comparison"
	"github.com/sells-group/atio-cli/internal/model"
	"github.com/sells-group/atio-cli/internal/scorer"
	"github.com/sells-group/atio-cli/internal/workflow"
)

// ErrInvalidContext is returned when a context update carries a value that
// is not one of the offered options.
var ErrInvalidContext = eris.New("session: invalid context")

// Defaults configures the initial state of new and logged-out sessions.
type Defaults struct {
	Weights       model.RankingWeights
	SortKey       model.SortKey
	MaxComparison int
}

// DefaultDefaults returns the stock session defaults.
func DefaultDefaults() Defaults {
	return Defaults{
		Weights: scorer.DefaultWeights(),
		SortKey: model.SortByScore,
	}
}

func (d Defaults) context() model.UserContext {
	key := d.SortKey
	if key == "" {
		key = model.SortByScore
	}
	return model.UserContext{
		Weights: d.Weights,
		SortKey: key,
	}
}

// Session is a single user's workflow state. It has a single writer: the
// owning Manager (or a CLI command) applies one mutation at a time.
type Session struct {
	id         string
	defaults   Defaults
	ctx        model.UserContext
	comparison *comparison.Set
	stage      workflow.Stage
	createdAt  time.Time
	updatedAt  time.Time
}

// Snapshot is an immutable copy of a session's state.
type Snapshot struct {
	ID         string            `json:"id"`
	Context    model.UserContext `json:"context"`
	Comparison []string          `json:"comparison"`
	Stage      workflow.Stage    `json:"stage"`
	StageStep  int               `json:"stage_step"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// New creates a session in the context stage with default values.
func New(d Defaults, now time.Time) *Session {
	return &Session{
		id:         uuid.New().String(),
		defaults:   d,
		ctx:        d.context(),
		comparison: comparison.New(d.MaxComparison),
		stage:      workflow.StageContext,
		createdAt:  now,
		updatedAt:  now,
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Context returns a copy of the user context.
func (s *Session) Context() model.UserContext { return s.ctx }

// Stage returns the current workflow stage.
func (s *Session) Stage() workflow.Stage { return s.stage }

// ComparisonIDs returns the selected innovation ids in insertion order.
func (s *Session) ComparisonIDs() []string { return s.comparison.IDs() }

// InComparison reports whether id is selected.
func (s *Session) InComparison(id string) bool { return s.comparison.Contains(id) }

// Snapshot returns a copy of the session's state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:         s.id,
		Context:    s.ctx,
		Comparison: s.comparison.IDs(),
		Stage:      s.stage,
		StageStep:  s.stage.Step(),
		CreatedAt:  s.createdAt,
		UpdatedAt:  s.updatedAt,
	}
}

// Update applies a partial context update. Enumerated fields must be one
// of the offered options; region, sub-region, zone and crop are free text.
func (s *Session) Update(p model.ContextPatch) error {
	next := s.ctx
	p.Apply(&next)
	if err := validateContext(next); err != nil {
		return err
	}
	s.ctx = next
	return nil
}

// Onboard records the three answers of the sign-up flow and marks the
// session as authenticated.
func (s *Session) Onboard(role, region, objective string) error {
	var missing []string
	if role == "" {
		missing = append(missing, "role")
	}
	if region == "" {
		missing = append(missing, "region")
	}
	if objective == "" {
		missing = append(missing, "objective")
	}
	if len(missing) > 0 {
		return eris.Wrapf(ErrInvalidContext, "onboarding requires %s", strings.Join(missing, ", "))
	}

	if err := s.Update(model.ContextPatch{Role: &role, Region: &region, Objective: &objective}); err != nil {
		return err
	}
	s.ctx.Authenticated = true
	return nil
}

// SetWeights replaces the ranking weights.
func (s *Session) SetWeights(w model.RankingWeights) error {
	if err := scorer.ValidateWeights(w); err != nil {
		return eris.Wrap(err, "session: set weights")
	}
	s.ctx.Weights = w
	return nil
}

// SetSortKey changes the explore ordering.
func (s *Session) SetSortKey(k model.SortKey) {
	s.ctx.SortKey = k
}

// AddToComparison selects an innovation for comparison.
func (s *Session) AddToComparison(id string) error {
	return s.comparison.Add(id)
}

// RemoveFromComparison deselects an innovation.
func (s *Session) RemoveFromComparison(id string) {
	s.comparison.Remove(id)
}

// ToggleComparison flips the selection of an innovation.
func (s *Session) ToggleComparison(id string) (bool, error) {
	return s.comparison.Toggle(id)
}

// ClearComparison deselects everything.
func (s *Session) ClearComparison() {
	s.comparison.Clear()
}

// Advance moves the session to stage to, subject to the workflow rules.
func (s *Session) Advance(to workflow.Stage) error {
	err := workflow.CanTransition(s.stage, to, workflow.State{
		Context:         s.ctx,
		ComparisonCount: s.comparison.Len(),
	})
	if err != nil {
		return err
	}
	s.stage = to
	return nil
}

// Logout resets the session to its defaults. The id is kept.
func (s *Session) Logout() {
	s.ctx = s.defaults.context()
	s.comparison = comparison.New(s.defaults.MaxComparison)
	s.stage = workflow.StageContext
}

func validateContext(c model.UserContext) error {
	opts := model.ContextOptions()
	checks := []struct {
		field string
		value string
		opts  []model.Option
	}{
		{"role", c.Role, opts.Roles},
		{"objective", c.Objective, opts.Objectives},
		{"budget_level", c.BudgetLevel, opts.Budgets},
		{"farm_size", c.FarmSize, opts.FarmSizes},
		{"climate_risk_level", c.ClimateRiskLevel, opts.ClimateRisk},
	}
	var bad []string
	for _, ch := range checks {
		if !model.HasValue(ch.opts, ch.value) {
			bad = append(bad, ch.field+"="+ch.value)
		}
	}
	if len(bad) > 0 {
		return eris.Wrapf(ErrInvalidContext, "unknown %s", strings.Join(bad, ", "))
	}
	return nil
}
