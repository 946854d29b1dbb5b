// Package workflow models the four decision stages and the rules for moving
// between them.
package workflow

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/atio-cli/internal/model"
)

// Stage is a step of the decision workflow.
type Stage string

const (
	StageContext Stage = "context"
	StageExplore Stage = "explore"
	StageAnalyze Stage = "analyze"
	StageOutput  Stage = "output"
)

var (
	// ErrUnknownStage is returned when parsing an unrecognised stage name.
	ErrUnknownStage = eris.New("workflow: unknown stage")
	// ErrInvalidTransition is returned for moves the state machine forbids.
	ErrInvalidTransition = eris.New("workflow: invalid transition")
	// ErrRequirementsNotMet is returned when a forward move is blocked by
	// missing input.
	ErrRequirementsNotMet = eris.New("workflow: requirements not met")
)

var order = []Stage{StageContext, StageExplore, StageAnalyze, StageOutput}

// Stages returns all stages in workflow order.
func Stages() []Stage {
	out := make([]Stage, len(order))
	copy(out, order)
	return out
}

// Step returns the 1-based position of s, or 0 if s is unknown.
func (s Stage) Step() int {
	for i, st := range order {
		if st == s {
			return i + 1
		}
	}
	return 0
}

// Label returns the display title of the stage.
func (s Stage) Label() string {
	switch s {
	case StageContext:
		return "Define Context"
	case StageExplore:
		return "Explore & Compare"
	case StageAnalyze:
		return "Analyze & Simulate"
	case StageOutput:
		return "Generate Action"
	}
	return string(s)
}

// ParseStage parses a stage name.
func ParseStage(s string) (Stage, error) {
	st := Stage(strings.ToLower(strings.TrimSpace(s)))
	if st.Step() == 0 {
		return "", eris.Wrapf(ErrUnknownStage, "%q", s)
	}
	return st, nil
}

// State is what the transition rules look at.
type State struct {
	Context         model.UserContext
	ComparisonCount int
}

// CanTransition checks whether moving from -> to is allowed for state.
// Backward moves are always allowed. Forward moves go one stage at a time,
// except output -> context which starts a new decision.
func CanTransition(from, to Stage, state State) error {
	fromStep, toStep := from.Step(), to.Step()
	if fromStep == 0 {
		return eris.Wrapf(ErrUnknownStage, "%q", from)
	}
	if toStep == 0 {
		return eris.Wrapf(ErrUnknownStage, "%q", to)
	}

	if toStep <= fromStep {
		return nil
	}
	if toStep != fromStep+1 {
		return eris.Wrapf(ErrInvalidTransition, "%s -> %s skips a stage", from, to)
	}

	switch to {
	case StageExplore:
		if missing := state.Context.MissingRequired(); len(missing) > 0 {
			return eris.Wrapf(ErrRequirementsNotMet, "missing %s", strings.Join(missing, ", "))
		}
	case StageAnalyze:
		if state.ComparisonCount == 0 {
			return eris.Wrap(ErrRequirementsNotMet, "select at least one innovation to compare")
		}
	}
	return nil
}
