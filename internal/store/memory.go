package store

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/sells-group/atio-cli/internal/model"
)

// MemoryStore implements Store in process memory. Nothing survives a
// restart.
type MemoryStore struct {
	mu        sync.RWMutex
	decisions map[string]model.SavedDecision
}

// NewMemory creates an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{decisions: make(map[string]model.SavedDecision)}
}

func (s *MemoryStore) Migrate(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) SaveDecision(_ context.Context, d *model.SavedDecision) error {
	if err := prepare(d); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.decisions[d.ID]; exists {
		return eris.Errorf("memory: decision %s already exists", d.ID)
	}
	s.decisions[d.ID] = cloneDecision(*d)
	return nil
}

func (s *MemoryStore) GetDecision(_ context.Context, id string) (*model.SavedDecision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.decisions[id]
	if !ok {
		return nil, eris.Wrapf(ErrNotFound, "memory: get decision %s", id)
	}
	out := cloneDecision(d)
	return &out, nil
}

func (s *MemoryStore) ListDecisions(_ context.Context, filter DecisionFilter) ([]model.SavedDecision, error) {
	s.mu.RLock()
	all := make([]model.SavedDecision, 0, len(s.decisions))
	for _, d := range s.decisions {
		if filter.Role != "" && d.Context.Role != filter.Role {
			continue
		}
		if filter.Region != "" && d.Context.Region != filter.Region {
			continue
		}
		if filter.InnovationID != "" && !slices.Contains(d.InnovationIDs, filter.InnovationID) {
			continue
		}
		all = append(all, cloneDecision(d))
	}
	s.mu.RUnlock()

	slices.SortFunc(all, func(a, b model.SavedDecision) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	if filter.Offset >= len(all) {
		return []model.SavedDecision{}, nil
	}
	all = all[max(filter.Offset, 0):]
	if limit := filter.limit(); len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *MemoryStore) DeleteDecision(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.decisions[id]; !ok {
		return eris.Wrapf(ErrNotFound, "memory: delete decision %s", id)
	}
	delete(s.decisions, id)
	return nil
}

func cloneDecision(d model.SavedDecision) model.SavedDecision {
	d.InnovationIDs = slices.Clone(d.InnovationIDs)
	if d.Report != nil {
		d.Report = json.RawMessage(slices.Clone([]byte(d.Report)))
	}
	return d
}
