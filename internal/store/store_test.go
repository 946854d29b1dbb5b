package store

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/atio-cli/internal/model"
)

func newTestSQLite(t *testing.T) Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func newTestMemory(t *testing.T) Store {
	t.Helper()
	s := NewMemory()
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

var baseTime = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func sampleDecision(title, role, region string, ids []string, at time.Time) *model.SavedDecision {
	return &model.SavedDecision{
		Title: title,
		Context: model.UserContext{
			Role:      role,
			Region:    region,
			Objective: "reduce-losses",
			Weights:   model.RankingWeights{Readiness: 0.35, Adoption: 0.3, SDG: 0.2, Regional: 0.15},
			SortKey:   model.SortByScore,
		},
		InnovationIDs: ids,
		Report:        json.RawMessage(`{"recommendations":[{"id":"2","score":81}]}`),
		CreatedAt:     at,
	}
}

func storeTestSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("SaveAndGet", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		d := sampleDecision("Maize storage plan", "farmer", "East Africa", []string{"2", "1"}, baseTime)
		require.NoError(t, s.SaveDecision(ctx, d))
		assert.NotEmpty(t, d.ID)

		got, err := s.GetDecision(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, d.ID, got.ID)
		assert.Equal(t, "Maize storage plan", got.Title)
		assert.Equal(t, d.Context, got.Context)
		assert.Equal(t, []string{"2", "1"}, got.InnovationIDs)
		assert.JSONEq(t, string(d.Report), string(got.Report))
		assert.True(t, baseTime.Equal(got.CreatedAt), "created_at %v", got.CreatedAt)
	})

	t.Run("SaveAssignsCreatedAt", func(t *testing.T) {
		s := newStore(t)
		d := sampleDecision("No time", "sme", "West Africa", nil, time.Time{})
		require.NoError(t, s.SaveDecision(context.Background(), d))
		assert.False(t, d.CreatedAt.IsZero())
		assert.Equal(t, []string{}, d.InnovationIDs)
	})

	t.Run("SaveRequiresTitle", func(t *testing.T) {
		s := newStore(t)
		d := sampleDecision("   ", "sme", "West Africa", nil, baseTime)
		err := s.SaveDecision(context.Background(), d)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "title is required")
	})

	t.Run("SaveWithoutReport", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		d := sampleDecision("Draft", "researcher", "South Asia", []string{"3"}, baseTime)
		d.Report = nil
		require.NoError(t, s.SaveDecision(ctx, d))

		got, err := s.GetDecision(ctx, d.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Report)
	})

	t.Run("GetNotFound", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetDecision(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
	})

	t.Run("ListNewestFirstWithFilters", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		first := sampleDecision("first", "farmer", "East Africa", []string{"1", "2"}, baseTime)
		second := sampleDecision("second", "investor", "East Africa", []string{"5"}, baseTime.Add(time.Hour))
		third := sampleDecision("third", "farmer", "South Asia", []string{"2"}, baseTime.Add(2*time.Hour))
		for _, d := range []*model.SavedDecision{first, second, third} {
			require.NoError(t, s.SaveDecision(ctx, d))
		}

		all, err := s.ListDecisions(ctx, DecisionFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"third", "second", "first"}, titles(all))

		byRole, err := s.ListDecisions(ctx, DecisionFilter{Role: "farmer"})
		require.NoError(t, err)
		assert.Equal(t, []string{"third", "first"}, titles(byRole))

		byRegion, err := s.ListDecisions(ctx, DecisionFilter{Region: "East Africa"})
		require.NoError(t, err)
		assert.Equal(t, []string{"second", "first"}, titles(byRegion))

		byInnovation, err := s.ListDecisions(ctx, DecisionFilter{InnovationID: "2"})
		require.NoError(t, err)
		assert.Equal(t, []string{"third", "first"}, titles(byInnovation))

		page, err := s.ListDecisions(ctx, DecisionFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"second"}, titles(page))

		none, err := s.ListDecisions(ctx, DecisionFilter{Role: "policymaker"})
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		d := sampleDecision("to delete", "farmer", "East Africa", nil, baseTime)
		require.NoError(t, s.SaveDecision(ctx, d))

		require.NoError(t, s.DeleteDecision(ctx, d.ID))
		_, err := s.GetDecision(ctx, d.ID)
		assert.True(t, errors.Is(err, ErrNotFound))

		err = s.DeleteDecision(ctx, d.ID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func titles(ds []model.SavedDecision) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Title
	}
	return out
}

func TestSQLiteStore(t *testing.T) {
	storeTestSuite(t, newTestSQLite)
}

func TestMemoryStore(t *testing.T) {
	storeTestSuite(t, newTestMemory)
}
