package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

var decisionColumns = []string{"id", "title", "context", "innovation_ids", "report", "created_at"}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS decisions`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectCommit()

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveDecision(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO decisions`).
		WithArgs(pgxmock.AnyArg(), "Maize plan", "farmer", "East Africa",
			pgxmock.AnyArg(), []byte(`["2","1"]`), pgxmock.AnyArg(), baseTime).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	d := sampleDecision("Maize plan", "farmer", "East Africa", []string{"2", "1"}, baseTime)
	require.NoError(t, s.SaveDecision(context.Background(), d))
	assert.NotEmpty(t, d.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetDecision(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows(decisionColumns).AddRow(
		"d-1", "Maize plan",
		[]byte(`{"role":"farmer","region":"East Africa"}`),
		[]byte(`["2"]`),
		[]byte(`{"recommendations":[]}`),
		baseTime,
	)
	mock.ExpectQuery(`SELECT id, title, context, innovation_ids, report, created_at FROM decisions WHERE id = \$1`).
		WithArgs("d-1").
		WillReturnRows(rows)

	got, err := s.GetDecision(context.Background(), "d-1")
	require.NoError(t, err)
	assert.Equal(t, "Maize plan", got.Title)
	assert.Equal(t, "farmer", got.Context.Role)
	assert.Equal(t, []string{"2"}, got.InnovationIDs)
	assert.JSONEq(t, `{"recommendations":[]}`, string(got.Report))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetDecision_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM decisions WHERE id = \$1`).
		WithArgs("nonexistent").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetDecision(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "get decision")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListDecisions_Filters(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows(decisionColumns).
		AddRow("d-2", "second", []byte(`{"role":"farmer"}`), []byte(`["5"]`), nil, baseTime.Add(time.Hour)).
		AddRow("d-1", "first", []byte(`{"role":"farmer"}`), []byte(`["5","1"]`), nil, baseTime)
	mock.ExpectQuery(`AND role = \$1 AND innovation_ids \? \$2 ORDER BY created_at DESC, id LIMIT \$3 OFFSET \$4`).
		WithArgs("farmer", "5", 10, 5).
		WillReturnRows(rows)

	got, err := s.ListDecisions(context.Background(), DecisionFilter{Role: "farmer", InnovationID: "5", Limit: 10, Offset: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, titles(got))
	assert.Empty(t, got[0].Report)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListDecisions_DefaultLimit(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`WHERE 1=1 ORDER BY created_at DESC, id LIMIT \$1$`).
		WithArgs(100).
		WillReturnRows(pgxmock.NewRows(decisionColumns))

	got, err := s.ListDecisions(context.Background(), DecisionFilter{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteDecision(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM decisions WHERE id = \$1`).
		WithArgs("d-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM decisions WHERE id = \$1`).
		WithArgs("d-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, s.DeleteDecision(context.Background(), "d-1"))
	err := s.DeleteDecision(context.Background(), "d-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Ping(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	mock.ExpectPing()

	require.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CloseWithoutPool(t *testing.T) {
	s := &PostgresStore{}
	assert.NoError(t, s.Close())
}
