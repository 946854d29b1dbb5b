package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/atio-cli/internal/db"
	"github.com/sells-group/atio-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *db.PoolConfig) (*PostgresStore, error) {
	pool, err := db.Connect(ctx, connString, poolCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS decisions (
	id             TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	title          TEXT NOT NULL,
	role           TEXT NOT NULL DEFAULT '',
	region         TEXT NOT NULL DEFAULT '',
	context        JSONB NOT NULL,
	innovation_ids JSONB NOT NULL DEFAULT '[]'::jsonb,
	report         JSONB,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_decisions_created_at ON decisions(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_decisions_region ON decisions(region);
CREATE INDEX IF NOT EXISTS idx_decisions_innovation_ids ON decisions USING GIN (innovation_ids);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	err := db.InTx(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, postgresMigration)
		return err
	})
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveDecision(ctx context.Context, d *model.SavedDecision) error {
	if err := prepare(d); err != nil {
		return err
	}

	ctxJSON, err := json.Marshal(d.Context)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal context")
	}
	idsJSON, err := json.Marshal(d.InnovationIDs)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal innovation ids")
	}
	var report []byte
	if len(d.Report) > 0 {
		report = d.Report
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO decisions (id, title, role, region, context, innovation_ids, report, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.Title, d.Context.Role, d.Context.Region, ctxJSON, idsJSON, report, d.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: insert decision %s", d.ID)
}

func (s *PostgresStore) GetDecision(ctx context.Context, id string) (*model.SavedDecision, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, title, context, innovation_ids, report, created_at FROM decisions WHERE id = $1`,
		id,
	)
	d, err := scanPgDecision(row)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get decision %s", id)
	}
	return d, nil
}

func (s *PostgresStore) ListDecisions(ctx context.Context, filter DecisionFilter) ([]model.SavedDecision, error) {
	query := `SELECT id, title, context, innovation_ids, report, created_at FROM decisions WHERE 1=1`
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Role != "" {
		query += ` AND role = ` + next(filter.Role)
	}
	if filter.Region != "" {
		query += ` AND region = ` + next(filter.Region)
	}
	if filter.InnovationID != "" {
		query += ` AND innovation_ids ? ` + next(filter.InnovationID)
	}
	query += ` ORDER BY created_at DESC, id LIMIT ` + next(filter.limit())
	if filter.Offset > 0 {
		query += ` OFFSET ` + next(filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list decisions")
	}
	defer rows.Close()

	out := []model.SavedDecision{}
	for rows.Next() {
		d, err := scanPgDecision(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: list decisions")
		}
		out = append(out, *d)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list decisions iterate")
}

func (s *PostgresStore) DeleteDecision(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM decisions WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete decision %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "decision %s", id)
	}
	return nil
}

func scanPgDecision(row pgx.Row) (*model.SavedDecision, error) {
	var d model.SavedDecision
	var ctxJSON, idsJSON, report []byte

	err := row.Scan(&d.ID, &d.Title, &ctxJSON, &idsJSON, &report, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "scan decision")
	}
	if err := decodeDecision(&d, ctxJSON, idsJSON); err != nil {
		return nil, err
	}
	if len(report) > 0 {
		d.Report = json.RawMessage(report)
	}
	return &d, nil
}
