package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/atio-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS decisions (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	role           TEXT NOT NULL DEFAULT '',
	region         TEXT NOT NULL DEFAULT '',
	context        TEXT NOT NULL,
	innovation_ids TEXT NOT NULL DEFAULT '[]',
	report         TEXT,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_decisions_created_at ON decisions(created_at);
CREATE INDEX IF NOT EXISTS idx_decisions_region ON decisions(region);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveDecision(ctx context.Context, d *model.SavedDecision) error {
	if err := prepare(d); err != nil {
		return err
	}

	ctxJSON, err := json.Marshal(d.Context)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal context")
	}
	idsJSON, err := json.Marshal(d.InnovationIDs)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal innovation ids")
	}
	var report sql.NullString
	if len(d.Report) > 0 {
		report = sql.NullString{String: string(d.Report), Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO decisions (id, title, role, region, context, innovation_ids, report, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Title, d.Context.Role, d.Context.Region, string(ctxJSON), string(idsJSON), report, d.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: insert decision %s", d.ID)
}

func (s *SQLiteStore) GetDecision(ctx context.Context, id string) (*model.SavedDecision, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, context, innovation_ids, report, created_at FROM decisions WHERE id = ?`,
		id,
	)
	d, err := scanDecision(row)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get decision %s", id)
	}
	return d, nil
}

func (s *SQLiteStore) ListDecisions(ctx context.Context, filter DecisionFilter) ([]model.SavedDecision, error) {
	query := `SELECT id, title, context, innovation_ids, report, created_at FROM decisions WHERE 1=1`
	var args []any

	if filter.Role != "" {
		query += ` AND role = ?`
		args = append(args, filter.Role)
	}
	if filter.Region != "" {
		query += ` AND region = ?`
		args = append(args, filter.Region)
	}
	if filter.InnovationID != "" {
		query += ` AND EXISTS (SELECT 1 FROM json_each(decisions.innovation_ids) WHERE json_each.value = ?)`
		args = append(args, filter.InnovationID)
	}
	query += ` ORDER BY created_at DESC, id LIMIT ?`
	args = append(args, filter.limit())

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list decisions")
	}
	defer rows.Close()

	out := []model.SavedDecision{}
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: list decisions")
		}
		out = append(out, *d)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list decisions iterate")
}

func (s *SQLiteStore) DeleteDecision(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM decisions WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete decision %s", id)
	}
	return checkRowsAffected(res, id)
}

// helpers

func checkRowsAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "decision %s", id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanDecision(row scannable) (*model.SavedDecision, error) {
	var d model.SavedDecision
	var ctxJSON, idsJSON string
	var report sql.NullString

	err := row.Scan(&d.ID, &d.Title, &ctxJSON, &idsJSON, &report, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "scan decision")
	}
	if err := decodeDecision(&d, []byte(ctxJSON), []byte(idsJSON)); err != nil {
		return nil, err
	}
	if report.Valid {
		d.Report = json.RawMessage(report.String)
	}
	return &d, nil
}

func decodeDecision(d *model.SavedDecision, ctxJSON, idsJSON []byte) error {
	if err := json.Unmarshal(ctxJSON, &d.Context); err != nil {
		return eris.Wrap(err, "unmarshal context")
	}
	if err := json.Unmarshal(idsJSON, &d.InnovationIDs); err != nil {
		return eris.Wrap(err, "unmarshal innovation ids")
	}
	return nil
}
