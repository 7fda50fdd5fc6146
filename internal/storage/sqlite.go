package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Totarae/ResearchAggregator/internal/model"
)

// SQLiteStore хранит журнал в локальном файле SQLite.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %s: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id           TEXT PRIMARY KEY,
			user_id      TEXT NOT NULL DEFAULT '',
			request      TEXT NOT NULL,
			response     TEXT,
			succeeded    INTEGER NOT NULL,
			failed       INTEGER NOT NULL,
			policy       TEXT NOT NULL,
			duration_ms  INTEGER NOT NULL,
			created_at   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_user ON runs(user_id, created_at)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run *model.Run) error {
	req, err := json.Marshal(run.Request)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, user_id, request, response, succeeded, failed, policy, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.UserID, string(req), nullableJSON(run.Response),
		run.Succeeded, run.Failed, run.Policy, run.DurationMS, run.Created.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

const selectRun = `SELECT id, user_id, request, response, succeeded, failed, policy, duration_ms, created_at FROM runs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.Run, error) {
	var (
		run     model.Run
		req     string
		resp    sql.NullString
		created int64
	)
	if err := row.Scan(&run.ID, &run.UserID, &req, &resp, &run.Succeeded, &run.Failed,
		&run.Policy, &run.DurationMS, &created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(req), &run.Request); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	if resp.Valid {
		run.Response = json.RawMessage(resp.String)
	}
	run.Created = time.Unix(0, created).UTC()
	return &run, nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, selectRun+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrRunNotFound
	}
	return run, err
}

func (s *SQLiteStore) ListRunsByUser(ctx context.Context, userID string) ([]*model.Run, error) {
	rows, err := s.db.QueryContext(ctx, selectRun+` WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, run)
	}
	return res, rows.Err()
}

func (s *SQLiteStore) GetStats(ctx context.Context) (model.Stats, error) {
	var st model.Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT NULLIF(user_id, '')) FROM runs`).Scan(&st.Runs, &st.Users)
	return st, err
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
