package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Totarae/ResearchAggregator/internal/database"
	"github.com/Totarae/ResearchAggregator/internal/model"
)

// RunRepository хранит журнал запусков в PostgreSQL.
type RunRepository struct {
	DB *database.DB
}

// NewRunRepository создаёт новый экземпляр RunRepository.
func NewRunRepository(db *database.DB) *RunRepository {
	return &RunRepository{DB: db}
}

// SaveRun сохраняет запись журнала.
func (r *RunRepository) SaveRun(ctx context.Context, run *model.Run) error {
	req, err := json.Marshal(run.Request)
	if err != nil {
		return err
	}
	var resp []byte
	if len(run.Response) > 0 {
		resp = run.Response
	}

	query := `INSERT INTO runs (id, user_id, request, response, succeeded, failed, policy, duration_ms, created)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.DB.Pool.Exec(ctx, query, run.ID, run.UserID, req, resp,
		run.Succeeded, run.Failed, run.Policy, run.DurationMS, run.Created)
	if err != nil {
		return fmt.Errorf("database insert error: %w", err)
	}
	return nil
}

const selectRun = `SELECT id::text, user_id, request, response, succeeded, failed, policy, duration_ms, created FROM runs`

func scanRun(row pgx.Row) (*model.Run, error) {
	var (
		run  model.Run
		req  []byte
		resp []byte
	)
	if err := row.Scan(&run.ID, &run.UserID, &req, &resp, &run.Succeeded, &run.Failed,
		&run.Policy, &run.DurationMS, &run.Created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(req, &run.Request); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	if len(resp) > 0 {
		run.Response = json.RawMessage(resp)
	}
	run.Created = run.Created.UTC()
	return &run, nil
}

// GetRun извлекает запись журнала по идентификатору.
func (r *RunRepository) GetRun(ctx context.Context, id string) (*model.Run, error) {
	run, err := scanRun(r.DB.Pool.QueryRow(ctx, selectRun+` WHERE id::text = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database select error: %w", err)
	}
	return run, nil
}

// ListRunsByUser возвращает запуски пользователя, новые первыми.
func (r *RunRepository) ListRunsByUser(ctx context.Context, userID string) ([]*model.Run, error) {
	rows, err := r.DB.Pool.Query(ctx, selectRun+` WHERE user_id = $1 ORDER BY created DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("database select error: %w", err)
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

// GetStats возвращает число запусков и различных пользователей.
func (r *RunRepository) GetStats(ctx context.Context) (model.Stats, error) {
	var st model.Stats
	err := r.DB.Pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT NULLIF(user_id, '')) FROM runs`).Scan(&st.Runs, &st.Users)
	if err != nil {
		return model.Stats{}, fmt.Errorf("database stats error: %w", err)
	}
	return st, nil
}

func (r *RunRepository) Ping(ctx context.Context) error {
	return r.DB.Ping(ctx)
}

func (r *RunRepository) Close() error {
	r.DB.Close()
	return nil
}
