package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/decisionworks/ranker/internal/wp"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const runColumns = `id, requested_by, labels, matrix, criteria, result, duration_ms, created_at`

func (s *PostgresStore) CreateRun(ctx context.Context, run *RankingRun) error {
	matrixJSON, _ := json.Marshal(run.Matrix)
	criteriaJSON, _ := json.Marshal(run.Criteria)
	resultJSON, _ := json.Marshal(run.Result)

	return s.pool.QueryRow(ctx, `
		INSERT INTO ranking_runs (requested_by, labels, matrix, criteria, result, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		run.RequestedBy, run.Labels, matrixJSON, criteriaJSON, resultJSON, run.DurationMs,
	).Scan(&run.ID, &run.CreatedAt)
}

func (s *PostgresStore) GetRun(ctx context.Context, id uuid.UUID) (*RankingRun, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+runColumns+`
		FROM ranking_runs WHERE id = $1`, id)
	run, err := scanRun(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]*RankingRun, error) {
	query := `SELECT ` + runColumns + ` FROM ranking_runs WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.RequestedBy != "" {
		n++
		query += fmt.Sprintf(" AND requested_by = $%d", n)
		args = append(args, filter.RequestedBy)
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		n++
		query += fmt.Sprintf(" LIMIT $%d", n)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*RankingRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *PostgresStore) GetStats(ctx context.Context) (*RunStats, error) {
	stats := &RunStats{}
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE created_at > NOW() - INTERVAL '24 hours'),
			COALESCE(AVG(duration_ms), 0)
		FROM ranking_runs`,
	).Scan(&stats.TotalRuns, &stats.RunsLast24h, &stats.AvgDurationMs)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func scanRun(row pgx.Row) (*RankingRun, error) {
	run := &RankingRun{}
	var matrixJSON, criteriaJSON, resultJSON []byte
	err := row.Scan(
		&run.ID, &run.RequestedBy, &run.Labels,
		&matrixJSON, &criteriaJSON, &resultJSON,
		&run.DurationMs, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if matrixJSON != nil {
		_ = json.Unmarshal(matrixJSON, &run.Matrix)
	}
	if criteriaJSON != nil {
		_ = json.Unmarshal(criteriaJSON, &run.Criteria)
	}
	if resultJSON != nil {
		run.Result = &wp.Result{}
		_ = json.Unmarshal(resultJSON, run.Result)
	}
	return run, nil
}
