package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/decisionworks/ranker/internal/wp"
)

// RankingRun is one persisted invocation of the ranking engine: the inputs
// as submitted, the computed result, and bookkeeping.
type RankingRun struct {
	ID          uuid.UUID      `json:"id"`
	RequestedBy string         `json:"requested_by"`
	Labels      []string       `json:"labels"`
	Matrix      [][]float64    `json:"matrix"`
	Criteria    []wp.Criterion `json:"criteria"`
	Result      *wp.Result     `json:"result"`
	DurationMs  float64        `json:"duration_ms"`
	CreatedAt   time.Time      `json:"created_at"`
}

type RunFilter struct {
	RequestedBy string
	Limit       int
	Offset      int
}

type RunStats struct {
	TotalRuns     int     `json:"total_runs"`
	RunsLast24h   int     `json:"runs_last_24h"`
	AvgDurationMs float64 `json:"avg_duration_ms"`
}

type Store interface {
	CreateRun(ctx context.Context, run *RankingRun) error
	GetRun(ctx context.Context, id uuid.UUID) (*RankingRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]*RankingRun, error)
	GetStats(ctx context.Context) (*RunStats, error)

	Close() error
}
