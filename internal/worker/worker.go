// Package worker consumes asynchronous ranking requests from the event bus,
// runs the engine, persists the run, and publishes the outcome. Each request
// is independent, so in-flight computations run concurrently up to a
// configured bound.
package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/decisionworks/ranker/internal/events"
	"github.com/decisionworks/ranker/internal/metrics"
	"github.com/decisionworks/ranker/internal/store"
	"github.com/decisionworks/ranker/internal/wp"
)

type Worker struct {
	store  store.Store
	events events.Client
	logger *slog.Logger
	sem    chan struct{}

	ctx      context.Context
	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func New(s store.Store, ev events.Client, maxConcurrent int, logger *slog.Logger) *Worker {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Worker{
		store:  s,
		events: ev,
		logger: logger,
		sem:    make(chan struct{}, maxConcurrent),
		stopCh: make(chan struct{}),
	}
}

// Start subscribes to the ranking-request subject. It returns an error only
// if the subscription itself fails.
func (w *Worker) Start(ctx context.Context) error {
	w.ctx = ctx
	return w.events.Subscribe(events.SubjectRankingRequest, w.onRequest)
}

func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
}

func (w *Worker) onRequest(subject string, data []byte) {
	select {
	case <-w.stopCh:
		return
	case w.sem <- struct{}{}:
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() { <-w.sem }()

		var req events.RankingRequestEvent
		if err := json.Unmarshal(data, &req); err != nil {
			w.logger.Warn("discarding malformed ranking request", "subject", subject, "error", err)
			return
		}
		if _, err := w.Process(w.ctx, &req); err != nil {
			w.logger.Warn("ranking request failed", "request_id", req.RequestID, "error", err)
		}
	}()
}

// Process runs one ranking request end to end: engine, store, events.
// Engine errors are published as failure events and returned.
func (w *Worker) Process(ctx context.Context, req *events.RankingRequestEvent) (*store.RankingRun, error) {
	for i := range req.Criteria {
		if k, err := wp.ParseKind(string(req.Criteria[i].Kind)); err == nil {
			req.Criteria[i].Kind = k
		}
	}

	start := time.Now()
	result, err := wp.Rank(req.Matrix, req.Criteria, req.Labels)
	if err != nil {
		metrics.RankingErrors.WithLabelValues("worker", wp.Reason(err)).Inc()
		_ = w.events.Publish(events.SubjectRankingFailed(req.RequestID), events.RankingFailedEvent{
			RequestID: req.RequestID,
			Reason:    wp.Reason(err),
			Error:     err.Error(),
		})
		return nil, err
	}
	elapsed := time.Since(start)
	metrics.RankingsTotal.WithLabelValues("worker").Inc()
	metrics.RankingDuration.Observe(elapsed.Seconds())

	run := &store.RankingRun{
		RequestedBy: req.RequestedBy,
		Labels:      req.Labels,
		Matrix:      req.Matrix,
		Criteria:    req.Criteria,
		Result:      result,
		DurationMs:  float64(elapsed.Microseconds()) / 1000.0,
	}
	if err := w.store.CreateRun(ctx, run); err != nil {
		// The computation succeeded; losing the record is worth a log
		// but not a failure event.
		w.logger.Error("failed to persist ranking run", "request_id", req.RequestID, "error", err)
	}

	_ = w.events.Publish(events.SubjectRankingCompleted(run.ID.String()), events.RankingCompletedEvent{
		RunID:     run.ID.String(),
		RequestID: req.RequestID,
		Result:    result,
	})

	w.logger.Info("ranking computed",
		"run_id", run.ID,
		"alternatives", len(req.Labels),
		"criteria", len(req.Criteria),
		"duration_ms", run.DurationMs,
	)
	return run, nil
}
