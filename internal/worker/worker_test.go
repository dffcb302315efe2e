package worker

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/decisionworks/ranker/internal/events"
	"github.com/decisionworks/ranker/internal/store"
	"github.com/decisionworks/ranker/internal/wp"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memStore struct {
	mu   sync.Mutex
	runs map[uuid.UUID]*store.RankingRun
}

func newMemStore() *memStore {
	return &memStore{runs: make(map[uuid.UUID]*store.RankingRun)}
}

func (m *memStore) CreateRun(_ context.Context, run *store.RankingRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run.ID = uuid.New()
	run.CreatedAt = time.Now()
	m.runs[run.ID] = run
	return nil
}

func (m *memStore) GetRun(_ context.Context, id uuid.UUID) (*store.RankingRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runs[id], nil
}

func (m *memStore) ListRuns(_ context.Context, filter store.RunFilter) ([]*store.RankingRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.RankingRun
	for _, run := range m.runs {
		if filter.RequestedBy != "" && run.RequestedBy != filter.RequestedBy {
			continue
		}
		out = append(out, run)
	}
	return out, nil
}

func (m *memStore) GetStats(_ context.Context) (*store.RunStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &store.RunStats{TotalRuns: len(m.runs)}, nil
}

func (m *memStore) Close() error { return nil }

type fakeEvents struct {
	mu        sync.Mutex
	published []string
	handlers  map[string]func(string, []byte)
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{handlers: make(map[string]func(string, []byte))}
}

func (f *fakeEvents) Publish(subject string, data interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, subject)
	return nil
}

func (f *fakeEvents) Subscribe(subject string, handler func(string, []byte)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[subject] = handler
	return nil
}

func (f *fakeEvents) Close() {}

func (f *fakeEvents) subjects() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.published...)
}

func TestProcessSuccess(t *testing.T) {
	ms := newMemStore()
	ev := newFakeEvents()
	w := New(ms, ev, 2, discardLogger())

	run, err := w.Process(context.Background(), &events.RankingRequestEvent{
		RequestID:   "req-1",
		RequestedBy: "analyst",
		Labels:      []string{"A", "B"},
		Matrix:      [][]float64{{80, 70}, {60, 90}},
		Criteria: []wp.Criterion{
			{Weight: 0.5, Kind: wp.Benefit},
			{Weight: 0.5, Kind: wp.Cost},
		},
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if run.ID == uuid.Nil {
		t.Error("expected run to be persisted with an ID")
	}
	if run.Result.Alternatives[0].Label != "A" {
		t.Errorf("expected A first, got %q", run.Result.Alternatives[0].Label)
	}

	subjects := ev.subjects()
	if len(subjects) != 1 || !strings.HasSuffix(subjects[0], ".completed") {
		t.Errorf("expected one completed event, got %v", subjects)
	}

	stored, err := ms.GetRun(context.Background(), run.ID)
	if err != nil || stored == nil {
		t.Fatalf("run not stored: %v", err)
	}
}

func TestProcessEngineError(t *testing.T) {
	ms := newMemStore()
	ev := newFakeEvents()
	w := New(ms, ev, 2, discardLogger())

	_, err := w.Process(context.Background(), &events.RankingRequestEvent{
		RequestID: "req-2",
		Labels:    []string{"A"},
		Matrix:    [][]float64{{0, 70}},
		Criteria: []wp.Criterion{
			{Weight: 0.5, Kind: wp.Benefit},
			{Weight: 0.5, Kind: wp.Cost},
		},
	})
	if err == nil {
		t.Fatal("expected engine error")
	}

	subjects := ev.subjects()
	if len(subjects) != 1 || !strings.HasSuffix(subjects[0], ".failed") {
		t.Errorf("expected one failed event, got %v", subjects)
	}
	if len(ms.runs) != 0 {
		t.Error("failed request should not be persisted")
	}
}

func TestWorkerSubscribesAndProcesses(t *testing.T) {
	ms := newMemStore()
	ev := newFakeEvents()
	w := New(ms, ev, 2, discardLogger())

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	handler, ok := ev.handlers[events.SubjectRankingRequest]
	if !ok {
		t.Fatal("worker did not subscribe to the request subject")
	}

	handler(events.SubjectRankingRequest, []byte(`{
		"request_id": "req-3",
		"labels": ["A", "B"],
		"matrix": [[80, 70], [60, 90]],
		"criteria": [
			{"weight": 0.5, "kind": "benefit"},
			{"weight": 0.5, "kind": "cost"}
		]
	}`))
	w.Stop()

	if len(ms.runs) != 1 {
		t.Fatalf("expected 1 stored run, got %d", len(ms.runs))
	}
}

func TestWorkerDiscardsMalformedPayload(t *testing.T) {
	ms := newMemStore()
	ev := newFakeEvents()
	w := New(ms, ev, 1, discardLogger())

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	ev.handlers[events.SubjectRankingRequest](events.SubjectRankingRequest, []byte("not json"))
	w.Stop()

	if len(ms.runs) != 0 {
		t.Error("malformed payload should not produce a run")
	}
	if len(ev.subjects()) != 0 {
		t.Error("malformed payload should not publish events")
	}
}
