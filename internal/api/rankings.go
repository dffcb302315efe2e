package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/decisionworks/ranker/internal/events"
	"github.com/decisionworks/ranker/internal/input"
	"github.com/decisionworks/ranker/internal/metrics"
	"github.com/decisionworks/ranker/internal/store"
	"github.com/decisionworks/ranker/internal/wp"
)

type RankingsHandler struct {
	store           store.Store
	events          events.Client
	defaultCriteria []wp.Criterion
}

func NewRankingsHandler(s store.Store, ev events.Client, defaultCriteria []wp.Criterion) *RankingsHandler {
	return &RankingsHandler{store: s, events: ev, defaultCriteria: defaultCriteria}
}

type CreateRankingRequest struct {
	Labels []string    `json:"labels"`
	Matrix [][]float64 `json:"matrix"`
	// Criteria may be omitted, in which case the service's configured
	// default criteria apply.
	Criteria []wp.Criterion `json:"criteria,omitempty"`
}

// CreateParsedRequest carries weights and kinds as the comma-separated
// strings a spreadsheet-style frontend collects in text fields.
type CreateParsedRequest struct {
	Labels  []string    `json:"labels"`
	Matrix  [][]float64 `json:"matrix"`
	Weights string      `json:"weights"`
	Kinds   string      `json:"kinds"`
}

func (h *RankingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRankingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	criteria := req.Criteria
	if len(criteria) == 0 {
		criteria = h.defaultCriteria
	} else {
		normalizeKinds(criteria)
	}
	h.compute(w, r, req.Matrix, criteria, req.Labels)
}

// normalizeKinds folds case and whitespace on kind labels decoded from
// client payloads. Unrecognized labels are left as-is for the engine to
// report.
func normalizeKinds(criteria []wp.Criterion) {
	for i := range criteria {
		if k, err := wp.ParseKind(string(criteria[i].Kind)); err == nil {
			criteria[i].Kind = k
		}
	}
}

func (h *RankingsHandler) CreateParsed(w http.ResponseWriter, r *http.Request) {
	var req CreateParsedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	criteria, err := input.ParseCriteria(req.Weights, req.Kinds)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	h.compute(w, r, req.Matrix, criteria, req.Labels)
}

func (h *RankingsHandler) compute(w http.ResponseWriter, r *http.Request, matrix [][]float64, criteria []wp.Criterion, labels []string) {
	start := time.Now()
	result, err := wp.Rank(matrix, criteria, labels)
	if err != nil {
		reason := wp.Reason(err)
		metrics.RankingErrors.WithLabelValues("api", reason).Inc()
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":  err.Error(),
			"reason": reason,
		})
		return
	}
	elapsed := time.Since(start)
	metrics.RankingsTotal.WithLabelValues("api").Inc()
	metrics.RankingDuration.Observe(elapsed.Seconds())

	run := &store.RankingRun{
		RequestedBy: r.Header.Get("X-Client-ID"),
		Labels:      labels,
		Matrix:      matrix,
		Criteria:    criteria,
		Result:      result,
		DurationMs:  float64(elapsed.Microseconds()) / 1000.0,
	}
	if err := h.store.CreateRun(r.Context(), run); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectRankingCompleted(run.ID.String()), events.RankingCompletedEvent{
			RunID:  run.ID.String(),
			Result: result,
		})
	}

	writeJSON(w, http.StatusCreated, run)
}

func (h *RankingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid run id"})
		return
	}

	run, err := h.store.GetRun(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if run == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (h *RankingsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.RunFilter{
		RequestedBy: r.URL.Query().Get("requested_by"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	runs, err := h.store.ListRuns(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if runs == nil {
		runs = []*store.RankingRun{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
