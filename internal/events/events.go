package events

import "github.com/decisionworks/ranker/internal/wp"

// RankingRequestEvent is the payload callers publish on SubjectRankingRequest.
// Weights and kinds arrive pre-typed; kind labels are folded to their
// canonical lowercase form before ranking.
type RankingRequestEvent struct {
	RequestID   string         `json:"request_id,omitempty"`
	RequestedBy string         `json:"requested_by,omitempty"`
	Labels      []string       `json:"labels"`
	Matrix      [][]float64    `json:"matrix"`
	Criteria    []wp.Criterion `json:"criteria"`
}

type RankingCompletedEvent struct {
	RunID     string     `json:"run_id"`
	RequestID string     `json:"request_id,omitempty"`
	Result    *wp.Result `json:"result"`
}

type RankingFailedEvent struct {
	RequestID string `json:"request_id,omitempty"`
	Reason    string `json:"reason"`
	Error     string `json:"error"`
}
