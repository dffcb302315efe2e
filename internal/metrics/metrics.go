// Package metrics holds the service's Prometheus collectors. Registration
// happens at init via promauto; the collectors are shared by the HTTP
// handlers and the async worker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RankingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranker_rankings_total",
			Help: "Total ranking computations by source (api, worker)",
		},
		[]string{"source"},
	)

	RankingErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranker_ranking_errors_total",
			Help: "Ranking computations rejected, by error reason",
		},
		[]string{"source", "reason"},
	)

	RankingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ranker_ranking_duration_seconds",
			Help:    "Wall time of one ranking computation",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)
)
