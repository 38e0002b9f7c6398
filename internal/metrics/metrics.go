// Package metrics holds the process-wide Prometheus collectors. All
// collectors register on the default registry so promhttp.Handler exposes
// them without extra wiring.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, path and status code.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	PlanSolvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plan_solves_total",
		Help: "Plan solve attempts by outcome (optimal, non_optimal, infeasible, no_solution, error).",
	}, []string{"outcome"})

	ModelBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "model_build_duration_seconds",
		Help:    "Time spent assembling variables, objective and constraints.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
	})

	SolverDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "solver_duration_seconds",
		Help:    "Wall-clock time spent inside the MIP solver.",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	})
)
