package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"pdptw-plan-service/internal/api/handlers"
	"pdptw-plan-service/internal/ports"
)

// RouterConfig carries the solve tuning the router passes to its handlers.
type RouterConfig struct {
	DefaultTimeLimit time.Duration
	MaxTimeLimit     time.Duration
	PlansPerMinute   int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(repo ports.ProblemRepository, provider ports.DistanceProvider, solver ports.MIPSolver, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	problemHandler := &handlers.ProblemHandler{Repo: repo, Provider: provider}
	planHandler := &handlers.PlanHandler{
		Repo:             repo,
		Provider:         provider,
		Solver:           solver,
		DefaultTimeLimit: cfg.DefaultTimeLimit,
		MaxTimeLimit:     cfg.MaxTimeLimit,
	}

	perMinute := cfg.PlansPerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)

	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/problem", problemHandler.Get)
	mux.HandleFunc("/problems/compat", problemHandler.Compat)
	mux.Handle("/plans", rateLimitMiddleware(limiter, http.HandlerFunc(planHandler.Solve)))

	return loggingMiddleware(mux)
}
