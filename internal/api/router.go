package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/natal/internal/api/handlers"
	"github.com/wonny/natal/internal/metrics"
	"github.com/wonny/natal/pkg/logger"
	"github.com/wonny/natal/pkg/redis"
)

// RouterDeps are the collaborators wired into the router
type RouterDeps struct {
	Placements     *handlers.PlacementHandler
	Health         *handlers.HealthHandler
	Metrics        *metrics.Metrics   // nil disables HTTP metrics
	MetricsHandler http.Handler       // nil disables GET /metrics
	Limiter        *redis.RateLimiter // nil disables per-client limits
	Logger         *logger.Logger
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(deps RouterDeps) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", deps.Health.Live).Methods("GET")
	r.HandleFunc("/health/engine", deps.Health.Engine).Methods("GET")

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler).Methods("GET")
	}

	// API
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/placements", deps.Placements.Compute).Methods("POST")
	api.HandleFunc("/placements/compare", deps.Placements.Compare).Methods("POST")
	if deps.Limiter != nil {
		api.Use(rateLimitMiddleware(deps.Limiter, redis.APIRateLimit, deps.Logger))
	}

	// Apply middleware
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(deps.Logger, deps.Metrics))
	r.Use(recoveryMiddleware(deps.Logger))

	return r
}
