package handlers

import (
	"net/http"

	"github.com/wonny/natal/internal/placement"
	"github.com/wonny/natal/pkg/logger"
)

// SelfTestObserver receives reference-chart results
type SelfTestObserver interface {
	ObserveSelfTest(err error)
}

// HealthHandler serves liveness and engine checks
type HealthHandler struct {
	engine   *placement.Engine
	observer SelfTestObserver
	logger   *logger.Logger
}

// NewHealthHandler creates a health handler
func NewHealthHandler(engine *placement.Engine, observer SelfTestObserver, log *logger.Logger) *HealthHandler {
	return &HealthHandler{engine: engine, observer: observer, logger: log}
}

// Live returns server health status
// GET /health
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"service":  "natal-api",
		"provider": h.engine.Provider(),
	})
}

// Engine computes the reference chart
// GET /health/engine
func (h *HealthHandler) Engine(w http.ResponseWriter, r *http.Request) {
	report, err := h.engine.HealthCheck(r.Context())
	if h.observer != nil {
		h.observer.ObserveSelfTest(err)
	}
	if err != nil {
		h.logger.WithError(err).Error("Engine self test failed")
		respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "fail",
			"error":  err.Error(),
			"report": report,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"report": report,
	})
}
