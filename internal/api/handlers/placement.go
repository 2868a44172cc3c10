package handlers

import (
	"net/http"
	"time"

	"github.com/wonny/natal/internal/contracts"
	"github.com/wonny/natal/internal/placement"
	"github.com/wonny/natal/pkg/logger"
	"github.com/wonny/natal/pkg/redis"
)

// CacheObserver receives summary cache results (hit, miss, error)
type CacheObserver interface {
	ObserveCache(result string)
}

// PlacementHandler handles placement endpoints
// ⭐ SSOT: 배치 API 핸들러는 이 구조체에서만
type PlacementHandler struct {
	engine   *placement.Engine
	cache    *redis.Cache
	ttl      time.Duration
	observer CacheObserver
	logger   *logger.Logger
	now      func() time.Time
}

// NewPlacementHandler creates a placement handler.
// cache may wrap a disabled client; ttl <= 0 uses redis.TTLDaily.
func NewPlacementHandler(engine *placement.Engine, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *PlacementHandler {
	if ttl <= 0 {
		ttl = redis.TTLDaily
	}
	return &PlacementHandler{
		engine: engine,
		cache:  cache,
		ttl:    ttl,
		logger: log,
		now:    time.Now,
	}
}

// WithCacheObserver attaches a cache metrics observer
func (h *PlacementHandler) WithCacheObserver(o CacheObserver) *PlacementHandler {
	h.observer = o
	return h
}

func (h *PlacementHandler) observeCache(result string) {
	if h.observer != nil {
		h.observer.ObserveCache(result)
	}
}

// Compute returns the placement summary for a birth input
// POST /api/placements
func (h *PlacementHandler) Compute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in contracts.BirthInput
	if err := decodeJSON(r, &in); err != nil {
		respondPipelineError(w, err)
		return
	}

	key, cacheable := h.summaryKey(in)
	if cacheable {
		var cached contracts.PlacementSummary
		found, err := h.cache.Get(ctx, key, &cached)
		switch {
		case err != nil:
			h.observeCache("error")
			h.logger.WithError(err).Warn("Summary cache read failed")
		case found:
			h.observeCache("hit")
			w.Header().Set("X-Cache", "HIT")
			respondJSON(w, http.StatusOK, &cached)
			return
		default:
			h.observeCache("miss")
		}
	}

	summary, err := h.engine.Compute(ctx, in)
	if err != nil {
		h.logger.WithError(err).WithField("kind", contracts.ErrorKind(err)).Warn("Placement failed")
		respondPipelineError(w, err)
		return
	}

	// Partial summaries are not cached; the failed branch may recover
	if cacheable && !summary.Partial() {
		if err := h.cache.Set(ctx, key, summary, h.ttl); err != nil {
			h.logger.WithError(err).Warn("Summary cache write failed")
		}
	}

	respondJSON(w, http.StatusOK, summary)
}

// CompareRequest is the body of a compare call.
// Current defaults to the server clock when omitted.
type CompareRequest struct {
	Birth   contracts.BirthInput `json:"birth"`
	Current *time.Time           `json:"current,omitempty"`
}

// Compare returns the natal summary alongside a second instant's summary
// POST /api/placements/compare
func (h *PlacementHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := decodeJSON(r, &req); err != nil {
		respondPipelineError(w, err)
		return
	}

	current := h.now()
	if req.Current != nil {
		current = *req.Current
	}

	cmp, err := h.engine.Compare(r.Context(), req.Birth, current)
	if err != nil {
		h.logger.WithError(err).WithField("kind", contracts.ErrorKind(err)).Warn("Comparison failed")
		respondPipelineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cmp)
}

func (h *PlacementHandler) summaryKey(in contracts.BirthInput) (string, bool) {
	if h.cache == nil || !h.cache.Enabled() {
		return "", false
	}
	key, err := redis.SummaryKey("natal", in, h.engine.Options().ConfigHash)
	if err != nil {
		return "", false
	}
	return key, true
}
