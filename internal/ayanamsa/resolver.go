package ayanamsa

import (
	"sync"

	"github.com/wonny/natal/internal/contracts"
)

// DefaultCacheSize bounds the number of memoized instants
const DefaultCacheSize = 4096

// Resolver memoizes Degrees per instant for one standard.
// Repeat calls for the same instant return the bit-identical stored value.
type Resolver struct {
	standard Standard
	limit    int

	mu    sync.RWMutex
	cache map[instantKey]float64
}

// instantKey identifies an instant across the full year 0000..9999 range;
// UnixNano overflows outside roughly 1678..2262.
type instantKey struct {
	sec  int64
	nsec int32
}

func keyOf(i contracts.Instant) instantKey {
	t := i.Time()
	return instantKey{sec: t.Unix(), nsec: int32(t.Nanosecond())}
}

// NewResolver creates a resolver; size <= 0 uses DefaultCacheSize
func NewResolver(s Standard, size int) *Resolver {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Resolver{
		standard: s,
		limit:    size,
		cache:    make(map[instantKey]float64, 64),
	}
}

// Name returns the standard's identifier
func (r *Resolver) Name() string {
	return r.standard.Name()
}

// Standard returns the resolved standard
func (r *Resolver) Standard() Standard {
	return r.standard
}

// Degrees returns the ayanamsa at instant i
func (r *Resolver) Degrees(i contracts.Instant) float64 {
	key := keyOf(i)

	r.mu.RLock()
	v, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return v
	}

	v = r.standard.Degrees(i)

	r.mu.Lock()
	if len(r.cache) >= r.limit {
		// 한도 초과 시 전체 비움 (값은 순수 함수라 재계산해도 동일)
		clear(r.cache)
	}
	r.cache[key] = v
	r.mu.Unlock()

	return v
}

// Len returns the number of memoized instants
func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}
