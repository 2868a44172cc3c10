package instant

import (
	"fmt"
	"strings"
	"sync"
	"time"

	// Embedded IANA database so zone rules do not depend on the host
	_ "time/tzdata"

	"github.com/wonny/natal/internal/contracts"
)

// Accepted civil time layouts, most specific last
var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"15:04:05.999999999",
}

const dateLayout = "2006-01-02"

// Probe offsets used to discover every UTC offset a zone may use around a
// wall time. DST shifts and historic LMT changes are all well within ±2 days.
var probes = []time.Duration{-48 * time.Hour, -12 * time.Hour, 0, 12 * time.Hour, 48 * time.Hour}

// Normalizer converts civil birth data to an absolute instant
// ⭐ SSOT: 현지 시각 → UTC 변환은 여기서만
//
// Loaded zones are cached; the cache is the only shared state and is
// read-mostly, so a single Normalizer is safe for concurrent use.
type Normalizer struct {
	mu    sync.RWMutex
	zones map[string]*time.Location
}

// New creates a Normalizer with an empty zone cache
func New() *Normalizer {
	return &Normalizer{zones: make(map[string]*time.Location)}
}

// Normalize resolves date + time + timezone to exactly one UTC instant.
// Gaps (spring-forward) and ambiguous wall times (fall-back) are rejected
// with ErrInvalidInstant rather than guessed.
func (n *Normalizer) Normalize(in contracts.BirthInput) (contracts.Instant, error) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(in.Date))
	if err != nil {
		return contracts.Instant{}, fmt.Errorf("%w: date %q: expected YYYY-MM-DD", contracts.ErrInvalidInstant, in.Date)
	}

	clock, err := parseClock(in.Time)
	if err != nil {
		return contracts.Instant{}, err
	}

	loc, err := n.location(in.Timezone)
	if err != nil {
		return contracts.Instant{}, err
	}

	wall := time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(), time.UTC)

	candidates := resolveWall(wall, loc)
	switch len(candidates) {
	case 0:
		return contracts.Instant{}, fmt.Errorf("%w: %s %s does not exist in %s (clock change gap)",
			contracts.ErrInvalidInstant, in.Date, in.Time, in.Timezone)
	case 1:
		return contracts.NewInstant(candidates[0]), nil
	default:
		return contracts.Instant{}, fmt.Errorf("%w: %s %s is ambiguous in %s (occurs %d times)",
			contracts.ErrInvalidInstant, in.Date, in.Time, in.Timezone, len(candidates))
	}
}

// location loads (and caches) an IANA zone
func (n *Normalizer) location(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "Local" {
		return nil, fmt.Errorf("%w: timezone %q is not an IANA zone name", contracts.ErrInvalidInstant, name)
	}

	n.mu.RLock()
	loc, ok := n.zones[name]
	n.mu.RUnlock()
	if ok {
		return loc, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", contracts.ErrInvalidInstant, name)
	}

	n.mu.Lock()
	n.zones[name] = loc
	n.mu.Unlock()

	return loc, nil
}

// parseClock accepts HH:MM, HH:MM:SS and HH:MM:SS.fraction
func parseClock(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: time %q: expected HH:MM[:SS[.fff]]", contracts.ErrInvalidInstant, s)
}

// resolveWall returns every UTC instant whose wall clock in loc equals wall
// (wall carries the civil fields in a UTC container)
func resolveWall(wall time.Time, loc *time.Location) []time.Time {
	seen := map[int]bool{}
	var out []time.Time

	for _, p := range probes {
		_, offset := wall.Add(p).In(loc).Zone()
		if seen[offset] {
			continue
		}
		seen[offset] = true

		candidate := wall.Add(-time.Duration(offset) * time.Second)
		if sameWall(candidate.In(loc), wall) && !containsInstant(out, candidate) {
			out = append(out, candidate)
		}
	}

	return out
}

func sameWall(local, wall time.Time) bool {
	y1, m1, d1 := local.Date()
	y2, m2, d2 := wall.Date()
	return y1 == y2 && m1 == m2 && d1 == d2 &&
		local.Hour() == wall.Hour() &&
		local.Minute() == wall.Minute() &&
		local.Second() == wall.Second() &&
		local.Nanosecond() == wall.Nanosecond()
}

func containsInstant(ts []time.Time, t time.Time) bool {
	for _, x := range ts {
		if x.Equal(t) {
			return true
		}
	}
	return false
}
