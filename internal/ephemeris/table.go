package ephemeris

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/wonny/natal/internal/astro"
	"github.com/wonny/natal/internal/contracts"
)

// TableName identifies the table source in summaries
const TableName = "table"

// DefaultMaxGap is the widest sample spacing the table will interpolate across
const DefaultMaxGap = 48 * time.Hour

// Table interpolates precomputed daily longitudes.
// Adjacent samples are joined along the shorter arc, so a body crossing
// 0° Aries interpolates through 360→0 instead of sweeping backwards.
type Table struct {
	store  Store
	maxGap time.Duration
	closer func()
}

// NewTable creates a table provider over store; closer (may be nil) runs on Close
func NewTable(store Store, maxGap time.Duration, closer func()) *Table {
	if maxGap <= 0 {
		maxGap = DefaultMaxGap
	}
	return &Table{store: store, maxGap: maxGap, closer: closer}
}

// Name implements contracts.EphemerisProvider
func (t *Table) Name() string {
	return TableName
}

// LongitudeOf implements contracts.EphemerisProvider
func (t *Table) LongitudeOf(ctx context.Context, instant contracts.Instant, body contracts.Body) (float64, error) {
	if !body.IsEphemerisBody() {
		return 0, unavailable(TableName, body, fmt.Errorf("body not covered"))
	}

	at := instant.Time()
	before, after, err := t.store.Bracket(ctx, body, at)
	if err != nil {
		return 0, unavailable(TableName, body, fmt.Errorf("no samples around %s: %w", instant, err))
	}

	lon, err := interpolate(before, after, at, t.maxGap)
	if err != nil {
		return 0, unavailable(TableName, body, err)
	}
	return lon, nil
}

// Close implements contracts.EphemerisProvider
func (t *Table) Close() error {
	if t.closer != nil {
		t.closer()
	}
	return nil
}

// interpolate joins two samples linearly along the shorter arc
func interpolate(before, after Sample, at time.Time, maxGap time.Duration) (float64, error) {
	if !astro.Finite(before.Longitude, after.Longitude) {
		return 0, fmt.Errorf("non-finite sample")
	}
	if before.At.Equal(at) {
		return astro.Normalize360(before.Longitude), nil
	}
	if at.Before(before.At) || !after.At.After(at) {
		return 0, fmt.Errorf("samples %s..%s do not bracket %s", before.At, after.At, at)
	}

	span := after.At.Sub(before.At)
	if span > maxGap {
		return 0, fmt.Errorf("sample gap %s exceeds %s", span, maxGap)
	}

	delta := math.Mod(after.Longitude-before.Longitude, 360)
	if delta > 180 {
		delta -= 360
	} else if delta <= -180 {
		delta += 360
	}

	frac := float64(at.Sub(before.At)) / float64(span)
	return astro.Normalize360(before.Longitude + frac*delta), nil
}
