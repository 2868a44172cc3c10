// Package ayanamsa resolves the angle between the tropical and sidereal
// zodiacs for one fixed, named sidereal standard.
package ayanamsa

import (
	"fmt"
	"strings"

	"github.com/wonny/natal/internal/astro"
	"github.com/wonny/natal/internal/contracts"
)

// Standard is a named sidereal reference
type Standard string

const (
	Lahiri       Standard = "lahiri"
	Raman        Standard = "raman"
	Krishnamurti Standard = "krishnamurti"
	FaganBradley Standard = "fagan_bradley"
)

// Ayanamsa at J2000.0 (TT), degrees
var epochValues = map[Standard]float64{
	Lahiri:       23.857092,
	Raman:        22.410791,
	Krishnamurti: 23.760240,
	FaganBradley: 24.740300,
}

// Standards returns the supported standards in a stable order
func Standards() []Standard {
	return []Standard{Lahiri, Raman, Krishnamurti, FaganBradley}
}

// Parse resolves a configured name; unknown names fail at config load
func Parse(name string) (Standard, error) {
	s := Standard(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := epochValues[s]; !ok {
		return "", fmt.Errorf("%w: unknown ayanamsa standard %q", contracts.ErrInvalidConfig, name)
	}
	return s, nil
}

// Name returns the standard's identifier
func (s Standard) Name() string {
	return string(s)
}

// EpochValue returns the ayanamsa at J2000.0
func (s Standard) EpochValue() float64 {
	return epochValues[s]
}

// Degrees returns the ayanamsa at instant i.
//
// The value depends on the instant alone (never on the observer's place):
// the J2000 offset advanced by IAU 1976 general precession in longitude.
func (s Standard) Degrees(i contracts.Instant) float64 {
	T := astro.CenturiesSinceJ2000(astro.JulianDayTT(i.Time()))
	precession := 5029.0966*T + 1.11113*T*T - 0.000006*T*T*T // arcseconds
	return s.EpochValue() + precession/3600.0
}
