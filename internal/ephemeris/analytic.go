package ephemeris

import (
	"context"
	"fmt"

	"github.com/wonny/natal/internal/astro"
	"github.com/wonny/natal/internal/contracts"
)

// AnalyticName identifies the built-in series in summaries
const AnalyticName = "analytic"

// Analytic computes positions from closed-form series: Meeus solar and lunar
// theory, the mean and true lunar node, and JPL Keplerian elements for the
// planets. Longitudes are apparent (nutation applied) and precise to a few
// arcminutes between 1800 and 2050, which the pipeline treats as exact input.
// It holds no state and is safe for concurrent use.
type Analytic struct{}

// NewAnalytic creates the built-in provider
func NewAnalytic() *Analytic {
	return &Analytic{}
}

// Name implements contracts.EphemerisProvider
func (a *Analytic) Name() string {
	return AnalyticName
}

// LongitudeOf implements contracts.EphemerisProvider
func (a *Analytic) LongitudeOf(ctx context.Context, instant contracts.Instant, body contracts.Body) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, unavailable(AnalyticName, body, err)
	}
	if instant.IsZero() {
		return 0, unavailable(AnalyticName, body, fmt.Errorf("zero instant"))
	}

	T := astro.CenturiesSinceJ2000(astro.JulianDayTT(instant.Time()))

	lon, ok := longitudeAt(body, T)
	if !ok {
		return 0, unavailable(AnalyticName, body, fmt.Errorf("body not covered"))
	}
	if !astro.Finite(lon) {
		return 0, unavailable(AnalyticName, body, fmt.Errorf("non-finite longitude"))
	}
	return lon, nil
}

// Close implements contracts.EphemerisProvider
func (a *Analytic) Close() error {
	return nil
}

// longitudeAt returns the apparent longitude for T (TT centuries since J2000)
func longitudeAt(body contracts.Body, T float64) (float64, bool) {
	if body == contracts.BodySun {
		// already apparent
		return sunApparentLongitude(T), true
	}

	var lon float64
	switch body {
	case contracts.BodyMoon:
		lon = moonGeometricLongitude(T)
	case contracts.BodyMeanNode:
		lon = meanNodeLongitude(T)
	case contracts.BodyTrueNode:
		lon = trueNodeLongitude(T)
	default:
		var ok bool
		if lon, ok = planetGeocentricLongitude(body, T); !ok {
			return 0, false
		}
	}

	dpsi, _ := astro.Nutation(T)
	return astro.Normalize360(lon + dpsi), true
}
