// Package ephemeris supplies tropical geocentric ecliptic longitudes.
//
// Three sources implement contracts.EphemerisProvider: a built-in analytic
// series, a Postgres table of precomputed daily positions, and a remote HTTP
// service. Exactly one is selected at startup by Open. Every failure wraps
// contracts.ErrEphemerisUnavailable; no source ever substitutes an
// approximate value for a position it could not produce.
package ephemeris

import (
	"fmt"

	"github.com/wonny/natal/internal/contracts"
)

// unavailable wraps cause as an ErrEphemerisUnavailable for body
func unavailable(provider string, body contracts.Body, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s: %s", contracts.ErrEphemerisUnavailable, provider, body)
	}
	return fmt.Errorf("%w: %s: %s: %w", contracts.ErrEphemerisUnavailable, provider, body, cause)
}
