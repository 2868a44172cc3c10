package contracts

import "context"

// EphemerisProvider returns tropical geocentric ecliptic longitudes
// ⭐ SSOT: 천체 위치 조회는 이 인터페이스로만
//
// Implementations must return an error wrapping ErrEphemerisUnavailable
// instead of an approximate fallback value.
type EphemerisProvider interface {
	// Name identifies the provider in logs and summaries
	Name() string

	// LongitudeOf returns the longitude of body at instant, in degrees [0,360)
	LongitudeOf(ctx context.Context, instant Instant, body Body) (float64, error)

	// Close releases file or network resources held by the provider
	Close() error
}
