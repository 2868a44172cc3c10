package contracts

import "errors"

// Error taxonomy for the placement pipeline
// ⭐ SSOT: 모든 실패는 이 sentinel 중 하나로 errors.Is 매칭 가능해야 함
//
// Stages wrap these with fmt.Errorf("...: %w", ErrX) so callers keep the
// context and can still match the category.
var (
	// ErrInvalidInput is returned when BirthInput fields are missing or out of range.
	ErrInvalidInput = errors.New("placement: invalid birth input")

	// ErrInvalidInstant is returned when the civil date/time/timezone cannot be
	// turned into exactly one absolute instant (parse failure, unknown zone,
	// spring-forward gap, fall-back ambiguity).
	ErrInvalidInstant = errors.New("placement: invalid instant")

	// ErrEphemerisUnavailable is returned when the position provider cannot
	// supply a longitude. No fallback position is ever substituted.
	ErrEphemerisUnavailable = errors.New("placement: ephemeris unavailable")

	// ErrDegenerateHouseGeometry is returned when quadrant cusps are undefined
	// for the location (polar latitudes, circumpolar ecliptic, NaN cusps).
	ErrDegenerateHouseGeometry = errors.New("placement: degenerate house geometry")

	// ErrPartialResult tags a summary where exactly one branch failed.
	ErrPartialResult = errors.New("placement: partial result")

	// ErrInvalidConfig is returned at configuration load for unknown
	// ayanamsa standards, house systems or ephemeris sources.
	ErrInvalidConfig = errors.New("placement: invalid configuration")
)
