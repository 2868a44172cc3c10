package contracts

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// BirthInput is the raw civil birth data handed in by the caller
// ⭐ SSOT: 출생 정보는 이 구조체로만 파이프라인에 진입
type BirthInput struct {
	Date      string  `json:"date"`      // YYYY-MM-DD
	Time      string  `json:"time"`      // HH:MM, HH:MM:SS or HH:MM:SS.fff
	Timezone  string  `json:"timezone"`  // IANA name, e.g. "Asia/Seoul"
	Latitude  float64 `json:"latitude"`  // -90 ~ 90, north positive
	Longitude float64 `json:"longitude"` // -180 ~ 180, east positive
}

// Validate checks field presence and coordinate ranges.
// Civil time validity is checked by the instant normalizer.
func (b BirthInput) Validate() error {
	if strings.TrimSpace(b.Date) == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if strings.TrimSpace(b.Time) == "" {
		return fmt.Errorf("%w: time is required", ErrInvalidInput)
	}
	if strings.TrimSpace(b.Timezone) == "" {
		return fmt.Errorf("%w: timezone is required", ErrInvalidInput)
	}
	if math.IsNaN(b.Latitude) || b.Latitude < -90 || b.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90,90]", ErrInvalidInput, b.Latitude)
	}
	if math.IsNaN(b.Longitude) || b.Longitude < -180 || b.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180,180]", ErrInvalidInput, b.Longitude)
	}
	return nil
}

// Instant is an absolute UTC point in time derived once from a BirthInput
type Instant struct {
	t time.Time
}

// NewInstant wraps t, dropping its location and monotonic reading
func NewInstant(t time.Time) Instant {
	return Instant{t: t.UTC().Round(0)}
}

// Time returns the instant as a UTC time.Time
func (i Instant) Time() time.Time {
	return i.t
}

// IsZero reports whether the instant was never set
func (i Instant) IsZero() bool {
	return i.t.IsZero()
}

// Equal reports whether two instants denote the same moment
func (i Instant) Equal(o Instant) bool {
	return i.t.Equal(o.t)
}

// String formats the instant as RFC3339 with nanoseconds
func (i Instant) String() string {
	return i.t.Format(time.RFC3339Nano)
}

// MarshalText keeps summaries byte-stable regardless of the input zone
func (i Instant) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText parses an RFC3339 instant
func (i *Instant) UnmarshalText(data []byte) error {
	t, err := time.Parse(time.RFC3339Nano, string(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInstant, err)
	}
	*i = NewInstant(t)
	return nil
}
