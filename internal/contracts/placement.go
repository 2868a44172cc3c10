package contracts

import (
	"context"
	"errors"
	"fmt"
)

// SignDegree is the zodiac position of a normalized longitude
type SignDegree struct {
	Sign      string `json:"sign"`
	SignIndex int    `json:"sign_index"` // 0 = Aries ... 11 = Pisces
	Degree    int    `json:"degree"`     // 0 ~ 29
	Minute    int    `json:"minute"`     // 0 ~ 59
	Decan     int    `json:"decan"`      // 1 ~ 3
}

// NakshatraPada is the lunar mansion of a sidereal longitude
type NakshatraPada struct {
	Nakshatra string `json:"nakshatra"`
	Index     int    `json:"index"` // 0 = Ashwini ... 26 = Revati
	Pada      int    `json:"pada"`  // 1 ~ 4
	Lord      Body   `json:"lord"`  // Vimshottari ruler
}

// HouseCusps holds the ascendant and the 12 cusp longitudes of one house system
type HouseCusps struct {
	System    string      `json:"system"`
	Ascendant float64     `json:"ascendant"`
	MC        float64     `json:"mc,omitempty"`
	Cusps     [12]float64 `json:"cusps"` // Cusps[0] = house 1
}

// Cusp returns the start cusp of house h (1-based)
func (c HouseCusps) Cusp(h int) float64 {
	return c.Cusps[(h-1+12)%12]
}

// BodyLongitude is an ecliptic longitude normalized to [0,360)
type BodyLongitude struct {
	Body      Body    `json:"body"`
	Longitude float64 `json:"longitude"`
}

// Placement is one body placed in a chart
type Placement struct {
	Body       Body           `json:"body"`
	Longitude  float64        `json:"longitude"`
	SignDegree SignDegree     `json:"sign_degree"`
	House      int            `json:"house"`
	Nakshatra  *NakshatraPada `json:"nakshatra,omitempty"`
}

// NodePair carries Rahu and Ketu for one node convention
type NodePair struct {
	Variant NodeVariant `json:"variant"`
	Rahu    Placement   `json:"rahu"`
	Ketu    Placement   `json:"ketu"`
}

// TropicalChart holds the tropical branch: quadrant houses
type TropicalChart struct {
	Sun       Placement  `json:"sun"`
	Moon      Placement  `json:"moon"`
	Ascendant Placement  `json:"ascendant"`
	Houses    HouseCusps `json:"houses"`
}

// SiderealChart holds the sidereal branch: whole-sign houses
type SiderealChart struct {
	Sun       Placement   `json:"sun"`
	Moon      Placement   `json:"moon"`
	Ascendant Placement   `json:"ascendant"`
	Mercury   Placement   `json:"mercury"`
	Venus     Placement   `json:"venus"`
	Mars      Placement   `json:"mars"`
	Jupiter   Placement   `json:"jupiter"`
	Saturn    Placement   `json:"saturn"`
	Nodes     [2]NodePair `json:"nodes"` // [0] mean, [1] true
	Houses    HouseCusps  `json:"houses"`
}

// Node returns the node pair for the requested convention
func (c *SiderealChart) Node(v NodeVariant) NodePair {
	for _, p := range c.Nodes {
		if p.Variant == v {
			return p
		}
	}
	return NodePair{}
}

// Planet returns the placement of one of the seven classical bodies
func (c *SiderealChart) Planet(b Body) (Placement, bool) {
	switch b {
	case BodySun:
		return c.Sun, true
	case BodyMoon:
		return c.Moon, true
	case BodyMercury:
		return c.Mercury, true
	case BodyVenus:
		return c.Venus, true
	case BodyMars:
		return c.Mars, true
	case BodyJupiter:
		return c.Jupiter, true
	case BodySaturn:
		return c.Saturn, true
	default:
		return Placement{}, false
	}
}

// Ayanamsa records the sidereal correction used for a summary
type Ayanamsa struct {
	Standard string  `json:"standard"`
	Degrees  float64 `json:"degrees"`
}

// BranchStatus reports whether a chart branch was computed
type BranchStatus struct {
	OK    bool   `json:"ok"`
	Kind  string `json:"kind,omitempty"`
	Error string `json:"error,omitempty"`

	err error
}

// NewBranchStatus builds a status from the branch error (nil = success)
func NewBranchStatus(err error) BranchStatus {
	if err == nil {
		return BranchStatus{OK: true}
	}
	return BranchStatus{
		OK:    false,
		Kind:  ErrorKind(err),
		Error: err.Error(),
		err:   err,
	}
}

// Err returns the branch failure, if any
func (s BranchStatus) Err() error {
	return s.err
}

// SummaryStatus reports both branches
type SummaryStatus struct {
	Tropical BranchStatus `json:"tropical"`
	Sidereal BranchStatus `json:"sidereal"`
}

// PlacementSummary is the single artifact exposed outward
// ⭐ SSOT: 모든 하위 컴포넌트(텍스트 생성, 궁합, 화면)는 이 값만 읽음
//
// A summary is never mutated after construction; a new computation
// produces a new summary.
type PlacementSummary struct {
	Input       BirthInput     `json:"input"`
	Instant     Instant        `json:"instant"`
	Ayanamsa    Ayanamsa       `json:"ayanamsa"`
	HouseSystem string         `json:"house_system"`
	ConfigHash  string         `json:"config_hash,omitempty"`
	Provider    string         `json:"provider"`
	Tropical    *TropicalChart `json:"tropical,omitempty"`
	Sidereal    *SiderealChart `json:"sidereal,omitempty"`
	Status      SummaryStatus  `json:"status"`
}

// Partial reports whether exactly one branch is missing
func (s *PlacementSummary) Partial() bool {
	return s.Status.Tropical.OK != s.Status.Sidereal.OK
}

// Err returns nil for a complete summary, or an error matching
// ErrPartialResult and the failed branch's cause
func (s *PlacementSummary) Err() error {
	if !s.Partial() {
		return nil
	}
	if !s.Status.Tropical.OK {
		return fmt.Errorf("%w: tropical branch: %w", ErrPartialResult, s.Status.Tropical.Err())
	}
	return fmt.Errorf("%w: sidereal branch: %w", ErrPartialResult, s.Status.Sidereal.Err())
}

// ErrorKind maps an error onto its taxonomy name
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrInvalidInstant):
		return "invalid_instant"
	case errors.Is(err, ErrEphemerisUnavailable):
		return "ephemeris_unavailable"
	case errors.Is(err, ErrDegenerateHouseGeometry):
		return "degenerate_house_geometry"
	case errors.Is(err, ErrPartialResult):
		return "partial_result"
	case errors.Is(err, ErrInvalidConfig):
		return "invalid_config"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
