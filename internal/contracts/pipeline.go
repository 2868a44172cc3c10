package contracts

// Pipeline Stage 정의 (SSOT)
// 로그 필드와 메트릭 라벨은 이 상수를 사용
//
// 파이프라인 흐름:
//   Instant → Ephemeris × N → Coordinates (Ayanamsa) → Houses → Mapping → Aggregate

// Stage represents a placement pipeline stage
type Stage string

const (
	// StageInstant: civil date/time/zone → UTC instant (internal/instant)
	StageInstant Stage = "instant"

	// StageEphemeris: tropical geocentric longitude per body (internal/ephemeris)
	StageEphemeris Stage = "ephemeris"

	// StageAyanamsa: sidereal correction angle (internal/ayanamsa)
	StageAyanamsa Stage = "ayanamsa"

	// StageCoordinates: tropical → sidereal, node pairs (internal/coords)
	StageCoordinates Stage = "coordinates"

	// StageHouses: ascendant, quadrant and whole-sign cusps (internal/houses)
	StageHouses Stage = "houses"

	// StageMapping: sign/degree/decan/nakshatra/pada (internal/zodiac)
	StageMapping Stage = "mapping"

	// StageAggregate: PlacementSummary assembly (internal/placement)
	StageAggregate Stage = "aggregate"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// AllStages returns all pipeline stages in order
func AllStages() []Stage {
	return []Stage{
		StageInstant,
		StageEphemeris,
		StageAyanamsa,
		StageCoordinates,
		StageHouses,
		StageMapping,
		StageAggregate,
	}
}
