package placement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/natal/internal/ayanamsa"
	"github.com/wonny/natal/internal/contracts"
	"github.com/wonny/natal/internal/engineconfig"
	"github.com/wonny/natal/internal/ephemeris"
	"github.com/wonny/natal/internal/houses"
	"github.com/wonny/natal/internal/instant"
	"github.com/wonny/natal/internal/zodiac"
)

// fakeProvider answers fixed longitudes and fails the bodies in errs
type fakeProvider struct {
	lons  map[contracts.Body]float64
	errs  map[contracts.Body]error
	block bool
	calls atomic.Int64
}

func newFake() *fakeProvider {
	return &fakeProvider{
		lons: map[contracts.Body]float64{
			contracts.BodySun:      100,
			contracts.BodyMoon:     200,
			contracts.BodyMercury:  110,
			contracts.BodyVenus:    80,
			contracts.BodyMars:     300,
			contracts.BodyJupiter:  45,
			contracts.BodySaturn:   290,
			contracts.BodyMeanNode: 200,
			contracts.BodyTrueNode: 201.5,
		},
		errs: map[contracts.Body]error{},
	}
}

func (f *fakeProvider) Name() string { return "fake" }
func (f *fakeProvider) Close() error { return nil }

func (f *fakeProvider) LongitudeOf(ctx context.Context, _ contracts.Instant, body contracts.Body) (float64, error) {
	f.calls.Add(1)
	if f.block {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	if err, ok := f.errs[body]; ok {
		return 0, err
	}
	return f.lons[body], nil
}

type recordingObserver struct {
	mu       sync.Mutex
	lookups  int
	failed   int
	outcomes []string
}

func (r *recordingObserver) ObserveLookup(_ string, _ contracts.Body, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	if err != nil {
		r.failed++
	}
}

func (r *recordingObserver) ObserveCompute(outcome, _ string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

var seoul = contracts.BirthInput{
	Date:      "1990-07-15",
	Time:      "12:00",
	Timezone:  "Asia/Seoul",
	Latitude:  37.5665,
	Longitude: 126.9780,
}

func newEngine(p contracts.EphemerisProvider) *Engine {
	return New(p, ayanamsa.NewResolver(ayanamsa.Lahiri, 0), Options{
		HouseSystem:     houses.Placidus,
		LookupTimeout:   time.Second,
		ConfigHash:      "test",
		Reference:       seoul,
		ExpectedSunSign: zodiac.Cancer,
		AyanamsaBand:    1,
	}, nil)
}

func ayanamsaFor(t *testing.T, in contracts.BirthInput) float64 {
	t.Helper()
	inst, err := instant.New().Normalize(in)
	require.NoError(t, err)
	return ayanamsa.Lahiri.Degrees(inst)
}

func TestCompute_Complete(t *testing.T) {
	p := newFake()
	obs := &recordingObserver{}
	e := newEngine(p).WithObserver(obs)

	s, err := e.Compute(context.Background(), seoul)
	require.NoError(t, err)
	require.NotNil(t, s.Tropical)
	require.NotNil(t, s.Sidereal)
	assert.False(t, s.Partial())
	assert.NoError(t, s.Err())

	assert.Equal(t, "fake", s.Provider)
	assert.Equal(t, "placidus", s.HouseSystem)
	assert.Equal(t, "lahiri", s.Ayanamsa.Standard)
	assert.Equal(t, "test", s.ConfigHash)
	assert.Equal(t, "1990-07-15T03:00:00Z", s.Instant.String())

	assert.Equal(t, 9, obs.lookups)
	assert.Equal(t, []string{OutcomeComplete}, obs.outcomes)

	// Tropical: houses from the quadrant cusps, ascendant opens house 1
	assert.Equal(t, "placidus", s.Tropical.Houses.System)
	assert.Equal(t, 1, s.Tropical.Ascendant.House)
	assert.Equal(t, houses.HouseOf(100, s.Tropical.Houses), s.Tropical.Sun.House)
	assert.Nil(t, s.Tropical.Sun.Nakshatra)

	// Sidereal: whole-sign houses counted from the ascendant's sign
	aya := s.Ayanamsa.Degrees
	ascSign := zodiac.SignOf(s.Sidereal.Ascendant.Longitude)
	assert.Equal(t, 1, s.Sidereal.Ascendant.House)
	for _, b := range contracts.Planets() {
		pl, ok := s.Sidereal.Planet(b)
		require.True(t, ok)
		assert.InDelta(t, zodiac.Normalize(p.lons[b]-aya), pl.Longitude, 1e-9, b)
		assert.Equal(t, houses.WholeSignHouse(zodiac.SignOf(pl.Longitude), ascSign), pl.House, b)
		if b == contracts.BodyMoon {
			require.NotNil(t, pl.Nakshatra)
			assert.Equal(t, zodiac.NakshatraOf(pl.Longitude), *pl.Nakshatra)
		} else {
			assert.Nil(t, pl.Nakshatra, b)
		}
	}
	assert.Nil(t, s.Sidereal.Ascendant.Nakshatra)
	assert.Nil(t, s.Sidereal.Nodes[0].Rahu.Nakshatra)
	assert.Equal(t, houses.WholeSignSystem, s.Sidereal.Houses.System)
}

func TestCompute_SunAtAriesPoint(t *testing.T) {
	p := newFake()
	p.lons[contracts.BodySun] = 0

	s, err := newEngine(p).Compute(context.Background(), seoul)
	require.NoError(t, err)

	assert.Equal(t, contracts.SignDegree{Sign: "Aries", SignIndex: 0, Degree: 0, Minute: 0, Decan: 1},
		s.Tropical.Sun.SignDegree)
}

func TestCompute_MoonAtBharaniStart(t *testing.T) {
	p := newFake()
	p.lons[contracts.BodyMoon] = 13.0 + 20.0/60.0 + ayanamsaFor(t, seoul)

	s, err := newEngine(p).Compute(context.Background(), seoul)
	require.NoError(t, err)

	nak := s.Sidereal.Moon.Nakshatra
	require.NotNil(t, nak)
	assert.Equal(t, 1, nak.Index)
	assert.Equal(t, "Bharani", nak.Nakshatra)
	assert.Equal(t, 1, nak.Pada)
	assert.Equal(t, contracts.BodyVenus, nak.Lord)
}

func TestCompute_NodesOpposite(t *testing.T) {
	p := newFake()
	p.lons[contracts.BodyMeanNode] = 200
	p.lons[contracts.BodyTrueNode] = 198.25

	s, err := newEngine(p).Compute(context.Background(), seoul)
	require.NoError(t, err)

	aya := s.Ayanamsa.Degrees
	mean := s.Sidereal.Node(contracts.NodeMean)
	tru := s.Sidereal.Node(contracts.NodeTrue)

	assert.Equal(t, contracts.NodeMean, s.Sidereal.Nodes[0].Variant)
	assert.Equal(t, contracts.NodeTrue, s.Sidereal.Nodes[1].Variant)
	assert.InDelta(t, zodiac.Normalize(200-aya), mean.Rahu.Longitude, 1e-9)
	assert.InDelta(t, zodiac.Normalize(200-aya+180), mean.Ketu.Longitude, 1e-9)
	assert.InDelta(t, zodiac.Normalize(198.25-aya), tru.Rahu.Longitude, 1e-9)

	for _, n := range s.Sidereal.Nodes {
		assert.Equal(t, contracts.BodyRahu, n.Rahu.Body)
		assert.Equal(t, contracts.BodyKetu, n.Ketu.Body)
		assert.InDelta(t, 180, math.Abs(n.Ketu.Longitude-n.Rahu.Longitude), 1e-9)
		assert.Equal(t, (n.Rahu.SignDegree.SignIndex+6)%12, n.Ketu.SignDegree.SignIndex)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	e := newEngine(newFake())

	first, err := e.Compute(context.Background(), seoul)
	require.NoError(t, err)
	want, err := json.Marshal(first)
	require.NoError(t, err)

	var wg sync.WaitGroup
	got := make([][]byte, 16)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := e.Compute(context.Background(), seoul)
			if err == nil {
				got[i], _ = json.Marshal(s)
			}
		}()
	}
	wg.Wait()

	for _, g := range got {
		assert.JSONEq(t, string(want), string(g))
	}
}

func TestCompute_SiderealBranchFails(t *testing.T) {
	p := newFake()
	p.errs[contracts.BodyMars] = fmt.Errorf("%w: mars offline", contracts.ErrEphemerisUnavailable)
	obs := &recordingObserver{}

	s, err := newEngine(p).WithObserver(obs).Compute(context.Background(), seoul)
	require.NoError(t, err)

	assert.True(t, s.Partial())
	assert.NotNil(t, s.Tropical)
	assert.Nil(t, s.Sidereal)
	assert.True(t, s.Status.Tropical.OK)
	assert.False(t, s.Status.Sidereal.OK)
	assert.Equal(t, "ephemeris_unavailable", s.Status.Sidereal.Kind)

	assert.ErrorIs(t, s.Err(), contracts.ErrPartialResult)
	assert.ErrorIs(t, s.Err(), contracts.ErrEphemerisUnavailable)
	assert.Equal(t, []string{OutcomePartial}, obs.outcomes)
	assert.Equal(t, 1, obs.failed)
}

func TestCompute_TropicalBranchFailsAtHighLatitude(t *testing.T) {
	e := newEngine(newFake())

	partials := 0
	for h := 0; h < 24; h++ {
		in := contracts.BirthInput{
			Date:      "2000-01-01",
			Time:      fmt.Sprintf("%02d:00", h),
			Timezone:  "UTC",
			Latitude:  78.2232,
			Longitude: 15.6267,
		}
		s, err := e.Compute(context.Background(), in)
		require.NoError(t, err, in.Time)
		require.NotNil(t, s.Sidereal, in.Time)
		if !s.Partial() {
			continue
		}
		partials++
		assert.Nil(t, s.Tropical)
		assert.ErrorIs(t, s.Err(), contracts.ErrPartialResult)
		assert.ErrorIs(t, s.Err(), contracts.ErrDegenerateHouseGeometry)
	}
	assert.Greater(t, partials, 0)
}

func TestCompute_BothBranchesFail(t *testing.T) {
	p := newFake()
	p.errs[contracts.BodySun] = errors.New("connection refused")
	obs := &recordingObserver{}

	s, err := newEngine(p).WithObserver(obs).Compute(context.Background(), seoul)
	require.Error(t, err)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, contracts.ErrEphemerisUnavailable)
	assert.Contains(t, err.Error(), "tropical branch")
	assert.Contains(t, err.Error(), "sidereal branch")
	assert.Equal(t, []string{OutcomeFailed}, obs.outcomes)
}

func TestCompute_InvalidInstantSkipsLookups(t *testing.T) {
	p := newFake()
	e := newEngine(p)

	// 2021-03-14 02:30 does not exist in New York
	in := seoul
	in.Date, in.Time, in.Timezone = "2021-03-14", "02:30", "America/New_York"

	_, err := e.Compute(context.Background(), in)
	assert.ErrorIs(t, err, contracts.ErrInvalidInstant)
	assert.Equal(t, int64(0), p.calls.Load())
}

func TestCompute_InvalidInput(t *testing.T) {
	p := newFake()
	in := seoul
	in.Latitude = 91

	_, err := newEngine(p).Compute(context.Background(), in)
	assert.ErrorIs(t, err, contracts.ErrInvalidInput)
	assert.Equal(t, int64(0), p.calls.Load())
}

func TestCompute_NonFiniteLongitude(t *testing.T) {
	p := newFake()
	p.lons[contracts.BodyVenus] = math.NaN()

	s, err := newEngine(p).Compute(context.Background(), seoul)
	require.NoError(t, err)
	assert.Nil(t, s.Sidereal)
	assert.ErrorIs(t, s.Err(), contracts.ErrEphemerisUnavailable)
}

func TestCompute_LookupTimeout(t *testing.T) {
	p := newFake()
	p.block = true
	e := New(p, ayanamsa.NewResolver(ayanamsa.Lahiri, 0), Options{
		HouseSystem:   houses.Porphyry,
		LookupTimeout: 20 * time.Millisecond,
	}, nil)

	_, err := e.Compute(context.Background(), seoul)
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrEphemerisUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCompute_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newEngine(newFake()).Compute(ctx, seoul)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompute_CallerDeadlineNotUnavailable(t *testing.T) {
	p := newFake()
	p.block = true
	obs := &recordingObserver{}
	e := New(p, ayanamsa.NewResolver(ayanamsa.Lahiri, 0), Options{
		HouseSystem:   houses.Porphyry,
		LookupTimeout: time.Minute,
	}, nil).WithObserver(obs)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	s, err := e.Compute(ctx, seoul)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, contracts.ErrEphemerisUnavailable)
	assert.Equal(t, []string{OutcomeFailed}, obs.outcomes)
}

func TestCompare(t *testing.T) {
	e := newEngine(newFake())
	now := time.Date(2024, 3, 20, 9, 30, 15, 0, time.FixedZone("KST", 9*3600))

	c, err := e.Compare(context.Background(), seoul, now)
	require.NoError(t, err)

	assert.Equal(t, "1990-07-15T03:00:00Z", c.Natal.Instant.String())
	assert.Equal(t, "2024-03-20T00:30:15Z", c.Current.Instant.String())
	assert.Equal(t, "UTC", c.Current.Input.Timezone)
	assert.Equal(t, seoul.Latitude, c.Current.Input.Latitude)
	assert.Greater(t, c.Current.Ayanamsa.Degrees, c.Natal.Ayanamsa.Degrees)

	_, err = e.Compare(context.Background(), seoul, time.Time{})
	assert.ErrorIs(t, err, contracts.ErrInvalidInstant)
}

func TestHealthCheck_Analytic(t *testing.T) {
	e, err := FromConfig(engineconfig.Default(), ephemeris.NewAnalytic(), nil)
	require.NoError(t, err)

	report, err := e.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.True(t, report.OK)
	assert.Equal(t, "Cancer", report.SunSign)
	assert.Equal(t, "analytic", report.Provider)
	assert.InDelta(t, 23.72, report.Ayanamsa, 0.05)
}

func TestHealthCheck_WrongSign(t *testing.T) {
	p := newFake()
	p.lons[contracts.BodySun] = 130 // Leo

	report, err := newEngine(p).HealthCheck(context.Background())
	require.Error(t, err)
	assert.False(t, report.OK)
	assert.Equal(t, "Leo", report.SunSign)
	assert.Contains(t, err.Error(), "expected Cancer")
}

func TestFromConfig_Invalid(t *testing.T) {
	cfg := engineconfig.Default()
	cfg.HouseSystem = "koch"

	_, err := FromConfig(cfg, newFake(), nil)
	assert.ErrorIs(t, err, contracts.ErrInvalidConfig)
}
