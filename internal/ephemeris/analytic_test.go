package ephemeris

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/natal/internal/astro"
	"github.com/wonny/natal/internal/contracts"
)

func centuries(jde float64) float64 {
	return astro.CenturiesSinceJ2000(jde)
}

func arcDiff(a, b float64) float64 {
	d := math.Mod(a-b+540, 360) - 180
	return math.Abs(d)
}

func TestSunApparentLongitude_Meeus25a(t *testing.T) {
	// 1992 October 13.0 TD
	got := sunApparentLongitude(centuries(2448908.5))
	assert.InDelta(t, 199.90895, got, 0.01)
}

func TestMoonLongitude_Meeus47a(t *testing.T) {
	// 1992 April 12.0 TD
	got := moonGeometricLongitude(centuries(2448724.5))
	assert.InDelta(t, 133.162655, got, 0.02)
}

func TestMeanNode_AtEpoch(t *testing.T) {
	assert.InDelta(t, 125.0445479, meanNodeLongitude(0), 1e-9)
	// retrograde: roughly −19.35° per year
	assert.InDelta(t, 360-19.34, astro.Normalize360(meanNodeLongitude(0.01)-meanNodeLongitude(0)), 0.05)
}

func TestTrueNode_OscillatesAroundMean(t *testing.T) {
	for i := 0; i < 200; i++ {
		T := -0.5 + float64(i)*0.005
		assert.Less(t, arcDiff(trueNodeLongitude(T), meanNodeLongitude(T)), 2.0, "T=%v", T)
	}
}

func TestPlanets_AtJ2000(t *testing.T) {
	// geocentric longitudes, 2000-01-01 12:00 TT
	want := map[contracts.Body]float64{
		contracts.BodyMercury: 271.9,
		contracts.BodyVenus:   241.6,
		contracts.BodyMars:    327.96,
		contracts.BodyJupiter: 25.25,
		contracts.BodySaturn:  40.40,
	}
	for body, lon := range want {
		got, ok := planetGeocentricLongitude(body, 0)
		require.True(t, ok, body)
		assert.Less(t, arcDiff(got, lon), 1.0, "%s: got %.3f want %.3f", body, got, lon)
	}

	_, ok := planetGeocentricLongitude(contracts.BodyMoon, 0)
	assert.False(t, ok)
}

func TestSolveKepler(t *testing.T) {
	for _, e := range []float64{0, 0.0167, 0.2056, 0.6} {
		for M := -3.0; M <= 3.0; M += 0.25 {
			E := solveKepler(M, e)
			assert.InDelta(t, M, E-e*math.Sin(E), 1e-10, "e=%v M=%v", e, M)
		}
	}
}

func TestAnalytic_LongitudeOf(t *testing.T) {
	a := NewAnalytic()
	assert.Equal(t, AnalyticName, a.Name())
	ctx := context.Background()

	// 1990-07-15 12:00 America/New_York
	instant := contracts.NewInstant(time.Date(1990, 7, 15, 16, 0, 0, 0, time.UTC))

	sun, err := a.LongitudeOf(ctx, instant, contracts.BodySun)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sun, 90.0, "Sun in Cancer")
	assert.Less(t, sun, 120.0, "Sun in Cancer")

	for _, body := range contracts.EphemerisBodies() {
		lon, err := a.LongitudeOf(ctx, instant, body)
		require.NoError(t, err, body)
		assert.GreaterOrEqual(t, lon, 0.0)
		assert.Less(t, lon, 360.0)

		again, err := a.LongitudeOf(ctx, instant, body)
		require.NoError(t, err)
		assert.Equal(t, math.Float64bits(lon), math.Float64bits(again), "deterministic %s", body)
	}
}

func TestAnalytic_MoonDailyMotion(t *testing.T) {
	a := NewAnalytic()
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for d := 0; d < 30; d++ {
		t0 := contracts.NewInstant(start.AddDate(0, 0, d))
		t1 := contracts.NewInstant(start.AddDate(0, 0, d+1))
		m0, err := a.LongitudeOf(ctx, t0, contracts.BodyMoon)
		require.NoError(t, err)
		m1, err := a.LongitudeOf(ctx, t1, contracts.BodyMoon)
		require.NoError(t, err)

		motion := astro.Normalize360(m1 - m0)
		assert.Greater(t, motion, 11.5)
		assert.Less(t, motion, 15.5)
	}
}

func TestAnalytic_Failures(t *testing.T) {
	a := NewAnalytic()
	instant := contracts.NewInstant(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := a.LongitudeOf(context.Background(), instant, contracts.BodyAscendant)
	assert.True(t, errors.Is(err, contracts.ErrEphemerisUnavailable))

	_, err = a.LongitudeOf(context.Background(), contracts.Instant{}, contracts.BodySun)
	assert.True(t, errors.Is(err, contracts.ErrEphemerisUnavailable))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.LongitudeOf(ctx, instant, contracts.BodySun)
	assert.True(t, errors.Is(err, contracts.ErrEphemerisUnavailable))
	assert.True(t, errors.Is(err, context.Canceled))

	assert.NoError(t, a.Close())
}
