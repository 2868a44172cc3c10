package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/natal/internal/ephemeris"
	"github.com/wonny/natal/internal/placement"
	"github.com/wonny/natal/pkg/logger"
)

type fakeChecker struct {
	err error
}

func (f fakeChecker) HealthCheck(context.Context) (*placement.HealthReport, error) {
	return &placement.HealthReport{Provider: "fake", SunSign: "Cancer", OK: f.err == nil}, f.err
}

type recordingObserver struct {
	results []error
}

func (r *recordingObserver) ObserveSelfTest(err error) {
	r.results = append(r.results, err)
}

func TestSelfTestJob(t *testing.T) {
	obs := &recordingObserver{}
	job := NewSelfTestJob(fakeChecker{}, obs, "0 */15 * * * *", logger.Nop())

	assert.Equal(t, "engine_self_test", job.Name())
	assert.Equal(t, "0 */15 * * * *", job.Schedule())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, []error{nil}, obs.results)

	failing := NewSelfTestJob(fakeChecker{err: errors.New("sun in Leo")}, obs, "@hourly", logger.Nop())
	err := failing.Run(context.Background())
	assert.ErrorContains(t, err, "sun in Leo")
	assert.Len(t, obs.results, 2)
}

type fakeSeeder struct {
	from, to time.Time
	err      error
}

func (f *fakeSeeder) Seed(_ context.Context, from, to time.Time) (*ephemeris.SeedResult, error) {
	f.from, f.to = from, to
	if f.err != nil {
		return nil, f.err
	}
	return &ephemeris.SeedResult{From: from, To: to, Days: 3, Samples: 27}, nil
}

func TestTableExtendJob(t *testing.T) {
	seeder := &fakeSeeder{}
	job := NewTableExtendJob(seeder, 30, "0 30 3 * * *", logger.Nop())
	job.now = func() time.Time { return time.Date(2024, 2, 10, 15, 0, 0, 0, time.UTC) }

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, "2024-02-09", seeder.from.Format(time.DateOnly))
	assert.Equal(t, "2024-03-11", seeder.to.Format(time.DateOnly))

	seeder.err = errors.New("db down")
	assert.ErrorContains(t, job.Run(context.Background()), "db down")
}
