package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/natal/internal/ephemeris"
	"github.com/wonny/natal/pkg/logger"
)

// Seeder writes daily samples for a date range
type Seeder interface {
	Seed(ctx context.Context, from, to time.Time) (*ephemeris.SeedResult, error)
}

// TableExtendJob keeps the ephemeris table seeded a fixed horizon ahead of
// today so that "current" comparisons never fall off the end of the table
type TableExtendJob struct {
	seeder   Seeder
	horizon  int // days
	schedule string
	logger   *logger.Logger
	now      func() time.Time
}

// NewTableExtendJob creates a table extension job
func NewTableExtendJob(seeder Seeder, horizonDays int, schedule string, log *logger.Logger) *TableExtendJob {
	return &TableExtendJob{
		seeder:   seeder,
		horizon:  horizonDays,
		schedule: schedule,
		logger:   log,
		now:      time.Now,
	}
}

// Name returns the job name
func (j *TableExtendJob) Name() string {
	return "ephemeris_table_extend"
}

// Schedule returns the cron schedule (engine config scheduler.table_extend_cron)
func (j *TableExtendJob) Schedule() string {
	return j.schedule
}

// Run seeds [yesterday, today + horizon]; rows already present are upserted
func (j *TableExtendJob) Run(ctx context.Context) error {
	today := j.now().UTC()
	from := today.AddDate(0, 0, -1)
	to := today.AddDate(0, 0, j.horizon)

	result, err := j.seeder.Seed(ctx, from, to)
	if err != nil {
		return fmt.Errorf("extend ephemeris table: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"days":    result.Days,
		"samples": result.Samples,
	}).Info("Ephemeris table extended")

	return nil
}
