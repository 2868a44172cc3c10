package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/natal/internal/placement"
	"github.com/wonny/natal/pkg/logger"
)

// HealthChecker computes the engine's reference chart
type HealthChecker interface {
	HealthCheck(ctx context.Context) (*placement.HealthReport, error)
}

// SelfTestObserver records self-test outcomes
type SelfTestObserver interface {
	ObserveSelfTest(err error)
}

// SelfTestJob recomputes the reference chart on a schedule
// ⭐ SSOT: 엔진 자가진단 스케줄은 이 Job에서만
type SelfTestJob struct {
	engine   HealthChecker
	observer SelfTestObserver
	schedule string
	logger   *logger.Logger
}

// NewSelfTestJob creates a self-test job; observer may be nil
func NewSelfTestJob(engine HealthChecker, observer SelfTestObserver, schedule string, log *logger.Logger) *SelfTestJob {
	return &SelfTestJob{
		engine:   engine,
		observer: observer,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *SelfTestJob) Name() string {
	return "engine_self_test"
}

// Schedule returns the cron schedule (engine config scheduler.self_test_cron)
func (j *SelfTestJob) Schedule() string {
	return j.schedule
}

// Run computes the reference chart and checks it
func (j *SelfTestJob) Run(ctx context.Context) error {
	report, err := j.engine.HealthCheck(ctx)
	if j.observer != nil {
		j.observer.ObserveSelfTest(err)
	}
	if err != nil {
		return fmt.Errorf("self test: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"provider": report.Provider,
		"sun_sign": report.SunSign,
		"ayanamsa": report.Ayanamsa,
		"duration": report.Duration,
	}).Debug("Self test passed")

	return nil
}
