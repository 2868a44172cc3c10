package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/wonny/natal/internal/api"
	"github.com/wonny/natal/internal/engineconfig"
	"github.com/wonny/natal/internal/ephemeris"
	"github.com/wonny/natal/internal/scheduler"
	"github.com/wonny/natal/internal/scheduler/jobs"
	"github.com/wonny/natal/pkg/database"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행

Example:
  go run ./cmd/natal scheduler start
  go run ./cmd/natal scheduler list
  go run ./cmd/natal scheduler run engine_self_test`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업:
- engine_self_test: scheduler.self_test_cron (기준 차트 자가진단)
- ephemeris_table_extend: scheduler.table_extend_cron (ephemeris.source=table 일 때만)

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

// buildScheduler registers every job the engine config enables.
// The returned cleanup closes resources the jobs hold.
func buildScheduler(ctx context.Context, a *app) (*scheduler.Scheduler, func(), error) {
	sched := scheduler.New(a.log, scheduler.WithJobTimeout(a.engineCfg.LookupTimeout()*20))
	cleanup := func() {}

	if spec := a.engineCfg.Scheduler.SelfTestCron; spec != "" {
		var obs jobs.SelfTestObserver
		if a.metrics != nil {
			obs = a.metrics
		}
		if err := sched.AddJob(jobs.NewSelfTestJob(a.engine, obs, spec, a.log)); err != nil {
			return nil, cleanup, err
		}
	}

	if spec := a.engineCfg.Scheduler.TableExtendCron; spec != "" && a.engineCfg.Ephemeris.Source == engineconfig.SourceTable {
		db, err := database.New(ctx, a.env)
		if err != nil {
			return nil, cleanup, fmt.Errorf("connect to database: %w", err)
		}
		cleanup = db.Close

		seeder := ephemeris.NewSeeder(ephemeris.NewAnalytic(), ephemeris.NewPostgresStore(db.Pool), a.log)
		job := jobs.NewTableExtendJob(seeder, a.engineCfg.Scheduler.TableHorizonDays, spec, a.log)
		if err := sched.AddJob(job); err != nil {
			return nil, cleanup, err
		}
	}

	return sched, cleanup, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := bootstrap(ctx, bootOptions{logOut: os.Stdout, metrics: true})
	if err != nil {
		return err
	}
	defer a.Close()

	sched, cleanup, err := buildScheduler(ctx, a)
	defer cleanup()
	if err != nil {
		return err
	}

	var metricsServer *api.Server
	if a.metrics != nil {
		metricsServer = api.NewMetricsServer(a.env, a.log, promhttp.Handler())
		go func() {
			if err := metricsServer.Start(); err != nil {
				a.log.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	sched.Start()
	a.log.WithField("jobs", sched.GetAllJobs()).Info("Scheduler started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := bootstrap(ctx, bootOptions{logOut: os.Stderr})
	if err != nil {
		return err
	}
	defer a.Close()

	sched, cleanup, err := buildScheduler(ctx, a)
	defer cleanup()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	PrintHeader(out, "Scheduled Jobs")
	stats := sched.GetJobStats()
	for _, name := range sched.GetAllJobs() {
		fmt.Fprintf(out, "  %-24s %s\n", name, stats[name].Schedule)
	}
	fmt.Fprintln(out, ruleHeavy)
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := bootstrap(ctx, bootOptions{logOut: os.Stderr})
	if err != nil {
		return err
	}
	defer a.Close()

	sched, cleanup, err := buildScheduler(ctx, a)
	defer cleanup()
	if err != nil {
		return err
	}

	result, err := sched.RunJob(ctx, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !result.Success {
		fmt.Fprintf(out, "❌ %s failed after %d attempt(s): %s\n", result.JobName, result.Attempts, result.Error)
		return fmt.Errorf("job %s failed", result.JobName)
	}
	fmt.Fprintf(out, "✅ %s completed in %.2fs\n", result.JobName, result.Duration.Seconds())
	return nil
}
