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
	"github.com/wonny/natal/internal/api/handlers"
	"github.com/wonny/natal/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                   - Liveness
  GET  /health/engine            - 기준 차트 자가진단
  POST /api/placements           - 배치 요약 계산
  POST /api/placements/compare   - 출생 + 현재 시점 비교
  GET  /metrics                  - Prometheus (METRICS_PORT)

Example:
  go run ./cmd/natal api
  go run ./cmd/natal api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default $PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := bootstrap(ctx, bootOptions{logOut: os.Stdout, metrics: true})
	if err != nil {
		return err
	}
	defer a.Close()

	// Override port if flag is set
	if apiPort != "" {
		a.env.Port = apiPort
	}

	// Handlers
	cache := redis.NewCache(a.redis, "natal")
	placements := handlers.NewPlacementHandler(a.engine, cache, a.env.Redis.CacheTTL, a.log)
	var selfTestObs handlers.SelfTestObserver
	deps := api.RouterDeps{
		Placements: placements,
		Logger:     a.log,
	}
	if a.metrics != nil {
		placements.WithCacheObserver(a.metrics)
		selfTestObs = a.metrics
		deps.Metrics = a.metrics
	}
	deps.Health = handlers.NewHealthHandler(a.engine, selfTestObs, a.log)
	if a.redis.Enabled() {
		deps.Limiter = redis.NewRateLimiter(a.redis, "natal")
	}

	// Servers
	server := api.New(a.env, a.log, api.NewRouter(deps))
	servers := []*api.Server{server}
	if a.metrics != nil {
		servers = append(servers, api.NewMetricsServer(a.env, a.log, promhttp.Handler()))
	}

	errCh := make(chan error, len(servers))
	for _, s := range servers {
		go func() {
			errCh <- s.Start()
		}()
	}

	a.log.WithFields(map[string]interface{}{
		"port":     a.env.Port,
		"provider": a.engine.Provider(),
		"metrics":  a.metrics != nil,
	}).Info("API server started")

	// Wait for interrupt signal or a server failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
	case runErr = <-errCh:
	}

	a.log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, s := range servers {
		if err := s.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
	}

	a.log.Info("Server stopped")
	return runErr
}
