package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wonny/natal/internal/contracts"
	"github.com/wonny/natal/internal/engineconfig"
	"github.com/wonny/natal/internal/ephemeris"
	"github.com/wonny/natal/internal/metrics"
	"github.com/wonny/natal/internal/placement"
	"github.com/wonny/natal/pkg/config"
	"github.com/wonny/natal/pkg/logger"
	"github.com/wonny/natal/pkg/redis"
)

// app holds the process-wide collaborators shared by commands
type app struct {
	env       *config.Config
	engineCfg *engineconfig.Config
	log       *logger.Logger
	redis     *redis.Client
	provider  contracts.EphemerisProvider
	engine    *placement.Engine
	metrics   *metrics.Metrics // nil unless requested and METRICS_ENABLED
}

type bootOptions struct {
	logOut  io.Writer
	metrics bool
}

// bootstrap loads configuration and opens the configured provider.
// Unknown engine conventions or a missing source setting fail here.
func bootstrap(ctx context.Context, opts bootOptions) (*app, error) {
	// 1. Load config
	env, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if engineConfigPath != "" {
		env.EngineConfigPath = engineConfigPath
	}
	if verbose {
		env.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.NewWithWriter(env, opts.logOut)

	// 3. Engine conventions
	ecfg, err := engineconfig.LoadOrDefault(env.EngineConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load engine config: %w", err)
	}
	if err := ecfg.ApplyEnv(env); err != nil {
		return nil, fmt.Errorf("apply env to engine config: %w", err)
	}

	// 4. Redis (optional)
	rc, err := redis.New(ctx, env)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// 5. Ephemeris source
	provider, err := ephemeris.Open(ctx, ecfg, ephemeris.Deps{Env: env, Logger: log, Redis: rc})
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("open ephemeris: %w", err)
	}

	// 6. Engine
	engine, err := placement.FromConfig(ecfg, provider, log)
	if err != nil {
		provider.Close()
		rc.Close()
		return nil, fmt.Errorf("build engine: %w", err)
	}

	a := &app{
		env:       env,
		engineCfg: ecfg,
		log:       log,
		redis:     rc,
		provider:  provider,
		engine:    engine,
	}

	if opts.metrics && env.MetricsEnabled {
		a.metrics = metrics.New(prometheus.DefaultRegisterer)
		engine.WithObserver(a.metrics)
	}

	log.WithFields(map[string]interface{}{
		"ayanamsa":     ecfg.Ayanamsa,
		"house_system": ecfg.HouseSystem,
		"source":       ecfg.Ephemeris.Source,
		"redis":        rc.Enabled(),
	}).Debug("Engine initialized")

	return a, nil
}

// Close releases the provider and the Redis connection
func (a *app) Close() {
	if err := a.provider.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close ephemeris provider")
	}
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close redis")
	}
}
