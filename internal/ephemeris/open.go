package ephemeris

import (
	"context"
	"fmt"

	"github.com/wonny/natal/internal/contracts"
	"github.com/wonny/natal/internal/engineconfig"
	"github.com/wonny/natal/pkg/config"
	"github.com/wonny/natal/pkg/database"
	"github.com/wonny/natal/pkg/httputil"
	"github.com/wonny/natal/pkg/logger"
	"github.com/wonny/natal/pkg/redis"
)

// Deps carries the process-level collaborators a source may need
type Deps struct {
	Env    *config.Config
	Logger *logger.Logger
	Redis  *redis.Client // optional; enables the shared rate limiter for remote
}

// Open resolves the single configured source.
// ⭐ SSOT: 천문력 소스 선택은 시작 시 여기서 한 번만
//
// A source whose required setting is absent fails here, at startup, rather
// than on the first lookup.
func Open(ctx context.Context, cfg *engineconfig.Config, deps Deps) (contracts.EphemerisProvider, error) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("ephemeris")

	switch cfg.Ephemeris.Source {
	case engineconfig.SourceAnalytic:
		log.Info("Using analytic ephemeris")
		return NewAnalytic(), nil

	case engineconfig.SourceTable:
		if deps.Env == nil || deps.Env.Database.URL == "" {
			return nil, fmt.Errorf("%w: ephemeris.source=table requires DATABASE_URL", contracts.ErrInvalidConfig)
		}
		db, err := database.New(ctx, deps.Env)
		if err != nil {
			return nil, fmt.Errorf("%w: open ephemeris table: %w", contracts.ErrEphemerisUnavailable, err)
		}
		store := NewPostgresStore(db.Pool)
		n, err := store.Count(ctx, contracts.BodySun)
		if err != nil || n == 0 {
			db.Close()
			return nil, fmt.Errorf("%w: ephemeris table is empty or unreadable (run `natal ephemeris seed`): %v",
				contracts.ErrEphemerisUnavailable, err)
		}
		log.WithField("samples", n).Info("Using ephemeris table")
		return NewTable(store, DefaultMaxGap, db.Close), nil

	case engineconfig.SourceRemote:
		if cfg.Ephemeris.URL == "" {
			return nil, fmt.Errorf("%w: ephemeris.source=remote requires ephemeris.url or EPHEMERIS_URL", contracts.ErrInvalidConfig)
		}
		client := httputil.NewWithTimeout(log, cfg.LookupTimeout()).
			DisableRetry().
			WithLocalLimit(cfg.Ephemeris.RatePerSec, cfg.Ephemeris.Burst)
		if deps.Redis.Enabled() {
			client = client.WithRateLimiter(redis.NewRateLimiter(deps.Redis, "natal"), redis.EphemerisRateLimit)
		}
		remote, err := NewRemote(cfg.Ephemeris.URL, client)
		if err != nil {
			return nil, err
		}
		log.WithField("url", cfg.Ephemeris.URL).Info("Using remote ephemeris")
		return remote, nil

	default:
		return nil, fmt.Errorf("%w: unknown ephemeris source %q", contracts.ErrInvalidConfig, cfg.Ephemeris.Source)
	}
}
