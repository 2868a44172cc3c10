package commands

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/natal/internal/contracts"
	"github.com/wonny/natal/internal/engineconfig"
	"github.com/wonny/natal/internal/ephemeris"
	"github.com/wonny/natal/pkg/config"
	"github.com/wonny/natal/pkg/database"
	"github.com/wonny/natal/pkg/redis"
)

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "설정 및 연결 진단",
	Long: `설정과 외부 의존성 연결을 점검합니다.

이 명령어는:
- 환경 설정 및 engine config 로드/검증
- PostgreSQL 연결, Health Check, 풀 통계, 천문력 테이블 행 수 (DATABASE_URL 설정 시)
- Redis Ping (REDIS_ENABLED=true 시)

Example:
  go run ./cmd/natal doctor`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out := cmd.OutOrStdout()
	PrintHeader(out, "natal doctor")

	// Configuration
	env, err := config.Load()
	if err != nil {
		return fmt.Errorf("❌ Failed to load config: %w", err)
	}
	if engineConfigPath != "" {
		env.EngineConfigPath = engineConfigPath
	}
	fmt.Fprintf(out, "✅ Config loaded (ENV: %s)\n", env.Env)

	ecfg, err := engineconfig.LoadOrDefault(env.EngineConfigPath)
	if err != nil {
		return fmt.Errorf("❌ Invalid engine config %s: %w", env.EngineConfigPath, err)
	}
	if err := ecfg.ApplyEnv(env); err != nil {
		return fmt.Errorf("❌ Invalid engine config after env overrides: %w", err)
	}
	hash, _ := engineconfig.Hash(ecfg)
	fmt.Fprintf(out, "✅ Engine config: ayanamsa=%s houses=%s source=%s hash=%.12s\n",
		ecfg.Ayanamsa, ecfg.HouseSystem, ecfg.Ephemeris.Source, hash)

	// Database
	if env.Database.URL == "" {
		fmt.Fprintln(out, "➖ Database: DATABASE_URL not set (required only for ephemeris.source=table)")
	} else if err := checkDatabase(ctx, out, env); err != nil {
		return err
	}

	// Redis
	if !env.Redis.Enabled {
		fmt.Fprintln(out, "➖ Redis: disabled")
	} else {
		rc, err := redis.New(ctx, env)
		if err != nil {
			return fmt.Errorf("❌ Redis: %w", err)
		}
		defer rc.Close()
		fmt.Fprintf(out, "✅ Redis: %s:%s reachable\n", env.Redis.Host, env.Redis.Port)
	}

	fmt.Fprintln(out, ruleHeavy)
	fmt.Fprintln(out, "✅ All checks passed!")
	return nil
}

func checkDatabase(ctx context.Context, out io.Writer, env *config.Config) error {
	fmt.Fprintf(out, "   Database URL: %s\n", redactURL(env.Database.URL))

	db, err := database.New(ctx, env)
	if err != nil {
		return fmt.Errorf("❌ Failed to connect to database: %w", err)
	}
	defer db.Close()

	status, err := db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("❌ Health check failed: %w", err)
	}
	fmt.Fprintf(out, "✅ Database healthy (response %v)\n", status.ResponseTime)
	fmt.Fprintf(out, "   Pool: max=%d total=%d idle=%d acquired=%d\n",
		status.Stats.MaxConns, status.Stats.TotalConns, status.Stats.IdleConns, status.Stats.AcquiredConns)

	n, err := ephemeris.NewPostgresStore(db.Pool).Count(ctx, contracts.BodySun)
	if err != nil {
		fmt.Fprintf(out, "⚠️  Ephemeris table unreadable: %v (run `natal ephemeris seed`)\n", err)
		return nil
	}
	fmt.Fprintf(out, "   Ephemeris table: %d sun samples\n", n)
	return nil
}

// redactURL hides the password in a connection string
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable>"
	}
	return u.Redacted()
}
