package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/natal/internal/contracts"
	"github.com/wonny/natal/internal/ephemeris"
	"github.com/wonny/natal/pkg/config"
	"github.com/wonny/natal/pkg/database"
	"github.com/wonny/natal/pkg/logger"
)

// ephemerisCmd represents the ephemeris command
var ephemerisCmd = &cobra.Command{
	Use:   "ephemeris",
	Short: "천문력 소스 관리",
	Long: `천문력 테이블을 시드하거나 설정된 소스에 직접 질의합니다.

Subcommands:
  seed    - 해석적 천문력으로 일별 경도 테이블 생성 (PostgreSQL)
  lookup  - 설정된 소스로 단일 천체 경도 조회

Example:
  go run ./cmd/natal ephemeris seed --from 1900-01-01 --to 2100-12-31
  go run ./cmd/natal ephemeris lookup --body moon --at 1990-07-15T16:00:00Z`,
}

var (
	ephemerisSeedCmd = &cobra.Command{
		Use:   "seed",
		Short: "일별 경도 테이블 시드",
		RunE:  runEphemerisSeed,
	}

	ephemerisLookupCmd = &cobra.Command{
		Use:   "lookup",
		Short: "단일 천체 경도 조회",
		RunE:  runEphemerisLookup,
	}
)

var (
	seedFrom   string
	seedTo     string
	lookupBody string
	lookupAt   string
)

func init() {
	rootCmd.AddCommand(ephemerisCmd)
	ephemerisCmd.AddCommand(ephemerisSeedCmd)
	ephemerisCmd.AddCommand(ephemerisLookupCmd)

	ephemerisSeedCmd.Flags().StringVar(&seedFrom, "from", "1900-01-01", "시작일 YYYY-MM-DD (UTC)")
	ephemerisSeedCmd.Flags().StringVar(&seedTo, "to", "2100-12-31", "종료일 YYYY-MM-DD (UTC)")

	ephemerisLookupCmd.Flags().StringVar(&lookupBody, "body", "sun", "천체 (sun, moon, ..., mean_node, true_node)")
	ephemerisLookupCmd.Flags().StringVar(&lookupAt, "at", "", "시점 RFC3339 (default now)")
}

func runEphemerisSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	from, err := time.Parse(time.DateOnly, seedFrom)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := time.Parse(time.DateOnly, seedTo)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}

	// 1. Load config
	env, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if verbose {
		env.LogLevel = "debug"
	}
	log := logger.NewWithWriter(env, os.Stderr)

	// 2. Connect to database
	db, err := database.New(ctx, env)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	store := ephemeris.NewPostgresStore(db.Pool)
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	// 3. Seed from the analytic source
	start := time.Now()
	result, err := ephemeris.NewSeeder(ephemeris.NewAnalytic(), store, log).Seed(ctx, from, to)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	PrintHeader(out, "Ephemeris Table Seed")
	fmt.Fprintf(out, "  Period    : %s ~ %s\n", result.From.Format(time.DateOnly), result.To.Format(time.DateOnly))
	fmt.Fprintf(out, "  Days      : %d\n", result.Days)
	fmt.Fprintf(out, "  Samples   : %d\n", result.Samples)
	fmt.Fprintln(out, ruleHeavy)
	fmt.Fprintf(out, "✅ Seed completed in %.2fs\n", time.Since(start).Seconds())
	return nil
}

func runEphemerisLookup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	body, err := contracts.ParseBody(lookupBody)
	if err != nil {
		return err
	}
	at := time.Now()
	if lookupAt != "" {
		if at, err = time.Parse(time.RFC3339Nano, lookupAt); err != nil {
			return fmt.Errorf("--at: %w", err)
		}
	}

	a, err := bootstrap(ctx, bootOptions{logOut: os.Stderr})
	if err != nil {
		return err
	}
	defer a.Close()

	lon, err := a.provider.LongitudeOf(ctx, contracts.NewInstant(at), body)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %.6f (%s)\n", body, contracts.NewInstant(at), lon, a.provider.Name())
	return nil
}
