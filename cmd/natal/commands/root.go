package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	engineConfigPath string
	verbose          bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "natal",
	Short: "natal - 출생 차트 배치 계산 엔진",
	Long: `natal Unified CLI

출생 일시와 장소로부터 트로피컬/사이드리얼 배치 요약을 계산합니다.
Instant → Ephemeris → Ayanamsa → Houses → Mapping → Summary

Usage:
  go run ./cmd/natal [command]

Examples:
  go run ./cmd/natal api
  go run ./cmd/natal compute --date 1990-07-15 --time 12:00 --tz America/New_York --lat 40.7128 --lon -74.006
  go run ./cmd/natal selftest
  go run ./cmd/natal ephemeris seed --from 1900-01-01 --to 2100-12-31
  go run ./cmd/natal scheduler start
  go run ./cmd/natal doctor`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&engineConfigPath, "engine-config", "", "engine config YAML (default $ENGINE_CONFIG_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
