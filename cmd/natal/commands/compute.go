package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/natal/internal/contracts"
)

// computeCmd represents the compute command
var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "배치 요약 계산",
	Long: `출생 정보로 배치 요약을 계산해 stdout에 출력합니다.
로그는 stderr로 출력됩니다.

Example:
  go run ./cmd/natal compute --date 1990-07-15 --time 12:00 --tz America/New_York --lat 40.7128 --lon -74.006
  go run ./cmd/natal compute ... --current 2024-01-01T00:00:00Z
  go run ./cmd/natal compute ... --json`,
	RunE: runCompute,
}

var (
	birthInput  contracts.BirthInput
	currentTime string
	jsonOutput  bool
)

func init() {
	rootCmd.AddCommand(computeCmd)

	// Flags
	computeCmd.Flags().StringVar(&birthInput.Date, "date", "", "출생일 YYYY-MM-DD")
	computeCmd.Flags().StringVar(&birthInput.Time, "time", "", "출생 시각 HH:MM[:SS]")
	computeCmd.Flags().StringVar(&birthInput.Timezone, "tz", "", "IANA 시간대 (e.g. Asia/Seoul)")
	computeCmd.Flags().Float64Var(&birthInput.Latitude, "lat", 0, "위도 (북 +)")
	computeCmd.Flags().Float64Var(&birthInput.Longitude, "lon", 0, "경도 (동 +)")
	computeCmd.Flags().StringVar(&currentTime, "current", "", "비교 시점 RFC3339 ('now' 허용)")
	computeCmd.Flags().BoolVar(&jsonOutput, "json", false, "JSON 출력")

	_ = computeCmd.MarkFlagRequired("date")
	_ = computeCmd.MarkFlagRequired("time")
	_ = computeCmd.MarkFlagRequired("tz")
}

func runCompute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := bootstrap(ctx, bootOptions{logOut: os.Stderr})
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()

	if currentTime != "" {
		current, err := parseCurrent(currentTime)
		if err != nil {
			return err
		}
		cmp, err := a.engine.Compare(ctx, birthInput, current)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(out, cmp)
		}
		PrintSummary(out, "Natal", cmp.Natal)
		PrintSummary(out, "Current", cmp.Current)
		return nil
	}

	summary, err := a.engine.Compute(ctx, birthInput)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, summary)
	}
	PrintSummary(out, "Natal", summary)
	return nil
}

func parseCurrent(s string) (time.Time, error) {
	if s == "now" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: --current %q: expected RFC3339", contracts.ErrInvalidInstant, s)
	}
	return t, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
