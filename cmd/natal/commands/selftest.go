package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// selftestCmd represents the selftest command
var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "기준 차트 자가진단",
	Long: `engine config의 self_test 기준 차트를 계산해
태양 별자리와 아야남사 범위를 확인합니다.

Example:
  go run ./cmd/natal selftest
  go run ./cmd/natal selftest --engine-config config/engine.yaml`,
	RunE: runSelfTest,
}

func init() {
	rootCmd.AddCommand(selftestCmd)
}

func runSelfTest(cmd *cobra.Command, args []string) error {
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
	report, err := a.engine.HealthCheck(ctx)

	PrintHeader(out, "Engine Self Test")
	fmt.Fprintf(out, "  Provider  : %s\n", report.Provider)
	fmt.Fprintf(out, "  Instant   : %s\n", report.Instant)
	fmt.Fprintf(out, "  Sun sign  : %s (expected %s)\n", report.SunSign, report.ExpectedSunSign)
	fmt.Fprintf(out, "  Ayanamsa  : %.6f° (J2000 %.6f°)\n", report.Ayanamsa, report.AyanamsaEpoch)
	fmt.Fprintf(out, "  Duration  : %s\n", report.Duration)
	fmt.Fprintln(out, ruleHeavy)

	if err != nil {
		fmt.Fprintf(out, "❌ FAIL: %v\n", err)
		return err
	}
	fmt.Fprintln(out, "✅ PASS")
	return nil
}
