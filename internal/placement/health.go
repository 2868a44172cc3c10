package placement

import (
	"context"
	"fmt"
	"math"
	"time"
)

// HealthReport is the outcome of a reference-chart check
type HealthReport struct {
	Provider        string        `json:"provider"`
	Instant         string        `json:"instant"`
	SunSign         string        `json:"sun_sign"`
	ExpectedSunSign string        `json:"expected_sun_sign"`
	Ayanamsa        float64       `json:"ayanamsa"`
	AyanamsaEpoch   float64       `json:"ayanamsa_epoch"`
	Duration        time.Duration `json:"duration_ns"`
	OK              bool          `json:"ok"`
}

// HealthCheck computes the reference chart and checks that the tropical
// Sun lands in the expected sign and that the ayanamsa stays within the
// configured band around its standard's J2000 value
func (e *Engine) HealthCheck(ctx context.Context) (*HealthReport, error) {
	start := time.Now()
	report := &HealthReport{
		Provider:        e.provider.Name(),
		ExpectedSunSign: e.opts.ExpectedSunSign.String(),
		AyanamsaEpoch:   e.ayanamsa.Standard().EpochValue(),
	}

	summary, err := e.Compute(ctx, e.opts.Reference)
	report.Duration = time.Since(start)
	if err != nil {
		return report, fmt.Errorf("reference chart: %w", err)
	}
	report.Instant = summary.Instant.String()
	report.Ayanamsa = summary.Ayanamsa.Degrees

	if summary.Tropical == nil {
		return report, fmt.Errorf("reference chart: %w", summary.Status.Tropical.Err())
	}
	report.SunSign = summary.Tropical.Sun.SignDegree.Sign

	if summary.Tropical.Sun.SignDegree.SignIndex != int(e.opts.ExpectedSunSign) {
		return report, fmt.Errorf("reference chart: sun in %s, expected %s",
			report.SunSign, report.ExpectedSunSign)
	}

	if band := e.opts.AyanamsaBand; band > 0 && math.Abs(report.Ayanamsa-report.AyanamsaEpoch) > band {
		return report, fmt.Errorf("reference chart: ayanamsa %.6f outside %.6f±%.2f",
			report.Ayanamsa, report.AyanamsaEpoch, band)
	}

	report.OK = true
	return report, nil
}
