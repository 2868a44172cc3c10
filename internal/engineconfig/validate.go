package engineconfig

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wonny/natal/internal/ayanamsa"
	"github.com/wonny/natal/internal/contracts"
	"github.com/wonny/natal/internal/houses"
	"github.com/wonny/natal/internal/zodiac"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets callers match every validation failure with ErrInvalidConfig
func (e ValidationError) Unwrap() error {
	return contracts.ErrInvalidConfig
}

var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Validate checks all required constraints.
// Unknown enum names fail here, never at computation time.
func Validate(cfg *Config) error {
	if _, err := ayanamsa.Parse(cfg.Ayanamsa); err != nil {
		return ValidationError{"ayanamsa", fmt.Sprintf("unknown standard %q", cfg.Ayanamsa)}
	}
	if _, err := houses.Parse(cfg.HouseSystem); err != nil {
		return ValidationError{"house_system", fmt.Sprintf("unknown house system %q", cfg.HouseSystem)}
	}
	if cfg.PolarLimitDeg <= 0 || cfg.PolarLimitDeg > 90 {
		return ValidationError{"polar_limit_deg", "must be in (0, 90]"}
	}

	// === Ephemeris ===
	e := cfg.Ephemeris
	switch e.Source {
	case SourceAnalytic, SourceTable, SourceRemote:
	default:
		return ValidationError{"ephemeris.source", fmt.Sprintf("must be one of %s, %s, %s", SourceAnalytic, SourceTable, SourceRemote)}
	}
	d, err := time.ParseDuration(e.Timeout)
	if err != nil || d <= 0 {
		return ValidationError{"ephemeris.timeout", "must be a positive duration"}
	}
	if e.RatePerSec < 0 {
		return ValidationError{"ephemeris.rate_per_sec", "must be >= 0"}
	}
	if e.Burst < 0 {
		return ValidationError{"ephemeris.burst", "must be >= 0"}
	}

	// === Self test ===
	ref := cfg.ReferenceInput()
	if err := ref.Validate(); err != nil {
		return ValidationError{"self_test", err.Error()}
	}
	if _, err := zodiac.ParseSign(cfg.SelfTest.ExpectedSunSign); err != nil {
		return ValidationError{"self_test.expected_sun_sign", fmt.Sprintf("unknown sign %q", cfg.SelfTest.ExpectedSunSign)}
	}
	if cfg.SelfTest.AyanamsaBandDeg <= 0 {
		return ValidationError{"self_test.ayanamsa_band_deg", "must be > 0"}
	}

	// === Scheduler ===
	for field, spec := range map[string]string{
		"scheduler.self_test_cron":    cfg.Scheduler.SelfTestCron,
		"scheduler.table_extend_cron": cfg.Scheduler.TableExtendCron,
	} {
		if spec == "" {
			continue
		}
		if _, err := cronParser.Parse(spec); err != nil {
			return ValidationError{field, err.Error()}
		}
	}
	if cfg.Scheduler.TableHorizonDays < 0 {
		return ValidationError{"scheduler.table_horizon_days", "must be >= 0"}
	}

	return nil
}
