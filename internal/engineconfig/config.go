package engineconfig

import (
	"time"

	"github.com/wonny/natal/internal/ayanamsa"
	"github.com/wonny/natal/internal/contracts"
	"github.com/wonny/natal/internal/houses"
	"github.com/wonny/natal/internal/zodiac"
)

// Ephemeris sources
const (
	SourceAnalytic = "analytic"
	SourceTable    = "table"
	SourceRemote   = "remote"
)

// Config는 배치 계산 엔진의 관례(convention) 설정
// ⭐ SSOT: 아야남사 표준, 하우스 시스템, 천문력 소스는 여기서만 결정
type Config struct {
	Ayanamsa      string    `yaml:"ayanamsa" json:"ayanamsa"`
	HouseSystem   string    `yaml:"house_system" json:"house_system"`
	PolarLimitDeg float64   `yaml:"polar_limit_deg" json:"polar_limit_deg"`
	Ephemeris     Ephemeris `yaml:"ephemeris" json:"ephemeris"`
	SelfTest      SelfTest  `yaml:"self_test" json:"self_test"`
	Scheduler     Scheduler `yaml:"scheduler" json:"scheduler"`
}

// Ephemeris selects and tunes the position source
type Ephemeris struct {
	Source     string  `yaml:"source" json:"source"` // analytic, table, remote
	URL        string  `yaml:"url" json:"url"`
	Timeout    string  `yaml:"timeout" json:"timeout"` // Go duration, per lookup
	RatePerSec float64 `yaml:"rate_per_sec" json:"rate_per_sec"`
	Burst      int     `yaml:"burst" json:"burst"`
}

// SelfTest is the reference chart used by health checks
type SelfTest struct {
	Date            string  `yaml:"date" json:"date"`
	Time            string  `yaml:"time" json:"time"`
	Timezone        string  `yaml:"timezone" json:"timezone"`
	Latitude        float64 `yaml:"latitude" json:"latitude"`
	Longitude       float64 `yaml:"longitude" json:"longitude"`
	ExpectedSunSign string  `yaml:"expected_sun_sign" json:"expected_sun_sign"`
	AyanamsaBandDeg float64 `yaml:"ayanamsa_band_deg" json:"ayanamsa_band_deg"`
}

// Scheduler holds cron specs for background jobs
type Scheduler struct {
	SelfTestCron     string `yaml:"self_test_cron" json:"self_test_cron"`
	TableExtendCron  string `yaml:"table_extend_cron" json:"table_extend_cron"`   // table source only
	TableHorizonDays int    `yaml:"table_horizon_days" json:"table_horizon_days"` // days seeded ahead of today
}

// Default returns the built-in conventions used when no file is configured
func Default() *Config {
	return &Config{
		Ayanamsa:      string(ayanamsa.Lahiri),
		HouseSystem:   string(houses.Placidus),
		PolarLimitDeg: houses.DefaultPolarLimit,
		Ephemeris: Ephemeris{
			Source:     SourceAnalytic,
			Timeout:    "2s",
			RatePerSec: 20,
			Burst:      5,
		},
		SelfTest: SelfTest{
			Date:            "1990-07-15",
			Time:            "12:00",
			Timezone:        "America/New_York",
			Latitude:        40.7128,
			Longitude:       -74.0060,
			ExpectedSunSign: zodiac.Cancer.String(),
			AyanamsaBandDeg: 1.0,
		},
		Scheduler: Scheduler{
			SelfTestCron:     "0 */15 * * * *",
			TableExtendCron:  "0 30 3 * * *",
			TableHorizonDays: 30,
		},
	}
}

// Standard returns the parsed ayanamsa standard (valid after Validate)
func (c *Config) Standard() ayanamsa.Standard {
	s, _ := ayanamsa.Parse(c.Ayanamsa)
	return s
}

// System returns the parsed house system (valid after Validate)
func (c *Config) System() houses.System {
	s, _ := houses.Parse(c.HouseSystem)
	return s
}

// LookupTimeout returns the per-lookup provider timeout (valid after Validate)
func (c *Config) LookupTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Ephemeris.Timeout)
	return d
}

// ReferenceInput returns the self-test birth input
func (c *Config) ReferenceInput() contracts.BirthInput {
	return contracts.BirthInput{
		Date:      c.SelfTest.Date,
		Time:      c.SelfTest.Time,
		Timezone:  c.SelfTest.Timezone,
		Latitude:  c.SelfTest.Latitude,
		Longitude: c.SelfTest.Longitude,
	}
}
