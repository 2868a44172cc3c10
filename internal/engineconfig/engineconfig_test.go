package engineconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/natal/internal/ayanamsa"
	"github.com/wonny/natal/internal/contracts"
	"github.com/wonny/natal/internal/houses"
	"github.com/wonny/natal/pkg/config"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))
	assert.Equal(t, ayanamsa.Lahiri, cfg.Standard())
	assert.Equal(t, houses.Placidus, cfg.System())
	assert.Equal(t, 2*time.Second, cfg.LookupTimeout())
	assert.Equal(t, "America/New_York", cfg.ReferenceInput().Timezone)
}

func TestLoad_RepoFile(t *testing.T) {
	path := "../../config/engine.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("config file not found")
	}

	cfg, data, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, SourceAnalytic, cfg.Ephemeris.Source)
	assert.Equal(t, "Cancer", cfg.SelfTest.ExpectedSunSign)
}

func TestParse_OverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte("ayanamsa: Raman\nhouse_system: \" Porphyry\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "raman", cfg.Ayanamsa)
	assert.Equal(t, "porphyry", cfg.HouseSystem)
	assert.Equal(t, SourceAnalytic, cfg.Ephemeris.Source)

	empty, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default().Ayanamsa, empty.Ayanamsa)
}

func TestParse_Failures(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"unknown field", "ayanamsha: lahiri\n", "yaml"},
		{"unknown ayanamsa", "ayanamsa: yukteshwar\n", "ayanamsa"},
		{"unknown house system", "house_system: koch\n", "house_system"},
		{"polar limit", "polar_limit_deg: 95\n", "polar_limit_deg"},
		{"bad source", "ephemeris:\n  source: swiss\n", "ephemeris.source"},
		{"bad timeout", "ephemeris:\n  timeout: soon\n", "ephemeris.timeout"},
		{"negative rate", "ephemeris:\n  rate_per_sec: -1\n", "ephemeris.rate_per_sec"},
		{"bad sign", "self_test:\n  expected_sun_sign: Ophiuchus\n", "self_test.expected_sun_sign"},
		{"missing zone", "self_test:\n  timezone: \"\"\n", "self_test"},
		{"bad cron", "scheduler:\n  self_test_cron: every minute\n", "scheduler.self_test_cron"},
		{"bad extend cron", "scheduler:\n  table_extend_cron: \"0 0 3 * *\"\n", "scheduler.table_extend_cron"},
		{"negative horizon", "scheduler:\n  table_horizon_days: -1\n", "scheduler.table_horizon_days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, contracts.ErrInvalidConfig))

			var ve ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	cfg, err := Parse([]byte("ephemeris:\n  source: remote\n  url: http://from-file\n"))
	require.NoError(t, err)

	require.NoError(t, cfg.ApplyEnv(&config.Config{}))
	assert.Equal(t, "http://from-file", cfg.Ephemeris.URL)

	require.NoError(t, cfg.ApplyEnv(&config.Config{Ephemeris: config.EphemerisConfig{URL: "http://from-env"}}))
	assert.Equal(t, "http://from-env", cfg.Ephemeris.URL)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("house_system: regiomontanus\n"), 0o600))
	cfg, err = LoadOrDefault(path)
	require.NoError(t, err)
	assert.Equal(t, houses.Regiomontanus, cfg.System())
}

func TestHash(t *testing.T) {
	a, err := Hash(Default())
	require.NoError(t, err)
	assert.Len(t, a, 64)

	b, _ := Hash(Default())
	assert.Equal(t, a, b, "hash not deterministic")

	other := Default()
	other.Ayanamsa = "raman"
	c, _ := Hash(other)
	assert.NotEqual(t, a, c)
}
