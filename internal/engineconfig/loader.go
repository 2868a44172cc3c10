package engineconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wonny/natal/pkg/config"
)

// Load reads the YAML file and returns the validated Config with raw bytes
// SSOT 핵심: KnownFields(true)로 오타/미사용 필드 즉시 실패
func Load(path string) (*Config, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read engine config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, data, err
	}
	return cfg, data, nil
}

// Parse decodes YAML on top of Default(); fields the file omits keep
// their defaults
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // 알 수 없는 필드 발견 시 에러 반환
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, ValidationError{"yaml", err.Error()}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	// 해시 재현성을 위해 열거형 이름을 정규형으로
	cfg.Ayanamsa = string(cfg.Standard())
	cfg.HouseSystem = string(cfg.System())
	return cfg, nil
}

// LoadOrDefault loads path when it exists, otherwise returns Default()
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	cfg, _, err := Load(path)
	return cfg, err
}

// ApplyEnv overlays process-level overrides and revalidates
func (c *Config) ApplyEnv(env *config.Config) error {
	if env.Ephemeris.URL != "" {
		c.Ephemeris.URL = env.Ephemeris.URL
	}
	return Validate(c)
}

// Hash generates SHA256 hash from Config (canonical JSON)
// 주의: map 대신 struct 사용으로 해시 재현성 보장
func Hash(cfg *Config) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
