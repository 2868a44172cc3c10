// Package placement aggregates the pipeline stages into a PlacementSummary.
//
// 파이프라인:
//
//	BirthInput → Instant → (Ephemeris × 9 ∥ Houses) → Coordinates → Mapping → Summary
//
// The tropical branch (Sun, Moon, quadrant houses) and the sidereal branch
// (all bodies, nodes, ayanamsa, whole-sign houses) succeed or fail
// independently.
package placement

import (
	"fmt"
	"time"

	"github.com/wonny/natal/internal/ayanamsa"
	"github.com/wonny/natal/internal/contracts"
	"github.com/wonny/natal/internal/engineconfig"
	"github.com/wonny/natal/internal/houses"
	"github.com/wonny/natal/internal/instant"
	"github.com/wonny/natal/internal/zodiac"
	"github.com/wonny/natal/pkg/logger"
)

// Observer receives timing and outcome events from the engine
type Observer interface {
	ObserveLookup(provider string, body contracts.Body, d time.Duration, err error)
	ObserveCompute(outcome, kind string, d time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveLookup(string, contracts.Body, time.Duration, error) {}
func (nopObserver) ObserveCompute(string, string, time.Duration)              {}

// Compute outcomes used for logs and metrics
const (
	OutcomeComplete = "complete"
	OutcomePartial  = "partial"
	OutcomeFailed   = "failed"
)

// Options are the engine conventions resolved from engine config
type Options struct {
	HouseSystem   houses.System
	PolarLimit    float64
	LookupTimeout time.Duration // 0 = bounded only by the caller's context
	ConfigHash    string

	// Reference chart for HealthCheck
	Reference       contracts.BirthInput
	ExpectedSunSign zodiac.Sign
	AyanamsaBand    float64
}

// Engine computes placement summaries
// ⭐ SSOT: 배치 계산의 유일한 진입점
//
// An Engine holds no per-request state; one instance serves concurrent
// callers.
type Engine struct {
	provider   contracts.EphemerisProvider
	ayanamsa   *ayanamsa.Resolver
	houses     *houses.Calculator
	normalizer *instant.Normalizer
	opts       Options
	log        *logger.Logger
	observer   Observer
}

// New creates an engine around a provider and an ayanamsa resolver
func New(provider contracts.EphemerisProvider, resolver *ayanamsa.Resolver, opts Options, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		provider:   provider,
		ayanamsa:   resolver,
		houses:     houses.NewCalculator(opts.PolarLimit),
		normalizer: instant.New(),
		opts:       opts,
		log:        log.WithComponent("placement"),
		observer:   nopObserver{},
	}
}

// FromConfig builds an engine from validated engine conventions
func FromConfig(cfg *engineconfig.Config, provider contracts.EphemerisProvider, log *logger.Logger) (*Engine, error) {
	if err := engineconfig.Validate(cfg); err != nil {
		return nil, err
	}

	hash, err := engineconfig.Hash(cfg)
	if err != nil {
		return nil, fmt.Errorf("hash engine config: %w", err)
	}

	sunSign, err := zodiac.ParseSign(cfg.SelfTest.ExpectedSunSign)
	if err != nil {
		return nil, fmt.Errorf("%w: self_test.expected_sun_sign: %v", contracts.ErrInvalidConfig, err)
	}

	opts := Options{
		HouseSystem:     cfg.System(),
		PolarLimit:      cfg.PolarLimitDeg,
		LookupTimeout:   cfg.LookupTimeout(),
		ConfigHash:      hash,
		Reference:       cfg.ReferenceInput(),
		ExpectedSunSign: sunSign,
		AyanamsaBand:    cfg.SelfTest.AyanamsaBandDeg,
	}

	resolver := ayanamsa.NewResolver(cfg.Standard(), ayanamsa.DefaultCacheSize)
	return New(provider, resolver, opts, log), nil
}

// WithObserver attaches a metrics observer; nil restores the no-op observer
func (e *Engine) WithObserver(o Observer) *Engine {
	if o == nil {
		o = nopObserver{}
	}
	e.observer = o
	return e
}

// Provider returns the ephemeris provider name
func (e *Engine) Provider() string {
	return e.provider.Name()
}

// Options returns the engine conventions
func (e *Engine) Options() Options {
	return e.opts
}
