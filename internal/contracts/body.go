package contracts

import (
	"fmt"
	"strings"
)

// Body identifies a point whose longitude is placed in a chart
type Body string

const (
	BodySun      Body = "sun"
	BodyMoon     Body = "moon"
	BodyMercury  Body = "mercury"
	BodyVenus    Body = "venus"
	BodyMars     Body = "mars"
	BodyJupiter  Body = "jupiter"
	BodySaturn   Body = "saturn"
	BodyMeanNode Body = "mean_node"
	BodyTrueNode Body = "true_node"

	// Derived points, never requested from a provider
	BodyAscendant Body = "ascendant"
	BodyRahu      Body = "rahu"
	BodyKetu      Body = "ketu"
)

// EphemerisBodies returns the bodies looked up from the provider, in pipeline order
func EphemerisBodies() []Body {
	return []Body{
		BodySun,
		BodyMoon,
		BodyMercury,
		BodyVenus,
		BodyMars,
		BodyJupiter,
		BodySaturn,
		BodyMeanNode,
		BodyTrueNode,
	}
}

// Planets returns the seven classical bodies placed in the sidereal chart
func Planets() []Body {
	return []Body{
		BodySun,
		BodyMoon,
		BodyMercury,
		BodyVenus,
		BodyMars,
		BodyJupiter,
		BodySaturn,
	}
}

// IsEphemerisBody reports whether a provider is expected to answer for b
func (b Body) IsEphemerisBody() bool {
	for _, e := range EphemerisBodies() {
		if e == b {
			return true
		}
	}
	return false
}

// String returns the body identifier
func (b Body) String() string {
	return string(b)
}

// ParseBody parses a body identifier (case-insensitive)
func ParseBody(s string) (Body, error) {
	b := Body(strings.ToLower(strings.TrimSpace(s)))
	if b.IsEphemerisBody() {
		return b, nil
	}
	return "", fmt.Errorf("unknown body %q", s)
}

// NodeVariant tags which lunar node convention a value belongs to
type NodeVariant string

const (
	NodeMean NodeVariant = "mean"
	NodeTrue NodeVariant = "true"
)
