// Package coords turns tropical longitudes into sidereal ones and derives
// the lunar node pairs.
package coords

import (
	"github.com/wonny/natal/internal/contracts"
	"github.com/wonny/natal/internal/zodiac"
)

// Resolved holds one body in both coordinate systems
type Resolved struct {
	Body     contracts.Body
	Tropical float64
	Sidereal float64
}

// ToSidereal converts a tropical longitude: normalize(tropical − ayanamsa)
func ToSidereal(tropical, ayanamsa float64) float64 {
	return zodiac.Normalize(tropical - ayanamsa)
}

// Resolve converts each tropical longitude with the same ayanamsa
func Resolve(tropical []contracts.BodyLongitude, ayanamsa float64) []Resolved {
	out := make([]Resolved, 0, len(tropical))
	for _, bl := range tropical {
		trop := zodiac.Normalize(bl.Longitude)
		out = append(out, Resolved{
			Body:     bl.Body,
			Tropical: trop,
			Sidereal: ToSidereal(trop, ayanamsa),
		})
	}
	return out
}

// Node is one variant's Rahu/Ketu longitudes
type Node struct {
	Variant contracts.NodeVariant
	Rahu    float64
	Ketu    float64
}

// NodeFromRahu builds a node pair; Ketu is exactly 180° from Rahu
func NodeFromRahu(v contracts.NodeVariant, rahu float64) Node {
	rahu = zodiac.Normalize(rahu)
	return Node{
		Variant: v,
		Rahu:    rahu,
		Ketu:    zodiac.Normalize(rahu + 180),
	}
}

// Nodes builds both tagged variants from the provider's ascending nodes.
// Neither variant is preferred; consumers pick by tag.
func Nodes(meanRahu, trueRahu float64) [2]Node {
	return [2]Node{
		NodeFromRahu(contracts.NodeMean, meanRahu),
		NodeFromRahu(contracts.NodeTrue, trueRahu),
	}
}

// SiderealNodes shifts tropical node pairs by the ayanamsa
func SiderealNodes(tropical [2]Node, ayanamsa float64) [2]Node {
	var out [2]Node
	for i, n := range tropical {
		out[i] = NodeFromRahu(n.Variant, ToSidereal(n.Rahu, ayanamsa))
	}
	return out
}
