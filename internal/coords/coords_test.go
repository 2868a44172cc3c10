package coords

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/natal/internal/contracts"
)

func TestToSidereal(t *testing.T) {
	tests := []struct {
		name     string
		tropical float64
		ayanamsa float64
		want     float64
	}{
		{"simple", 100, 24, 76},
		{"wraps below zero", 10, 24, 346},
		{"exactly ayanamsa", 24, 24, 0},
		{"zero ayanamsa", 359.5, 0, 359.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToSidereal(tt.tropical, tt.ayanamsa)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.True(t, got >= 0 && got < 360)
		})
	}
}

func TestResolve(t *testing.T) {
	in := []contracts.BodyLongitude{
		{Body: contracts.BodySun, Longitude: 0},
		{Body: contracts.BodyMoon, Longitude: 370},
	}

	got := Resolve(in, 23.5)
	require.Len(t, got, 2)

	assert.Equal(t, contracts.BodySun, got[0].Body)
	assert.InDelta(t, 0, got[0].Tropical, 1e-12)
	assert.InDelta(t, 336.5, got[0].Sidereal, 1e-9)

	assert.InDelta(t, 10, got[1].Tropical, 1e-9)
	assert.InDelta(t, 346.5, got[1].Sidereal, 1e-9)
}

func TestNodes_KetuOpposition(t *testing.T) {
	nodes := Nodes(200, 201.5)

	assert.Equal(t, contracts.NodeMean, nodes[0].Variant)
	assert.Equal(t, contracts.NodeTrue, nodes[1].Variant)

	assert.Equal(t, 200.0, nodes[0].Rahu)
	assert.Equal(t, 20.0, nodes[0].Ketu)
	assert.Equal(t, 201.5, nodes[1].Rahu)
	assert.Equal(t, 21.5, nodes[1].Ketu)
}

func TestNodes_OppositionEverywhere(t *testing.T) {
	for rahu := 0.0; rahu < 360; rahu += 7.3 {
		for _, n := range Nodes(rahu, rahu+0.7) {
			diff := n.Ketu - n.Rahu
			if diff < 0 {
				diff += 360
			}
			assert.InDelta(t, 180, diff, 1e-9, "variant %s rahu %v", n.Variant, n.Rahu)
		}
	}
}

func TestSiderealNodes(t *testing.T) {
	tropical := Nodes(224, 225)
	sid := SiderealNodes(tropical, 24)

	assert.InDelta(t, 200, sid[0].Rahu, 1e-9)
	assert.InDelta(t, 20, sid[0].Ketu, 1e-9)
	assert.InDelta(t, 201, sid[1].Rahu, 1e-9)
	assert.InDelta(t, 21, sid[1].Ketu, 1e-9)
	assert.Equal(t, contracts.NodeTrue, sid[1].Variant)
}
