package ephemeris

import (
	"math"

	"github.com/wonny/natal/internal/astro"
)

// lunarArgs are the fundamental arguments of the lunar theory, in degrees
type lunarArgs struct {
	Lp float64 // mean longitude
	D  float64 // mean elongation
	M  float64 // solar mean anomaly
	Mp float64 // lunar mean anomaly
	F  float64 // argument of latitude
	E  float64 // eccentricity factor
}

func newLunarArgs(T float64) lunarArgs {
	T2, T3, T4 := T*T, T*T*T, T*T*T*T
	return lunarArgs{
		Lp: astro.Normalize360(218.3164477 + 481267.88123421*T - 0.0015786*T2 + T3/538841 - T4/65194000),
		D:  astro.Normalize360(297.8501921 + 445267.1114034*T - 0.0018819*T2 + T3/545868 - T4/113065000),
		M:  astro.Normalize360(357.5291092 + 35999.0502909*T - 0.0001536*T2 + T3/24490000),
		Mp: astro.Normalize360(134.9633964 + 477198.8675055*T + 0.0087414*T2 + T3/69699 - T4/14712000),
		F:  astro.Normalize360(93.2720950 + 483202.0175233*T - 0.0036539*T2 - T3/3526000 + T4/863310000),
		E:  1 - 0.002516*T - 0.0000074*T2,
	}
}

// lunarTerm is one periodic term of the longitude series (coefficient in 1e-6°)
type lunarTerm struct {
	d, m, mp, f int
	coeff       float64
}

// Largest terms of Meeus table 47.A; truncation error stays under ~0.01°
var lunarLongitudeTerms = []lunarTerm{
	{0, 0, 1, 0, 6288774},
	{2, 0, -1, 0, 1274027},
	{2, 0, 0, 0, 658314},
	{0, 0, 2, 0, 213618},
	{0, 1, 0, 0, -185116},
	{0, 0, 0, 2, -114332},
	{2, 0, -2, 0, 58793},
	{2, -1, -1, 0, 57066},
	{2, 0, 1, 0, 53322},
	{2, -1, 0, 0, 45758},
	{0, 1, -1, 0, -40923},
	{1, 0, 0, 0, -34720},
	{0, 1, 1, 0, -30383},
	{2, 0, 0, -2, 15327},
	{0, 0, 1, 2, -12528},
	{0, 0, 1, -2, 10980},
	{4, 0, -1, 0, 10675},
	{0, 0, 3, 0, 10034},
	{4, 0, -2, 0, 8548},
	{2, 1, -1, 0, -7888},
	{2, 1, 0, 0, -6766},
	{1, 0, -1, 0, -5163},
	{1, 1, 0, 0, 4987},
	{2, -1, 1, 0, 4036},
	{2, 0, 2, 0, 3994},
	{4, 0, 0, 0, 3861},
	{2, 0, -3, 0, 3665},
	{0, 1, -2, 0, -2689},
	{2, 0, -1, 2, -2602},
	{2, -1, -2, 0, 2390},
	{1, 0, 1, 0, -2348},
	{2, -2, 0, 0, 2236},
	{0, 1, 2, 0, -2120},
	{0, 2, 0, 0, -2069},
}

// moonGeometricLongitude returns the Moon's longitude referred to the mean
// equinox of date, without nutation
func moonGeometricLongitude(T float64) float64 {
	a := newLunarArgs(T)

	sum := 0.0
	for _, term := range lunarLongitudeTerms {
		arg := float64(term.d)*a.D + float64(term.m)*a.M + float64(term.mp)*a.Mp + float64(term.f)*a.F
		c := term.coeff
		switch math.Abs(float64(term.m)) {
		case 1:
			c *= a.E
		case 2:
			c *= a.E * a.E
		}
		sum += c * astro.SinD(arg)
	}

	// Venus, Jupiter and flattening terms
	A1 := astro.Normalize360(119.75 + 131.849*T)
	A2 := astro.Normalize360(53.09 + 479264.290*T)
	sum += 3958*astro.SinD(A1) + 1962*astro.SinD(a.Lp-a.F) + 318*astro.SinD(A2)

	return astro.Normalize360(a.Lp + sum/1e6)
}

// meanNodeLongitude returns the mean ascending lunar node (Meeus 47.7)
func meanNodeLongitude(T float64) float64 {
	T2, T3, T4 := T*T, T*T*T, T*T*T*T
	return astro.Normalize360(125.0445479 - 1934.1362891*T + 0.0020754*T2 + T3/467441 - T4/60616000)
}

// trueNodeLongitude adds the principal periodic terms to the mean node
func trueNodeLongitude(T float64) float64 {
	a := newLunarArgs(T)
	corr := -1.4979*astro.SinD(2*(a.D-a.F)) -
		0.1500*astro.SinD(a.M) -
		0.1226*astro.SinD(2*a.D) +
		0.1176*astro.SinD(2*a.F) +
		0.0801*astro.SinD(2*(a.Mp-a.F))
	return astro.Normalize360(meanNodeLongitude(T) + corr)
}
