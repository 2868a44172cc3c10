package ephemeris

import (
	"math"

	"github.com/wonny/natal/internal/astro"
	"github.com/wonny/natal/internal/contracts"
)

// orbitalElements are J2000 mean ecliptic elements with their rates per
// Julian century (JPL "Keplerian Elements for Approximate Positions of the
// Major Planets", table valid 1800–2050)
type orbitalElements struct {
	a, aDot       float64 // semi-major axis, au
	e, eDot       float64 // eccentricity
	i, iDot       float64 // inclination, deg
	L, LDot       float64 // mean longitude, deg
	peri, periDot float64 // longitude of perihelion, deg
	node, nodeDot float64 // longitude of ascending node, deg
}

var earthMoonBarycenter = orbitalElements{
	1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668,
	100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0, 0,
}

var planetElements = map[contracts.Body]orbitalElements{
	contracts.BodyMercury: {
		0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749,
		252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081,
	},
	contracts.BodyVenus: {
		0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890,
		181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418,
	},
	contracts.BodyMars: {
		1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131,
		-4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343,
	},
	contracts.BodyJupiter: {
		5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714,
		34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106,
	},
	contracts.BodySaturn: {
		9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609,
		49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794,
	},
}

// heliocentric returns J2000 ecliptic rectangular coordinates in au
func (el orbitalElements) heliocentric(T float64) (x, y, z float64) {
	a := el.a + el.aDot*T
	e := el.e + el.eDot*T
	inc := el.i + el.iDot*T
	L := el.L + el.LDot*T
	peri := el.peri + el.periDot*T
	node := el.node + el.nodeDot*T

	omega := peri - node
	M := astro.Normalize360(L - peri)
	E := solveKepler(astro.Deg2Rad(M), e)

	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)

	cw, sw := astro.CosD(omega), astro.SinD(omega)
	cn, sn := astro.CosD(node), astro.SinD(node)
	ci, si := astro.CosD(inc), astro.SinD(inc)

	x = (cw*cn-sw*sn*ci)*xp + (-sw*cn-cw*sn*ci)*yp
	y = (cw*sn+sw*cn*ci)*xp + (-sw*sn+cw*cn*ci)*yp
	z = (sw*si)*xp + (cw*si)*yp
	return x, y, z
}

// solveKepler solves E − e·sin E = M by Newton iteration (radians)
func solveKepler(M, e float64) float64 {
	E := M + e*math.Sin(M)
	for i := 0; i < 30; i++ {
		dE := (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
		E -= dE
		if math.Abs(dE) < 1e-12 {
			break
		}
	}
	return E
}

// planetGeocentricLongitude returns the geocentric ecliptic longitude of
// body referred to the mean equinox of date
func planetGeocentricLongitude(body contracts.Body, T float64) (float64, bool) {
	el, ok := planetElements[body]
	if !ok {
		return 0, false
	}

	px, py, _ := el.heliocentric(T)
	ex, ey, _ := earthMoonBarycenter.heliocentric(T)

	lonJ2000 := astro.Rad2Deg(math.Atan2(py-ey, px-ex))

	// J2000 → equinox of date (general precession in longitude)
	precession := 1.396971*T + 0.0003086*T*T
	return astro.Normalize360(lonJ2000 + precession), true
}
