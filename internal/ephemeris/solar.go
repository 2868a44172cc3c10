package ephemeris

import "github.com/wonny/natal/internal/astro"

// sunApparentLongitude returns the Sun's apparent longitude referred to the
// true equinox of date (Meeus ch. 25, low precision, ~0.01°).
// T is Julian centuries of TT since J2000.0.
func sunApparentLongitude(T float64) float64 {
	L0 := astro.Normalize360(280.46646 + 36000.76983*T + 0.0003032*T*T)
	M := astro.Normalize360(357.52911 + 35999.05029*T - 0.0001537*T*T)

	C := (1.914602-0.004817*T-0.000014*T*T)*astro.SinD(M) +
		(0.019993-0.000101*T)*astro.SinD(2*M) +
		0.000289*astro.SinD(3*M)

	omega := 125.04 - 1934.136*T
	return astro.Normalize360(L0 + C - 0.00569 - 0.00478*astro.SinD(omega))
}
