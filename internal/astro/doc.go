// Package astro holds the shared astronomical time and angle helpers used by
// the built-in ephemeris and the house calculator: Julian dates, ΔT,
// obliquity of the ecliptic, nutation and sidereal time.
//
// Formulas follow Meeus, "Astronomical Algorithms" (2nd ed.). Angles are in
// degrees unless a name says otherwise.
package astro
