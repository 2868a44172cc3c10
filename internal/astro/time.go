package astro

import (
	"math"
	"time"
)

// J2000 is the Julian Date of the J2000.0 epoch (January 1, 2000, 12:00:00 TT)
const J2000 = 2451545.0

const unixEpochJD = 2440587.5

// JulianDay converts a time.Time to a Julian Date on the UT scale
func JulianDay(t time.Time) float64 {
	t = t.UTC()
	sec := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	return unixEpochJD + sec/86400.0
}

// DeltaT returns TT − UT in seconds for a decimal year.
// Polynomials from Espenak & Meeus (NASA eclipse site), 1800–2150.
func DeltaT(year float64) float64 {
	switch {
	case year < 1800:
		u := (year - 1820) / 100
		return -20 + 32*u*u
	case year < 1860:
		t := year - 1800
		return 13.72 - 0.332447*t + 0.0068612*t*t + 0.0041116*t*t*t -
			0.00037436*t*t*t*t + 0.0000121272*t*t*t*t*t -
			0.0000001699*t*t*t*t*t*t + 0.000000000875*t*t*t*t*t*t*t
	case year < 1900:
		t := year - 1860
		return 7.62 + 0.5737*t - 0.251754*t*t + 0.01680668*t*t*t -
			0.0004473624*t*t*t*t + t*t*t*t*t/233174
	case year < 1920:
		t := year - 1900
		return -2.79 + 1.494119*t - 0.0598939*t*t + 0.0061966*t*t*t - 0.000197*t*t*t*t
	case year < 1941:
		t := year - 1920
		return 21.20 + 0.84493*t - 0.076100*t*t + 0.0020936*t*t*t
	case year < 1961:
		t := year - 1950
		return 29.07 + 0.407*t - t*t/233 + t*t*t/2547
	case year < 1986:
		t := year - 1975
		return 45.45 + 1.067*t - t*t/260 - t*t*t/718
	case year < 2005:
		t := year - 2000
		return 63.86 + 0.3345*t - 0.060374*t*t + 0.0017275*t*t*t +
			0.000651814*t*t*t*t + 0.00002373599*t*t*t*t*t
	case year < 2050:
		t := year - 2000
		return 62.92 + 0.32217*t + 0.005589*t*t
	case year < 2150:
		u := (year - 1820) / 100
		return -20 + 32*u*u - 0.5628*(2150-year)
	default:
		u := (year - 1820) / 100
		return -20 + 32*u*u
	}
}

// DecimalYear returns the year with the elapsed fraction of the year
func DecimalYear(t time.Time) float64 {
	t = t.UTC()
	start := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	return float64(t.Year()) + float64(t.Sub(start))/float64(end.Sub(start))
}

// JulianDayTT converts a UT time to a Julian Ephemeris Day (TT)
func JulianDayTT(t time.Time) float64 {
	return JulianDay(t) + DeltaT(DecimalYear(t))/86400.0
}

// CenturiesSinceJ2000 returns Julian centuries between jd and J2000.0
func CenturiesSinceJ2000(jd float64) float64 {
	return (jd - J2000) / 36525.0
}

// MeanObliquity returns the mean obliquity of the ecliptic (IAU 1980), T in TT centuries
func MeanObliquity(T float64) float64 {
	sec := 21.448 - 46.8150*T - 0.00059*T*T + 0.001813*T*T*T
	return 23.0 + 26.0/60.0 + sec/3600.0
}

// Nutation returns nutation in longitude Δψ and obliquity Δε in degrees.
// Low-precision four-term series (Meeus ch. 22), accurate to ~0.5″.
func Nutation(T float64) (dpsi, deps float64) {
	omega := Normalize360(125.04452 - 1934.136261*T)
	lSun := Normalize360(280.4665 + 36000.7698*T)
	lMoon := Normalize360(218.3165 + 481267.8813*T)

	dpsi = -17.20*SinD(omega) - 1.32*SinD(2*lSun) - 0.23*SinD(2*lMoon) + 0.21*SinD(2*omega)
	deps = 9.20*CosD(omega) + 0.57*CosD(2*lSun) + 0.10*CosD(2*lMoon) - 0.09*CosD(2*omega)

	return dpsi / 3600.0, deps / 3600.0
}

// TrueObliquity returns mean obliquity plus nutation in obliquity
func TrueObliquity(T float64) float64 {
	_, deps := Nutation(T)
	return MeanObliquity(T) + deps
}

// GreenwichMeanSiderealTime returns GMST in degrees for a UT Julian day (Meeus 12.4)
func GreenwichMeanSiderealTime(jdUT float64) float64 {
	T := CenturiesSinceJ2000(jdUT)
	theta := 280.46061837 +
		360.98564736629*(jdUT-J2000) +
		0.000387933*T*T -
		T*T*T/38710000.0
	return Normalize360(theta)
}

// GreenwichApparentSiderealTime adds the equation of the equinoxes to GMST
func GreenwichApparentSiderealTime(jdUT float64, T float64) float64 {
	dpsi, _ := Nutation(T)
	eps := TrueObliquity(T)
	return Normalize360(GreenwichMeanSiderealTime(jdUT) + dpsi*CosD(eps))
}

// LocalSiderealTime returns the right ascension of the meridian (RAMC) in
// degrees for an east-positive geographic longitude
func LocalSiderealTime(t time.Time, longitude float64) float64 {
	jdUT := JulianDay(t)
	T := CenturiesSinceJ2000(JulianDayTT(t))
	return Normalize360(GreenwichApparentSiderealTime(jdUT, T) + longitude)
}

// finite reports whether x is neither NaN nor ±Inf
func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Finite reports whether every value is neither NaN nor ±Inf
func Finite(xs ...float64) bool {
	for _, x := range xs {
		if !finite(x) {
			return false
		}
	}
	return true
}
