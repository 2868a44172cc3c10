package astro

import "math"

// Deg2Rad converts degrees to radians
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180.0
}

// Rad2Deg converts radians to degrees
func Rad2Deg(r float64) float64 {
	return r * 180.0 / math.Pi
}

// Normalize360 normalizes an angle to [0, 360)
func Normalize360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	// math.Mod(-1e-15, 360) + 360 rounds to 360
	if a >= 360 {
		a = 0
	}
	return a
}

// SinD and friends operate on degrees
func SinD(d float64) float64 { return math.Sin(Deg2Rad(d)) }
func CosD(d float64) float64 { return math.Cos(Deg2Rad(d)) }
func TanD(d float64) float64 { return math.Tan(Deg2Rad(d)) }

// Atan2D returns atan2(y, x) in degrees, normalized to [0, 360)
func Atan2D(y, x float64) float64 {
	return Normalize360(Rad2Deg(math.Atan2(y, x)))
}
