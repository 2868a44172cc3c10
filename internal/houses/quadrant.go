package houses

import (
	"fmt"
	"math"

	"github.com/wonny/natal/internal/astro"
	"github.com/wonny/natal/internal/contracts"
)

// DefaultPolarLimit is the absolute latitude at and beyond which no house
// geometry is attempted
const DefaultPolarLimit = 89.5

const (
	placidusMaxIter   = 60
	placidusTolerance = 1e-10
	minCuspArc        = 1e-7
)

// Calculator computes ascendant and house cusps
// ⭐ SSOT: 하우스 커스프 계산은 여기서만
type Calculator struct {
	polarLimit float64
}

// NewCalculator creates a calculator; polarLimit <= 0 uses DefaultPolarLimit
func NewCalculator(polarLimit float64) *Calculator {
	if polarLimit <= 0 || polarLimit > 90 {
		polarLimit = DefaultPolarLimit
	}
	return &Calculator{polarLimit: polarLimit}
}

// PolarLimit returns the configured polar latitude limit
func (c *Calculator) PolarLimit() float64 {
	return c.polarLimit
}

// frame is the local sky geometry shared by every house system
type frame struct {
	ramc float64 // right ascension of the meridian
	eps  float64 // true obliquity
	lat  float64
}

func (c *Calculator) frameAt(i contracts.Instant, lat, lon float64) (frame, error) {
	if !astro.Finite(lat, lon) {
		return frame{}, fmt.Errorf("%w: non-finite coordinates", contracts.ErrDegenerateHouseGeometry)
	}
	if math.Abs(lat) >= c.polarLimit {
		return frame{}, fmt.Errorf("%w: latitude %.4f at or beyond polar limit %.2f",
			contracts.ErrDegenerateHouseGeometry, lat, c.polarLimit)
	}

	t := i.Time()
	T := astro.CenturiesSinceJ2000(astro.JulianDayTT(t))

	return frame{
		ramc: astro.LocalSiderealTime(t, lon),
		eps:  astro.TrueObliquity(T),
		lat:  lat,
	}, nil
}

// Angles returns the tropical ascendant and midheaven
func (c *Calculator) Angles(i contracts.Instant, lat, lon float64) (asc, mc float64, err error) {
	f, err := c.frameAt(i, lat, lon)
	if err != nil {
		return 0, 0, err
	}
	asc, mc = f.ascendant(), f.midheaven()
	if !astro.Finite(asc, mc) {
		return 0, 0, fmt.Errorf("%w: non-finite ascendant", contracts.ErrDegenerateHouseGeometry)
	}
	return asc, mc, nil
}

// Quadrant computes the 12 cusps of a quadrant house system
func (c *Calculator) Quadrant(i contracts.Instant, lat, lon float64, sys System) (contracts.HouseCusps, error) {
	f, err := c.frameAt(i, lat, lon)
	if err != nil {
		return contracts.HouseCusps{}, err
	}
	return f.cusps(sys)
}

func (f frame) midheaven() float64 {
	return astro.Atan2D(astro.SinD(f.ramc), astro.CosD(f.ramc)*astro.CosD(f.eps))
}

func (f frame) ascendant() float64 {
	return astro.Atan2D(
		astro.CosD(f.ramc),
		-(astro.SinD(f.ramc)*astro.CosD(f.eps) + astro.TanD(f.lat)*astro.SinD(f.eps)),
	)
}

func (f frame) cusps(sys System) (contracts.HouseCusps, error) {
	asc, mc := f.ascendant(), f.midheaven()

	var (
		c11, c12, c2, c3 float64
		err              error
	)

	switch sys {
	case Placidus:
		if c11, err = f.placidus(1.0/3.0, true); err != nil {
			return contracts.HouseCusps{}, err
		}
		if c12, err = f.placidus(2.0/3.0, true); err != nil {
			return contracts.HouseCusps{}, err
		}
		if c2, err = f.placidus(2.0/3.0, false); err != nil {
			return contracts.HouseCusps{}, err
		}
		if c3, err = f.placidus(1.0/3.0, false); err != nil {
			return contracts.HouseCusps{}, err
		}
	case Regiomontanus:
		c11 = f.regiomontanus(30)
		c12 = f.regiomontanus(60)
		c2 = f.regiomontanus(120)
		c3 = f.regiomontanus(150)
	case Porphyry:
		q1 := forwardArc(mc, asc)
		q2 := forwardArc(asc, astro.Normalize360(mc+180))
		c11 = astro.Normalize360(mc + q1/3)
		c12 = astro.Normalize360(mc + 2*q1/3)
		c2 = astro.Normalize360(asc + q2/3)
		c3 = astro.Normalize360(asc + 2*q2/3)
	default:
		return contracts.HouseCusps{}, fmt.Errorf("%w: unknown house system %q", contracts.ErrInvalidConfig, sys)
	}

	hc := contracts.HouseCusps{System: sys.String(), Ascendant: asc, MC: mc}
	hc.Cusps[0] = asc
	hc.Cusps[1] = c2
	hc.Cusps[2] = c3
	hc.Cusps[3] = astro.Normalize360(mc + 180)
	hc.Cusps[4] = astro.Normalize360(c11 + 180)
	hc.Cusps[5] = astro.Normalize360(c12 + 180)
	hc.Cusps[6] = astro.Normalize360(asc + 180)
	hc.Cusps[7] = astro.Normalize360(c2 + 180)
	hc.Cusps[8] = astro.Normalize360(c3 + 180)
	hc.Cusps[9] = mc
	hc.Cusps[10] = c11
	hc.Cusps[11] = c12

	if err := validateCusps(hc); err != nil {
		return contracts.HouseCusps{}, err
	}
	return hc, nil
}

// placidus finds the ecliptic point whose hour angle is frac of its
// semi-arc: diurnal (houses 11, 12) when above, nocturnal (houses 2, 3) otherwise
func (f frame) placidus(frac float64, above bool) (float64, error) {
	raFor := func(ad float64) float64 {
		if above {
			return f.ramc + frac*(90+ad)
		}
		return f.ramc + 180 - frac*(90-ad)
	}

	ra := raFor(0)
	lon := eclipticFromRA(ra, f.eps)

	for iter := 0; iter < placidusMaxIter; iter++ {
		decl := astro.Rad2Deg(math.Asin(astro.SinD(f.eps) * astro.SinD(lon)))
		x := astro.TanD(f.lat) * astro.TanD(decl)
		if math.Abs(x) >= 1 {
			return 0, fmt.Errorf("%w: placidus semi-arc undefined at latitude %.4f (circumpolar ecliptic)",
				contracts.ErrDegenerateHouseGeometry, f.lat)
		}
		ad := astro.Rad2Deg(math.Asin(x))

		next := eclipticFromRA(raFor(ad), f.eps)
		if math.Abs(angleDiff(next, lon)) < placidusTolerance {
			return next, nil
		}
		lon = next
	}

	return 0, fmt.Errorf("%w: placidus cusp did not converge at latitude %.4f",
		contracts.ErrDegenerateHouseGeometry, f.lat)
}

// regiomontanus projects equal 30° divisions of the equator (h from the MC)
// onto the ecliptic through the house circle's pole
func (f frame) regiomontanus(h float64) float64 {
	r := f.ramc + h
	tanPole := astro.TanD(f.lat) * astro.SinD(h)
	return astro.Atan2D(
		astro.SinD(r),
		astro.CosD(r)*astro.CosD(f.eps)-tanPole*astro.SinD(f.eps),
	)
}

// eclipticFromRA returns the ecliptic longitude having right ascension ra
func eclipticFromRA(ra, eps float64) float64 {
	return astro.Atan2D(astro.SinD(ra), astro.CosD(ra)*astro.CosD(eps))
}

// forwardArc returns the counter-clockwise arc from a to b in [0, 360)
func forwardArc(a, b float64) float64 {
	return astro.Normalize360(b - a)
}

// angleDiff returns the signed smallest difference a − b in (−180, 180]
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// validateCusps rejects NaN cusps, duplicate boundaries and cusp sets that
// do not walk once around the circle in order
func validateCusps(hc contracts.HouseCusps) error {
	total := 0.0
	for h := 0; h < 12; h++ {
		start, end := hc.Cusps[h], hc.Cusps[(h+1)%12]
		if !astro.Finite(start) {
			return fmt.Errorf("%w: cusp %d is not finite", contracts.ErrDegenerateHouseGeometry, h+1)
		}
		arc := forwardArc(start, end)
		if arc < minCuspArc || arc >= 180 {
			return fmt.Errorf("%w: house %d spans %.6f°", contracts.ErrDegenerateHouseGeometry, h+1, arc)
		}
		total += arc
	}
	if math.Abs(total-360) > 1e-6 {
		return fmt.Errorf("%w: cusps wind %.4f° instead of 360°", contracts.ErrDegenerateHouseGeometry, total)
	}
	return nil
}
