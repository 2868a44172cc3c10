package houses

import (
	"fmt"

	"github.com/wonny/natal/internal/astro"
	"github.com/wonny/natal/internal/contracts"
	"github.com/wonny/natal/internal/zodiac"
)

// HouseOf returns the house (1..12) containing lon: the house whose start
// cusp is at or before lon and whose next cusp is strictly after it, with the
// interval wrapping through 0° when the next cusp is numerically smaller.
//
// cusps must come from Quadrant or WholeSign; a cusp set that does not
// partition the circle is a programming error.
func HouseOf(lon float64, cusps contracts.HouseCusps) int {
	lon = astro.Normalize360(lon)
	for h := 0; h < 12; h++ {
		start, end := cusps.Cusps[h], cusps.Cusps[(h+1)%12]
		if start == end {
			continue
		}
		if start < end {
			if lon >= start && lon < end {
				return h + 1
			}
			continue
		}
		if lon >= start || lon < end {
			return h + 1
		}
	}
	panic(fmt.Sprintf("houses: cusp set %v does not cover %.9f", cusps.Cusps, lon))
}

// WholeSign returns cusps at the start of each sign, house 1 being the sign
// that contains the ascendant
func WholeSign(asc float64) contracts.HouseCusps {
	first := zodiac.SignOf(asc)
	hc := contracts.HouseCusps{System: WholeSignSystem, Ascendant: astro.Normalize360(asc)}
	for h := 0; h < 12; h++ {
		hc.Cusps[h] = float64((int(first)+h)%12) * 30
	}
	return hc
}

// WholeSignHouse counts signs from the ascendant's sign (which is house 1)
func WholeSignHouse(body, ascendant zodiac.Sign) int {
	return (int(body)-int(ascendant)+12)%12 + 1
}
