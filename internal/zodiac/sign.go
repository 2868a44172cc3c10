package zodiac

import (
	"fmt"
	"math"
	"strings"

	"github.com/wonny/natal/internal/contracts"
)

// Sign is a zodiac sign index, 0 = Aries ... 11 = Pisces
type Sign int

const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

var signNames = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// Positions are floored to whole milliarcseconds before mapping, so every
// boundary (sign 30°, decan 10°, nakshatra 13°20′, pada 3°20′) is an exact
// integer. masSlack absorbs the last-ulp error of a boundary written as a
// float (40.0/3, 26*360.0/27); it is far below one milliarcsecond.
const masSlack = 1e-6

const (
	masPerDegree    = 3600 * 1000
	masPerCircle    = 360 * masPerDegree
	masPerSign      = 30 * masPerDegree
	masPerDecan     = 10 * masPerDegree
	masPerMinute    = 60 * 1000
	masPerNakshatra = masPerCircle / 27
	masPerPada      = masPerCircle / 108
)

// String returns the English sign name
func (s Sign) String() string {
	if s < 0 || s > 11 {
		return fmt.Sprintf("Sign(%d)", int(s))
	}
	return signNames[s]
}

// Signs returns the 12 sign names in zodiac order
func Signs() [12]string {
	return signNames
}

// ParseSign resolves a sign name (case-insensitive)
func ParseSign(name string) (Sign, error) {
	for i, n := range signNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Sign(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sign %q", name)
}

// Normalize maps any finite longitude into [0, 360)
func Normalize(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	if lon >= 360 {
		lon = 0
	}
	return lon
}

// toMas converts a normalized longitude to milliarcseconds in [0, masPerCircle).
// A non-normalized input is a programming error upstream of this package.
func toMas(lon float64) int64 {
	if math.IsNaN(lon) || lon < 0 || lon >= 360 {
		panic(fmt.Sprintf("zodiac: longitude %v not normalized to [0,360)", lon))
	}
	mas := int64(math.Floor(lon*masPerDegree + masSlack))
	if mas >= masPerCircle {
		mas = masPerCircle - 1
	}
	return mas
}

// SignOf returns the sign containing a normalized longitude
func SignOf(lon float64) Sign {
	return Sign(toMas(lon) / masPerSign)
}

// DecanOf returns the decan (1..3) of a normalized longitude
func DecanOf(lon float64) int {
	return int(toMas(lon)%masPerSign/masPerDecan) + 1
}

// SignDegreeOf maps a normalized longitude to sign, degree, minute and decan
func SignDegreeOf(lon float64) contracts.SignDegree {
	mas := toMas(lon)
	sign := Sign(mas / masPerSign)
	inSign := mas % masPerSign

	return contracts.SignDegree{
		Sign:      sign.String(),
		SignIndex: int(sign),
		Degree:    int(inSign / masPerDegree),
		Minute:    int(inSign % masPerDegree / masPerMinute),
		Decan:     int(inSign/masPerDecan) + 1,
	}
}
