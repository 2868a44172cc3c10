package zodiac

import "github.com/wonny/natal/internal/contracts"

var nakshatraNames = [27]string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
	"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni", "Uttara Phalguni",
	"Hasta", "Chitra", "Swati", "Vishakha", "Anuradha", "Jyeshtha",
	"Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana", "Dhanishta", "Shatabhisha",
	"Purva Bhadrapada", "Uttara Bhadrapada", "Revati",
}

// Vimshottari dasha lords, repeating every nine nakshatras from Ashwini
var nakshatraLords = [9]contracts.Body{
	contracts.BodyKetu,
	contracts.BodyVenus,
	contracts.BodySun,
	contracts.BodyMoon,
	contracts.BodyMars,
	contracts.BodyRahu,
	contracts.BodyJupiter,
	contracts.BodySaturn,
	contracts.BodyMercury,
}

// NakshatraWidth is the arc of one nakshatra in degrees (13°20′)
const NakshatraWidth = 360.0 / 27.0

// PadaWidth is the arc of one pada in degrees (3°20′)
const PadaWidth = 360.0 / 108.0

// Nakshatras returns the 27 names in order from 0° sidereal
func Nakshatras() [27]string {
	return nakshatraNames
}

// NakshatraOf maps a normalized sidereal longitude to its nakshatra and pada.
// Only meaningful for sidereal longitudes.
func NakshatraOf(siderealLon float64) contracts.NakshatraPada {
	mas := toMas(siderealLon)
	idx := mas / masPerNakshatra
	pada := mas%masPerNakshatra/masPerPada + 1

	return contracts.NakshatraPada{
		Nakshatra: nakshatraNames[idx],
		Index:     int(idx),
		Pada:      int(pada),
		Lord:      NakshatraLord(int(idx)),
	}
}

// NakshatraLord returns the Vimshottari ruler of nakshatra index (0..26)
func NakshatraLord(index int) contracts.Body {
	return nakshatraLords[((index%9)+9)%9]
}
