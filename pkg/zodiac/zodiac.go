// Package zodiac classifies the Sun's apparent ecliptic longitude into the
// twelve signs of the tropical zodiac.
//
// Each sign owns a 30° half-open interval [30k, 30k+30), with 0° (the March
// equinox) starting Aries. Dates are not used; a sign changes at the instant
// the Sun crosses the boundary.
package zodiac

import (
	"errors"
	"math"
)

// ErrInvalidLongitude is returned for NaN or infinite longitudes.
var ErrInvalidLongitude = errors.New("zodiac: longitude is not finite")

// Sign is a tropical zodiac sign.
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

// Width is the angular width of every sign in degrees.
const Width = 30.0

var signs = [...]struct {
	name, english, symbol string
}{
	Aries:       {"牡羊座", "Aries", "♈"},
	Taurus:      {"金牛座", "Taurus", "♉"},
	Gemini:      {"雙子座", "Gemini", "♊"},
	Cancer:      {"巨蟹座", "Cancer", "♋"},
	Leo:         {"獅子座", "Leo", "♌"},
	Virgo:       {"處女座", "Virgo", "♍"},
	Libra:       {"天秤座", "Libra", "♎"},
	Scorpio:     {"天蠍座", "Scorpio", "♏"},
	Sagittarius: {"射手座", "Sagittarius", "♐"},
	Capricorn:   {"摩羯座", "Capricorn", "♑"},
	Aquarius:    {"水瓶座", "Aquarius", "♒"},
	Pisces:      {"雙魚座", "Pisces", "♓"},
}

// Count is the number of signs.
const Count = len(signs)

// FromLongitude returns the sign holding the Sun's ecliptic longitude in
// degrees. Any finite value is wrapped into [0,360) first.
func FromLongitude(lon float64) (Sign, error) {
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return 0, ErrInvalidLongitude
	}
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	return Sign(int(math.Floor(lon/Width)) % Count), nil
}

// Bounds returns the sign's interval [low, high) in degrees.
func (s Sign) Bounds() (low, high float64) {
	low = float64(s) * Width
	return low, low + Width
}

// Next returns the sign that follows s.
func (s Sign) Next() Sign {
	return Sign((int(s) + 1) % Count)
}

func (s Sign) valid() bool {
	return s >= 0 && int(s) < Count
}

// Name returns the traditional Chinese name.
func (s Sign) Name() string {
	if !s.valid() {
		return ""
	}
	return signs[s].name
}

// English returns the English name.
func (s Sign) English() string {
	if !s.valid() {
		return ""
	}
	return signs[s].english
}

// Symbol returns the Unicode glyph for the sign.
func (s Sign) Symbol() string {
	if !s.valid() {
		return ""
	}
	return signs[s].symbol
}

func (s Sign) String() string {
	return s.English()
}
