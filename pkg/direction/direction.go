// Package direction turns altitude and azimuth angles into coarse labels for
// where to look: up, down or level, and which way on the compass.
package direction

import "math"

// LevelBand is the half-width in degrees of the near-horizon band. An
// altitude strictly greater than LevelBand is Up and strictly less than
// -LevelBand is Down.
const LevelBand = 10.0

// Vertical is the Moon's position relative to the horizon.
type Vertical int

const (
	Level Vertical = iota
	Up
	Down
)

// VerticalFromAltitude classifies an altitude in degrees.
func VerticalFromAltitude(alt float64) Vertical {
	switch {
	case alt > LevelBand:
		return Up
	case alt < -LevelBand:
		return Down
	default:
		return Level
	}
}

// Name returns the Chinese label.
func (v Vertical) Name() string {
	switch v {
	case Up:
		return "地平線上"
	case Down:
		return "地平線下"
	default:
		return "近地平線"
	}
}

// Symbol returns an arrow for the position.
func (v Vertical) Symbol() string {
	switch v {
	case Up:
		return "↑"
	case Down:
		return "↓"
	default:
		return "→"
	}
}

func (v Vertical) String() string {
	switch v {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "level"
	}
}

// Horizontal is one of the four compass quadrants.
type Horizontal int

const (
	North Horizontal = iota
	East
	South
	West
)

var quadrants = [...]struct{ name, english, symbol string }{
	North: {"北", "north", "⬆"},
	East:  {"東", "east", "➡"},
	South: {"南", "south", "⬇"},
	West:  {"西", "west", "⬅"},
}

// HorizontalFromAzimuth classifies an azimuth in degrees, measured from north
// through east. Quadrants are 90° wide and centred on the cardinal points:
// East is [45,135), South [135,225), West [225,315), and North takes the
// remainder, [315,360) and [0,45).
func HorizontalFromAzimuth(az float64) Horizontal {
	idx := int(math.Floor(normalize(az+45) / 90))
	return Horizontal(idx % len(quadrants))
}

// Name returns the Chinese label.
func (h Horizontal) Name() string {
	if h < 0 || int(h) >= len(quadrants) {
		return ""
	}
	return quadrants[h].name
}

// Symbol returns an arrow for the quadrant, north up.
func (h Horizontal) Symbol() string {
	if h < 0 || int(h) >= len(quadrants) {
		return ""
	}
	return quadrants[h].symbol
}

func (h Horizontal) String() string {
	if h < 0 || int(h) >= len(quadrants) {
		return ""
	}
	return quadrants[h].english
}

// Cardinal16 converts an azimuth to a 16-point compass label such as "NNE".
func Cardinal16(az float64) string {
	cardDirections := []string{"N", "NNE", "NE", "ENE",
		"E", "ESE", "SE", "SSE",
		"S", "SSW", "SW", "WSW",
		"W", "WNW", "NW", "NNW"}

	cardIndex := int(normalize(az+11.25) / 22.5)
	return cardDirections[cardIndex%16]
}

// normalize wraps an angle into [0,360).
func normalize(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
