package lunar

import "math"

// Shape is one of the eight traditional phases of the Moon.
//
// Shapes are 45° wide buckets of the Sun→Moon elongation, each centred on its
// principal phase. Every bucket is half-open on its upper edge:
//
//	New            [337.5, 360) and [0, 22.5)
//	WaxingCrescent [22.5, 67.5)
//	FirstQuarter   [67.5, 112.5)
//	WaxingGibbous  [112.5, 157.5)
//	Full           [157.5, 202.5)
//	WaningGibbous  [202.5, 247.5)
//	LastQuarter    [247.5, 292.5)
//	WaningCrescent [292.5, 337.5)
type Shape int

const (
	New Shape = iota
	WaxingCrescent
	FirstQuarter
	WaxingGibbous
	Full
	WaningGibbous
	LastQuarter
	WaningCrescent
)

// ShapeWidth is the angular width of one shape bucket in degrees.
const ShapeWidth = 45.0

var shapeInfo = [...]struct {
	name, english, emoji string
}{
	New:            {"新月", "New Moon", "🌑"},
	WaxingCrescent: {"蛾眉月", "Waxing Crescent", "🌒"},
	FirstQuarter:   {"上弦月", "First Quarter", "🌓"},
	WaxingGibbous:  {"盈凸月", "Waxing Gibbous", "🌔"},
	Full:           {"滿月", "Full Moon", "🌕"},
	WaningGibbous:  {"虧凸月", "Waning Gibbous", "🌖"},
	LastQuarter:    {"下弦月", "Last Quarter", "🌗"},
	WaningCrescent: {"殘月", "Waning Crescent", "🌘"},
}

// Shapes lists every shape in cycle order starting at New.
func Shapes() []Shape {
	return []Shape{New, WaxingCrescent, FirstQuarter, WaxingGibbous, Full, WaningGibbous, LastQuarter, WaningCrescent}
}

// ShapeFromElongation classifies the Sun→Moon elongation in degrees. Any
// finite angle is accepted and wrapped into [0,360) first.
func ShapeFromElongation(elongation float64) Shape {
	idx := int(math.Floor(NormalizeAngle(elongation+ShapeWidth/2) / ShapeWidth))
	return Shape(idx % len(shapeInfo))
}

// Bounds returns the shape's interval [low, high) in degrees. For New the
// interval wraps through 0, so low > high.
func (s Shape) Bounds() (low, high float64) {
	center := float64(s) * ShapeWidth
	return NormalizeAngle(center - ShapeWidth/2), NormalizeAngle(center + ShapeWidth/2)
}

// Waxing reports whether the shape belongs to the growing half of the cycle.
func (s Shape) Waxing() bool {
	return s >= WaxingCrescent && s <= WaxingGibbous
}

func (s Shape) valid() bool {
	return s >= 0 && int(s) < len(shapeInfo)
}

// Name returns the traditional Chinese name.
func (s Shape) Name() string {
	if !s.valid() {
		return ""
	}
	return shapeInfo[s].name
}

// English returns the English name.
func (s Shape) English() string {
	if !s.valid() {
		return ""
	}
	return shapeInfo[s].english
}

// Emoji returns the moon emoji for the shape.
func (s Shape) Emoji() string {
	if !s.valid() {
		return ""
	}
	return shapeInfo[s].emoji
}

func (s Shape) String() string {
	return s.English()
}
