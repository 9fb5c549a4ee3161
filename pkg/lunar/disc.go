package lunar

import (
	"fmt"
	"math"
)

// Disc is the geometry of a drawn moon phase icon. The icon is drawn with the
// lit limb on the right and the terminator as a half-ellipse between the
// poles; IconRotation turns it to match the sky.
type Disc struct {
	Radius   float64
	Fraction float64 // illuminated fraction p, clamped to [0,1]

	// TerminatorRX is the terminator half-ellipse's horizontal semi-axis,
	// radius*|1-2p|. Zero at quarter phase, where the terminator runs
	// straight through the centre.
	TerminatorRX float64

	// LitWidth is the lit extent along the disc's equator, 2*radius*p.
	LitWidth float64

	// DarkWidth is the unlit extent along the equator.
	DarkWidth float64
}

// NewDisc builds the disc geometry for an illumination percentage (0-100).
func NewDisc(radius, illuminationPct float64) Disc {
	p := illuminationPct / 100
	if math.IsNaN(p) || p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}

	lit := 2 * radius * p
	return Disc{
		Radius:       radius,
		Fraction:     p,
		TerminatorRX: radius * math.Abs(1-2*p),
		LitWidth:     lit,
		DarkWidth:    2*radius - lit,
	}
}

// Crescent reports whether less than half the disc is lit.
func (d Disc) Crescent() bool {
	return d.Fraction < 0.5
}

// LitPath returns SVG path data for the lit region of a disc centred on
// (cx, cy). The path runs down the right-hand limb and returns up the
// terminator. It is empty when nothing is lit.
func (d Disc) LitPath(cx, cy float64) string {
	if d.Fraction == 0 || d.Radius <= 0 {
		return ""
	}

	// Crescent terminators bulge toward the lit limb, gibbous ones away
	terminatorSweep := 1
	if d.Crescent() {
		terminatorSweep = 0
	}

	r := d.Radius
	return fmt.Sprintf("M %.2f %.2f A %.2f %.2f 0 0 1 %.2f %.2f A %.2f %.2f 0 0 %d %.2f %.2f Z",
		cx, cy-r,
		r, r, cx, cy+r,
		d.TerminatorRX, r, terminatorSweep, cx, cy-r)
}

// IconRotation returns the clockwise rotation in degrees that turns an icon
// drawn with its lit limb on the right so the lit limb points where the
// observer sees it. brightLimbDeg is the bright limb's position angle from
// celestial north through east; parallacticDeg is the Moon's parallactic
// angle. Pass zero for parallacticDeg to get the celestial-north-up view.
func IconRotation(brightLimbDeg, parallacticDeg float64) float64 {
	chi := degToRad(brightLimbDeg - parallacticDeg)
	rot := radToDeg(math.Atan2(-math.Cos(chi), -math.Sin(chi)))
	if rot <= -180 {
		rot += 360
	}
	return rot
}
