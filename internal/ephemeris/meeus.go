package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonillum"
	"github.com/soniakeys/meeus/v3/moonphase"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/refraction"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"

	"github.com/chrissnell/moonreport/internal/observation"
	"github.com/chrissnell/moonreport/pkg/lunar"
)

const (
	// MeeusName selects the full-precision backend.
	MeeusName = "meeus"

	kmPerAU = 149597870.7

	// Mean tropical year in days; the Sun moves 360° in this time.
	tropicalYear = 365.2422

	crossingTolerance = 1e-7 // degrees, ~1 second of time
	crossingMaxIter   = 20
)

// ErrNoConvergence is returned when an instant search does not settle.
var ErrNoConvergence = errors.New("search did not converge")

// Meeus computes samples with the algorithms from Jean Meeus' "Astronomical
// Algorithms": the ELP-2000/82 lunar series, VSOP-derived solar longitude,
// IAU nutation and apparent sidereal time. The altitude is topocentric and
// includes atmospheric refraction above the horizon.
//
// Universal time is used where the algorithms call for dynamical time. The
// ~70 s difference moves the Moon by well under a hundredth of a degree.
type Meeus struct{}

// Name implements Provider.
func (Meeus) Name() string { return MeeusName }

// Sample implements Provider.
func (m Meeus) Sample(ctx context.Context, obs observation.Observation) (Sample, error) {
	if err := ctx.Err(); err != nil {
		return Sample{}, err
	}

	jd := julian.TimeToJD(obs.UT())
	T := base.J2000Century(jd)

	// Apparent geocentric positions
	Δψ, Δε := nutation.Nutation(jd)
	λ0 := solar.ApparentLongitude(T)
	R := solar.Radius(T) * kmPerAU
	λ, β, Δ := moonposition.Position(jd)
	λ += Δψ

	ε := nutation.MeanObliquity(jd) + Δε
	sε, cε := ε.Sincos()
	α, δ := coord.EclToEq(λ, β, sε, cε)
	αSun, δSun := coord.EclToEq(λ0, 0, sε, cε)

	i := moonillum.PhaseAngleEcl(λ, β, Δ, λ0, R)

	// Horizontal coordinates; meeus takes longitude positive west
	φ := unit.AngleFromDeg(obs.Latitude)
	ψ := unit.AngleFromDeg(-obs.Longitude)
	st := sidereal.Apparent(jd)
	A, h := coord.EqToHz(α, δ, φ, ψ, st)

	H := st.Angle() - ψ - α.Angle()

	elongation := lunar.NormalizeAngle(λ.Deg() - λ0.Deg())
	s := Sample{
		IlluminationPct:  base.Illuminated(i) * 100,
		PhaseAngleDeg:    i.Deg(),
		ElongationDeg:    elongation,
		MoonAltitudeDeg:  apparentAltitude(h, Δ).Deg(),
		MoonAzimuthDeg:   lunar.NormalizeAngle(A.Deg() + 180),
		SunLongitudeDeg:  lunar.NormalizeAngle(λ0.Deg()),
		MoonLongitudeDeg: lunar.NormalizeAngle(λ.Deg()),
		MoonLatitudeDeg:  β.Deg(),
		MoonDistanceKm:   Δ,
		BrightLimbDeg:    lunar.NormalizeAngle(radToDeg(lunar.BrightLimbAngle(αSun.Rad(), δSun.Rad(), α.Rad(), δ.Rad()))),
		ParallacticDeg:   radToDeg(lunar.ParallacticAngle(H.Rad(), φ.Rad(), δ.Rad())),
		Waxing:           elongation < 180,
	}
	if err := s.validate(); err != nil {
		return Sample{}, err
	}
	return s, nil
}

// apparentAltitude corrects a geocentric altitude for the Moon's parallax
// and, near or above the horizon, for refraction. Δ is the Earth-Moon
// distance in km.
func apparentAltitude(h unit.Angle, Δ float64) unit.Angle {
	h -= moonposition.Parallax(Δ).Mul(h.Cos())
	if h.Deg() > -1 {
		h += refraction.Saemundsson(h)
	}
	return h
}

// SunLongitude returns the Sun's apparent ecliptic longitude in degrees at t.
func (Meeus) SunLongitude(t time.Time) float64 {
	return lunar.NormalizeAngle(solar.ApparentLongitude(base.J2000Century(julian.TimeToJD(t.UTC()))).Deg())
}

// SolarLongitudeCrossing returns the first instant at or after from when the
// Sun's apparent longitude equals lonDeg. It implements solarterm.NextFinder.
func (m Meeus) SolarLongitudeCrossing(from time.Time, lonDeg float64) (time.Time, error) {
	if math.IsNaN(lonDeg) || math.IsInf(lonDeg, 0) {
		return time.Time{}, fmt.Errorf("%w: target longitude", ErrNonFinite)
	}

	ahead := lunar.NormalizeAngle(lonDeg - m.SunLongitude(from))
	if ahead == 0 {
		return from, nil
	}

	// Step at the Sun's mean rate, then refine against the true position
	jd := julian.TimeToJD(from.UTC()) + ahead*tropicalYear/360
	for n := 0; n < crossingMaxIter; n++ {
		lon := solar.ApparentLongitude(base.J2000Century(jd)).Deg()
		diff := wrap180(lonDeg - lon)
		if math.Abs(diff) < crossingTolerance {
			return julian.JDToTime(jd).In(from.Location()), nil
		}
		jd += diff * tropicalYear / 360
	}
	return time.Time{}, fmt.Errorf("solar longitude %.1f°: %w", lonDeg, ErrNoConvergence)
}

// PhaseEvent is an instant at which the Moon reaches a principal phase.
type PhaseEvent struct {
	Shape lunar.Shape
	At    time.Time
}

// NextPhases returns the next new moon, first quarter, full moon and last
// quarter at or after from, in time order.
func (Meeus) NextPhases(from time.Time) []PhaseEvent {
	finders := []struct {
		shape lunar.Shape
		fn    func(float64) float64
	}{
		{lunar.New, moonphase.New},
		{lunar.FirstQuarter, moonphase.First},
		{lunar.Full, moonphase.Full},
		{lunar.LastQuarter, moonphase.Last},
	}

	// The meeus functions return the phase nearest a decimal year
	year := decimalYear(from)
	step := lunar.SynodicMonth / 365.25

	events := make([]PhaseEvent, 0, len(finders))
	for _, f := range finders {
		for k := -1; k <= 2; k++ {
			at := julian.JDToTime(f.fn(year + float64(k)*step))
			if !at.Before(from) {
				events = append(events, PhaseEvent{Shape: f.shape, At: at.In(from.Location())})
				break
			}
		}
	}

	sort.Slice(events, func(i, j int) bool { return events[i].At.Before(events[j].At) })
	return events
}

// decimalYear expresses t as a fractional Gregorian year.
func decimalYear(t time.Time) float64 {
	t = t.UTC()
	start := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	return float64(t.Year()) + t.Sub(start).Seconds()/end.Sub(start).Seconds()
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
