// Package report joins an observation, its ephemeris sample and the
// classifications derived from them into a view model, and renders that
// model as HTML, Markdown or terminal text.
package report

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/chrissnell/moonreport/internal/ephemeris"
	"github.com/chrissnell/moonreport/internal/observation"
	"github.com/chrissnell/moonreport/internal/sunevents"
	"github.com/chrissnell/moonreport/pkg/direction"
	"github.com/chrissnell/moonreport/pkg/lunar"
	"github.com/chrissnell/moonreport/pkg/lunisolar"
	"github.com/chrissnell/moonreport/pkg/solarterm"
	"github.com/chrissnell/moonreport/pkg/zodiac"
)

const (
	// Unavailable is shown in place of a value that could not be determined.
	Unavailable = "無法判斷"

	timeLayout  = "2006-01-02 15:04:05"
	clockLayout = "15:04"
	eventLayout = "01-02 15:04"

	// Phase disc geometry in SVG user units
	DiscSize   = 120
	DiscRadius = 50
)

// Input is everything a report is built from.
type Input struct {
	Observation observation.Observation
	Sample      ephemeris.Sample
	SolarTerm   solarterm.Outcome
	Ephemeris   string

	// Optional parts. A nil LunarDate renders as Unavailable.
	LunarDate *lunisolar.Date
	Sun       sunevents.Times
	Phases    []ephemeris.PhaseEvent
}

// Report is the rendered view of one observation. Numbers are rounded to
// what the page shows and times are preformatted in the observer's zone so
// every renderer prints the same text.
type Report struct {
	Updated   string
	TimeZone  string
	Latitude  float64
	Longitude float64
	Ephemeris string

	Gregorian  string
	Lunar      string
	LunarText  string
	LunarYear  string
	LunarKnown bool

	Illumination float64
	PhaseAngle   float64
	Elongation   float64
	Shape        lunar.Shape
	DistanceKm   float64

	Altitude   float64
	Azimuth    float64
	Vertical   direction.Vertical
	Horizontal direction.Horizontal
	Cardinal   string

	Zodiac zodiac.Sign

	SolarTerm      string
	SolarTermKnown bool
	PreviousTerm   string
	NextTerm       string
	NextTermAt     string
	DaysUntilNext  float64

	Disc         lunar.Disc
	DiscPath     string
	DiscRotation float64
	DiscCenter   float64

	Sun    []TimeLine
	Phases []PhaseLine
}

// TimeLine is a labelled clock time.
type TimeLine struct {
	Label string
	At    string
}

// PhaseLine is an upcoming principal phase.
type PhaseLine struct {
	Shape lunar.Shape
	At    string
}

// Build validates the sample and derives the classifications and display
// values for in.
func Build(in Input) (*Report, error) {
	obs := in.Observation
	s := in.Sample
	loc := obs.Location
	if loc == nil {
		loc = time.UTC
	}
	local := obs.Instant.In(loc)

	sign, err := zodiac.FromLongitude(s.SunLongitudeDeg)
	if err != nil {
		return nil, fmt.Errorf("classifying zodiac sign: %w", err)
	}

	disc := lunar.NewDisc(DiscRadius, s.IlluminationPct)
	r := &Report{
		Updated:   local.Format(timeLayout),
		TimeZone:  loc.String(),
		Latitude:  obs.Latitude,
		Longitude: obs.Longitude,
		Ephemeris: in.Ephemeris,

		Gregorian: local.Format(timeLayout),
		Lunar:     Unavailable,
		LunarText: Unavailable,

		Illumination: scalar.Round(s.IlluminationPct, 1),
		PhaseAngle:   scalar.Round(s.PhaseAngleDeg, 1),
		Elongation:   scalar.Round(s.ElongationDeg, 1),
		Shape:        lunar.ShapeFromElongation(s.ElongationDeg),
		DistanceKm:   scalar.Round(s.MoonDistanceKm, 0),

		Altitude:   scalar.Round(s.MoonAltitudeDeg, 1),
		Azimuth:    scalar.Round(s.MoonAzimuthDeg, 1),
		Vertical:   direction.VerticalFromAltitude(s.MoonAltitudeDeg),
		Horizontal: direction.HorizontalFromAzimuth(s.MoonAzimuthDeg),
		Cardinal:   direction.Cardinal16(s.MoonAzimuthDeg),

		Zodiac: sign,

		SolarTerm: Unavailable,

		Disc:         disc,
		DiscPath:     disc.LitPath(DiscSize/2, DiscSize/2),
		DiscRotation: scalar.Round(lunar.IconRotation(s.BrightLimbDeg, s.ParallacticDeg), 1),
		DiscCenter:   DiscSize / 2,
	}

	if d := in.LunarDate; d != nil {
		r.Lunar = d.Numeric()
		r.LunarText = d.MonthName() + d.DayName()
		r.LunarYear = d.GanZhi() + "年（" + d.Animal() + "）"
		r.LunarKnown = true
	}

	if out := in.SolarTerm; out.Available() {
		r.SolarTerm = out.Term.Name()
		r.SolarTermKnown = true
		r.PreviousTerm = out.Previous.Name()
		r.NextTerm = out.Next.Name()
		if days, ok := out.DaysUntilNext(); ok {
			r.NextTermAt = out.NextAt.In(loc).Format(eventLayout)
			r.DaysUntilNext = scalar.Round(days, 1)
		}
	}

	sun := []struct {
		label string
		at    time.Time
	}{
		{"民用晨光", in.Sun.CivilDawn},
		{"日出", in.Sun.Sunrise},
		{"日落", in.Sun.Sunset},
		{"民用暮光", in.Sun.CivilDusk},
	}
	for _, ev := range sun {
		at := Unavailable
		if !ev.at.IsZero() {
			at = ev.at.In(loc).Format(clockLayout)
		}
		r.Sun = append(r.Sun, TimeLine{Label: ev.label, At: at})
	}

	for _, p := range in.Phases {
		r.Phases = append(r.Phases, PhaseLine{Shape: p.Shape, At: p.At.In(loc).Format(eventLayout)})
	}

	return r, nil
}
