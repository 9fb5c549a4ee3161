// Package solarterm classifies the Sun's apparent ecliptic longitude into the
// 24 solar terms (節氣) of the East Asian calendar.
//
// Term k owns the half-open interval [15k, 15k+15) degrees. The cycle starts
// at 春分 (the March equinox, 0°). Only the Sun's true position is used; the
// calendar-day approximation is not supported.
package solarterm

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrUnavailable marks an Outcome whose term could not be determined.
var ErrUnavailable = errors.New("solar term unavailable")

// Term is one of the 24 solar terms.
type Term int

const (
	VernalEquinox Term = iota
	ClearAndBright
	GrainRain
	StartOfSummer
	GrainBuds
	GrainInEar
	SummerSolstice
	MinorHeat
	MajorHeat
	StartOfAutumn
	EndOfHeat
	WhiteDew
	AutumnalEquinox
	ColdDew
	FrostsDescent
	StartOfWinter
	MinorSnow
	MajorSnow
	WinterSolstice
	MinorCold
	MajorCold
	StartOfSpring
	RainWater
	AwakeningOfInsects
)

// Width is the angular width of each term in degrees.
const Width = 15.0

var terms = [...]struct{ name, english string }{
	VernalEquinox:      {"春分", "Vernal Equinox"},
	ClearAndBright:     {"清明", "Clear and Bright"},
	GrainRain:          {"穀雨", "Grain Rain"},
	StartOfSummer:      {"立夏", "Start of Summer"},
	GrainBuds:          {"小滿", "Grain Buds"},
	GrainInEar:         {"芒種", "Grain in Ear"},
	SummerSolstice:     {"夏至", "Summer Solstice"},
	MinorHeat:          {"小暑", "Minor Heat"},
	MajorHeat:          {"大暑", "Major Heat"},
	StartOfAutumn:      {"立秋", "Start of Autumn"},
	EndOfHeat:          {"處暑", "End of Heat"},
	WhiteDew:           {"白露", "White Dew"},
	AutumnalEquinox:    {"秋分", "Autumnal Equinox"},
	ColdDew:            {"寒露", "Cold Dew"},
	FrostsDescent:      {"霜降", "Frost's Descent"},
	StartOfWinter:      {"立冬", "Start of Winter"},
	MinorSnow:          {"小雪", "Minor Snow"},
	MajorSnow:          {"大雪", "Major Snow"},
	WinterSolstice:     {"冬至", "Winter Solstice"},
	MinorCold:          {"小寒", "Minor Cold"},
	MajorCold:          {"大寒", "Major Cold"},
	StartOfSpring:      {"立春", "Start of Spring"},
	RainWater:          {"雨水", "Rain Water"},
	AwakeningOfInsects: {"驚蟄", "Awakening of Insects"},
}

// Count is the number of solar terms.
const Count = len(terms)

// FromLongitude returns the term holding the Sun's ecliptic longitude in
// degrees. Any finite value is wrapped into [0,360) first.
func FromLongitude(lon float64) (Term, error) {
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return 0, fmt.Errorf("%w: longitude %v is not finite", ErrUnavailable, lon)
	}
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	return Term(int(math.Floor(lon/Width)) % Count), nil
}

// Longitude returns the longitude in degrees at which the term begins.
func (t Term) Longitude() float64 {
	return float64(t) * Width
}

// Bounds returns the term's interval [low, high) in degrees.
func (t Term) Bounds() (low, high float64) {
	low = t.Longitude()
	return low, low + Width
}

// Previous returns the term before t in the cycle.
func (t Term) Previous() Term {
	return Term((int(t) + Count - 1) % Count)
}

// Next returns the term after t in the cycle.
func (t Term) Next() Term {
	return Term((int(t) + 1) % Count)
}

// Principal reports whether t is a principal term (中氣), one that starts on
// a multiple of 30°. The lunisolar calendar numbers its months by these.
func (t Term) Principal() bool {
	return t%2 == 0
}

func (t Term) valid() bool {
	return t >= 0 && int(t) < Count
}

// Name returns the traditional Chinese name.
func (t Term) Name() string {
	if !t.valid() {
		return ""
	}
	return terms[t].name
}

// English returns the English name.
func (t Term) English() string {
	if !t.valid() {
		return ""
	}
	return terms[t].english
}

func (t Term) String() string {
	return t.English()
}

// NextFinder locates the first instant at or after from when the Sun's
// apparent ecliptic longitude reaches lonDeg.
type NextFinder interface {
	SolarLongitudeCrossing(from time.Time, lonDeg float64) (time.Time, error)
}

// Outcome is the result of a solar term lookup. It is either available, with
// the term and its neighbours filled in, or unavailable with Err set.
type Outcome struct {
	Term     Term
	Previous Term
	Next     Term

	// From is the instant the lookup was made for.
	From time.Time
	// NextAt is when the Next term begins. Zero when no finder was given.
	NextAt time.Time

	Err error
}

// Available reports whether the term was determined.
func (o Outcome) Available() bool {
	return o.Err == nil
}

// DaysUntilNext returns the fractional days from the lookup instant until the
// next term begins, or false when that instant is unknown.
func (o Outcome) DaysUntilNext() (float64, bool) {
	if !o.Available() || o.NextAt.IsZero() {
		return 0, false
	}
	return o.NextAt.Sub(o.From).Hours() / 24, true
}

// Unavailable builds an Outcome for a lookup that failed with err.
func Unavailable(from time.Time, err error) Outcome {
	if !errors.Is(err, ErrUnavailable) {
		err = fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return Outcome{From: from, Err: err}
}

// Classify looks up the term for the Sun's longitude at instant from. When
// finder is non-nil the start of the next term is located too. Failures are
// reported through Outcome.Err, never by panicking.
func Classify(lon float64, from time.Time, finder NextFinder) Outcome {
	term, err := FromLongitude(lon)
	if err != nil {
		return Unavailable(from, err)
	}

	out := Outcome{
		Term:     term,
		Previous: term.Previous(),
		Next:     term.Next(),
		From:     from,
	}
	if finder == nil {
		return out
	}

	at, err := finder.SolarLongitudeCrossing(from, out.Next.Longitude())
	if err != nil {
		return Unavailable(from, fmt.Errorf("locating %s: %w", out.Next.Name(), err))
	}
	out.NextAt = at
	return out
}
