// Package sunevents computes civil twilight, sunrise and sunset for the
// observer's local date.
package sunevents

import (
	"errors"
	"fmt"
	"time"

	"github.com/sj14/astral/pkg/astral"

	"github.com/chrissnell/moonreport/internal/observation"
)

// ErrNoEvent is returned when the Sun does not cross the required altitude
// on the requested date, as happens in polar day and night.
var ErrNoEvent = errors.New("sun event does not occur")

// Times holds the sun events of one day in the observer's location. An
// event that does not occur is left zero.
type Times struct {
	CivilDawn time.Time
	Sunrise   time.Time
	Sunset    time.Time
	CivilDusk time.Time
}

// DayLength returns the time between sunrise and sunset, or zero when either
// is missing.
func (t Times) DayLength() time.Duration {
	if t.Sunrise.IsZero() || t.Sunset.IsZero() {
		return 0
	}
	return t.Sunset.Sub(t.Sunrise)
}

// Compute returns the sun events for the local date of obs. Events that do
// not occur are reported together in the returned error, while the events
// that do occur are still filled in.
func Compute(obs observation.Observation) (Times, error) {
	observer := astral.Observer{Latitude: obs.Latitude, Longitude: obs.Longitude}
	y, m, d := obs.LocalDate()
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	var times Times
	var errs []error
	events := []struct {
		name string
		dst  *time.Time
		fn   func() (time.Time, error)
	}{
		{"civil dawn", &times.CivilDawn, func() (time.Time, error) {
			return astral.Dawn(observer, date, astral.DepressionCivil)
		}},
		{"sunrise", &times.Sunrise, func() (time.Time, error) { return astral.Sunrise(observer, date) }},
		{"sunset", &times.Sunset, func() (time.Time, error) { return astral.Sunset(observer, date) }},
		{"civil dusk", &times.CivilDusk, func() (time.Time, error) {
			return astral.Dusk(observer, date, astral.DepressionCivil)
		}},
	}

	for _, ev := range events {
		at, err := ev.fn()
		if err == nil && !plausible(at, date) {
			err = ErrNoEvent
		}
		if err != nil {
			if !errors.Is(err, ErrNoEvent) {
				err = fmt.Errorf("%w: %w", ErrNoEvent, err)
			}
			errs = append(errs, fmt.Errorf("%s: %w", ev.name, err))
			continue
		}
		*ev.dst = at.In(obs.Location)
	}
	return times, errors.Join(errs...)
}

// plausible rejects results that fall outside the UTC day around date, which
// is what the underlying solver yields when the Sun never crosses.
func plausible(at, date time.Time) bool {
	return !at.IsZero() && at.After(date.Add(-36*time.Hour)) && at.Before(date.Add(60*time.Hour))
}
