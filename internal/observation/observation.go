// Package observation resolves where and when the sky is being observed.
package observation

import (
	"errors"
	"fmt"
	"math"
	"time"
	// Zone names must resolve on hosts without a zoneinfo database
	_ "time/tzdata"

	"github.com/jonboulle/clockwork"
)

var (
	ErrInvalidLatitude  = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180")
	ErrInvalidTimezone  = errors.New("unknown timezone")
)

// Observation is an observer location and the instant being observed.
type Observation struct {
	Latitude  float64 // degrees, north positive
	Longitude float64 // degrees, east positive
	Location  *time.Location
	Instant   time.Time // expressed in Location
}

// UT returns the observation instant in universal time.
func (o Observation) UT() time.Time {
	return o.Instant.UTC()
}

// LocalDate returns the civil date at the observer.
func (o Observation) LocalDate() (year int, month time.Month, day int) {
	return o.Instant.Date()
}

// Resolver builds observations from configured coordinates and a clock.
type Resolver struct {
	clock clockwork.Clock
}

// NewResolver returns a Resolver reading the current time from clock. A nil
// clock uses the real wall clock.
func NewResolver(clock clockwork.Clock) *Resolver {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Resolver{clock: clock}
}

// Resolve validates the coordinates, loads the IANA timezone and stamps the
// observation with the clock's current time, or with at when it is non-zero.
func (r *Resolver) Resolve(lat, lon float64, tz string, at time.Time) (Observation, error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return Observation{}, fmt.Errorf("%w, got %g", ErrInvalidLatitude, lat)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return Observation{}, fmt.Errorf("%w, got %g", ErrInvalidLongitude, lon)
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Observation{}, fmt.Errorf("%w %q: %w", ErrInvalidTimezone, tz, err)
	}

	instant := at
	if instant.IsZero() {
		instant = r.clock.Now()
	}

	return Observation{
		Latitude:  lat,
		Longitude: lon,
		Location:  loc,
		Instant:   instant.In(loc),
	}, nil
}
