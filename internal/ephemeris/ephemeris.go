// Package ephemeris supplies the raw angles the report is built from: where
// the Moon and Sun are for an observer at an instant.
package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/chrissnell/moonreport/internal/observation"
	"github.com/chrissnell/moonreport/pkg/lunar"
)

// ErrNonFinite is returned when a computed angle is NaN or infinite.
var ErrNonFinite = errors.New("ephemeris produced a non-finite value")

// Provider computes a Sample for an observation.
type Provider interface {
	Name() string
	Sample(ctx context.Context, obs observation.Observation) (Sample, error)
}

// Sample holds the angles for one observation. All angles are in degrees.
type Sample struct {
	IlluminationPct  float64 // lit fraction of the disc, 0-100
	PhaseAngleDeg    float64 // Sun-Moon-Earth angle
	ElongationDeg    float64 // moon minus sun ecliptic longitude, [0,360)
	MoonAltitudeDeg  float64
	MoonAzimuthDeg   float64 // from north through east, [0,360)
	SunLongitudeDeg  float64 // apparent ecliptic longitude, [0,360)
	MoonLongitudeDeg float64
	MoonLatitudeDeg  float64
	MoonDistanceKm   float64 // zero when the backend does not compute it
	BrightLimbDeg    float64 // position angle of the bright limb from north through east
	ParallacticDeg   float64
	Waxing           bool
}

// New returns the provider registered under name.
func New(name string) (Provider, error) {
	switch name {
	case "", MeeusName:
		return Meeus{}, nil
	case ApproximateName:
		return Approximate{}, nil
	default:
		return nil, fmt.Errorf("unknown ephemeris %q: use %q or %q", name, MeeusName, ApproximateName)
	}
}

func (s Sample) validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"illumination", s.IlluminationPct},
		{"phase angle", s.PhaseAngleDeg},
		{"elongation", s.ElongationDeg},
		{"moon altitude", s.MoonAltitudeDeg},
		{"moon azimuth", s.MoonAzimuthDeg},
		{"sun longitude", s.SunLongitudeDeg},
		{"moon longitude", s.MoonLongitudeDeg},
		{"moon latitude", s.MoonLatitudeDeg},
		{"moon distance", s.MoonDistanceKm},
		{"bright limb", s.BrightLimbDeg},
		{"parallactic angle", s.ParallacticDeg},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s", ErrNonFinite, f.name)
		}
	}
	return nil
}

// wrap180 wraps an angle into [-180,180).
func wrap180(deg float64) float64 {
	return lunar.NormalizeAngle(deg+180) - 180
}
