package ephemeris

import (
	"context"

	"github.com/chrissnell/moonreport/internal/observation"
	"github.com/chrissnell/moonreport/pkg/lunar"
)

// ApproximateName selects the low-precision backend.
const ApproximateName = "approximate"

// Approximate computes samples from the truncated series in pkg/lunar. It is
// good to about a degree, has no distance or parallax, and cannot search for
// future events.
type Approximate struct{}

// Name implements Provider.
func (Approximate) Name() string { return ApproximateName }

// Sample implements Provider.
func (Approximate) Sample(ctx context.Context, obs observation.Observation) (Sample, error) {
	if err := ctx.Err(); err != nil {
		return Sample{}, err
	}

	t := obs.UT()
	phase := lunar.Calculate(t)
	sunLon, moonLon := lunar.EclipticLongitudes(t)
	pos := lunar.CalculatePosition(t, obs.Latitude, obs.Longitude)
	crescent := lunar.CalculateCrescentAngle(t, obs.Latitude, obs.Longitude)

	s := Sample{
		IlluminationPct:  phase.Illumination * 100,
		PhaseAngleDeg:    crescent.PhaseAngle,
		ElongationDeg:    phase.Elongation,
		MoonAltitudeDeg:  pos.AltitudeDeg,
		MoonAzimuthDeg:   pos.AzimuthDeg,
		SunLongitudeDeg:  sunLon,
		MoonLongitudeDeg: moonLon,
		BrightLimbDeg:    crescent.BrightLimbAngle,
		ParallacticDeg:   crescent.ParallacticAngle,
		Waxing:           phase.IsWaxing,
	}
	if err := s.validate(); err != nil {
		return Sample{}, err
	}
	return s, nil
}
