package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrissnell/moonreport/internal/ephemeris"
	"github.com/chrissnell/moonreport/pkg/solarterm"
)

func TestObserve(t *testing.T) {
	m := New()
	at := time.Date(2024, 5, 23, 4, 0, 0, 0, time.UTC)
	s := ephemeris.Sample{
		IlluminationPct: 48.3,
		MoonAltitudeDeg: -12.5,
		MoonAzimuthDeg:  271,
		PhaseAngleDeg:   91.9,
		SunLongitudeDeg: 62.1,
		MoonDistanceKm:  384400,
	}

	m.Observe(at, s, solarterm.Outcome{Term: solarterm.GrainBuds})

	assert.Equal(t, 48.3, testutil.ToFloat64(m.Illumination))
	assert.Equal(t, -12.5, testutil.ToFloat64(m.Altitude))
	assert.Equal(t, 271.0, testutil.ToFloat64(m.Azimuth))
	assert.Equal(t, 62.1, testutil.ToFloat64(m.SunLongitude))
	assert.Equal(t, 384400.0, testutil.ToFloat64(m.Distance))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SolarTermKnown))
	assert.Equal(t, float64(at.Unix()), testutil.ToFloat64(m.LastRun))

	m.Observe(at, s, solarterm.Unavailable(at, errors.New("boom")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SolarTermKnown))
}

func TestTextfile(t *testing.T) {
	m := New()
	m.Observe(time.Unix(1716436800, 0), ephemeris.Sample{IlluminationPct: 48.3}, solarterm.Outcome{})

	out, err := m.Textfile()
	require.NoError(t, err)
	text := string(out)

	for _, want := range []string{
		"# TYPE moonreport_moon_illumination_percent gauge",
		"moonreport_moon_illumination_percent 48.3",
		"moonreport_solar_term_available 1",
		"moonreport_last_run_timestamp_seconds 1.7164368e+09",
	} {
		assert.Contains(t, text, want)
	}
	assert.Equal(t, 8, strings.Count(text, "# TYPE "))
}
