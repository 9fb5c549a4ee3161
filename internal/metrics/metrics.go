// Package metrics exposes the last report's values in the Prometheus text
// format, for a node_exporter textfile collector to pick up.
package metrics

import (
	"bytes"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/chrissnell/moonreport/internal/ephemeris"
	"github.com/chrissnell/moonreport/pkg/solarterm"
)

const namespace = "moonreport"

// Metrics holds the gauges written after each run.
type Metrics struct {
	registry *prometheus.Registry

	Illumination   prometheus.Gauge
	Altitude       prometheus.Gauge
	Azimuth        prometheus.Gauge
	PhaseAngle     prometheus.Gauge
	SunLongitude   prometheus.Gauge
	Distance       prometheus.Gauge
	SolarTermKnown prometheus.Gauge
	LastRun        prometheus.Gauge
}

// New creates the gauges on a private registry, so the textfile carries only
// report values and repeated construction in tests does not collide.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Illumination: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "moon_illumination_percent",
			Help:      "Illuminated fraction of the Moon's disc, 0-100.",
		}),
		Altitude: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "moon_altitude_degrees",
			Help:      "Apparent altitude of the Moon above the horizon.",
		}),
		Azimuth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "moon_azimuth_degrees",
			Help:      "Azimuth of the Moon from north through east.",
		}),
		PhaseAngle: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "moon_phase_angle_degrees",
			Help:      "Sun-Moon-Earth angle.",
		}),
		SunLongitude: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sun_longitude_degrees",
			Help:      "Apparent ecliptic longitude of the Sun.",
		}),
		Distance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "moon_distance_kilometers",
			Help:      "Earth-Moon distance, 0 when the ephemeris does not provide it.",
		}),
		SolarTermKnown: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "solar_term_available",
			Help:      "1 when the solar term was determined, 0 otherwise.",
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the observation the report was built for.",
		}),
	}

	m.registry.MustRegister(
		m.Illumination,
		m.Altitude,
		m.Azimuth,
		m.PhaseAngle,
		m.SunLongitude,
		m.Distance,
		m.SolarTermKnown,
		m.LastRun,
	)
	return m
}

// Observe sets every gauge from one run.
func (m *Metrics) Observe(at time.Time, s ephemeris.Sample, term solarterm.Outcome) {
	m.Illumination.Set(s.IlluminationPct)
	m.Altitude.Set(s.MoonAltitudeDeg)
	m.Azimuth.Set(s.MoonAzimuthDeg)
	m.PhaseAngle.Set(s.PhaseAngleDeg)
	m.SunLongitude.Set(s.SunLongitudeDeg)
	m.Distance.Set(s.MoonDistanceKm)
	if term.Available() {
		m.SolarTermKnown.Set(1)
	} else {
		m.SolarTermKnown.Set(0)
	}
	m.LastRun.Set(float64(at.Unix()))
}

// Textfile returns the registry in the Prometheus text exposition format.
func (m *Metrics) Textfile() ([]byte, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gathering metrics: %w", err)
	}

	var buf bytes.Buffer
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", mf.GetName(), err)
		}
	}
	return buf.Bytes(), nil
}
