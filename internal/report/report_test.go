package report

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrissnell/moonreport/internal/ephemeris"
	"github.com/chrissnell/moonreport/internal/observation"
	"github.com/chrissnell/moonreport/internal/sunevents"
	"github.com/chrissnell/moonreport/pkg/direction"
	"github.com/chrissnell/moonreport/pkg/lunar"
	"github.com/chrissnell/moonreport/pkg/lunisolar"
	"github.com/chrissnell/moonreport/pkg/solarterm"
	"github.com/chrissnell/moonreport/pkg/zodiac"
)

var taipei = time.FixedZone("Asia/Taipei", 8*3600)

// crossingAt always answers with the same instant.
type crossingAt time.Time

func (c crossingAt) SolarLongitudeCrossing(time.Time, float64) (time.Time, error) {
	return time.Time(c), nil
}

type failingFinder struct{}

func (failingFinder) SolarLongitudeCrossing(time.Time, float64) (time.Time, error) {
	return time.Time{}, errors.New("no convergence")
}

func fixture(t *testing.T) Input {
	t.Helper()
	now := time.Date(2024, 5, 23, 12, 0, 0, 0, taipei)
	obs := observation.Observation{Latitude: 25.0330, Longitude: 121.5654, Location: taipei, Instant: now}
	sample := ephemeris.Sample{
		IlluminationPct:  48.3,
		PhaseAngleDeg:    91.9,
		ElongationDeg:    88.1,
		MoonAltitudeDeg:  35.26,
		MoonAzimuthDeg:   130.04,
		SunLongitudeDeg:  62.1,
		MoonLongitudeDeg: 150.2,
		MoonDistanceKm:   384400.4,
		BrightLimbDeg:    250,
		ParallacticDeg:   -20,
		Waxing:           true,
	}
	date, err := lunisolar.FromTime(now)
	require.NoError(t, err)

	return Input{
		Observation: obs,
		Sample:      sample,
		SolarTerm:   solarterm.Classify(sample.SunLongitudeDeg, now, crossingAt(time.Date(2024, 6, 5, 8, 10, 0, 0, time.UTC))),
		Ephemeris:   "meeus",
		LunarDate:   &date,
		Sun: sunevents.Times{
			CivilDawn: time.Date(2024, 5, 22, 20, 41, 0, 0, time.UTC),
			Sunrise:   time.Date(2024, 5, 22, 21, 6, 0, 0, time.UTC),
			Sunset:    time.Date(2024, 5, 23, 10, 37, 0, 0, time.UTC),
		},
		Phases: []ephemeris.PhaseEvent{
			{Shape: lunar.Full, At: time.Date(2024, 5, 23, 13, 53, 0, 0, time.UTC)},
		},
	}
}

func renderers(t *testing.T) (*HTML, *Markdown) {
	t.Helper()
	h, err := NewHTML(Templates(""))
	require.NoError(t, err)
	m, err := NewMarkdown(Templates(""))
	require.NoError(t, err)
	return h, m
}

func TestBuild_Classifications(t *testing.T) {
	r, err := Build(fixture(t))
	require.NoError(t, err)

	assert.Equal(t, zodiac.Gemini, r.Zodiac)
	assert.Equal(t, "小滿", r.SolarTerm)
	assert.True(t, r.SolarTermKnown)
	assert.Equal(t, "立夏", r.PreviousTerm)
	assert.Equal(t, "芒種", r.NextTerm)
	assert.Equal(t, "06-05 16:10", r.NextTermAt)
	assert.Equal(t, lunar.FirstQuarter, r.Shape)
	assert.Equal(t, direction.Up, r.Vertical)
	assert.Equal(t, direction.East, r.Horizontal)
	assert.Equal(t, "SE", r.Cardinal)
	assert.Equal(t, 48.3, r.Illumination)
	assert.Equal(t, 35.3, r.Altitude)
	assert.Equal(t, 130.0, r.Azimuth)
	assert.Equal(t, 384400.0, r.DistanceKm)
	assert.Equal(t, "2024年4月16日", r.Lunar)
	assert.Equal(t, "甲辰年（龍）", r.LunarYear)
	assert.Equal(t, "2024-05-23 12:00:00", r.Updated)
}

func TestBuild_SunAndPhaseLines(t *testing.T) {
	r, err := Build(fixture(t))
	require.NoError(t, err)

	wantSun := []TimeLine{
		{"民用晨光", "04:41"},
		{"日出", "05:06"},
		{"日落", "18:37"},
		{"民用暮光", Unavailable},
	}
	if diff := cmp.Diff(wantSun, r.Sun); diff != "" {
		t.Errorf("sun lines mismatch (-want +got):\n%s", diff)
	}

	wantPhases := []PhaseLine{{Shape: lunar.Full, At: "05-23 21:53"}}
	if diff := cmp.Diff(wantPhases, r.Phases); diff != "" {
		t.Errorf("phase lines mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_RejectsNonFiniteLongitude(t *testing.T) {
	in := fixture(t)
	in.Sample.SunLongitudeDeg = math.NaN()
	_, err := Build(in)
	assert.ErrorIs(t, err, zodiac.ErrInvalidLongitude)
}

func TestBuild_Disc(t *testing.T) {
	in := fixture(t)
	r, err := Build(in)
	require.NoError(t, err)
	assert.InDelta(t, 48.3, r.Disc.LitWidth, 1e-9)
	assert.NotEmpty(t, r.DiscPath)
	assert.InDelta(t, lunar.IconRotation(250, -20), r.DiscRotation, 0.05)

	in.Sample.IlluminationPct = 0
	r, err = Build(in)
	require.NoError(t, err)
	assert.Empty(t, r.DiscPath)
}

func TestRender_EndToEnd(t *testing.T) {
	h, m := renderers(t)
	r, err := Build(fixture(t))
	require.NoError(t, err)

	page, err := h.Render(r)
	require.NoError(t, err)
	html := string(page)
	for _, want := range []string{
		`<html lang="zh-Hant">`,
		"2024-05-23 12:00:00",
		"2024年4月16日",
		"48.3%",
		"35.3°",
		"雙子座",
		"小滿",
		"芒種",
		"上弦月",
		"<path d=\"M 60.00 10.00",
		"rotate(",
	} {
		assert.Contains(t, html, want)
	}

	md, err := m.Render(r)
	require.NoError(t, err)
	for _, want := range []string{"# 🌙 月相報告", "| 星座 | ♊ 雙子座 |", "| 節氣 | 小滿 |", "地月距離：384400 km"} {
		assert.Contains(t, string(md), want)
	}

	// Rendering is a pure function of the report
	again, err := h.Render(r)
	require.NoError(t, err)
	assert.Equal(t, page, again)
}

func TestRender_SolarTermUnavailable(t *testing.T) {
	h, m := renderers(t)
	in := fixture(t)
	in.SolarTerm = solarterm.Classify(62.1, in.Observation.Instant, failingFinder{})
	require.False(t, in.SolarTerm.Available())
	in.LunarDate = nil

	r, err := Build(in)
	require.NoError(t, err)
	assert.Equal(t, Unavailable, r.SolarTerm)
	assert.Equal(t, Unavailable, r.Lunar)

	page, err := h.Render(r)
	require.NoError(t, err)
	assert.Contains(t, string(page), "<b>節氣：</b>無法判斷")
	assert.NotContains(t, string(page), "下一個")
	assert.NotContains(t, string(page), "小滿")

	md, err := m.Render(r)
	require.NoError(t, err)
	assert.Contains(t, string(md), "| 節氣 | 無法判斷 |")
	assert.Contains(t, string(md), "| 陰曆 | 無法判斷 |")
}

func TestTerminal(t *testing.T) {
	_, m := renderers(t)
	term, err := NewTerminal(m, "notty", 80)
	require.NoError(t, err)

	r, err := Build(fixture(t))
	require.NoError(t, err)
	out, err := term.Render(r)
	require.NoError(t, err)
	assert.Contains(t, string(out), "月相報告")
	assert.Contains(t, string(out), "雙子座")
}

func TestTemplates_DirectoryOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, htmlTemplate), []byte("<p>{{.Shape.Name}}</p>"), 0o644))

	h, err := NewHTML(Templates(dir))
	require.NoError(t, err)
	r, err := Build(fixture(t))
	require.NoError(t, err)

	page, err := h.Render(r)
	require.NoError(t, err)
	assert.Equal(t, "<p>上弦月</p>", strings.TrimSpace(string(page)))

	// A missing directory falls back to the embedded templates
	_, err = NewHTML(Templates(filepath.Join(dir, "missing")))
	assert.NoError(t, err)
}
