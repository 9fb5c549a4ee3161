package app

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/chrissnell/moonreport/internal/config"
	"github.com/chrissnell/moonreport/internal/ephemeris"
	"github.com/chrissnell/moonreport/internal/log"
	"github.com/chrissnell/moonreport/internal/observation"
)

func TestMain(m *testing.M) {
	log.SetLogger(zap.NewNop())
	goleak.VerifyTestMain(m)
}

// fixedProvider returns the same sample for every observation.
type fixedProvider struct {
	sample ephemeris.Sample
	err    error
	seen   []observation.Observation
}

func (p *fixedProvider) Name() string { return "fixed" }

func (p *fixedProvider) Sample(_ context.Context, obs observation.Observation) (ephemeris.Sample, error) {
	p.seen = append(p.seen, obs)
	return p.sample, p.err
}

func testConfig() *config.Config {
	return &config.Config{
		Latitude:  25.0330,
		Longitude: 121.5654,
		Timezone:  "Asia/Taipei",
		Ephemeris: "meeus",
		Output: config.Output{
			HTML:     "/www/index.html",
			Markdown: "/www/moon.md",
			Metrics:  "/prom/moon.prom",
		},
	}
}

var noon = time.Date(2024, 5, 23, 4, 0, 0, 0, time.UTC)

func mockedSample() ephemeris.Sample {
	return ephemeris.Sample{
		IlluminationPct: 48.3,
		PhaseAngleDeg:   91.9,
		ElongationDeg:   88.1,
		MoonAltitudeDeg: 35.2,
		MoonAzimuthDeg:  130,
		SunLongitudeDeg: 62.1,
		Waxing:          true,
	}
}

func TestRun_MockedSample(t *testing.T) {
	fs := afero.NewMemMapFs()
	p := &fixedProvider{sample: mockedSample()}
	a := New(testConfig(), WithClock(clockwork.NewFakeClockAt(noon)), WithFs(fs), WithProvider(p))

	require.NoError(t, a.Run(context.Background()))

	require.Len(t, p.seen, 1)
	assert.Equal(t, "Asia/Taipei", p.seen[0].Location.String())
	assert.Equal(t, 12, p.seen[0].Instant.Hour())

	page, err := afero.ReadFile(fs, "/www/index.html")
	require.NoError(t, err)
	for _, want := range []string{"48.3%", "雙子座", "小滿", "上弦月", "2024年4月16日"} {
		assert.Contains(t, string(page), want)
	}

	md, err := afero.ReadFile(fs, "/www/moon.md")
	require.NoError(t, err)
	assert.Contains(t, string(md), "| 節氣 | 小滿 |")

	prom, err := afero.ReadFile(fs, "/prom/moon.prom")
	require.NoError(t, err)
	assert.Contains(t, string(prom), "moonreport_moon_illumination_percent 48.3")
	// The fixed provider cannot search for the next term, which is not an error
	assert.Contains(t, string(prom), "moonreport_solar_term_available 1")

	// Same inputs, same page
	require.NoError(t, a.Run(context.Background()))
	again, err := afero.ReadFile(fs, "/www/index.html")
	require.NoError(t, err)
	assert.Equal(t, page, again)
}

func TestRun_EachRunHasOneRunID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log.SetLogger(zap.New(core))
	t.Cleanup(func() { log.SetLogger(zap.NewNop()) })

	cfg := testConfig()
	cfg.Output.Markdown = ""
	cfg.Output.Metrics = ""
	a := New(cfg, WithClock(clockwork.NewFakeClockAt(noon)), WithFs(afero.NewMemMapFs()), WithProvider(&fixedProvider{sample: mockedSample()}))
	require.NoError(t, a.Run(context.Background()))
	require.NoError(t, a.Run(context.Background()))

	written := logs.FilterMessage("report written").All()
	require.Len(t, written, 2)
	var ids []string
	for _, e := range written {
		n := 0
		for _, f := range e.Context {
			if f.Key == "run_id" {
				n++
			}
		}
		assert.Equal(t, 1, n)
		ids = append(ids, e.ContextMap()["run_id"].(string))
	}
	assert.NotEqual(t, ids[0], ids[1])
}

func TestRun_MeeusEndToEnd(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := testConfig()
	cfg.Time = time.Date(2024, 5, 23, 12, 0, 0, 0, time.FixedZone("", 8*3600))
	var out bytes.Buffer

	a := New(cfg, WithFs(fs), WithTerminal(&out, "notty"))
	require.NoError(t, a.Run(context.Background()))

	page, err := afero.ReadFile(fs, "/www/index.html")
	require.NoError(t, err)
	for _, want := range []string{"滿月", "雙子座", "小滿", "下一個 芒種", "地平線下"} {
		assert.Contains(t, string(page), want)
	}
	assert.Contains(t, out.String(), "月相報告")
}

func TestRun_SkipsOptionalOutputs(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := testConfig()
	cfg.Output.Markdown = ""
	cfg.Output.Metrics = ""

	a := New(cfg, WithClock(clockwork.NewFakeClockAt(noon)), WithFs(fs), WithProvider(&fixedProvider{sample: mockedSample()}))
	require.NoError(t, a.Run(context.Background()))

	exists, _ := afero.Exists(fs, "/www/index.html")
	assert.True(t, exists)
	exists, _ = afero.Exists(fs, "/www/moon.md")
	assert.False(t, exists)
	exists, _ = afero.Exists(fs, "/prom/moon.prom")
	assert.False(t, exists)
}

func TestRun_FailuresLeaveFilesUntouched(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		p      *fixedProvider
		ctx    func() context.Context
	}{
		{
			name:   "bad timezone",
			mutate: func(c *config.Config) { c.Timezone = "Moon/Tranquility" },
			p:      &fixedProvider{sample: mockedSample()},
		},
		{
			name: "ephemeris failure",
			p:    &fixedProvider{err: ephemeris.ErrNonFinite},
		},
		{
			name: "cancelled",
			p:    &fixedProvider{sample: mockedSample()},
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "/www/index.html", []byte("previous"), 0o644))

			cfg := testConfig()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			ctx := context.Background()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}

			a := New(cfg, WithClock(clockwork.NewFakeClockAt(noon)), WithFs(fs), WithProvider(tt.p))
			require.Error(t, a.Run(ctx))

			page, err := afero.ReadFile(fs, "/www/index.html")
			require.NoError(t, err)
			assert.Equal(t, "previous", string(page))
		})
	}
}

func TestRun_UnknownEphemeris(t *testing.T) {
	cfg := testConfig()
	cfg.Ephemeris = "jpl"
	err := New(cfg, WithClock(clockwork.NewFakeClockAt(noon)), WithFs(afero.NewMemMapFs())).Run(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, context.Canceled))
}
