package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"

	"github.com/chrissnell/moonreport/internal/config"
	"github.com/chrissnell/moonreport/internal/ephemeris"
	"github.com/chrissnell/moonreport/internal/log"
	"github.com/chrissnell/moonreport/internal/metrics"
	"github.com/chrissnell/moonreport/internal/observation"
	"github.com/chrissnell/moonreport/internal/output"
	"github.com/chrissnell/moonreport/internal/report"
	"github.com/chrissnell/moonreport/internal/sunevents"
	"github.com/chrissnell/moonreport/pkg/lunisolar"
	"github.com/chrissnell/moonreport/pkg/solarterm"
)

// phaseFinder is implemented by providers that can list upcoming phases.
type phaseFinder interface {
	NextPhases(from time.Time) []ephemeris.PhaseEvent
}

// App represents one report run
type App struct {
	cfg      *config.Config
	clock    clockwork.Clock
	fs       afero.Fs
	provider ephemeris.Provider
	stdout   io.Writer

	print         bool
	terminalStyle string
}

// Option configures an App.
type Option func(*App)

// WithClock sets the time source used when no instant is configured.
func WithClock(c clockwork.Clock) Option {
	return func(a *App) { a.clock = c }
}

// WithFs sets the filesystem the report files are written to.
func WithFs(fs afero.Fs) Option {
	return func(a *App) { a.fs = fs }
}

// WithProvider replaces the ephemeris named in the configuration.
func WithProvider(p ephemeris.Provider) Option {
	return func(a *App) { a.provider = p }
}

// WithTerminal prints the report to w after the files are written. An empty
// style is chosen from the terminal background.
func WithTerminal(w io.Writer, style string) Option {
	return func(a *App) {
		a.print = true
		a.stdout = w
		a.terminalStyle = style
	}
}

// New creates a new application instance
func New(cfg *config.Config, opts ...Option) *App {
	a := &App{
		cfg:    cfg,
		clock:  clockwork.NewRealClock(),
		fs:     afero.NewOsFs(),
		stdout: os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run computes the report once and writes the configured files. Nothing is
// written unless every file rendered successfully.
func (a *App) Run(ctx context.Context) error {
	l := log.With("run_id", uuid.NewString())

	obs, err := observation.NewResolver(a.clock).Resolve(a.cfg.Latitude, a.cfg.Longitude, a.cfg.Timezone, a.cfg.Time)
	if err != nil {
		return err
	}

	provider := a.provider
	if provider == nil {
		if provider, err = ephemeris.New(a.cfg.Ephemeris); err != nil {
			return err
		}
	}
	l.Debugw("observation resolved",
		"latitude", obs.Latitude,
		"longitude", obs.Longitude,
		"instant", obs.Instant.Format(time.RFC3339),
		"ephemeris", provider.Name())

	sample, err := provider.Sample(ctx, obs)
	if err != nil {
		return fmt.Errorf("computing %s ephemeris: %w", provider.Name(), err)
	}

	in := report.Input{
		Observation: obs,
		Sample:      sample,
		Ephemeris:   provider.Name(),
	}

	finder, _ := provider.(solarterm.NextFinder)
	in.SolarTerm = solarterm.Classify(sample.SunLongitudeDeg, obs.Instant, finder)
	if !in.SolarTerm.Available() {
		l.Warnw("solar term unavailable", "error", in.SolarTerm.Err)
	}

	if date, err := lunisolar.FromTime(obs.Instant); err != nil {
		l.Warnw("lunar date unavailable", "error", err)
	} else {
		in.LunarDate = &date
	}

	in.Sun, err = sunevents.Compute(obs)
	if err != nil {
		l.Debugw("some sun events do not occur", "error", err)
	}

	if pf, ok := provider.(phaseFinder); ok {
		in.Phases = pf.NextPhases(obs.Instant)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	r, err := report.Build(in)
	if err != nil {
		return err
	}

	files, err := a.render(r, in)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := output.New(a.fs).WriteAll(files...); err != nil {
		return err
	}
	for _, f := range files {
		l.Infow("report written", "path", f.Path, "bytes", len(f.Data))
	}

	if a.print {
		return a.printTerminal(r)
	}
	return nil
}

// render produces every configured file in memory.
func (a *App) render(r *report.Report, in report.Input) ([]output.File, error) {
	assets := report.Templates(a.cfg.Output.Templates)

	html, err := report.NewHTML(assets)
	if err != nil {
		return nil, err
	}
	page, err := html.Render(r)
	if err != nil {
		return nil, err
	}
	files := []output.File{{Path: a.cfg.Output.HTML, Data: page}}

	if a.cfg.Output.Markdown != "" {
		md, err := report.NewMarkdown(assets)
		if err != nil {
			return nil, err
		}
		doc, err := md.Render(r)
		if err != nil {
			return nil, err
		}
		files = append(files, output.File{Path: a.cfg.Output.Markdown, Data: doc})
	}

	if a.cfg.Output.Metrics != "" {
		m := metrics.New()
		m.Observe(in.Observation.Instant, in.Sample, in.SolarTerm)
		text, err := m.Textfile()
		if err != nil {
			return nil, err
		}
		files = append(files, output.File{Path: a.cfg.Output.Metrics, Data: text})
	}

	return files, nil
}

func (a *App) printTerminal(r *report.Report) error {
	md, err := report.NewMarkdown(report.Templates(a.cfg.Output.Templates))
	if err != nil {
		return err
	}
	term, err := report.NewTerminal(md, a.terminalStyle, 80)
	if err != nil {
		return err
	}
	out, err := term.Render(r)
	if err != nil {
		return err
	}
	_, err = a.stdout.Write(out)
	return err
}
