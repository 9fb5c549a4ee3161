package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrissnell/moonreport/internal/app"
	"github.com/chrissnell/moonreport/internal/config"
	"github.com/chrissnell/moonreport/internal/log"
)

func newRootCmd() *cobra.Command {
	v, err := config.New()
	if err != nil {
		// Binding fixed names to a fresh viper cannot fail
		panic(err)
	}

	var printReport bool
	cmd := &cobra.Command{
		Use:   "moonreport",
		Short: "Write a moon phase report for one location",
		Long: `moonreport computes the Moon's illumination, altitude and azimuth, the
lunar date, the zodiac sign and the solar term for one location and writes
them as an HTML page, optionally with a Markdown report and a Prometheus
textfile.

Settings come from flags, then the environment (LAT, LON, TZ and the
MOONREPORT_* variables), then the --config YAML file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			if err := log.Init(cfg.Debug); err != nil {
				return err
			}
			defer log.Sync()

			var opts []app.Option
			if printReport {
				opts = append(opts, app.WithTerminal(cmd.OutOrStdout(), ""))
			}
			if err := app.New(cfg, opts...).Run(cmd.Context()); err != nil {
				return fmt.Errorf("generating report: %w", err)
			}
			return nil
		},
	}

	f := cmd.PersistentFlags()
	f.String("config", "", "YAML configuration file")
	f.Bool("debug", false, "Turn on debugging output")

	f = cmd.Flags()
	f.Float64("lat", 0, "Observer latitude in degrees, north positive (env LAT)")
	f.Float64("lon", 0, "Observer longitude in degrees, east positive (env LON)")
	f.String("tz", "", "IANA timezone of the observer (env TZ)")
	f.String("html", "", "HTML output path (env MOONREPORT_HTML)")
	f.String("markdown", "", "Markdown output path, empty to skip (env MOONREPORT_MARKDOWN)")
	f.String("metrics", "", "Prometheus textfile path, empty to skip (env MOONREPORT_METRICS)")
	f.String("templates", "", "Directory with report templates overriding the built-in ones")
	f.String("ephemeris", "", "Ephemeris backend: meeus or approximate (env MOONREPORT_EPHEMERIS)")
	f.String("time", "", "Instant to report on instead of now, RFC3339 (env MOONREPORT_TIME)")
	f.BoolVar(&printReport, "print", false, "Also print the report to the terminal")

	bindFlags(v, cmd, map[string]string{
		config.KeyConfig:    "config",
		config.KeyDebug:     "debug",
		config.KeyLatitude:  "lat",
		config.KeyLongitude: "lon",
		config.KeyTimezone:  "tz",
		config.KeyHTML:      "html",
		config.KeyMarkdown:  "markdown",
		config.KeyMetrics:   "metrics",
		config.KeyTemplates: "templates",
		config.KeyEphemeris: "ephemeris",
		config.KeyTime:      "time",
	})

	cmd.AddCommand(newPhaseCmd(), newVersionCmd())
	return cmd
}

// bindFlags ties config keys to flags. Only flags set on the command line
// take precedence over the environment.
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			flag = cmd.PersistentFlags().Lookup(name)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			fmt.Fprintf(os.Stderr, "binding --%s: %v\n", name, err)
		}
	}
}
