// Package config loads the report settings from defaults, an optional YAML
// file, environment variables and command line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Keys shared by the environment, the YAML file and the command line.
const (
	KeyConfig    = "config"
	KeyLatitude  = "latitude"
	KeyLongitude = "longitude"
	KeyTimezone  = "timezone"
	KeyEphemeris = "ephemeris"
	KeyTime      = "time"
	KeyDebug     = "debug"
	KeyHTML      = "output.html"
	KeyMarkdown  = "output.markdown"
	KeyMetrics   = "output.metrics"
	KeyTemplates = "output.templates"
)

var (
	ErrInvalidLatitude  = errors.New("latitude must be a number between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be a number between -180 and 180")
	ErrInvalidTime      = errors.New("time must be in RFC3339 format")
	ErrInvalidEphemeris = errors.New("unknown ephemeris")
	ErrNoHTML           = errors.New("an HTML output path is required")
)

// Ephemeris backends accepted in KeyEphemeris.
var Ephemerides = []string{"meeus", "approximate"}

// Config is the validated configuration for one run.
type Config struct {
	Latitude  float64
	Longitude float64
	Timezone  string
	Ephemeris string
	Debug     bool

	// Time overrides the clock when non-zero.
	Time time.Time

	Output Output
}

// Output lists the files a run writes. Empty Markdown and Metrics paths
// disable those files.
type Output struct {
	HTML      string
	Markdown  string
	Metrics   string
	Templates string // directory overriding the built-in templates
}

type envBinding struct {
	key string
	env string
}

// The location variables keep the names the report has always read.
var envBindings = []envBinding{
	{KeyLatitude, "LAT"},
	{KeyLongitude, "LON"},
	{KeyTimezone, "TZ"},
	{KeyEphemeris, "MOONREPORT_EPHEMERIS"},
	{KeyTime, "MOONREPORT_TIME"},
	{KeyDebug, "MOONREPORT_DEBUG"},
	{KeyHTML, "MOONREPORT_HTML"},
	{KeyMarkdown, "MOONREPORT_MARKDOWN"},
	{KeyMetrics, "MOONREPORT_METRICS"},
	{KeyTemplates, "MOONREPORT_TEMPLATES"},
	{KeyConfig, "MOONREPORT_CONFIG"},
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLatitude, 25.0330)
	v.SetDefault(KeyLongitude, 121.5654)
	v.SetDefault(KeyTimezone, "Asia/Taipei")
	v.SetDefault(KeyEphemeris, "meeus")
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyHTML, "index.html")
	v.SetDefault(KeyMarkdown, "")
	v.SetDefault(KeyMetrics, "")
	v.SetDefault(KeyTemplates, "")
}

// BindEnv binds every key to its environment variable on v.
func BindEnv(v *viper.Viper) error {
	for _, b := range envBindings {
		if err := v.BindEnv(b.key, b.env); err != nil {
			return fmt.Errorf("binding %s: %w", b.env, err)
		}
	}
	return nil
}

// New returns a viper instance with defaults and environment bindings in
// place. Flags can be bound to it before Load is called.
func New() (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	if err := BindEnv(v); err != nil {
		return nil, err
	}
	return v, nil
}

// Load reads the optional config file named by KeyConfig and returns the
// validated configuration.
func Load(v *viper.Viper) (*Config, error) {
	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	lat, err := parseRange(v.GetString(KeyLatitude), 90)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLatitude, err)
	}
	lon, err := parseRange(v.GetString(KeyLongitude), 180)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLongitude, err)
	}

	c := &Config{
		Latitude:  lat,
		Longitude: lon,
		Timezone:  strings.TrimSpace(v.GetString(KeyTimezone)),
		Ephemeris: strings.ToLower(strings.TrimSpace(v.GetString(KeyEphemeris))),
		Debug:     v.GetBool(KeyDebug),
		Output: Output{
			HTML:      v.GetString(KeyHTML),
			Markdown:  v.GetString(KeyMarkdown),
			Metrics:   v.GetString(KeyMetrics),
			Templates: v.GetString(KeyTemplates),
		},
	}

	if raw := strings.TrimSpace(v.GetString(KeyTime)); raw != "" {
		c.Time, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTime, err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the fields that can be checked without loading anything.
// Timezone names are checked when the observation is resolved.
func (c *Config) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w, got %g", ErrInvalidLatitude, c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w, got %g", ErrInvalidLongitude, c.Longitude)
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	valid := false
	for _, e := range Ephemerides {
		if c.Ephemeris == e {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("%w %q, use one of %s", ErrInvalidEphemeris, c.Ephemeris, strings.Join(Ephemerides, ", "))
	}
	if c.Output.HTML == "" {
		return ErrNoHTML
	}
	return nil
}

func parseRange(raw string, limit float64) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if f < -limit || f > limit {
		return 0, fmt.Errorf("got %g", f)
	}
	return f, nil
}
