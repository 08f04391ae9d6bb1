// Package config loads the settings of the gantt tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/gantt/gantt"
	"github.com/sarchlab/gantt/render"
	"github.com/sarchlab/gantt/telemetry"
	"github.com/sarchlab/gantt/tracing"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "GANTT_"

// Config holds the settings shared by all commands.
type Config struct {
	Input  string `yaml:"input"`  // Trace location, see tracing.Open
	Output string `yaml:"output"` // Chart location, local path or afs URL
	Format string `yaml:"format"` // Output format; empty infers it from Output
	Table  string `yaml:"table"`  // Trace table of SQL sources

	IdleProcess string   `yaml:"idle_process"`
	Title       string   `yaml:"title"`
	XLabel      string   `yaml:"x_label"`
	YLabel      string   `yaml:"y_label"`
	Palette     []string `yaml:"palette"`
	IdleColor   string   `yaml:"idle_color"`
	Width       int      `yaml:"width"`  // Pixels
	Height      int      `yaml:"height"` // Pixels

	Listen        string        `yaml:"listen"`
	OpenBrowser   bool          `yaml:"open_browser"`
	WatchInterval time.Duration `yaml:"watch_interval"`

	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	TraceOutput string `yaml:"trace_output"` // Span export file; empty disables tracing
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Input:         "gantt_chart.csv",
		Output:        "gantt_chart.svg",
		Table:         tracing.DefaultTable,
		IdleProcess:   tracing.DefaultIdleProcess,
		Title:         gantt.DefaultTitle,
		XLabel:        gantt.DefaultXLabel,
		YLabel:        gantt.DefaultYLabel,
		Palette:       append([]string(nil), gantt.DefaultColors...),
		IdleColor:     gantt.DefaultIdleColor,
		Width:         render.DefaultSize.Width,
		Height:        render.DefaultSize.Height,
		Listen:        "localhost:0",
		WatchInterval: 2 * time.Second,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// Load builds the configuration from the defaults, the YAML file at path,
// a .env file in the working directory and GANTT_* environment variables,
// each overriding the previous. An empty path skips the YAML file. A path
// that does not exist falls back to the defaults, and so does a missing
// .env file. A .env file that cannot be read or parsed is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return Config{}, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	if path == "" {
		return nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(content, c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	return nil
}

// ApplyEnv overrides settings from environment variables such as
// GANTT_INPUT or GANTT_OPEN_BROWSER. GANTT_PALETTE is a comma separated list.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"INPUT":        &c.Input,
		"OUTPUT":       &c.Output,
		"FORMAT":       &c.Format,
		"TABLE":        &c.Table,
		"IDLE_PROCESS": &c.IdleProcess,
		"TITLE":        &c.Title,
		"X_LABEL":      &c.XLabel,
		"Y_LABEL":      &c.YLabel,
		"IDLE_COLOR":   &c.IdleColor,
		"LISTEN":       &c.Listen,
		"LOG_LEVEL":    &c.LogLevel,
		"LOG_FORMAT":   &c.LogFormat,
		"TRACE_OUTPUT": &c.TraceOutput,
	}
	for key, field := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*field = v
		}
	}

	ints := map[string]*int{
		"WIDTH":  &c.Width,
		"HEIGHT": &c.Height,
	}
	for key, field := range ints {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}

		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s%s must be an integer", EnvPrefix, key)
		}

		*field = n
	}

	if v, ok := lookup(EnvPrefix + "OPEN_BROWSER"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %sOPEN_BROWSER must be a boolean", EnvPrefix)
		}

		c.OpenBrowser = b
	}

	if v, ok := lookup(EnvPrefix + "WATCH_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %sWATCH_INTERVAL must be a duration", EnvPrefix)
		}

		c.WatchInterval = d
	}

	if v, ok := lookup(EnvPrefix + "PALETTE"); ok {
		c.Palette = splitList(v)
	}

	return nil
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}

// Validate checks that the settings can produce a chart.
func (c Config) Validate() error {
	if c.IdleProcess == "" {
		return fmt.Errorf("config: idle_process must not be empty")
	}

	if _, err := c.ChartPalette(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: width and height must be positive")
	}

	if c.WatchInterval <= 0 {
		return fmt.Errorf("config: watch_interval must be positive")
	}

	if c.Format != "" {
		if _, err := render.ParseFormat(c.Format); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}

	if _, err := telemetry.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	return nil
}

// ChartPalette builds the palette from Palette and IdleColor.
func (c Config) ChartPalette() (gantt.Palette, error) {
	return gantt.NewPalette(c.Palette, c.IdleColor)
}

// ChartOptions returns the options of the gantt transform.
func (c Config) ChartOptions() (gantt.Options, error) {
	palette, err := c.ChartPalette()
	if err != nil {
		return gantt.Options{}, err
	}

	return gantt.Options{
		IdleProcess: c.IdleProcess,
		Palette:     palette,
		Title:       c.Title,
		XLabel:      c.XLabel,
		YLabel:      c.YLabel,
	}, nil
}

// OutputFormat returns Format if set, otherwise the format implied by the
// extension of Output.
func (c Config) OutputFormat() (render.Format, error) {
	if c.Format != "" {
		return render.ParseFormat(c.Format)
	}

	return render.FormatFromPath(c.Output)
}

// Size returns the output size.
func (c Config) Size() render.Size {
	return render.Size{Width: c.Width, Height: c.Height}
}

// SourceOptions returns the options used to open the trace.
func (c Config) SourceOptions() tracing.SourceOptions {
	return tracing.SourceOptions{Table: c.Table}
}
