// Package config holds the settings of the svgplot command: plotting
// parameters, plotter address and timing, and where command files go.
//
// Settings start from Default, are overlaid by a TOML file and finally by
// command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/vasalvit/svgplot"
	"github.com/vasalvit/svgplot/device"
	"github.com/vasalvit/svgplot/plot"
)

const appName = "svgplot"

// Duration is a time.Duration written as a string such as "500ms" in
// the configuration file.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the complete configuration.
type Config struct {
	Plot   Plot   `toml:"plot"`
	Pen    Pen    `toml:"pen"`
	Device Device `toml:"device"`
	Output Output `toml:"output"`
}

// Plot holds the geometry settings.
type Plot struct {
	Tolerance  float64 `toml:"tolerance"`
	MaxDepth   int     `toml:"max_depth"`
	Layer      int     `toml:"layer"`
	SkipHidden bool    `toml:"skip_hidden"`
	PageWidth  float64 `toml:"page_width"`
	PageHeight float64 `toml:"page_height"`
}

// Pen holds the pen heights and timing.
type Pen struct {
	Up    int      `toml:"up"`
	Down  int      `toml:"down"`
	Delay Duration `toml:"delay"`
	// Walk is the manual jog distance.
	Walk int `toml:"walk"`
}

// Device holds the plotter connection settings.
type Device struct {
	Address         string   `toml:"address"`
	DialTimeout     Duration `toml:"dial_timeout"`
	ResponseTimeout Duration `toml:"response_timeout"`
	PollInterval    Duration `toml:"poll_interval"`
	RetryBackoff    Duration `toml:"retry_backoff"`
}

// Output holds the command file settings.
type Output struct {
	Path string `toml:"path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	nopts := device.DefaultNetworkOptions()
	return &Config{
		Plot: Plot{
			Tolerance:  0.1,
			MaxDepth:   svg.DefaultMaxDepth,
			Layer:      1,
			PageWidth:  svg.DefaultWidth,
			PageHeight: svg.DefaultHeight,
		},
		Pen: Pen{
			Up:   1000,
			Down: 0,
			Walk: 10,
		},
		Device: Device{
			Address:         nopts.Address,
			DialTimeout:     Duration{nopts.DialTimeout},
			ResponseTimeout: Duration{nopts.ResponseTimeout},
			PollInterval:    Duration{nopts.PollInterval},
			RetryBackoff:    Duration{nopts.RetryBackoff},
		},
		Output: Output{
			Path: filepath.Join("~", "lus-output.txt"),
		},
	}
}

// Path returns the default location of the configuration file,
// $XDG_CONFIG_HOME/svgplot/config.toml.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the file at path over the defaults. An empty path loads the
// default location if a file exists there.
func Load(path string) (*Config, error) {
	c := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return c, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("loading config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return c, c.Validate()
}

// Validate checks the configuration for values no job can run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Plot.Tolerance <= 0 {
		errs = append(errs, fmt.Errorf("plot.tolerance must be positive, got %v", c.Plot.Tolerance))
	}
	if c.Plot.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("plot.max_depth must be at least 1, got %d", c.Plot.MaxDepth))
	}
	if c.Plot.PageWidth <= 0 || c.Plot.PageHeight <= 0 {
		errs = append(errs, fmt.Errorf("page size must be positive, got %vx%v", c.Plot.PageWidth, c.Plot.PageHeight))
	}
	if c.Pen.Delay.Duration < 0 {
		errs = append(errs, fmt.Errorf("pen.delay must not be negative, got %v", c.Pen.Delay))
	}
	for name, d := range map[string]Duration{
		"device.dial_timeout":     c.Device.DialTimeout,
		"device.response_timeout": c.Device.ResponseTimeout,
		"device.poll_interval":    c.Device.PollInterval,
		"device.retry_backoff":    c.Device.RetryBackoff,
	} {
		if d.Duration < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %v", name, d))
		}
	}
	if strings.TrimSpace(c.Device.Address) == "" {
		errs = append(errs, errors.New("device.address is empty"))
	}
	if strings.TrimSpace(c.Output.Path) == "" {
		errs = append(errs, errors.New("output.path is empty"))
	}
	return errors.Join(errs...)
}

// OutputPath is Output.Path with a leading ~ expanded to the home
// directory.
func (c *Config) OutputPath() (string, error) {
	p := c.Output.Path
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", p, err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// PlotOptions returns the job options for the given layer selection.
func (c *Config) PlotOptions(layer plot.LayerSelection) plot.Options {
	return plot.Options{
		Layer:         layer,
		Tolerance:     c.Plot.Tolerance,
		MaxDepth:      c.Plot.MaxDepth,
		SkipHidden:    c.Plot.SkipHidden,
		PenUp:         c.Pen.Up,
		PenDown:       c.Pen.Down,
		PenDelay:      c.Pen.Delay.Duration,
		DefaultWidth:  c.Plot.PageWidth,
		DefaultHeight: c.Plot.PageHeight,
	}
}

// ManualOptions returns the options of single manual commands.
func (c *Config) ManualOptions() plot.ManualOptions {
	return plot.ManualOptions{
		PenUp:   c.Pen.Up,
		PenDown: c.Pen.Down,
		Walk:    c.Pen.Walk,
	}
}

// NetworkOptions returns the plotter connection options.
func (c *Config) NetworkOptions() device.NetworkOptions {
	return device.NetworkOptions{
		Address:         c.Device.Address,
		DialTimeout:     c.Device.DialTimeout.Duration,
		ResponseTimeout: c.Device.ResponseTimeout.Duration,
		PollInterval:    c.Device.PollInterval.Duration,
		RetryBackoff:    c.Device.RetryBackoff.Duration,
	}
}
