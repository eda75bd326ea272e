// Package config loads the fibermap YAML configuration.
//
// The file describes where the fibers come from, how they are placed in the
// electrode frame, the electrode layout itself and the presentation palette.
// Everything here is read once at startup and passed down as immutable values.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/sanonone/fibermap/pkg/fiber"
	"github.com/sanonone/fibermap/pkg/geom"
	"github.com/sanonone/fibermap/pkg/render"
	"github.com/sanonone/fibermap/pkg/zone"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the top-level structure of the configuration file.
type Config struct {
	// FibersPath is a local path or an http(s) URL to a Fibers.bin resource.
	FibersPath   string        `yaml:"fibers_path"`
	HTTPAddr     string        `yaml:"http_addr"`
	LogLevel     string        `yaml:"log_level"` // debug, info, warn, error
	Workers      int           `yaml:"workers"`   // 0 = logical cores
	TieBreak     string        `yaml:"tie_break"` // lowest, highest
	BaseColor    uint32        `yaml:"base_color"`
	Models       int           `yaml:"models"`
	Gap          float32       `yaml:"gap"`
	Transform    TransformConf `yaml:"transform"`
	Palette      []uint32      `yaml:"palette"`
	Electrodes   []Electrode   `yaml:"electrodes"`
	FetchTimeout Duration      `yaml:"fetch_timeout"`
}

// TransformConf places raw fiber coordinates in the electrode frame.
type TransformConf struct {
	Rotation    []float64 `yaml:"rotation"`    // radians, intrinsic XYZ
	Translation []float32 `yaml:"translation"` // applied after rotation
}

// Electrode is one influence zone center.
type Electrode struct {
	Name     string    `yaml:"name"`
	Position []float32 `yaml:"position"`
	Radius   float32   `yaml:"radius"`
}

// DefaultConfig returns the placement used for the bundled brain model and an
// empty electrode list.
func DefaultConfig() Config {
	return Config{
		FibersPath: "Fibers.bin",
		HTTPAddr:   ":9093",
		LogLevel:   "info",
		TieBreak:   string(zone.LowestZoneWins),
		BaseColor:  render.DefaultBaseColor,
		Models:     1,
		Gap:        300,
		Transform: TransformConf{
			Rotation:    []float64{4.71238898038469, 0, 0}, // 3π/2 about X
			Translation: []float32{-130, -160, 90},
		},
		Palette:      append([]uint32(nil), render.DefaultPalette...),
		FetchTimeout: Duration(defaultFetchTimeout),
	}
}

// LoadConfig reads the YAML file at path on top of DefaultConfig.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("YAML syntax error in config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks ranges and vector arities.
func (c Config) Validate() error {
	if c.Models < 1 {
		return fmt.Errorf("%w: models must be >= 1, got %d", ErrInvalidConfig, c.Models)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := zone.ParsePolicy(c.TieBreak); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if n := len(c.Transform.Rotation); n != 0 && n != 3 {
		return fmt.Errorf("%w: transform.rotation needs 3 values, got %d", ErrInvalidConfig, n)
	}
	if n := len(c.Transform.Translation); n != 0 && n != 3 {
		return fmt.Errorf("%w: transform.translation needs 3 values, got %d", ErrInvalidConfig, n)
	}
	seen := make(map[string]bool, len(c.Electrodes))
	for i, e := range c.Electrodes {
		if len(e.Position) != 3 {
			return fmt.Errorf("%w: electrode %d (%s) position needs 3 values, got %d", ErrInvalidConfig, i, e.Name, len(e.Position))
		}
		if r := float64(e.Radius); r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return fmt.Errorf("%w: electrode %d (%s) needs a finite non-negative radius, got %g", ErrInvalidConfig, i, e.Name, e.Radius)
		}
		if e.Name != "" {
			if seen[e.Name] {
				return fmt.Errorf("%w: duplicate electrode name %q", ErrInvalidConfig, e.Name)
			}
			seen[e.Name] = true
		}
	}
	return nil
}

// Placement converts the transform section.
func (c Config) Placement() geom.Transform {
	var t geom.Transform
	if r := c.Transform.Rotation; len(r) == 3 {
		t.Rotation = geom.Euler{X: r[0], Y: r[1], Z: r[2]}
	}
	if tr := c.Transform.Translation; len(tr) == 3 {
		t.Translation = fiber.Vertex{X: tr[0], Y: tr[1], Z: tr[2]}
	}
	return t
}

// Layout builds the analyzer layout. Call Validate first.
func (c Config) Layout() zone.Layout {
	electrodes := make([]zone.Electrode, len(c.Electrodes))
	for i, e := range c.Electrodes {
		electrodes[i] = zone.Electrode{
			Name:     e.Name,
			Position: fiber.Vertex{X: e.Position[0], Y: e.Position[1], Z: e.Position[2]},
			Radius:   e.Radius,
		}
	}
	return zone.Layout{
		Electrodes: electrodes,
		Models:     c.Models,
		Gap:        c.Gap,
		Placement:  c.Placement(),
	}
}

// Policy returns the validated tie-break policy.
func (c Config) Policy() zone.Policy {
	p, _ := zone.ParsePolicy(c.TieBreak)
	return p
}

// PaletteOrDefault returns the configured palette, or the default one when empty.
func (c Config) PaletteOrDefault() render.Palette {
	if len(c.Palette) == 0 {
		return render.DefaultPalette
	}
	return render.Palette(c.Palette)
}

// ParseLevel maps a log level name to slog.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, s)
	}
}
