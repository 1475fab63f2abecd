// Package config loads driftgraph settings from TOML and validates them.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/TFMV/driftgraph/geom"
	"github.com/TFMV/driftgraph/graph"
	"github.com/TFMV/driftgraph/physics"
	"github.com/TFMV/driftgraph/render"
	"github.com/TFMV/driftgraph/scheduler"
	"github.com/go-playground/validator/v10"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds driftgraph configuration.
type Config struct {
	Graph  GraphConfig  `toml:"graph"`
	Canvas CanvasConfig `toml:"canvas"`
	Motion MotionConfig `toml:"motion"`
	Render RenderConfig `toml:"render"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// GraphConfig controls graph generation.
type GraphConfig struct {
	Nodes      int     `toml:"nodes" validate:"gte=0,lte=10000"`
	ExtraEdges int     `toml:"extra_edges" validate:"gte=0,lte=1000000"`
	Seed       *uint64 `toml:"seed,omitempty"` // unset means a fresh seed per session
}

// CanvasConfig is the logical canvas nodes move on.
type CanvasConfig struct {
	Width  float64 `toml:"width" validate:"gte=0"`
	Height float64 `toml:"height" validate:"gte=0"`
}

// MotionConfig controls the tick rate and motion rule.
type MotionConfig struct {
	TickPeriod          Duration `toml:"tick_period"`
	RetargetProbability float64  `toml:"retarget_probability" validate:"gte=0,lte=1"`
	Easing              float64  `toml:"easing" validate:"gte=0,lte=1"`
	Mover               string   `toml:"mover" validate:"oneof=drift surreal"`
	NoiseIntensity      float64  `toml:"noise_intensity" validate:"gte=0"`
}

// RenderConfig selects a theme and optional per-field overrides. Empty
// colors and zero sizes fall back to the theme.
type RenderConfig struct {
	Theme          string  `toml:"theme" validate:"required"`
	NodeRadius     float64 `toml:"node_radius" validate:"gte=0"`
	EdgeWidth      float64 `toml:"edge_width" validate:"gte=0"`
	NodeColor      string  `toml:"node_color,omitempty" validate:"omitempty,hexcolor"`
	EdgeColor      string  `toml:"edge_color,omitempty" validate:"omitempty,hexcolor"`
	GradientFrom   string  `toml:"gradient_from,omitempty" validate:"omitempty,hexcolor"`
	GradientTo     string  `toml:"gradient_to,omitempty" validate:"omitempty,hexcolor"`
	GradientStart  float64 `toml:"gradient_start" validate:"gte=0,lte=1"`
	GradientOffset float64 `toml:"gradient_offset" validate:"gte=0,lte=1"`
}

// ServerConfig controls the HTTP host.
type ServerConfig struct {
	Addr         string   `toml:"addr" validate:"required"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	IdleTimeout  Duration `toml:"idle_timeout"`
	// MaxSurface caps the width and height a request may ask to paint.
	MaxSurface float64 `toml:"max_surface" validate:"gte=0"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=text json"`
}

// Duration is a time.Duration written as a string such as "16ms".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText writes the duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the default configuration.
func Default() *Config {
	style := render.DefaultStyle()
	return &Config{
		Graph: GraphConfig{
			Nodes:      graph.DefaultNodeCount,
			ExtraEdges: graph.DefaultExtraEdgeAttempts,
		},
		Canvas: CanvasConfig{Width: 800, Height: 600},
		Motion: MotionConfig{
			TickPeriod:          Duration{scheduler.DefaultPeriod},
			RetargetProbability: physics.DefaultRetargetProbability,
			Easing:              physics.DefaultEasing,
			Mover:               "drift",
		},
		Render: RenderConfig{
			Theme:         "default",
			NodeRadius:    style.NodeRadius,
			EdgeWidth:     style.EdgeWidth,
			GradientStart: style.GradientStart,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
			IdleTimeout:  Duration{120 * time.Second},
			MaxSurface:   4096,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// ConfigDir returns the driftgraph config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "driftgraph")
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads and validates the config at path. With an empty path the
// default location is tried and a missing file yields the defaults; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// fall through with defaults
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Motion.TickPeriod.Duration <= 0 {
		return fmt.Errorf("%w: motion.tick_period must be positive", ErrInvalid)
	}
	if _, err := c.Render.Style(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Bounds returns the canvas as geometry bounds.
func (c *Config) Bounds() geom.Bounds {
	return geom.Bounds{Width: c.Canvas.Width, Height: c.Canvas.Height}
}

// Physics returns the motion parameters.
func (c MotionConfig) Physics(noiseSeed int64) physics.Config {
	return physics.Config{
		RetargetProbability: c.RetargetProbability,
		Easing:              c.Easing,
		NoiseIntensity:      c.NoiseIntensity,
		NoiseSeed:           noiseSeed,
	}
}

// Style resolves the theme and applies overrides.
func (c RenderConfig) Style() (render.Style, error) {
	style, err := render.Theme(c.Theme)
	if err != nil {
		return render.Style{}, err
	}
	if c.NodeRadius > 0 {
		style.NodeRadius = c.NodeRadius
	}
	if c.EdgeWidth > 0 {
		style.EdgeWidth = c.EdgeWidth
	}
	if c.NodeColor != "" {
		style.NodeColor = c.NodeColor
	}
	if c.EdgeColor != "" {
		style.EdgeColor = c.EdgeColor
	}
	if c.GradientFrom != "" {
		style.GradientFrom = c.GradientFrom
	}
	if c.GradientTo != "" {
		style.GradientTo = c.GradientTo
	}
	style.GradientStart = c.GradientStart
	return style, style.Validate()
}
