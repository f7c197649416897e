package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

// Pacing modes
const (
	PacingVariable = "variable"
	PacingFixed    = "fixed"
)

// Window defaults
const (
	DefaultTitle      = "SuperEngine"
	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultColorDepth = 32
	DefaultFPS        = 60
	DefaultLogFile    = "engine.log"
)

// Color is an RGBA colour that reads and writes as "#RRGGBB" or "#RRGGBBAA"
type Color struct {
	color.RGBA
}

// RGBA builds a Color from components
func RGBA(r, g, b, a uint8) Color {
	return Color{color.RGBA{R: r, G: g, B: b, A: a}}
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseHexColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (c Color) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)), nil
}

// ParseHexColor parses "#RRGGBB" (opaque) or "#RRGGBBAA"
func ParseHexColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("%w: colour %q must be #RRGGBB or #RRGGBBAA", ErrInvalid, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: colour %q: %v", ErrInvalid, s, err)
	}
	if len(hex) == 6 {
		return RGBA(uint8(v>>16), uint8(v>>8), uint8(v), 0xff), nil
	}
	return RGBA(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// Duration reads TOML strings such as "250ms"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: duration %q: %v", ErrInvalid, text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Window holds the device settings handed to Engine.Init
type Window struct {
	Title      string `toml:"title"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	ColorDepth int    `toml:"color_depth"`
	Fullscreen bool   `toml:"fullscreen"`
	VSync      bool   `toml:"vsync"`
	Resizable  bool   `toml:"resizable"`
}

// Timing controls the frame pacer
type Timing struct {
	FPS               int      `toml:"fps"`
	MaximizeProcessor bool     `toml:"maximize_processor"`
	Pacing            string   `toml:"pacing"`
	FixedStep         Duration `toml:"fixed_step"`
	MaxUpdates        int      `toml:"max_updates"`
	MaxFrameTime      Duration `toml:"max_frame_time"`
}

// Render holds colours used by the render passes
type Render struct {
	ClearColor   Color `toml:"clear_color"`
	AmbientColor Color `toml:"ambient_color"`
}

// Log configures the engine log stream
type Log struct {
	File string `toml:"file"`
}

// Config is the complete engine configuration
type Config struct {
	Window Window `toml:"window"`
	Timing Timing `toml:"timing"`
	Render Render `toml:"render"`
	Log    Log    `toml:"log"`
}

// Default returns the configuration the engine starts with when no file is given
func Default() Config {
	return Config{
		Window: Window{
			Title:      DefaultTitle,
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			ColorDepth: DefaultColorDepth,
			VSync:      true,
		},
		Timing: Timing{
			FPS:          DefaultFPS,
			Pacing:       PacingVariable,
			FixedStep:    Duration{time.Second / 60},
			MaxUpdates:   5,
			MaxFrameTime: Duration{250 * time.Millisecond},
		},
		Render: Render{
			ClearColor:   RGBA(0, 0, 0, 255),
			AmbientColor: RGBA(255, 255, 255, 0),
		},
		Log: Log{File: DefaultLogFile},
	}
}

// Load reads a TOML file over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Default(), fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Default(), fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalid, path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Default(), err
	}

	return cfg, nil
}

// Validate checks the ranges the engine relies on
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Window.ColorDepth != 16 && c.Window.ColorDepth != 24 && c.Window.ColorDepth != 32:
		return fmt.Errorf("%w: colour depth %d", ErrInvalid, c.Window.ColorDepth)
	case c.Timing.FPS <= 0:
		return fmt.Errorf("%w: fps %d", ErrInvalid, c.Timing.FPS)
	case c.Timing.Pacing != PacingVariable && c.Timing.Pacing != PacingFixed:
		return fmt.Errorf("%w: pacing mode %q", ErrInvalid, c.Timing.Pacing)
	case c.Timing.FixedStep.Duration <= 0:
		return fmt.Errorf("%w: fixed step %s", ErrInvalid, c.Timing.FixedStep)
	case c.Timing.MaxUpdates < 1:
		return fmt.Errorf("%w: max updates %d", ErrInvalid, c.Timing.MaxUpdates)
	case c.Timing.MaxFrameTime.Duration < c.Timing.FixedStep.Duration:
		return fmt.Errorf("%w: max frame time %s below fixed step %s", ErrInvalid, c.Timing.MaxFrameTime, c.Timing.FixedStep)
	}
	return nil
}
