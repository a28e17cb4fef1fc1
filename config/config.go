// Package config loads the arena's YAML settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"ring-arena/core"
)

// Config is the top-level settings file.
type Config struct {
	Window WindowConfig `yaml:"window"`
	Render RenderConfig `yaml:"render"`
	Assets AssetsConfig `yaml:"assets"`
	Panel  PanelConfig  `yaml:"panel"`
}

type WindowConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	VSync      bool   `yaml:"vsync"`
	Fullscreen bool   `yaml:"fullscreen"`
}

type RenderConfig struct {
	// MaxPixelRatio caps the device pixel ratio used for the drawing buffer.
	MaxPixelRatio float32 `yaml:"maxPixelRatio"`
	// MaxFPS caps the frame rate; 0 leaves pacing to vsync.
	MaxFPS           float64 `yaml:"maxFPS"`
	ShowLightHelpers bool    `yaml:"showLightHelpers"`
	// ClearColor is "#rrggbb" or "#rrggbbaa".
	ClearColor string `yaml:"clearColor"`
}

type AssetsConfig struct {
	NormalMap string `yaml:"normalMap"`
}

type PanelConfig struct {
	Visible bool `yaml:"visible"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Ring Arena",
			VSync:  true,
		},
		Render: RenderConfig{
			MaxPixelRatio:    2,
			ShowLightHelpers: true,
			ClearColor:       "#000000",
		},
		Assets: AssetsConfig{
			NormalMap: "textures/NormalMap.png",
		},
		Panel: PanelConfig{
			Visible: true,
		},
	}
}

// Load reads path over the defaults. A missing file yields Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Render.MaxPixelRatio < 1 {
		return fmt.Errorf("render.maxPixelRatio must be >= 1, got %g", c.Render.MaxPixelRatio)
	}
	if c.Render.MaxFPS < 0 {
		return fmt.Errorf("render.maxFPS must not be negative, got %g", c.Render.MaxFPS)
	}
	if _, err := ParseColor(c.Render.ClearColor); err != nil {
		return fmt.Errorf("render.clearColor: %w", err)
	}
	return nil
}

// ClearColor returns the parsed render.clearColor. Call after Validate.
func (c *Config) ClearColor() core.Color {
	col, err := ParseColor(c.Render.ClearColor)
	if err != nil {
		return core.ColorBlack
	}
	return col
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (core.Color, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 && len(h) != 8 {
		return core.Color{}, fmt.Errorf("color %q: want #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return core.Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return core.Color{
		R: float32(v>>24&0xff) / 255,
		G: float32(v>>16&0xff) / 255,
		B: float32(v>>8&0xff) / 255,
		A: float32(v&0xff) / 255,
	}, nil
}
