package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Creature is one actor in the demo scene.
type Creature struct {
	Name   string `toml:"name"`
	X      int    `toml:"x"`
	Y      int    `toml:"y"`
	Health int    `toml:"health"` // percent
	Light  int    `toml:"light"`  // light radius in pixels, 0 for none
	Speed  int    `toml:"speed"`  // pixels per frame along x
}

// Config describes the scene and the render run.
type Config struct {
	Width    int        `toml:"width"`
	Height   int        `toml:"height"`
	Frames   int        `toml:"frames"`
	Output   string     `toml:"output"`
	Shaper   string     `toml:"shaper"`
	FontSize float64    `toml:"font_size"`
	TileSize int        `toml:"tile_size"`
	Ambient  uint8      `toml:"ambient"` // light level outside light sources
	Debug    bool       `toml:"debug"`
	Shader   bool       `toml:"shader"` // bind a compiled shader to the light layer
	GPU      bool       `toml:"gpu"`    // mirror draws onto a headless GPU painter
	Creature []Creature `toml:"creature"`
}

func defaultConfig() Config {
	return Config{
		Width:    320,
		Height:   240,
		Frames:   3,
		Output:   "pooldemo.png",
		Shaper:   "builtin",
		FontSize: 12,
		TileSize: 32,
		Ambient:  96,
		Creature: []Creature{
			{Name: "Rat", X: 64, Y: 96, Health: 80, Light: 0, Speed: 4},
			{Name: "Knight", X: 192, Y: 128, Health: 55, Light: 72},
		},
	}
}

var errInvalidConfig = errors.New("pooldemo: invalid config")

// loadConfig overlays the TOML file at path on the defaults. Unknown keys
// are rejected.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("pooldemo: read config: %w", err)
	}
	return decodeConfig(data, cfg)
}

func decodeConfig(data []byte, cfg Config) (Config, error) {
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("pooldemo: decode config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", errInvalidConfig, c.Width, c.Height)
	case c.Frames <= 0:
		return fmt.Errorf("%w: frames %d", errInvalidConfig, c.Frames)
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile size %d", errInvalidConfig, c.TileSize)
	case c.FontSize <= 0:
		return fmt.Errorf("%w: font size %v", errInvalidConfig, c.FontSize)
	case c.Shaper != "builtin" && c.Shaper != "gotext":
		return fmt.Errorf("%w: shaper %q", errInvalidConfig, c.Shaper)
	}
	return nil
}
