package main

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := defaultConfig().validate(); err != nil {
		t.Errorf("defaultConfig().validate() = %v, want nil", err)
	}
}

func TestDecodeConfig(t *testing.T) {
	data := []byte(`
width = 128
height = 96
shaper = "gotext"
font_size = 10.5

[[creature]]
name = "Bat"
x = 10
y = 20
health = 30
light = 16
`)
	cfg, err := decodeConfig(data, defaultConfig())
	if err != nil {
		t.Fatalf("decodeConfig() error = %v", err)
	}
	if cfg.Width != 128 || cfg.Height != 96 {
		t.Errorf("size = %dx%d, want 128x96", cfg.Width, cfg.Height)
	}
	if cfg.Shaper != "gotext" || cfg.FontSize != 10.5 {
		t.Errorf("Shaper, FontSize = %q, %v, want gotext, 10.5", cfg.Shaper, cfg.FontSize)
	}
	if cfg.Frames != defaultConfig().Frames {
		t.Errorf("Frames = %d, want default %d", cfg.Frames, defaultConfig().Frames)
	}
	if len(cfg.Creature) != 1 || cfg.Creature[0].Name != "Bat" || cfg.Creature[0].Light != 16 {
		t.Errorf("Creature = %+v, want one Bat with light 16", cfg.Creature)
	}
}

func TestDecodeConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		invalid bool
	}{
		{"unknown key", "colour = 3", false},
		{"bad syntax", "width = ", false},
		{"zero width", "width = 0", true},
		{"bad shaper", `shaper = "icu"`, true},
		{"negative frames", "frames = -1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeConfig([]byte(tt.data), defaultConfig())
			if err == nil {
				t.Fatal("decodeConfig() error = nil, want error")
			}
			if got := errors.Is(err, errInvalidConfig); got != tt.invalid {
				t.Errorf("errors.Is(err, errInvalidConfig) = %v, want %v (err %v)", got, tt.invalid, err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil || cfg.Width != defaultConfig().Width {
		t.Errorf("loadConfig(\"\") = %+v, %v, want defaults", cfg, err)
	}

	path := filepath.Join(t.TempDir(), "demo.toml")
	if err := os.WriteFile(path, []byte("frames = 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err = loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Frames != 2 {
		t.Errorf("Frames = %d, want 2", cfg.Frames)
	}

	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("loadConfig(missing) error = nil, want error")
	}
}

func TestRun(t *testing.T) {
	cfg := defaultConfig()
	cfg.Width, cfg.Height = 96, 64
	cfg.Frames = 2
	cfg.TileSize = 16

	img, err := run(cfg)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(96, 64) {
		t.Errorf("image size = %v, want 96x64", got)
	}
	var opaque int
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] == 255 {
			opaque++
		}
	}
	if opaque == 0 {
		t.Error("rendered frame has no opaque pixels")
	}
}

func TestCircle(t *testing.T) {
	pts := circle(image.Pt(10, 10), 5, 8)
	if len(pts) != 10 {
		t.Fatalf("len(circle) = %d, want 10", len(pts))
	}
	if pts[0] != image.Pt(10, 10) {
		t.Errorf("center = %v, want (10,10)", pts[0])
	}
	if pts[1] != pts[len(pts)-1] {
		t.Errorf("fan not closed: first %v, last %v", pts[1], pts[len(pts)-1])
	}
}
