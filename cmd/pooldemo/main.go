// Command pooldemo renders a small tile scene through drawpool and writes
// the last frame to a PNG file.
//
// Settings come from an optional TOML file; flags given on the command
// line override it.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/drawpool"
	"github.com/gogpu/drawpool/painter"
)

func main() {
	var (
		config   = flag.String("config", "", "TOML config file")
		width    = flag.Int("width", 0, "image width")
		height   = flag.Int("height", 0, "image height")
		frames   = flag.Int("frames", 0, "frames to render")
		output   = flag.String("output", "", "output file")
		shaper   = flag.String("shaper", "", "text shaper: builtin or gotext")
		fontSize = flag.Float64("font-size", 0, "font size in pixels")
		debug    = flag.Bool("debug", false, "log pool activity")
		useGPU   = flag.Bool("gpu", false, "also record the frames on a headless GPU painter")
		useSh    = flag.Bool("shader", false, "bind a compiled shader to the light layer")
	)
	flag.Parse()

	cfg, err := loadConfig(*config)
	if err != nil {
		log.Fatal(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "frames":
			cfg.Frames = *frames
		case "output":
			cfg.Output = *output
		case "shaper":
			cfg.Shaper = *shaper
		case "font-size":
			cfg.FontSize = *fontSize
		case "debug":
			cfg.Debug = *debug
		case "gpu":
			cfg.GPU = *useGPU
		case "shader":
			cfg.Shader = *useSh
		}
	})
	if err := cfg.validate(); err != nil {
		log.Fatal(err)
	}

	if cfg.Debug {
		drawpool.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	img, err := run(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := savePNG(cfg.Output, img); err != nil {
		log.Fatal(err)
	}
	log.Printf("Demo saved to %s (%dx%d, %d frames)\n", cfg.Output, cfg.Width, cfg.Height, cfg.Frames)
}

// run renders cfg.Frames frames and returns the last one.
func run(cfg Config) (*image.RGBA, error) {
	sc, err := newScene(cfg)
	if err != nil {
		return nil, err
	}
	var rec recorder
	if cfg.GPU {
		if rec, err = newRecorder(); err != nil {
			return nil, err
		}
		defer rec.close()
	}

	size := image.Pt(cfg.Width, cfg.Height)
	dp := drawpool.New(drawpool.WithFrameBufferSize(size))

	var img *image.RGBA
	for frame := range cfg.Frames {
		img = image.NewRGBA(image.Rectangle{Max: size})
		var screen painter.Painter = painter.NewSoftware(img)
		if rec != nil {
			rec.beginFrame()
			screen = tee{screen, rec.target()}
		}
		sc.render(dp, frame)
		dp.Draw(screen)
	}
	st := sc.layout.Stats()
	drawpool.Logger().Info("pooldemo: done",
		"frames", cfg.Frames, "glyphs", sc.atlas.Len(), "layout_hits", st.Hits, "layout_misses", st.Misses)
	return img, nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pooldemo: create output: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("pooldemo: encode png: %w", err)
	}
	return f.Close()
}
