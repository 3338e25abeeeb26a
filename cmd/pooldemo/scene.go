package main

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/drawpool"
	"github.com/gogpu/drawpool/painter"
	"github.com/gogpu/drawpool/pool"
	"github.com/gogpu/drawpool/shader"
	"github.com/gogpu/drawpool/text"
)

var (
	white  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black  = color.NRGBA{A: 255}
	green  = color.NRGBA{R: 40, G: 200, B: 60, A: 255}
	yellow = color.NRGBA{R: 250, G: 220, B: 60, A: 255}
)

type scene struct {
	cfg    Config
	face   *text.Face
	atlas  *text.Atlas
	layout *text.Layout

	grass, stone, water *painter.ImageTexture

	// pond is a caller-owned buffer kept across frames.
	pond *pool.Buffer

	lightShader *shader.Program
}

func newScene(cfg Config) (*scene, error) {
	face, err := text.DefaultFace(cfg.FontSize)
	if err != nil {
		return nil, err
	}
	var shaper text.Shaper = text.BuiltinShaper{}
	if cfg.Shaper == "gotext" {
		shaper = text.NewGoTextShaper()
	}

	sc := &scene{
		cfg:    cfg,
		face:   face,
		atlas:  text.NewAtlas(image.Pt(256, 256)),
		layout: text.NewLayout(shaper, 64),
		grass:  tileTexture(cfg.TileSize, color.RGBA{R: 60, G: 130, B: 50, A: 255}, 1),
		stone:  tileTexture(cfg.TileSize, color.RGBA{R: 120, G: 120, B: 115, A: 255}, 2),
		water:  tileTexture(cfg.TileSize, color.RGBA{R: 40, G: 80, B: 170, A: 255}, 3),
		pond:   pool.NewBuffer(),
	}
	if cfg.Shader {
		prog, err := shader.NewRegistry(0).Get("light", shader.SolidSource)
		if err != nil {
			drawpool.Logger().Warn("pooldemo: light shader unavailable", "err", err)
		} else {
			sc.lightShader = prog
		}
	}
	return sc, nil
}

// tileTexture returns an opaque checkered tile.
func tileTexture(size int, base color.RGBA, id uint32) *painter.ImageTexture {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	dark := color.RGBA{R: shade(base.R), G: shade(base.G), B: shade(base.B), A: 255}
	for y := range size {
		for x := range size {
			c := base
			if (x/4+y/4)%2 == 1 {
				c = dark
			}
			img.SetRGBA(x, y, c)
		}
	}
	tex := painter.NewImageTexture(img)
	tex.SetID(id)
	return tex
}

func shade(v uint8) uint8 { return uint8(int(v) * 7 / 8) }

func (s *scene) render(dp *drawpool.DrawPool, frame int) {
	screen := image.Rect(0, 0, s.cfg.Width, s.cfg.Height)
	s.drawMap(dp, screen)
	s.drawCreatureInformation(dp, frame)
	s.drawLights(dp, screen, frame)
	s.drawNames(dp, frame)
	s.drawForeground(dp, frame)
}

func (s *scene) drawMap(dp *drawpool.DrawPool, screen image.Rectangle) {
	dp.UseFramed(pool.TypeMap, screen, image.Rectangle{})
	ts := s.cfg.TileSize
	cols, rows := s.cfg.Width/ts+1, s.cfg.Height/ts+1

	for y := range rows {
		for x := range cols {
			dest := image.Rect(x*ts, y*ts, (x+1)*ts, (y+1)*ts)
			dp.AddTexturedRect(dest, s.grass, image.Rectangle{}, white)
			// Paved tiles cover the grass below them.
			if (x+y)%5 == 0 {
				dp.AddTexturedRect(dest, s.stone, image.Rectangle{}, white)
			}
		}
	}

	// The pond never changes, so its geometry lives in a buffer of our own.
	s.pond.Validate(image.Pt(ts, ts))
	for y := 1; y < 3 && y < rows; y++ {
		for x := 1; x < 3 && x < cols; x++ {
			dest := image.Rect(x*ts, y*ts, (x+1)*ts, (y+1)*ts)
			dp.AddTexturedRectBuffered(dest, s.water, image.Rectangle{}, white, s.pond)
		}
	}
}

func (s *scene) position(c Creature, frame int) image.Point {
	x := c.X + c.Speed*frame
	if s.cfg.Width > 0 {
		x %= s.cfg.Width
	}
	return image.Pt(x, c.Y)
}

func (s *scene) drawCreatureInformation(dp *drawpool.DrawPool, frame int) {
	dp.Use(pool.TypeCreatureInformation)
	for _, c := range s.cfg.Creature {
		p := s.position(c, frame)
		bar := image.Rect(p.X-14, p.Y-20, p.X+14, p.Y-16)
		fill := bar
		fill.Max.X = fill.Min.X + fill.Dx()*max(0, min(c.Health, 100))/100

		dp.AddFilledRect(bar, black)
		dp.AddFilledRect(fill, green)
		dp.AddBoundingRect(bar.Inset(-1), black, 1)

		// Marker under the creature.
		dp.AddFilledTriangle(image.Pt(p.X-6, p.Y+10), image.Pt(p.X+6, p.Y+10), image.Pt(p.X, p.Y+2), yellow)
	}
}

func (s *scene) drawLights(dp *drawpool.DrawPool, screen image.Rectangle, frame int) {
	dp.UseFramed(pool.TypeLight, screen, image.Rectangle{})
	if s.lightShader != nil {
		dp.SetShaderProgram(s.lightShader, drawpool.Ambient, nil)
	}
	a := s.cfg.Ambient
	dp.AddFilledRect(screen, color.NRGBA{R: a, G: a, B: a, A: 255})
	for _, c := range s.cfg.Creature {
		if c.Light <= 0 {
			continue
		}
		dp.AddTriangleFan(circle(s.position(c, frame), c.Light, 24), white)
	}
}

// circle approximates a disc with a fan around its center.
func circle(center image.Point, r, segments int) []image.Point {
	pts := make([]image.Point, 0, segments+2)
	pts = append(pts, center)
	for i := 0; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		pts = append(pts, image.Pt(
			center.X+int(math.Round(float64(r)*math.Cos(a))),
			center.Y+int(math.Round(float64(r)*math.Sin(a))),
		))
	}
	return pts
}

func (s *scene) drawNames(dp *drawpool.DrawPool, frame int) {
	dp.Use(pool.TypeText)
	for _, c := range s.cfg.Creature {
		p := s.position(c, frame)
		size := s.layout.Measure(c.Name, s.face)
		origin := image.Pt(p.X-size.X/2, p.Y-22-size.Y)
		dp.AddGlyphRun(s.layout.Run(c.Name, s.face, s.atlas, origin), s.atlas, yellow)
	}
}

func (s *scene) drawForeground(dp *drawpool.DrawPool, frame int) {
	dp.UseFramed(pool.TypeForeground, image.Rectangle{}, image.Rectangle{})
	label := fmt.Sprintf("frame %d", frame)
	size := s.layout.Measure(label, s.face)
	box := image.Rect(4, 4, 12+size.X, 8+size.Y)

	dp.SetOpacity(0.6, drawpool.Ambient)
	dp.AddFilledRect(box, black)
	dp.SetOpacity(1, drawpool.Ambient)
	dp.AddGlyphRun(s.layout.Run(label, s.face, s.atlas, image.Pt(8, 6)), s.atlas, white)
}
