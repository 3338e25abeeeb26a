package text

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/drawpool/internal/logx"
	"github.com/gogpu/drawpool/painter"
)

// DefaultAtlasSize is the atlas size used when NewAtlas gets an empty size.
var DefaultAtlasSize = image.Pt(512, 512)

const atlasPadding = 1

// AtlasGlyph locates a rasterized glyph in the atlas.
type AtlasGlyph struct {
	// Src is the glyph's region of the atlas texture. Empty for glyphs
	// with no outline, such as spaces.
	Src image.Rectangle
	// Offset is the top-left corner of Src relative to the pen position
	// on the baseline.
	Offset image.Point
}

type glyphKey struct {
	face uint64
	gid  sfnt.GlyphIndex
}

// Atlas rasterizes glyphs into one texture on first use. Glyphs are packed
// in shelves, left to right and top to bottom. An atlas may hold glyphs of
// several faces.
type Atlas struct {
	img    *image.RGBA
	tex    *painter.ImageTexture
	glyphs map[glyphKey]AtlasGlyph
	full   map[glyphKey]struct{}

	x, y, rowH int

	rast *vector.Rasterizer
}

// NewAtlas returns an empty atlas of the given size.
func NewAtlas(size image.Point) *Atlas {
	if size.X <= 0 || size.Y <= 0 {
		size = DefaultAtlasSize
	}
	img := image.NewRGBA(image.Rectangle{Max: size})
	tex := painter.NewImageTexture(img)
	tex.SetID(uint32(tex.UniqueID())) //nolint:gosec // any non-zero id marks the texture as present
	tex.SetCanSuperimpose(false)
	tex.SetSmooth(true)
	return &Atlas{
		img:    img,
		tex:    tex,
		glyphs: make(map[glyphKey]AtlasGlyph),
		full:   make(map[glyphKey]struct{}),
		rast:   vector.NewRasterizer(0, 0),
	}
}

// Texture returns the atlas texture. Its pixels change as glyphs are added.
func (a *Atlas) Texture() *painter.ImageTexture { return a.tex }

// Len returns the number of glyphs in the atlas.
func (a *Atlas) Len() int { return len(a.glyphs) }

// Glyph returns the atlas location of gid in face, rasterizing it on first
// use. It reports false when the glyph does not fit.
func (a *Atlas) Glyph(face *Face, gid sfnt.GlyphIndex) (AtlasGlyph, bool) {
	key := glyphKey{face: face.ID(), gid: gid}
	if g, ok := a.glyphs[key]; ok {
		return g, true
	}
	if _, ok := a.full[key]; ok {
		return AtlasGlyph{}, false
	}

	segs, err := face.outline(gid)
	if err != nil {
		logx.Logger().Debug("text: glyph outline unavailable", "gid", gid, "err", err)
		a.glyphs[key] = AtlasGlyph{}
		return AtlasGlyph{}, true
	}
	bounds := segmentBounds(segs)
	if bounds.Empty() {
		a.glyphs[key] = AtlasGlyph{}
		return AtlasGlyph{}, true
	}

	src, ok := a.allocate(bounds.Size())
	if !ok {
		logx.Logger().Warn("text: glyph atlas full",
			"gid", gid, "size", face.Size(), "atlas", a.img.Bounds().Size())
		a.full[key] = struct{}{}
		return AtlasGlyph{}, false
	}

	mask := a.rasterize(segs, bounds)
	xdraw.DrawMask(a.img, src, image.White, image.Point{}, mask, image.Point{}, xdraw.Over)

	g := AtlasGlyph{Src: src, Offset: bounds.Min}
	a.glyphs[key] = g
	return g, true
}

// allocate reserves a w x h region on the current shelf, opening a new
// shelf when the row is exhausted.
func (a *Atlas) allocate(size image.Point) (image.Rectangle, bool) {
	w, h := a.img.Bounds().Dx(), a.img.Bounds().Dy()
	if size.X > w || size.Y > h {
		return image.Rectangle{}, false
	}
	if a.x+size.X > w {
		a.y += a.rowH + atlasPadding
		a.x, a.rowH = 0, 0
	}
	if a.y+size.Y > h {
		return image.Rectangle{}, false
	}
	r := image.Rectangle{Min: image.Pt(a.x, a.y), Max: image.Pt(a.x+size.X, a.y+size.Y)}
	a.x += size.X + atlasPadding
	a.rowH = max(a.rowH, size.Y)
	return r, true
}

func (a *Atlas) rasterize(segs sfnt.Segments, bounds image.Rectangle) *image.Alpha {
	w, h := bounds.Dx(), bounds.Dy()
	a.rast.Reset(w, h)
	ox, oy := float32(bounds.Min.X), float32(bounds.Min.Y)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X)/64 - ox, float32(p.Y)/64 - oy
	}
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			a.rast.ClosePath()
			a.rast.MoveTo(pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			a.rast.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			x1, y1 := pt(seg.Args[0])
			x2, y2 := pt(seg.Args[1])
			a.rast.QuadTo(x1, y1, x2, y2)
		case sfnt.SegmentOpCubeTo:
			x1, y1 := pt(seg.Args[0])
			x2, y2 := pt(seg.Args[1])
			x3, y3 := pt(seg.Args[2])
			a.rast.CubeTo(x1, y1, x2, y2, x3, y3)
		}
	}
	a.rast.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	a.rast.DrawOp = xdraw.Src
	a.rast.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// segmentBounds returns the pixel bounds of the control hull, which
// contains the outline.
func segmentBounds(segs sfnt.Segments) image.Rectangle {
	if len(segs) == 0 {
		return image.Rectangle{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, seg := range segs {
		n := 1
		switch seg.Op {
		case sfnt.SegmentOpQuadTo:
			n = 2
		case sfnt.SegmentOpCubeTo:
			n = 3
		}
		for _, p := range seg.Args[:n] {
			x, y := float64(p.X)/64, float64(p.Y)/64
			minX, maxX = math.Min(minX, x), math.Max(maxX, x)
			minY, maxY = math.Min(minY, y), math.Max(maxY, y)
		}
	}
	return image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	)
}
