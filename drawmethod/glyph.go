package drawmethod

import (
	"image"

	"github.com/gogpu/drawpool/internal/hashx"
)

// Glyph places the Src region of a glyph atlas at Dest.
type Glyph struct {
	Dest image.Rectangle
	Src  image.Rectangle
}

// GlyphRun is a line of text already laid out against an atlas texture.
type GlyphRun struct {
	Glyphs []Glyph
}

// UpdateHash implements Method.
func (m *GlyphRun) UpdateHash(h *uint64) {
	hashx.Combine(h, tagGlyphRun)
	hashx.CombineInt(h, len(m.Glyphs))
	for _, g := range m.Glyphs {
		hashRect(h, g.Dest)
		hashRect(h, g.Src)
	}
}

// Add implements Method. Glyph quads are always emitted as a triangle list.
func (m *GlyphRun) Add(c *CoordsBuffer, _ DrawMode) {
	for _, g := range m.Glyphs {
		c.AddQuad(g.Dest, g.Src, ModeTriangles)
	}
}

// HasRefPoint implements Method.
func (m *GlyphRun) HasRefPoint() bool { return false }

// Bounds returns the union of all glyph destinations.
func (m *GlyphRun) Bounds() image.Rectangle {
	var r image.Rectangle
	for _, g := range m.Glyphs {
		r = r.Union(g.Dest)
	}
	return r
}

// Translate returns a copy of the run moved by d.
func (m *GlyphRun) Translate(d image.Point) *GlyphRun {
	out := &GlyphRun{Glyphs: make([]Glyph, len(m.Glyphs))}
	for i, g := range m.Glyphs {
		out.Glyphs[i] = Glyph{Dest: g.Dest.Add(d), Src: g.Src}
	}
	return out
}
