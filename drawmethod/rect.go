package drawmethod

import (
	"image"

	"github.com/gogpu/drawpool/internal/hashx"
)

// FilledRect fills Dest with the state color.
type FilledRect struct {
	Dest image.Rectangle
}

// UpdateHash implements Method.
func (m *FilledRect) UpdateHash(h *uint64) {
	hashx.Combine(h, tagFilledRect)
	hashRect(h, m.Dest)
}

// Add implements Method.
func (m *FilledRect) Add(c *CoordsBuffer, mode DrawMode) {
	c.AddRect(m.Dest, mode)
}

// HasRefPoint implements Method.
func (m *FilledRect) HasRefPoint() bool { return false }

// BoundingRect outlines Dest with bars InnerLineWidth pixels thick, drawn
// inside the rectangle.
type BoundingRect struct {
	Dest           image.Rectangle
	InnerLineWidth int
}

// UpdateHash implements Method.
func (m *BoundingRect) UpdateHash(h *uint64) {
	hashx.Combine(h, tagBoundingRect)
	hashRect(h, m.Dest)
	hashx.CombineInt(h, m.InnerLineWidth)
}

// Add implements Method. The outline is always a triangle list.
func (m *BoundingRect) Add(c *CoordsBuffer, _ DrawMode) {
	r := m.Dest.Canon()
	w := max(m.InnerLineWidth, 1)
	if 2*w >= r.Dx() || 2*w >= r.Dy() {
		c.AddRect(r, ModeTriangles)
		return
	}

	// top, bottom, left, right; side bars skip the corners
	c.AddRect(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+w), ModeTriangles)
	c.AddRect(image.Rect(r.Min.X, r.Max.Y-w, r.Max.X, r.Max.Y), ModeTriangles)
	c.AddRect(image.Rect(r.Min.X, r.Min.Y+w, r.Min.X+w, r.Max.Y-w), ModeTriangles)
	c.AddRect(image.Rect(r.Max.X-w, r.Min.Y+w, r.Max.X, r.Max.Y-w), ModeTriangles)
}

// HasRefPoint implements Method.
func (m *BoundingRect) HasRefPoint() bool { return false }

// TexturedRect maps the Src texels of the state texture onto Dest.
type TexturedRect struct {
	Dest image.Rectangle
	Src  image.Rectangle
}

// UpdateHash implements Method.
func (m *TexturedRect) UpdateHash(h *uint64) {
	hashx.Combine(h, tagTexturedRect)
	hashRect(h, m.Dest)
	hashRect(h, m.Src)
}

// Add implements Method.
func (m *TexturedRect) Add(c *CoordsBuffer, mode DrawMode) {
	c.AddQuad(m.Dest, m.Src, mode)
}

// HasRefPoint implements Method.
func (m *TexturedRect) HasRefPoint() bool { return true }

// RefPoint returns the point the rectangle is anchored at.
func (m *TexturedRect) RefPoint() image.Point { return m.Dest.Min }
