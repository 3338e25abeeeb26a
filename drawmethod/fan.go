package drawmethod

import (
	"image"

	"github.com/gogpu/drawpool/internal/hashx"
)

// TriangleFan fills the convex polygon Points[0], Points[1], ... as a fan
// around Points[0]. Three points make a single triangle.
type TriangleFan struct {
	Points []image.Point
}

// NewTriangle returns a fan holding exactly one triangle.
func NewTriangle(a, b, c image.Point) *TriangleFan {
	return &TriangleFan{Points: []image.Point{a, b, c}}
}

// UpdateHash implements Method.
func (m *TriangleFan) UpdateHash(h *uint64) {
	hashx.Combine(h, tagTriangleFan)
	hashx.CombineInt(h, len(m.Points))
	for _, p := range m.Points {
		hashPoint(h, p)
	}
}

// Add implements Method. Fans are always emitted as a triangle list.
func (m *TriangleFan) Add(c *CoordsBuffer, _ DrawMode) {
	for i := 2; i < len(m.Points); i++ {
		c.AddTriangle(m.Points[0], m.Points[i-1], m.Points[i])
	}
}

// HasRefPoint implements Method.
func (m *TriangleFan) HasRefPoint() bool { return false }
