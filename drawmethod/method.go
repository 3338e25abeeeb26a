// Package drawmethod defines the draw operations accepted by a pool and the
// coordinate buffer they emit their geometry into.
//
// The variant set is closed: FilledRect, BoundingRect, TexturedRect,
// TriangleFan and GlyphRun. Every variant derives a content hash that
// changes whenever its emitted geometry would change and is stable for
// identical repeats; pools compare these hashes to decide whether cached
// geometry can be reused.
package drawmethod

import (
	"image"

	"github.com/gogpu/drawpool/internal/hashx"
)

// DrawMode selects how the vertices of a submission are assembled.
type DrawMode uint8

const (
	// ModeTriangles treats every three vertices as one triangle.
	ModeTriangles DrawMode = iota
	// ModeTriangleStrip treats the vertices as a single strip. Only valid
	// for a submission holding exactly one quad.
	ModeTriangleStrip
)

// String returns a human-readable name for the draw mode.
func (m DrawMode) String() string {
	switch m {
	case ModeTriangles:
		return "Triangles"
	case ModeTriangleStrip:
		return "TriangleStrip"
	default:
		return "Unknown"
	}
}

// Method is one draw operation.
type Method interface {
	// UpdateHash folds the method's content hash into h.
	UpdateHash(h *uint64)

	// Add emits the method's geometry into c.
	Add(c *CoordsBuffer, mode DrawMode)

	// HasRefPoint reports whether the method is anchored at a reference
	// point and can take part in occlusion checks.
	HasRefPoint() bool
}

// variant tags keep different methods with equal coordinates apart.
const (
	tagFilledRect uint64 = iota + 1
	tagBoundingRect
	tagTexturedRect
	tagTriangleFan
	tagGlyphRun
)

// Hash returns the content hash of m on its own.
func Hash(m Method) uint64 {
	var h uint64
	m.UpdateHash(&h)
	return h
}

// Emit appends m to c as one chunk.
func Emit(c *CoordsBuffer, mode DrawMode, m Method) {
	m.Add(c, ModeFor(m, mode))
	c.endChunk()
}

// ModeFor returns mode if m can be drawn with it and ModeTriangles
// otherwise. Only single quads can be drawn as a strip.
func ModeFor(m Method, mode DrawMode) DrawMode {
	if mode != ModeTriangleStrip {
		return ModeTriangles
	}
	switch m.(type) {
	case *FilledRect, *TexturedRect:
		return ModeTriangleStrip
	default:
		return ModeTriangles
	}
}

func hashRect(h *uint64, r image.Rectangle) {
	hashx.CombineInt(h, r.Min.X)
	hashx.CombineInt(h, r.Min.Y)
	hashx.CombineInt(h, r.Max.X)
	hashx.CombineInt(h, r.Max.Y)
}

func hashPoint(h *uint64, p image.Point) {
	hashx.CombineInt(h, p.X)
	hashx.CombineInt(h, p.Y)
}
