package drawmethod

import "image"

// CoordsBuffer accumulates triangle geometry: vertex positions and texel
// coordinates, two float32 per vertex each.
//
// Geometry is grouped in chunks, one per emitted Method, so that a painter
// can rasterize the triangles of a single shape together.
type CoordsBuffer struct {
	vertices  []float32
	texCoords []float32
	chunks    []int // vertex count at the end of each chunk
	version   uint64
}

// NewCoordsBuffer creates an empty buffer.
func NewCoordsBuffer() *CoordsBuffer {
	return &CoordsBuffer{
		vertices:  make([]float32, 0, 64),
		texCoords: make([]float32, 0, 64),
	}
}

// Clear drops all geometry but keeps the allocated storage.
func (c *CoordsBuffer) Clear() {
	c.vertices = c.vertices[:0]
	c.texCoords = c.texCoords[:0]
	c.chunks = c.chunks[:0]
	c.version++
}

// VertexCount returns the number of vertices stored.
func (c *CoordsBuffer) VertexCount() int {
	return len(c.vertices) / 2
}

// Vertices returns the vertex positions as x, y pairs.
// The slice aliases internal storage and is valid until the next mutation.
func (c *CoordsBuffer) Vertices() []float32 {
	return c.vertices
}

// TexCoords returns the texel coordinates as u, v pairs, parallel to
// Vertices.
func (c *CoordsBuffer) TexCoords() []float32 {
	return c.texCoords
}

// Chunks returns the vertex count at the end of each chunk.
func (c *CoordsBuffer) Chunks() []int {
	return c.chunks
}

// Version changes every time the buffer is mutated.
func (c *CoordsBuffer) Version() uint64 {
	return c.version
}

// Interleaved returns x, y, u, v per vertex, appended to dst.
func (c *CoordsBuffer) Interleaved(dst []float32) []float32 {
	for i := 0; i+1 < len(c.vertices); i += 2 {
		dst = append(dst, c.vertices[i], c.vertices[i+1], c.texCoords[i], c.texCoords[i+1])
	}
	return dst
}

// Equal reports whether both buffers hold the same geometry.
func (c *CoordsBuffer) Equal(o *CoordsBuffer) bool {
	if len(c.vertices) != len(o.vertices) || len(c.chunks) != len(o.chunks) {
		return false
	}
	for i := range c.vertices {
		if c.vertices[i] != o.vertices[i] || c.texCoords[i] != o.texCoords[i] {
			return false
		}
	}
	for i := range c.chunks {
		if c.chunks[i] != o.chunks[i] {
			return false
		}
	}
	return true
}

func (c *CoordsBuffer) addVertex(x, y, u, v float32) {
	c.vertices = append(c.vertices, x, y)
	c.texCoords = append(c.texCoords, u, v)
	c.version++
}

// endChunk closes the current chunk. Empty chunks are not recorded.
func (c *CoordsBuffer) endChunk() {
	n := c.VertexCount()
	if len(c.chunks) > 0 && c.chunks[len(c.chunks)-1] == n {
		return
	}
	if len(c.chunks) == 0 && n == 0 {
		return
	}
	c.chunks = append(c.chunks, n)
}

// AddTriangle appends one untextured triangle.
func (c *CoordsBuffer) AddTriangle(a, b, d image.Point) {
	c.addVertex(float32(a.X), float32(a.Y), 0, 0)
	c.addVertex(float32(b.X), float32(b.Y), 0, 0)
	c.addVertex(float32(d.X), float32(d.Y), 0, 0)
}

// AddRect appends an untextured rectangle.
func (c *CoordsBuffer) AddRect(dest image.Rectangle, mode DrawMode) {
	c.AddQuad(dest, image.Rectangle{}, mode)
}

// AddQuad appends a rectangle mapping src texels onto dest. With
// ModeTriangleStrip four vertices are emitted, otherwise two triangles.
func (c *CoordsBuffer) AddQuad(dest, src image.Rectangle, mode DrawMode) {
	left, top := float32(dest.Min.X), float32(dest.Min.Y)
	right, bottom := float32(dest.Max.X), float32(dest.Max.Y)
	u0, v0 := float32(src.Min.X), float32(src.Min.Y)
	u1, v1 := float32(src.Max.X), float32(src.Max.Y)

	if mode == ModeTriangleStrip {
		c.addVertex(left, top, u0, v0)
		c.addVertex(right, top, u1, v0)
		c.addVertex(left, bottom, u0, v1)
		c.addVertex(right, bottom, u1, v1)
		return
	}

	c.addVertex(left, top, u0, v0)
	c.addVertex(right, top, u1, v0)
	c.addVertex(left, bottom, u0, v1)
	c.addVertex(left, bottom, u0, v1)
	c.addVertex(right, top, u1, v0)
	c.addVertex(right, bottom, u1, v1)
}
