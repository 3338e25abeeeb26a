package pool

import (
	"image"

	"github.com/gogpu/drawpool/drawmethod"
	"github.com/gogpu/drawpool/internal/logx"
)

// Buffer caches the geometry of a grouped draw object across frames.
//
// It records the content hash of every method added to it, in order, and
// the geometry they emitted. On the next frame the same adds walk the
// recorded hashes with a cursor; as long as every hash matches, no
// geometry is produced. The first mismatch invalidates the buffer and the
// pool regenerates it.
//
// The zero value is not usable; create buffers with NewBuffer.
type Buffer struct {
	pos        int // index of the last consumed entry; -1 when invalid
	ref        image.Point
	hashes     []uint64
	coords     *drawmethod.CoordsBuffer
	generation int
}

// NewBuffer returns an empty, valid buffer.
func NewBuffer() *Buffer {
	return &Buffer{coords: drawmethod.NewCoordsBuffer()}
}

// IsValid reports whether the recorded geometry can still be trusted.
func (b *Buffer) IsValid() bool { return b.pos > -1 }

// Validate invalidates the buffer if its reference point moved to p, and
// reports whether it is valid afterwards. Owners of caller-supplied
// buffers call it once per frame before adding to the buffer.
func (b *Buffer) Validate(p image.Point) bool {
	if b.ref != p {
		b.ref = p
		b.Invalidate()
	}
	return b.IsValid()
}

// Invalidate drops the recorded hashes so the buffer is rebuilt on its
// next use.
func (b *Buffer) Invalidate() {
	if b.pos > -1 {
		logx.Logger().Debug("pool: buffer invalidated", "entries", len(b.hashes), "cursor", b.pos)
	}
	b.pos = -1
	b.hashes = b.hashes[:0]
}

// Ref returns the reference point last passed to Validate.
func (b *Buffer) Ref() image.Point { return b.ref }

// Len returns the number of recorded entries.
func (b *Buffer) Len() int { return len(b.hashes) }

// Cursor returns how many recorded entries the current frame consumed.
func (b *Buffer) Cursor() int {
	return min(b.pos+1, len(b.hashes))
}

// Hashes returns the recorded method hashes. The slice aliases internal
// storage.
func (b *Buffer) Hashes() []uint64 { return b.hashes }

// Coords returns the cached geometry.
func (b *Buffer) Coords() *drawmethod.CoordsBuffer { return b.coords }

// Generation returns how many times the buffer was rebuilt from scratch.
func (b *Buffer) Generation() int { return b.generation }

// rebuild replaces the recorded entries with methods and leaves the cursor
// on the last of them.
func (b *Buffer) rebuild(methods []drawmethod.Method) {
	if b.coords == nil {
		b.coords = drawmethod.NewCoordsBuffer()
	}
	b.coords.Clear()
	b.hashes = b.hashes[:0]
	for _, m := range methods {
		b.hashes = append(b.hashes, drawmethod.Hash(m))
		drawmethod.Emit(b.coords, drawmethod.ModeTriangles, m)
	}
	b.pos = len(b.hashes) - 1
	b.generation++
}

// push appends one entry at the end of the sequence.
func (b *Buffer) push(m drawmethod.Method, h uint64) {
	b.hashes = append(b.hashes, h)
	drawmethod.Emit(b.coords, drawmethod.ModeTriangles, m)
}
