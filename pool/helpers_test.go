package pool

import (
	"image"
	"time"

	"github.com/gogpu/drawpool/drawmethod"
	"github.com/gogpu/drawpool/painter"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeTexture struct {
	id          uint32
	uniqueID    uint64
	opaque      bool
	superimpose bool
}

func (t *fakeTexture) ID() uint32           { return t.id }
func (t *fakeTexture) UniqueID() uint64     { return t.uniqueID }
func (t *fakeTexture) IsEmpty() bool        { return t.id == 0 }
func (t *fakeTexture) IsOpaque() bool       { return t.opaque }
func (t *fakeTexture) CanSuperimpose() bool { return t.superimpose }
func (t *fakeTexture) Size() image.Point    { return image.Pt(64, 64) }
func (t *fakeTexture) Smooth() bool         { return false }

// countingMethod counts how often its geometry is emitted.
type countingMethod struct {
	drawmethod.Method
	adds *int
}

func (m *countingMethod) Add(c *drawmethod.CoordsBuffer, mode drawmethod.DrawMode) {
	*m.adds++
	m.Method.Add(c, mode)
}

// glyph returns the quad of letter r at column col.
func glyph(r rune, col int, adds *int) drawmethod.Method {
	src := int(r-'A') * 8
	return &countingMethod{
		Method: &drawmethod.TexturedRect{
			Dest: image.Rect(col*8, 0, col*8+8, 12),
			Src:  image.Rect(src, 0, src+8, 12),
		},
		adds: adds,
	}
}

type fakeProgram uint64

func (p fakeProgram) ProgramID() uint64 { return uint64(p) }

type drawCall struct {
	state    painter.State
	vertices int
	mode     drawmethod.DrawMode
}

// recordingPainter remembers every state and draw it receives.
type recordingPainter struct {
	states int
	cur    painter.State
	calls  []drawCall
}

func (r *recordingPainter) ExecuteState(s *painter.State) {
	r.states++
	r.cur = *s
	if s.Action != nil {
		s.Action()
	}
}

func (r *recordingPainter) DrawCoords(c *drawmethod.CoordsBuffer, mode drawmethod.DrawMode) {
	r.calls = append(r.calls, drawCall{state: r.cur, vertices: c.VertexCount(), mode: mode})
}
