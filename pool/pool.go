// Package pool batches draw requests for one rendering layer.
//
// A Pool collects draw methods into objects that share a painter state.
// Grouped pools cache each object's geometry in a Buffer that survives
// across frames, keyed by the state hash, and regenerate it only when the
// sequence of method hashes changes. Ungrouped pools merge back-to-back
// adds with the same state into one object and drop textured rects that a
// later add fully covers.
//
// Every add also folds the state and method hashes into a running status
// hash. Comparing it with the hash committed on the previous frame tells
// the caller whether the layer needs to be repainted at all.
//
// Pools are not safe for concurrent use; they belong to the render loop.
package pool

import (
	"fmt"
	"image"
	"image/color"
	"slices"
	"time"

	"github.com/gogpu/drawpool/drawmethod"
	"github.com/gogpu/drawpool/internal/hashx"
	"github.com/gogpu/drawpool/internal/logx"
	"github.com/gogpu/drawpool/painter"
	"golang.org/x/image/math/f32"
)

// Ambient selects the pool's ambient state in the state accessors instead
// of a recorded object.
const Ambient = -1

// status pairs the hash committed by the last UpdateStatus with the hash
// accumulated since the last ResetState.
type status struct {
	committed uint64
	current   uint64
}

type ownedBuffer struct {
	buf  *Buffer
	used bool
}

// Pool accumulates draw objects for one layer.
type Pool struct {
	typ           Type
	enabled       bool
	forceGrouping bool
	autoUpdate    bool
	repaint       bool

	state   painter.State
	objects []Object

	// index maps a state hash to the object grouping it this frame.
	index map[uint64]int

	// owned holds the buffers the pool allocated itself, keyed by state
	// hash and occurrence, so grouped content is cached across frames.
	owned  map[uint64]*ownedBuffer
	claims map[uint64]int

	status      status
	clock       Clock
	interval    time.Duration
	lastRefresh time.Time

	framed *Framed

	scratch   *drawmethod.CoordsBuffer
	lastState painter.State
}

// New returns an enabled, ungrouped pool of type typ.
func New(typ Type, opts ...Option) *Pool {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	p := &Pool{}
	p.init(typ, o)
	return p
}

func (p *Pool) init(typ Type, o options) {
	p.typ = typ
	p.enabled = true
	p.state = painter.DefaultState()
	p.index = make(map[uint64]int)
	p.owned = make(map[uint64]*ownedBuffer)
	p.claims = make(map[uint64]int)
	p.clock = o.clock
	p.interval = o.refreshInterval
	p.lastRefresh = p.clock.Now()
	p.scratch = drawmethod.NewCoordsBuffer()
}

// Type returns the layer the pool draws.
func (p *Pool) Type() Type { return p.typ }

// Enabled reports whether the pool takes part in drawing.
func (p *Pool) Enabled() bool { return p.enabled }

// SetEnabled enables or disables the pool.
func (p *Pool) SetEnabled(v bool) { p.enabled = v }

// ForceGrouping reports whether every add goes through the grouped path.
func (p *Pool) ForceGrouping() bool { return p.forceGrouping }

// SetForceGrouping makes every add use the grouped path.
func (p *Pool) SetForceGrouping(v bool) { p.forceGrouping = v }

// AutoUpdate reports whether a bound shader forces periodic refreshes.
func (p *Pool) AutoUpdate() bool { return p.autoUpdate }

// Framed returns the framed pool p belongs to, or nil.
func (p *Pool) Framed() *Framed { return p.framed }

// State returns a copy of the ambient state.
func (p *Pool) State() painter.State { return p.state }

// Objects returns the objects recorded this frame. The slice aliases
// internal storage.
func (p *Pool) Objects() []Object { return p.objects }

// Len returns the number of recorded objects. It doubles as the position
// of the last object for the per-object state accessors.
func (p *Pool) Len() int { return len(p.objects) }

// Status returns the committed and accumulated status hashes.
func (p *Pool) Status() (committed, current uint64) {
	return p.status.committed, p.status.current
}

// Add records a draw of m with the ambient state, color c and texture tex.
// A non-nil buf routes the add through the grouped path with a buffer the
// caller keeps across frames.
//
// The pool takes ownership of m. Add panics if m is nil.
func (p *Pool) Add(c color.NRGBA, tex painter.Texture, m drawmethod.Method, mode drawmethod.DrawMode, buf *Buffer) {
	if m == nil {
		panic("pool: Add called with nil draw method")
	}

	st := p.state
	st.Color = c
	st.Texture = tex
	if st.ShaderProgram != nil {
		p.autoUpdate = true
	}

	stateHash := st.Hash()
	var methodHash uint64
	m.UpdateHash(&methodHash)

	hashx.Union(&p.status.current, stateHash)
	hashx.Union(&p.status.current, methodHash)

	if p.forceGrouping || buf != nil {
		p.addGrouped(st, stateHash, m, methodHash, buf)
		return
	}
	p.addUngrouped(st, m, mode)
}

func (p *Pool) addGrouped(st painter.State, stateHash uint64, m drawmethod.Method, methodHash uint64, buf *Buffer) {
	if i, ok := p.index[stateHash]; ok {
		o := &p.objects[i]
		o.Methods = append(o.Methods, m)
		b := o.Buffer
		if b.IsValid() {
			b.pos++
			switch {
			case b.pos == len(b.hashes):
				b.push(m, methodHash)
			case b.hashes[b.pos] != methodHash:
				b.Invalidate()
			}
		}
		if !b.IsValid() {
			b.rebuild(o.Methods)
		}
		return
	}

	p.index[stateHash] = len(p.objects)

	if buf == nil {
		buf = p.ownedBuffer(stateHash)
	}
	if len(buf.hashes) == 0 || buf.hashes[0] != methodHash {
		buf.rebuild([]drawmethod.Method{m})
	}
	buf.pos = 0

	p.objects = append(p.objects, Object{
		State:   st,
		Mode:    drawmethod.ModeTriangles,
		Methods: []drawmethod.Method{m},
		Buffer:  buf,
	})
}

// ownedBuffer returns the pool's cached buffer for the n-th group of
// stateHash seen this frame, allocating it on first use.
func (p *Pool) ownedBuffer(stateHash uint64) *Buffer {
	key := stateHash
	if n := p.claims[stateHash]; n > 0 {
		hashx.Combine(&key, uint64(n))
	}
	p.claims[stateHash]++

	ob, ok := p.owned[key]
	if !ok {
		ob = &ownedBuffer{buf: NewBuffer()}
		p.owned[key] = ob
	}
	ob.used = true
	return ob.buf
}

func (p *Pool) addUngrouped(st painter.State, m drawmethod.Method, mode drawmethod.DrawMode) {
	if n := len(p.objects); n > 0 && !p.objects[n-1].Grouped() {
		prev := &p.objects[n-1]
		same := prev.State.Equal(&st)

		if rect, ok := m.(*drawmethod.TexturedRect); ok && m.HasRefPoint() {
			covers := isOpaque(st.Texture) && canSuperimpose(prev.State.Texture)
			for i, pm := range prev.Methods {
				old, ok := pm.(*drawmethod.TexturedRect)
				if !ok || old.Dest != rect.Dest {
					continue
				}
				if (same && old.Src == rect.Src) || covers {
					prev.Methods = slices.Delete(prev.Methods, i, i+1)
					break
				}
			}
		}

		if same {
			prev.Mode = drawmethod.ModeTriangles
			prev.Methods = append(prev.Methods, m)
			return
		}
	}

	p.objects = append(p.objects, Object{
		State:   st,
		Mode:    drawmethod.ModeFor(m, mode),
		Methods: []drawmethod.Method{m},
	})
}

func isOpaque(t painter.Texture) bool { return t != nil && t.IsOpaque() }

func canSuperimpose(t painter.Texture) bool { return t != nil && t.CanSuperimpose() }

// object returns the recorded object at 1-based position pos.
func (p *Pool) object(pos int) *Object {
	if pos < 1 || pos > len(p.objects) {
		panic(fmt.Sprintf("pool: object position %d out of range [1, %d]", pos, len(p.objects)))
	}
	return &p.objects[pos-1]
}

// Opacity returns the opacity of the ambient state or of the object at pos.
func (p *Pool) Opacity(pos int) float32 {
	if pos == Ambient {
		return p.state.Opacity
	}
	return p.object(pos).State.Opacity
}

// ClipRect returns the clip rect of the ambient state or of the object at
// pos.
func (p *Pool) ClipRect(pos int) image.Rectangle {
	if pos == Ambient {
		return p.state.ClipRect
	}
	return p.object(pos).State.ClipRect
}

// CompositionMode returns the composition mode of the ambient state or of
// the object at pos.
func (p *Pool) CompositionMode(pos int) painter.CompositionMode {
	if pos == Ambient {
		return p.state.CompositionMode
	}
	return p.object(pos).State.CompositionMode
}

// foldEdit records a retroactive edit of the object at pos in the current
// status, tagged with the edited field.
func (p *Pool) foldEdit(pos int, f painter.Field, v uint64) {
	hashx.CombineInt(&p.status.current, pos)
	painter.CombineField(&p.status.current, f, v)
}

// SetOpacity sets the opacity of the ambient state, or retroactively of
// the object at pos.
func (p *Pool) SetOpacity(v float32, pos int) {
	if pos == Ambient {
		p.state.Opacity = v
		return
	}
	p.object(pos).State.Opacity = v
	hashx.CombineInt(&p.status.current, pos)
	painter.CombineOpacity(&p.status.current, v)
}

// SetClipRect sets the clip rect of the ambient state, or retroactively of
// the object at pos.
func (p *Pool) SetClipRect(r image.Rectangle, pos int) {
	if pos == Ambient {
		p.state.ClipRect = r
		return
	}
	p.object(pos).State.ClipRect = r
	p.foldEdit(pos, painter.FieldClipRect, painter.RectHash(r))
}

// SetCompositionMode sets the composition mode of the ambient state, or
// retroactively of the object at pos.
func (p *Pool) SetCompositionMode(m painter.CompositionMode, pos int) {
	if pos == Ambient {
		p.state.CompositionMode = m
		return
	}
	p.object(pos).State.CompositionMode = m
	p.foldEdit(pos, painter.FieldCompositionMode, uint64(m))
}

// SetBlendEquation sets the blend equation of the ambient state, or
// retroactively of the object at pos.
func (p *Pool) SetBlendEquation(e painter.BlendEquation, pos int) {
	if pos == Ambient {
		p.state.BlendEquation = e
		return
	}
	p.object(pos).State.BlendEquation = e
	p.foldEdit(pos, painter.FieldBlendEquation, uint64(e))
}

// SetShaderProgram binds sp, with an action run whenever the state is
// applied, to the ambient state or retroactively to the object at pos.
// Binding a shader turns on auto-update, since its output cannot be
// derived from the hashes.
func (p *Pool) SetShaderProgram(sp painter.ShaderProgram, pos int, action func()) {
	if sp != nil {
		p.autoUpdate = true
	}
	if pos == Ambient {
		p.state.ShaderProgram = sp
		p.state.Action = action
		return
	}
	o := p.object(pos)
	o.State.ShaderProgram = sp
	o.State.Action = action
	if sp != nil {
		p.foldEdit(pos, painter.FieldShaderProgram, sp.ProgramID())
	}
}

// SetTransform sets the ambient transform.
func (p *Pool) SetTransform(m f32.Aff3) { p.state.Transform = m }

// ResetOpacity restores the ambient opacity.
func (p *Pool) ResetOpacity() { p.state.Opacity = 1 }

// ResetClipRect clears the ambient clip rect.
func (p *Pool) ResetClipRect() { p.state.ClipRect = image.Rectangle{} }

// ResetShaderProgram unbinds the ambient shader and its action.
func (p *Pool) ResetShaderProgram() {
	p.state.ShaderProgram = nil
	p.state.Action = nil
}

// ResetCompositionMode restores the normal composition mode.
func (p *Pool) ResetCompositionMode() { p.state.CompositionMode = painter.CompositionNormal }

// ResetBlendEquation restores the additive blend equation.
func (p *Pool) ResetBlendEquation() { p.state.BlendEquation = painter.BlendAdd }

// ResetTransform restores the identity transform.
func (p *Pool) ResetTransform() { p.state.Transform = painter.Identity }

// ResetState prepares the pool for a new frame of adds: ambient state back
// to defaults, auto-update off, accumulated hash zeroed and grouping index
// cleared. Recorded objects are left for Free.
func (p *Pool) ResetState() {
	p.ResetOpacity()
	p.ResetClipRect()
	p.ResetShaderProgram()
	p.ResetBlendEquation()
	p.ResetCompositionMode()
	p.ResetTransform()

	p.autoUpdate = false
	p.status.current = 0
	clear(p.index)
}

// Flush ends the current groups: later adds start new objects even for
// states already seen this frame, preserving draw order across the
// boundary.
func (p *Pool) Flush() { clear(p.index) }

// Repaint makes the next HasModification report a modification.
func (p *Pool) Repaint() { p.repaint = true }

// HasModification reports whether the pool content changed since the last
// committed status, a repaint was requested, or auto-update is on and the
// refresh interval elapsed. With autoUpdateStatus set, a positive answer
// also commits the current status.
func (p *Pool) HasModification(autoUpdateStatus bool) bool {
	mod := p.status.committed != p.status.current ||
		p.repaint ||
		(p.autoUpdate && p.clock.Now().Sub(p.lastRefresh) > p.interval)

	if mod && autoUpdateStatus {
		p.UpdateStatus()
	}
	return mod
}

// UpdateStatus commits the accumulated hash and restarts the refresh timer.
func (p *Pool) UpdateStatus() {
	p.status.committed = p.status.current
	p.lastRefresh = p.clock.Now()
	p.repaint = false
}

// Free releases every recorded method and object and forgets cached
// buffers that no object used this frame.
func (p *Pool) Free() {
	for i := range p.objects {
		clear(p.objects[i].Methods)
		p.objects[i] = Object{}
	}
	p.objects = p.objects[:0]

	for key, ob := range p.owned {
		if !ob.used {
			delete(p.owned, key)
			continue
		}
		ob.used = false
	}
	clear(p.claims)
}

// Draw paints every recorded object onto pt in order. A state is only
// applied when it differs from the previous one or carries an action.
func (p *Pool) Draw(pt painter.Painter) {
	first := true
	for i := range p.objects {
		o := &p.objects[i]

		var coords *drawmethod.CoordsBuffer
		mode := o.Mode
		if o.Grouped() {
			settle(o)
			coords = o.Buffer.coords
			mode = drawmethod.ModeTriangles
		} else {
			if len(o.Methods) == 0 {
				continue
			}
			p.scratch.Clear()
			for _, m := range o.Methods {
				drawmethod.Emit(p.scratch, mode, m)
			}
			coords = p.scratch
		}
		if coords.VertexCount() == 0 {
			continue
		}

		if first || o.State.Action != nil || !o.State.Equal(&p.lastState) {
			pt.ExecuteState(&o.State)
			p.lastState = o.State
			first = false
		}
		pt.DrawCoords(coords, mode)
	}
	p.scratch.Clear()
}

// settle rebuilds a grouped buffer that recorded more entries than this
// frame added, so stale trailing geometry is never drawn.
func settle(o *Object) {
	b := o.Buffer
	if b.IsValid() && b.Cursor() == len(b.hashes) {
		return
	}
	logx.Logger().Debug("pool: buffer shrank", "recorded", len(b.hashes), "consumed", b.Cursor())
	b.rebuild(o.Methods)
}
