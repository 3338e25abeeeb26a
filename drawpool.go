package drawpool

import (
	"image"
	"image/color"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/drawpool/drawmethod"
	"github.com/gogpu/drawpool/painter"
	"github.com/gogpu/drawpool/pool"
	"github.com/gogpu/drawpool/text"
)

// Ambient selects the current pool's ambient state in the state setters.
const Ambient = pool.Ambient

// DrawPool owns one pool per layer and drives the frame cycle: select a
// layer with Use, add draws to it, then Draw everything onto the screen.
//
// A DrawPool belongs to the render goroutine and is not safe for
// concurrent use.
type DrawPool struct {
	pools   [len(pool.Types)]*pool.Pool
	current *pool.Pool
}

// New creates a pool for every layer with pool.Create. The map layer is
// selected initially. Frame buffers are DefaultFrameBufferSize unless
// WithFrameBufferSize says otherwise.
func New(opts ...Option) *DrawPool {
	o := options{pool: []pool.Option{pool.WithFrameBufferSize(DefaultFrameBufferSize)}}
	for _, opt := range opts {
		opt(&o)
	}

	d := &DrawPool{}
	for _, typ := range pool.Types {
		d.pools[typ] = pool.Create(typ, o.pool...)
	}
	for _, typ := range o.disabled {
		d.pools[typ].SetEnabled(false)
	}
	d.current = d.pools[pool.TypeMap]
	return d
}

// Use makes the pool of typ current and resets its ambient state.
func (d *DrawPool) Use(typ pool.Type) {
	d.current = d.pools[typ]
	d.current.ResetState()
}

// UseFramed selects a framed pool like Use and sets where its frame buffer
// is composited (dest) and which part of it is shown (src). The rects are
// ignored for pools that are not framed.
func (d *DrawPool) UseFramed(typ pool.Type, dest, src image.Rectangle) {
	d.Use(typ)
	if f := d.current.Framed(); f != nil {
		f.SetRects(dest, src)
	}
}

// Get returns the pool of typ.
func (d *DrawPool) Get(typ pool.Type) *pool.Pool { return d.pools[typ] }

// Current returns the selected pool.
func (d *DrawPool) Current() *pool.Pool { return d.current }

// Size returns the number of objects in the current pool, which is the
// position of the last one for the per-object setters.
func (d *DrawPool) Size() int { return d.current.Len() }

// AddTexturedRect draws the src texels of tex into dest. An empty src
// selects the whole texture.
func (d *DrawPool) AddTexturedRect(dest image.Rectangle, tex painter.Texture, src image.Rectangle, c color.NRGBA) {
	d.AddTexturedRectBuffered(dest, tex, src, c, nil)
}

// AddTexturedRectBuffered is AddTexturedRect with a buffer the caller keeps
// across frames. The add goes through the grouped path, so the geometry is
// only regenerated when the buffer's content changes.
func (d *DrawPool) AddTexturedRectBuffered(dest image.Rectangle, tex painter.Texture, src image.Rectangle, c color.NRGBA, buf *pool.Buffer) {
	if dest.Empty() || tex == nil {
		return
	}
	if src.Empty() {
		src = image.Rectangle{Max: tex.Size()}
	}
	d.current.Add(c, tex, &drawmethod.TexturedRect{Dest: dest, Src: src}, drawmethod.ModeTriangleStrip, buf)
}

// AddFilledRect fills dest with c.
func (d *DrawPool) AddFilledRect(dest image.Rectangle, c color.NRGBA) {
	if dest.Empty() {
		return
	}
	d.current.Add(c, nil, &drawmethod.FilledRect{Dest: dest}, drawmethod.ModeTriangleStrip, nil)
}

// AddBoundingRect outlines dest with c, innerLineWidth pixels thick.
func (d *DrawPool) AddBoundingRect(dest image.Rectangle, c color.NRGBA, innerLineWidth int) {
	if dest.Empty() {
		return
	}
	d.current.Add(c, nil, &drawmethod.BoundingRect{Dest: dest, InnerLineWidth: innerLineWidth}, drawmethod.ModeTriangles, nil)
}

// AddFilledTriangle fills the triangle a, b, p with c.
func (d *DrawPool) AddFilledTriangle(a, b, p image.Point, c color.NRGBA) {
	if a == b || a == p || b == p {
		return
	}
	d.current.Add(c, nil, drawmethod.NewTriangle(a, b, p), drawmethod.ModeTriangles, nil)
}

// AddTriangleFan fills the convex polygon through points with c. Fewer
// than three points draw nothing. The pool keeps the slice.
func (d *DrawPool) AddTriangleFan(points []image.Point, c color.NRGBA) {
	if len(points) < 3 {
		return
	}
	d.current.Add(c, nil, &drawmethod.TriangleFan{Points: points}, drawmethod.ModeTriangles, nil)
}

// AddGlyphRun draws run, laid out against atlas, tinted with c.
func (d *DrawPool) AddGlyphRun(run *drawmethod.GlyphRun, atlas *text.Atlas, c color.NRGBA) {
	if run == nil || len(run.Glyphs) == 0 {
		return
	}
	d.current.Add(c, atlas.Texture(), run, drawmethod.ModeTriangles, nil)
}

// SetOpacity sets the opacity of the current pool's ambient state, or of
// the object at pos.
func (d *DrawPool) SetOpacity(v float32, pos int) { d.current.SetOpacity(v, pos) }

// SetClipRect sets the clip rect of the current pool's ambient state, or
// of the object at pos.
func (d *DrawPool) SetClipRect(r image.Rectangle, pos int) { d.current.SetClipRect(r, pos) }

// SetCompositionMode sets the composition mode of the current pool's
// ambient state, or of the object at pos.
func (d *DrawPool) SetCompositionMode(m painter.CompositionMode, pos int) {
	d.current.SetCompositionMode(m, pos)
}

// SetBlendEquation sets the blend equation of the current pool's ambient
// state, or of the object at pos.
func (d *DrawPool) SetBlendEquation(e painter.BlendEquation, pos int) {
	d.current.SetBlendEquation(e, pos)
}

// SetShaderProgram binds sp and its action in the current pool.
func (d *DrawPool) SetShaderProgram(sp painter.ShaderProgram, pos int, action func()) {
	d.current.SetShaderProgram(sp, pos, action)
}

// SetTransform sets the current pool's ambient transform.
func (d *DrawPool) SetTransform(m f32.Aff3) { d.current.SetTransform(m) }

// ResetState restores the current pool's ambient state.
func (d *DrawPool) ResetState() { d.current.ResetState() }

// Flush ends the current pool's groups.
func (d *DrawPool) Flush() { d.current.Flush() }

// Repaint forces the pool of typ to repaint on the next Draw.
func (d *DrawPool) Repaint(typ pool.Type) { d.pools[typ].Repaint() }

// Draw renders the frame onto screen and frees every pool.
//
// Framed pools whose content changed are repainted into their frame buffer
// first. Then the layers are drawn in type order: framed pools composite
// their frame buffer, plain pools draw their objects directly.
func (d *DrawPool) Draw(screen painter.Painter) {
	for _, p := range d.pools {
		f := p.Framed()
		if f == nil || !p.Enabled() {
			continue
		}
		if p.HasModification(true) {
			f.Paint()
		}
	}

	for _, p := range d.pools {
		if !p.Enabled() {
			continue
		}
		if f := p.Framed(); f != nil {
			f.Composite(screen)
			continue
		}
		p.Draw(screen)
	}

	for _, p := range d.pools {
		p.Free()
	}
}
