package pool

import (
	"image"

	"github.com/gogpu/drawpool/framebuffer"
	"github.com/gogpu/drawpool/internal/logx"
	"github.com/gogpu/drawpool/painter"
)

// Framed is a pool that paints into its own frame buffer. The buffer is
// only repainted when the pool reports a modification and is composited
// onto the screen every frame.
type Framed struct {
	Pool

	fb        *framebuffer.FrameBuffer
	dest, src image.Rectangle

	// blank is set while the frame buffer holds no painted objects.
	blank bool

	beforeDraw, afterDraw func()
}

// NewFramed returns an enabled framed pool painting into fb.
func NewFramed(typ Type, fb *framebuffer.FrameBuffer, opts ...Option) *Framed {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	f := &Framed{fb: fb, blank: true}
	f.init(typ, o)
	f.framed = f
	return f
}

// FrameBuffer returns the target the pool paints into.
func (f *Framed) FrameBuffer() *framebuffer.FrameBuffer { return f.fb }

// OnBeforeDraw registers fn to run right before the frame buffer is
// composited.
func (f *Framed) OnBeforeDraw(fn func()) { f.beforeDraw = fn }

// OnAfterDraw registers fn to run right after the frame buffer is
// composited.
func (f *Framed) OnAfterDraw(fn func()) { f.afterDraw = fn }

// SetSmooth toggles bilinear sampling of the frame buffer.
func (f *Framed) SetSmooth(v bool) { f.fb.SetSmooth(v) }

// Resize resizes the frame buffer. The contents are lost, so the next
// HasModification reports a change.
func (f *Framed) Resize(size image.Point) {
	if size == f.fb.Size() {
		return
	}
	f.fb.Resize(size)
	f.Repaint()
}

// Size returns the frame buffer size.
func (f *Framed) Size() image.Point { return f.fb.Size() }

// SetRects sets where the frame buffer lands on screen and which part of
// it is shown.
func (f *Framed) SetRects(dest, src image.Rectangle) {
	f.dest, f.src = dest, src
}

// Dest returns the screen rectangle the frame buffer is drawn to.
func (f *Framed) Dest() image.Rectangle { return f.dest }

// Src returns the frame buffer region that is drawn.
func (f *Framed) Src() image.Rectangle { return f.src }

// Paint redraws the recorded objects into the frame buffer.
func (f *Framed) Paint() {
	logx.Logger().Debug("pool: repaint frame buffer", "type", f.typ, "objects", len(f.objects))
	pt := f.fb.Bind()
	f.Draw(pt)
	f.fb.Release()
	f.blank = len(f.objects) == 0
}

// Blank reports whether the last Paint drew nothing. A pool that was
// never painted is blank.
func (f *Framed) Blank() bool { return f.blank }

// Composite draws the frame buffer onto screen, wrapped in the before and
// after callbacks. A blank frame buffer is skipped, callbacks included, so
// an empty light layer does not darken the screen.
func (f *Framed) Composite(screen painter.Painter) {
	if f.blank {
		return
	}
	if f.beforeDraw != nil {
		f.beforeDraw()
	}
	f.fb.Draw(screen, f.dest, f.src)
	if f.afterDraw != nil {
		f.afterDraw()
	}
}
