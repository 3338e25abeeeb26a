package pool

import (
	"github.com/gogpu/drawpool/framebuffer"
	"github.com/gogpu/drawpool/painter"
)

// Create returns the pool flavor suited to typ.
//
// Map, light and foreground pools are framed. The map frame buffer does
// not blend; the light pool groups every add and composites with the
// light mode. Every other type gets a plain pool with forced grouping,
// since it redraws the same few shapes every frame.
func Create(typ Type, opts ...Option) *Pool {
	if !typ.Framed() {
		p := New(typ, opts...)
		p.forceGrouping = true
		return p
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	fb := o.frameBuffer
	if fb == nil {
		fb = framebuffer.New(o.frameBufferSize)
	}

	f := NewFramed(typ, fb, opts...)
	switch typ {
	case TypeMap:
		fb.DisableBlend()
	case TypeLight:
		f.forceGrouping = true
		fb.SetCompositionMode(painter.CompositionLight)
	}
	return &f.Pool
}
