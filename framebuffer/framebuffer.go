// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package framebuffer provides the off-screen target a framed pool paints
// into and later composites onto the screen.
package framebuffer

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/drawpool/drawmethod"
	"github.com/gogpu/drawpool/internal/logx"
	"github.com/gogpu/drawpool/painter"
)

// Presentation errors.
var (
	// ErrNoTextureCreator is returned when the draw context cannot create
	// textures.
	ErrNoTextureCreator = errors.New("framebuffer: draw context has no texture creator")

	// ErrNotGPUTexture is returned when the created texture cannot be drawn.
	ErrNotGPUTexture = errors.New("framebuffer: created texture is not a gpucontext.Texture")
)

// textureDestroyer matches textures that own GPU memory.
type textureDestroyer interface {
	Destroy()
}

// FrameBuffer is an RGBA render target with its own composition settings.
//
// The pixels are painted on the CPU by the painter returned from Bind and
// exposed as a texture for composition. Present mirrors them into a GPU
// texture created through gpucontext.
type FrameBuffer struct {
	img *image.RGBA
	tex *painter.ImageTexture

	mode   painter.CompositionMode
	blend  bool
	smooth bool
	bound  bool

	gpuTex    any
	oldGPUTex any
	dirty     bool

	// quad is the composite geometry of the last Draw, rebuilt when its
	// resolved rects change.
	quad     *drawmethod.CoordsBuffer
	quadDest image.Rectangle
	quadSrc  image.Rectangle
}

// New creates a frame buffer of the given size with blending enabled.
func New(size image.Point) *FrameBuffer {
	f := &FrameBuffer{blend: true}
	f.allocate(size)
	return f
}

func (f *FrameBuffer) allocate(size image.Point) {
	f.img = image.NewRGBA(image.Rectangle{Max: size})
	f.tex = painter.NewImageTexture(f.img)
	f.tex.SetSmooth(f.smooth)
	f.dirty = true
}

// Resize reallocates the target, dropping its contents. Resizing to the
// current size is a no-op.
func (f *FrameBuffer) Resize(size image.Point) {
	if size == f.Size() {
		return
	}
	logx.Logger().Debug("framebuffer: resize", "width", size.X, "height", size.Y)
	f.allocate(size)
	if f.gpuTex != nil {
		f.oldGPUTex = f.gpuTex
		f.gpuTex = nil
	}
}

// Size returns the target size in pixels.
func (f *FrameBuffer) Size() image.Point {
	return f.img.Bounds().Size()
}

// SetCompositionMode sets the mode used when the frame buffer is drawn
// onto another target.
func (f *FrameBuffer) SetCompositionMode(m painter.CompositionMode) { f.mode = m }

// CompositionMode returns the composition mode used by Draw.
func (f *FrameBuffer) CompositionMode() painter.CompositionMode { return f.mode }

// DisableBlend makes draws into the frame buffer replace its pixels.
func (f *FrameBuffer) DisableBlend() { f.blend = false }

// EnableBlend restores blending for draws into the frame buffer.
func (f *FrameBuffer) EnableBlend() { f.blend = true }

// BlendEnabled reports whether draws into the frame buffer blend.
func (f *FrameBuffer) BlendEnabled() bool { return f.blend }

// SetSmooth toggles bilinear sampling when the frame buffer is drawn.
func (f *FrameBuffer) SetSmooth(v bool) {
	f.smooth = v
	f.tex.SetSmooth(v)
}

// Smooth reports whether the frame buffer is sampled bilinearly.
func (f *FrameBuffer) Smooth() bool { return f.smooth }

// Bind clears the target and returns a painter drawing into it.
func (f *FrameBuffer) Bind() *painter.Software {
	f.bound = true
	f.dirty = true
	p := painter.NewSoftware(f.img)
	p.Clear()
	p.SetBlendEnabled(f.blend)
	return p
}

// Release ends painting started by Bind.
func (f *FrameBuffer) Release() {
	f.bound = false
	f.tex.Refresh()
}

// Bound reports whether the frame buffer is between Bind and Release.
func (f *FrameBuffer) Bound() bool { return f.bound }

// Texture returns the texture holding the frame buffer pixels.
func (f *FrameBuffer) Texture() *painter.ImageTexture { return f.tex }

// Image returns the frame buffer pixels.
func (f *FrameBuffer) Image() *image.RGBA { return f.img }

// Draw composites the src part of the frame buffer onto dest of p using
// the frame buffer's composition mode. An empty src selects the whole
// buffer, an empty dest draws at the buffer's own size at the origin.
func (f *FrameBuffer) Draw(p painter.Painter, dest, src image.Rectangle) {
	if src.Empty() {
		src = f.img.Bounds()
	}
	if dest.Empty() {
		dest = image.Rectangle{Max: src.Size()}
	}

	s := painter.DefaultState()
	s.Texture = f.tex
	s.CompositionMode = f.mode

	if f.quad == nil {
		f.quad = drawmethod.NewCoordsBuffer()
	}
	if f.quad.VertexCount() == 0 || dest != f.quadDest || src != f.quadSrc {
		f.quad.Clear()
		drawmethod.Emit(f.quad, drawmethod.ModeTriangleStrip, &drawmethod.TexturedRect{Dest: dest, Src: src})
		f.quadDest, f.quadSrc = dest, src
	}

	p.ExecuteState(&s)
	p.DrawCoords(f.quad, drawmethod.ModeTriangleStrip)
}

// Present uploads the pixels to a GPU texture, creating it on first use
// or after a resize, and draws it at (x, y).
func (f *FrameBuffer) Present(dc gpucontext.TextureDrawer, x, y float32) error {
	if f.gpuTex == nil {
		creator := dc.TextureCreator()
		if creator == nil {
			return ErrNoTextureCreator
		}
		size := f.Size()
		tex, err := creator.NewTextureFromRGBA(size.X, size.Y, f.img.Pix)
		if err != nil {
			return fmt.Errorf("framebuffer: create texture: %w", err)
		}
		if pt, ok := any(tex).(interface{ SetPremultiplied(bool) }); ok {
			pt.SetPremultiplied(true)
		}
		f.gpuTex = tex
		f.dirty = false

		if d, ok := f.oldGPUTex.(textureDestroyer); ok {
			d.Destroy()
		}
		f.oldGPUTex = nil
	} else if f.dirty {
		if u, ok := f.gpuTex.(gpucontext.TextureUpdater); ok {
			if err := u.UpdateData(f.img.Pix); err != nil {
				return fmt.Errorf("framebuffer: texture update: %w", err)
			}
		}
		f.dirty = false
	}

	gpuTex, ok := f.gpuTex.(gpucontext.Texture)
	if !ok {
		return ErrNotGPUTexture
	}
	return dc.DrawTexture(gpuTex, x, y)
}

// Close destroys any GPU texture created by Present.
func (f *FrameBuffer) Close() {
	for _, t := range []any{f.gpuTex, f.oldGPUTex} {
		if d, ok := t.(textureDestroyer); ok {
			d.Destroy()
		}
	}
	f.gpuTex, f.oldGPUTex = nil, nil
}
