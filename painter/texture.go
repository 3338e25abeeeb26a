package painter

import (
	"image"
	"image/draw"
	"sync/atomic"
)

// Texture is a sampled image a draw call can bind.
//
// ID is the backend handle and is zero until the texture is uploaded.
// UniqueID is assigned at construction and never changes.
type Texture interface {
	ID() uint32
	UniqueID() uint64
	IsEmpty() bool
	IsOpaque() bool
	CanSuperimpose() bool
	Size() image.Point
	Smooth() bool
}

// Sampler is implemented by textures the software painter can read.
type Sampler interface {
	Texture
	RGBA() *image.RGBA
}

var nextUniqueID atomic.Uint64

// NewUniqueID returns a process-wide unique, non-zero texture id.
func NewUniqueID() uint64 {
	return nextUniqueID.Add(1)
}

// ImageTexture is a CPU texture backed by premultiplied RGBA pixels.
type ImageTexture struct {
	img         *image.RGBA
	id          uint32
	uniqueID    uint64
	opaque      bool
	superimpose bool
	smooth      bool
}

// NewImageTexture wraps img. Opacity is derived from the pixels; the
// texture may be superimposed by default.
func NewImageTexture(img *image.RGBA) *ImageTexture {
	t := &ImageTexture{
		img:         img,
		uniqueID:    NewUniqueID(),
		superimpose: true,
	}
	t.opaque = isOpaque(img)
	return t
}

// NewImageTextureFrom converts any image into an ImageTexture.
func NewImageTextureFrom(src image.Image) *ImageTexture {
	if rgba, ok := src.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return NewImageTexture(rgba)
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return NewImageTexture(dst)
}

// NewSolidTexture returns a w x h texture filled with c.
func NewSolidTexture(w, h int, c image.Image) *ImageTexture {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), c, image.Point{}, draw.Src)
	return NewImageTexture(dst)
}

func isOpaque(img *image.RGBA) bool {
	if img == nil {
		return false
	}
	return img.Opaque()
}

// ID returns the backend id, zero while not uploaded.
func (t *ImageTexture) ID() uint32 { return t.id }

// SetID records the backend id after upload.
func (t *ImageTexture) SetID(id uint32) { t.id = id }

// UniqueID returns the construction-time identity.
func (t *ImageTexture) UniqueID() uint64 { return t.uniqueID }

// IsEmpty reports whether the texture has no backend id yet.
func (t *ImageTexture) IsEmpty() bool { return t.id == 0 }

// IsOpaque reports whether every pixel is fully opaque.
func (t *ImageTexture) IsOpaque() bool { return t.opaque }

// CanSuperimpose reports whether an opaque draw over this texture may
// discard it.
func (t *ImageTexture) CanSuperimpose() bool { return t.superimpose }

// SetCanSuperimpose overrides whether the texture may be hidden by opaque
// draws on top of it.
func (t *ImageTexture) SetCanSuperimpose(v bool) { t.superimpose = v }

// Size returns the pixel dimensions.
func (t *ImageTexture) Size() image.Point {
	if t.img == nil {
		return image.Point{}
	}
	return t.img.Bounds().Size()
}

// Smooth reports whether the texture is sampled bilinearly.
func (t *ImageTexture) Smooth() bool { return t.smooth }

// SetSmooth toggles bilinear sampling.
func (t *ImageTexture) SetSmooth(v bool) { t.smooth = v }

// RGBA returns the backing pixels.
func (t *ImageTexture) RGBA() *image.RGBA { return t.img }

// Refresh recomputes opacity after the pixels were modified in place.
func (t *ImageTexture) Refresh() { t.opaque = isOpaque(t.img) }
