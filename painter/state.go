// Package painter describes the rasterizer state a pool snapshots for every
// draw call, and the Painter interface that consumes it.
package painter

import (
	"image"
	"image/color"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/drawpool/internal/hashx"
)

// CompositionMode selects how drawn pixels combine with the target.
type CompositionMode uint8

// Composition modes.
const (
	CompositionNormal CompositionMode = iota
	CompositionMultiply
	CompositionAdd
	CompositionReplace
	CompositionDestBlending
	CompositionLight
)

// String returns a human-readable name for the composition mode.
func (m CompositionMode) String() string {
	switch m {
	case CompositionNormal:
		return "Normal"
	case CompositionMultiply:
		return "Multiply"
	case CompositionAdd:
		return "Add"
	case CompositionReplace:
		return "Replace"
	case CompositionDestBlending:
		return "DestBlending"
	case CompositionLight:
		return "Light"
	default:
		return "Unknown"
	}
}

// BlendEquation selects the operator applied between the weighted source
// and destination.
type BlendEquation uint8

// Blend equations.
const (
	BlendAdd BlendEquation = iota
	BlendMax
	BlendMin
	BlendSubtract
	BlendReverseSubtract
)

// String returns a human-readable name for the blend equation.
func (e BlendEquation) String() string {
	switch e {
	case BlendAdd:
		return "Add"
	case BlendMax:
		return "Max"
	case BlendMin:
		return "Min"
	case BlendSubtract:
		return "Subtract"
	case BlendReverseSubtract:
		return "ReverseSubtract"
	default:
		return "Unknown"
	}
}

// Identity is the identity transform.
var Identity = f32.Aff3{1, 0, 0, 0, 1, 0}

// White is the neutral modulation color.
var White = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// ShaderProgram is a bound shader. ProgramID must be stable for the
// lifetime of the program.
type ShaderProgram interface {
	ProgramID() uint64
}

// State is a snapshot of everything that affects how one draw call is
// rasterized.
type State struct {
	Transform       f32.Aff3
	Color           color.NRGBA
	Opacity         float32
	CompositionMode CompositionMode
	BlendEquation   BlendEquation
	ClipRect        image.Rectangle
	Texture         Texture
	ShaderProgram   ShaderProgram

	// Action runs when the state is applied, typically to upload shader
	// uniforms. It takes no part in equality or hashing.
	Action func()
}

// DefaultState returns the state every pool starts from.
func DefaultState() State {
	return State{
		Transform:       Identity,
		Color:           White,
		Opacity:         1,
		CompositionMode: CompositionNormal,
		BlendEquation:   BlendAdd,
	}
}

// Equal reports whether two states would rasterize identically.
func (s *State) Equal(o *State) bool {
	return s.Transform == o.Transform &&
		s.Color == o.Color &&
		s.Opacity == o.Opacity &&
		s.CompositionMode == o.CompositionMode &&
		s.BlendEquation == o.BlendEquation &&
		s.ClipRect == o.ClipRect &&
		s.Texture == o.Texture &&
		s.ShaderProgram == o.ShaderProgram
}

// Field tags a State field in a hash so equal raw values of different
// fields fold differently.
type Field uint64

// State fields as hash tags.
const (
	FieldBlendEquation Field = iota + 1
	FieldClipRect
	FieldColor
	FieldCompositionMode
	FieldOpacity
	FieldShaderProgram
	FieldTexture
	FieldTransform
)

// CombineField folds the tag f and then v into h.
func CombineField(h *uint64, f Field, v uint64) {
	hashx.Combine(h, uint64(f))
	hashx.Combine(h, v)
}

// CombineOpacity folds an opacity tagged as FieldOpacity into h.
func CombineOpacity(h *uint64, v float32) {
	hashx.Combine(h, uint64(FieldOpacity))
	hashx.CombineFloat32(h, v)
}

// Hash returns a fingerprint built only from the fields that differ from
// their defaults, so the default state hashes to zero. Every field is
// tagged before its value.
func (s *State) Hash() uint64 {
	var h uint64

	if s.BlendEquation != BlendAdd {
		CombineField(&h, FieldBlendEquation, uint64(s.BlendEquation))
	}
	if !s.ClipRect.Empty() {
		CombineField(&h, FieldClipRect, RectHash(s.ClipRect))
	}
	if s.Color != White {
		CombineField(&h, FieldColor, uint64(PackColor(s.Color)))
	}
	if s.CompositionMode != CompositionNormal {
		CombineField(&h, FieldCompositionMode, uint64(s.CompositionMode))
	}
	if s.Opacity < 1 {
		CombineOpacity(&h, s.Opacity)
	}
	if s.ShaderProgram != nil {
		CombineField(&h, FieldShaderProgram, s.ShaderProgram.ProgramID())
	}
	if s.Texture != nil {
		CombineField(&h, FieldTexture, TextureKey(s.Texture))
	}
	if s.Transform != Identity {
		CombineField(&h, FieldTransform, MatrixHash(s.Transform))
	}

	return h
}

// TextureKey returns the identity a texture contributes to a state hash:
// its backend id once uploaded, its unique id before that.
func TextureKey(t Texture) uint64 {
	if !t.IsEmpty() {
		return uint64(t.ID())
	}
	return t.UniqueID()
}

// PackColor packs c as 0xRRGGBBAA.
func PackColor(c color.NRGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// RectHash hashes a rectangle.
func RectHash(r image.Rectangle) uint64 {
	var h uint64
	hashx.CombineInt(&h, r.Min.X)
	hashx.CombineInt(&h, r.Min.Y)
	hashx.CombineInt(&h, r.Max.X)
	hashx.CombineInt(&h, r.Max.Y)
	return h
}

// MatrixHash hashes an affine transform.
func MatrixHash(m f32.Aff3) uint64 {
	var h uint64
	for _, v := range m {
		hashx.CombineFloat32(&h, v)
	}
	return h
}

// Apply transforms the point (x, y) by m.
func Apply(m f32.Aff3, x, y float32) (float32, float32) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// Mul returns the transform that applies b first and then a.
func Mul(a, b f32.Aff3) f32.Aff3 {
	return f32.Aff3{
		a[0]*b[0] + a[1]*b[3],
		a[0]*b[1] + a[1]*b[4],
		a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3],
		a[3]*b[1] + a[4]*b[4],
		a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

// Translate returns a translation transform.
func Translate(dx, dy float32) f32.Aff3 {
	return f32.Aff3{1, 0, dx, 0, 1, dy}
}

// Scale returns a scaling transform.
func Scale(sx, sy float32) f32.Aff3 {
	return f32.Aff3{sx, 0, 0, 0, sy, 0}
}
