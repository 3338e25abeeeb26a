package painter

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/gogpu/drawpool/drawmethod"
)

// Software is a CPU Painter drawing into an *image.RGBA.
//
// Every chunk of a coordinate buffer is rasterized as one coverage mask,
// so the triangles of a quad never double-blend along their shared edge.
type Software struct {
	dst   *image.RGBA
	state State
	blend BlendState

	blendDisabled bool

	rast *vector.Rasterizer
	mask []uint8
	tris []triangle
}

type vertex struct {
	x, y, u, v float32
}

type triangle [3]vertex

// NewSoftware returns a painter targeting dst.
func NewSoftware(dst *image.RGBA) *Software {
	p := &Software{
		dst:  dst,
		rast: vector.NewRasterizer(0, 0),
	}
	p.rast.DrawOp = draw.Src
	s := DefaultState()
	p.ExecuteState(&s)
	return p
}

// Target returns the image being painted.
func (p *Software) Target() *image.RGBA { return p.dst }

// SetBlendEnabled toggles blending. With blending disabled every draw
// replaces the destination.
func (p *Software) SetBlendEnabled(enabled bool) {
	p.blendDisabled = !enabled
	p.updateBlend()
}

// Clear fills the target with transparent black.
func (p *Software) Clear() {
	clear(p.dst.Pix)
}

// State returns the state currently applied.
func (p *Software) State() State { return p.state }

// ExecuteState applies s to subsequent draws and runs its action.
func (p *Software) ExecuteState(s *State) {
	p.state = *s
	p.updateBlend()
	if s.Action != nil {
		s.Action()
	}
}

func (p *Software) updateBlend() {
	if p.blendDisabled {
		p.blend = Replace
		return
	}
	p.blend = BlendStateFor(p.state.CompositionMode, p.state.BlendEquation)
}

// DrawCoords rasterizes every chunk of c.
func (p *Software) DrawCoords(c *drawmethod.CoordsBuffer, mode drawmethod.DrawMode) {
	if c == nil || c.VertexCount() == 0 {
		return
	}
	start := 0
	chunks := c.Chunks()
	if len(chunks) == 0 {
		p.drawChunk(c, 0, c.VertexCount(), mode)
		return
	}
	for _, end := range chunks {
		p.drawChunk(c, start, end, mode)
		start = end
	}
}

func (p *Software) drawChunk(c *drawmethod.CoordsBuffer, start, end int, mode drawmethod.DrawMode) {
	verts, uvs := c.Vertices(), c.TexCoords()
	at := func(i int) vertex {
		x, y := Apply(p.state.Transform, verts[2*i], verts[2*i+1])
		return vertex{x: x, y: y, u: uvs[2*i], v: uvs[2*i+1]}
	}

	p.tris = p.tris[:0]
	if mode == drawmethod.ModeTriangleStrip {
		for i := start; i+2 < end; i++ {
			p.tris = append(p.tris, triangle{at(i), at(i + 1), at(i + 2)})
		}
	} else {
		for i := start; i+2 < end; i += 3 {
			p.tris = append(p.tris, triangle{at(i), at(i + 1), at(i + 2)})
		}
	}
	if len(p.tris) == 0 {
		return
	}

	bounds := p.chunkBounds()
	if bounds.Empty() {
		return
	}

	w, h := bounds.Dx(), bounds.Dy()
	p.rast.Reset(w, h)
	ox, oy := float32(bounds.Min.X), float32(bounds.Min.Y)
	for _, t := range p.tris {
		a, b, d := t[0], t[1], t[2]
		// Same winding for every triangle so overlapping coverage adds up
		// instead of cancelling.
		if cross(a, b, d) < 0 {
			b, d = d, b
		}
		p.rast.MoveTo(a.x-ox, a.y-oy)
		p.rast.LineTo(b.x-ox, b.y-oy)
		p.rast.LineTo(d.x-ox, d.y-oy)
		p.rast.ClosePath()
	}

	if cap(p.mask) < w*h {
		p.mask = make([]uint8, w*h)
	}
	mask := &image.Alpha{Pix: p.mask[:w*h], Stride: w, Rect: image.Rect(0, 0, w, h)}
	p.rast.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	p.shade(bounds, mask)
}

// chunkBounds returns the integer pixel bounds of the current triangles,
// clipped to the target and the clip rect.
func (p *Software) chunkBounds() image.Rectangle {
	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxY := float32(-math.MaxFloat32), float32(-math.MaxFloat32)
	for _, t := range p.tris {
		for _, v := range t {
			minX, maxX = min(minX, v.x), max(maxX, v.x)
			minY, maxY = min(minY, v.y), max(maxY, v.y)
		}
	}
	r := image.Rect(
		int(math.Floor(float64(minX))), int(math.Floor(float64(minY))),
		int(math.Ceil(float64(maxX))), int(math.Ceil(float64(maxY))),
	)
	r = r.Intersect(p.dst.Bounds())
	if !p.state.ClipRect.Empty() {
		r = r.Intersect(p.state.ClipRect)
	}
	return r
}

func (p *Software) shade(bounds image.Rectangle, mask *image.Alpha) {
	col := p.state.Color
	ca := float32(col.A) / 255
	tint := [4]float32{
		float32(col.R) / 255 * ca,
		float32(col.G) / 255 * ca,
		float32(col.B) / 255 * ca,
		ca,
	}
	opacity := p.state.Opacity

	sampler, _ := p.state.Texture.(Sampler)
	var smooth bool
	if sampler != nil {
		smooth = sampler.Smooth()
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cov := mask.AlphaAt(x-bounds.Min.X, y-bounds.Min.Y).A
			if cov == 0 {
				continue
			}
			k := opacity * float32(cov) / 255

			texel := [4]float32{1, 1, 1, 1}
			if sampler != nil {
				u, v := p.texCoordAt(float32(x)+0.5, float32(y)+0.5)
				texel = sample(sampler.RGBA(), u, v, smooth)
			}

			var src [4]float32
			for i := range src {
				src[i] = texel[i] * tint[i] * k
			}

			off := p.dst.PixOffset(x, y)
			pix := p.dst.Pix[off : off+4 : off+4]
			dst := [4]float32{
				float32(pix[0]) / 255,
				float32(pix[1]) / 255,
				float32(pix[2]) / 255,
				float32(pix[3]) / 255,
			}
			out := p.blend.Blend(src, dst)
			for i := range out {
				pix[i] = uint8(out[i]*255 + 0.5)
			}
		}
	}
}

// texCoordAt interpolates texel coordinates at (x, y) from the triangle
// that contains it, or the nearest one for edge pixels.
func (p *Software) texCoordAt(x, y float32) (float32, float32) {
	best := -float32(math.MaxFloat32)
	var bu, bv float32
	for _, t := range p.tris {
		w0, w1, w2, ok := barycentric(t, x, y)
		if !ok {
			continue
		}
		score := min(w0, w1, w2)
		if score > best {
			best = score
			bu = w0*t[0].u + w1*t[1].u + w2*t[2].u
			bv = w0*t[0].v + w1*t[1].v + w2*t[2].v
		}
		if score >= 0 {
			break
		}
	}
	return bu, bv
}

func barycentric(t triangle, x, y float32) (w0, w1, w2 float32, ok bool) {
	a, b, c := t[0], t[1], t[2]
	den := (b.y-c.y)*(a.x-c.x) + (c.x-b.x)*(a.y-c.y)
	if den == 0 {
		return 0, 0, 0, false
	}
	w0 = ((b.y-c.y)*(x-c.x) + (c.x-b.x)*(y-c.y)) / den
	w1 = ((c.y-a.y)*(x-c.x) + (a.x-c.x)*(y-c.y)) / den
	w2 = 1 - w0 - w1
	return w0, w1, w2, true
}

func cross(a, b, c vertex) float32 {
	return (b.x-a.x)*(c.y-a.y) - (b.y-a.y)*(c.x-a.x)
}

// sample reads a premultiplied texel at texel coordinates (u, v).
func sample(img *image.RGBA, u, v float32, smooth bool) [4]float32 {
	if img == nil {
		return [4]float32{}
	}
	if !smooth {
		return texelAt(img, int(math.Floor(float64(u))), int(math.Floor(float64(v))))
	}

	fx, fy := u-0.5, v-0.5
	x0, y0 := int(math.Floor(float64(fx))), int(math.Floor(float64(fy)))
	tx, ty := fx-float32(x0), fy-float32(y0)

	c00 := texelAt(img, x0, y0)
	c10 := texelAt(img, x0+1, y0)
	c01 := texelAt(img, x0, y0+1)
	c11 := texelAt(img, x0+1, y0+1)

	var out [4]float32
	for i := range out {
		top := c00[i]*(1-tx) + c10[i]*tx
		bottom := c01[i]*(1-tx) + c11[i]*tx
		out[i] = top*(1-ty) + bottom*ty
	}
	return out
}

// texelAt clamps to the image edge.
func texelAt(img *image.RGBA, x, y int) [4]float32 {
	b := img.Bounds()
	if b.Empty() {
		return [4]float32{}
	}
	x = min(max(x, b.Min.X), b.Max.X-1)
	y = min(max(y, b.Min.Y), b.Max.Y-1)
	off := img.PixOffset(x, y)
	pix := img.Pix[off : off+4 : off+4]
	return [4]float32{
		float32(pix[0]) / 255,
		float32(pix[1]) / 255,
		float32(pix[2]) / 255,
		float32(pix[3]) / 255,
	}
}
