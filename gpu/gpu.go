//go:build !nogpu

// Package gpu implements painter.Painter on a wgpu HAL device.
//
// The painter uploads the interleaved vertices of every coordinate buffer
// it is asked to draw and records one DrawCall per submission. Uploads are
// keyed by buffer identity and version, so the persistent buffers of
// grouped pools are uploaded once and then reused frame after frame. A
// buffer refilled between draws of one frame, like a pool's scratch
// buffer, gets one vertex buffer per draw.
// Pipeline creation and pass encoding belong to the embedding renderer,
// which replays the recorded calls.
package gpu

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/math/f32"
	"honnef.co/go/safeish"

	"github.com/gogpu/drawpool/drawmethod"
	"github.com/gogpu/drawpool/internal/logx"
	"github.com/gogpu/drawpool/painter"
)

// ErrReleased is returned once the painter has been released.
var ErrReleased = errors.New("gpu: painter released")

// bytesPerVertex is x, y, u, v as float32.
const bytesPerVertex = 16

// DrawCall is one recorded submission.
type DrawCall struct {
	Buffer    hal.Buffer
	Vertices  int
	Topology  gputypes.PrimitiveTopology
	Blend     painter.BlendState
	ProgramID uint64
	Texture   painter.Texture
	ClipRect  image.Rectangle
	Transform f32.Aff3
	Color     color.NRGBA
	Opacity   float32
}

// Stats counts vertex buffer traffic.
type Stats struct {
	Uploads  int
	Reuses   int
	Buffers  int
	Bytes    uint64
	Released int
}

type upload struct {
	buf     hal.Buffer
	size    uint64
	version uint64
}

// slots holds the uploads of one coordinate buffer. A buffer rewritten
// between two draws of the same frame takes a fresh slot, so calls
// recorded earlier in the frame keep their vertices. n counts the slots
// drawn from this frame.
type slots struct {
	list []*upload
	n    int
}

// Painter records draw calls against a HAL device.
type Painter struct {
	device hal.Device
	queue  hal.Queue

	state         painter.State
	blend         painter.BlendState
	blendDisabled bool

	uploads map[*drawmethod.CoordsBuffer]*slots
	calls   []DrawCall
	stats   Stats
	scratch []float32

	err      error
	released bool
}

// New returns a painter uploading through device and queue.
func New(device hal.Device, queue hal.Queue) *Painter {
	p := &Painter{
		device:  device,
		queue:   queue,
		uploads: make(map[*drawmethod.CoordsBuffer]*slots),
	}
	s := painter.DefaultState()
	p.ExecuteState(&s)
	return p
}

// SetBlendEnabled toggles blending for subsequent calls.
func (p *Painter) SetBlendEnabled(enabled bool) {
	p.blendDisabled = !enabled
	p.updateBlend()
}

func (p *Painter) updateBlend() {
	if p.blendDisabled {
		p.blend = painter.Replace
		return
	}
	p.blend = painter.BlendStateFor(p.state.CompositionMode, p.state.BlendEquation)
}

// ExecuteState applies s to subsequent calls and runs its action.
func (p *Painter) ExecuteState(s *painter.State) {
	p.state = *s
	p.updateBlend()
	if s.Action != nil {
		s.Action()
	}
}

// DrawCoords uploads c if it changed since its last upload and records a
// draw call. Upload failures are kept and reported by Err.
func (p *Painter) DrawCoords(c *drawmethod.CoordsBuffer, mode drawmethod.DrawMode) {
	if p.released {
		p.fail(ErrReleased)
		return
	}
	if c == nil || c.VertexCount() == 0 {
		return
	}

	buf, err := p.upload(c)
	if err != nil {
		p.fail(err)
		return
	}

	var programID uint64
	if p.state.ShaderProgram != nil {
		programID = p.state.ShaderProgram.ProgramID()
	}
	p.calls = append(p.calls, DrawCall{
		Buffer:    buf,
		Vertices:  c.VertexCount(),
		Topology:  topology(mode),
		Blend:     p.blend,
		ProgramID: programID,
		Texture:   p.state.Texture,
		ClipRect:  p.state.ClipRect,
		Transform: p.state.Transform,
		Color:     p.state.Color,
		Opacity:   p.state.Opacity,
	})
}

func topology(mode drawmethod.DrawMode) gputypes.PrimitiveTopology {
	if mode == drawmethod.ModeTriangleStrip {
		return gputypes.PrimitiveTopologyTriangleStrip
	}
	return gputypes.PrimitiveTopologyTriangleList
}

func (p *Painter) upload(c *drawmethod.CoordsBuffer) (hal.Buffer, error) {
	e, ok := p.uploads[c]
	if !ok {
		e = &slots{}
		p.uploads[c] = e
	}
	if e.n > 0 {
		if last := e.list[e.n-1]; last.version == c.Version() {
			p.stats.Reuses++
			return last.buf, nil
		}
	}
	if e.n < len(e.list) && e.list[e.n].version == c.Version() {
		u := e.list[e.n]
		e.n++
		p.stats.Reuses++
		return u.buf, nil
	}

	p.scratch = c.Interleaved(p.scratch[:0])
	data := safeish.SliceCast[[]byte](p.scratch)
	size := uint64(len(data))

	var u *upload
	if e.n < len(e.list) {
		u = e.list[e.n]
		if u.size < size {
			p.device.DestroyBuffer(u.buf)
			p.stats.Buffers--
			u = nil
		}
	}
	if u == nil {
		capacity := max(size, 64*bytesPerVertex)
		buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "drawpool-vertices",
			Size:  capacity,
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			if e.n < len(e.list) {
				e.list = slices.Delete(e.list, e.n, e.n+1)
			}
			return nil, fmt.Errorf("gpu: create vertex buffer: %w", err)
		}
		u = &upload{buf: buf, size: capacity}
		if e.n < len(e.list) {
			e.list[e.n] = u
		} else {
			e.list = append(e.list, u)
		}
		p.stats.Buffers++
	}

	p.queue.WriteBuffer(u.buf, 0, data)
	u.version = c.Version()
	e.n++
	p.stats.Uploads++
	p.stats.Bytes += size
	logx.Logger().Debug("gpu: vertices uploaded", "vertices", c.VertexCount(), "bytes", size, "slot", e.n-1)
	return u.buf, nil
}

func (p *Painter) fail(err error) {
	if p.err == nil {
		p.err = err
		logx.Logger().Warn("gpu: draw failed", "err", err)
	}
}

// Err returns the first error met while drawing.
func (p *Painter) Err() error { return p.err }

// Calls returns the calls recorded since the last BeginFrame.
func (p *Painter) Calls() []DrawCall { return p.calls }

// Stats returns upload counters.
func (p *Painter) Stats() Stats { return p.stats }

// BeginFrame starts a new frame: recorded calls are dropped and vertex
// buffers not drawn during the previous frame are destroyed.
func (p *Painter) BeginFrame() {
	p.calls = p.calls[:0]
	for c, e := range p.uploads {
		for _, u := range e.list[e.n:] {
			p.device.DestroyBuffer(u.buf)
			p.stats.Buffers--
			p.stats.Released++
		}
		clear(e.list[e.n:])
		e.list = e.list[:e.n]
		if e.n == 0 {
			delete(p.uploads, c)
			continue
		}
		e.n = 0
	}
}

// Release destroys every vertex buffer. The painter cannot draw afterwards.
func (p *Painter) Release() {
	for c, e := range p.uploads {
		for _, u := range e.list {
			p.device.DestroyBuffer(u.buf)
			p.stats.Released++
		}
		delete(p.uploads, c)
	}
	p.stats.Buffers = 0
	p.calls = nil
	p.released = true
}
