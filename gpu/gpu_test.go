//go:build !nogpu

package gpu

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/drawpool/drawmethod"
	"github.com/gogpu/drawpool/painter"
	"github.com/gogpu/drawpool/pool"
)

// createNoopDevice creates a noop device and queue for testing.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

func quad(r image.Rectangle, mode drawmethod.DrawMode) *drawmethod.CoordsBuffer {
	c := drawmethod.NewCoordsBuffer()
	drawmethod.Emit(c, mode, &drawmethod.TexturedRect{Dest: r, Src: r})
	return c
}

func TestDrawCoordsRecordsCall(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p := New(device, queue)
	s := painter.DefaultState()
	s.CompositionMode = painter.CompositionAdd
	s.ClipRect = image.Rect(0, 0, 10, 10)
	p.ExecuteState(&s)
	p.DrawCoords(quad(image.Rect(0, 0, 8, 8), drawmethod.ModeTriangleStrip), drawmethod.ModeTriangleStrip)

	if err := p.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	calls := p.Calls()
	if len(calls) != 1 {
		t.Fatalf("Calls() = %d, want 1", len(calls))
	}
	c := calls[0]
	if c.Vertices != 4 {
		t.Errorf("Vertices = %d, want 4", c.Vertices)
	}
	if c.Topology != gputypes.PrimitiveTopologyTriangleStrip {
		t.Errorf("Topology = %v, want triangle strip", c.Topology)
	}
	if c.Blend != painter.BlendStateFor(painter.CompositionAdd, painter.BlendAdd) {
		t.Errorf("Blend = %+v, want add composition", c.Blend)
	}
	if c.ClipRect != s.ClipRect {
		t.Errorf("ClipRect = %v, want %v", c.ClipRect, s.ClipRect)
	}
	if c.Buffer == nil {
		t.Error("Buffer = nil")
	}
}

func TestUnchangedBufferIsReused(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p := New(device, queue)
	c := quad(image.Rect(0, 0, 4, 4), drawmethod.ModeTriangles)

	p.DrawCoords(c, drawmethod.ModeTriangles)
	p.BeginFrame()
	p.DrawCoords(c, drawmethod.ModeTriangles)

	st := p.Stats()
	if st.Uploads != 1 || st.Reuses != 1 {
		t.Errorf("Stats() = %+v, want 1 upload and 1 reuse", st)
	}
	if st.Bytes != 6*bytesPerVertex {
		t.Errorf("Stats().Bytes = %d, want %d", st.Bytes, 6*bytesPerVertex)
	}

	p.BeginFrame()
	drawmethod.Emit(c, drawmethod.ModeTriangles, &drawmethod.FilledRect{Dest: image.Rect(4, 4, 8, 8)})
	p.DrawCoords(c, drawmethod.ModeTriangles)
	if got := p.Stats().Uploads; got != 2 {
		t.Errorf("Stats().Uploads = %d after mutation, want 2", got)
	}
	if got := p.Stats().Buffers; got != 1 {
		t.Errorf("Stats().Buffers = %d, want 1", got)
	}
}

func TestRefilledBufferKeepsEarlierCalls(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p := New(device, queue)
	c := drawmethod.NewCoordsBuffer()
	frame := func() {
		p.BeginFrame()
		for _, r := range []image.Rectangle{image.Rect(0, 0, 4, 4), image.Rect(8, 8, 12, 12)} {
			c.Clear()
			drawmethod.Emit(c, drawmethod.ModeTriangles, &drawmethod.FilledRect{Dest: r})
			p.DrawCoords(c, drawmethod.ModeTriangles)
		}
	}

	frame()
	calls := p.Calls()
	if len(calls) != 2 {
		t.Fatalf("Calls() = %d, want 2", len(calls))
	}
	if calls[0].Buffer == calls[1].Buffer {
		t.Error("second draw overwrote the vertex buffer of the first")
	}
	if st := p.Stats(); st.Uploads != 2 || st.Buffers != 2 {
		t.Errorf("Stats() = %+v, want 2 uploads into 2 buffers", st)
	}

	frame()
	if st := p.Stats(); st.Buffers != 2 || st.Released != 0 {
		t.Errorf("Stats() = %+v after second frame, want both buffers kept", st)
	}
}

func TestUngroupedPoolDraw(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	pt := New(device, queue)
	p := pool.New(pool.TypeMap)
	red := color.NRGBA{R: 255, A: 255}
	p.Add(red, nil, &drawmethod.FilledRect{Dest: image.Rect(0, 0, 4, 4)}, drawmethod.ModeTriangles, nil)
	p.Add(painter.White, nil, &drawmethod.FilledRect{Dest: image.Rect(4, 0, 8, 4)}, drawmethod.ModeTriangles, nil)
	p.Draw(pt)

	calls := pt.Calls()
	if len(calls) != 2 {
		t.Fatalf("Calls() = %d, want 2", len(calls))
	}
	if calls[0].Buffer == calls[1].Buffer {
		t.Error("ungrouped objects share one vertex buffer")
	}
	if calls[0].Color != red || calls[1].Color != painter.White {
		t.Errorf("colors = %v, %v, want %v, %v", calls[0].Color, calls[1].Color, red, painter.White)
	}
	if got := pt.Stats().Uploads; got != 2 {
		t.Errorf("Stats().Uploads = %d, want 2", got)
	}
}

func TestBeginFrameReleasesUnusedBuffers(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p := New(device, queue)
	p.DrawCoords(quad(image.Rect(0, 0, 4, 4), drawmethod.ModeTriangles), drawmethod.ModeTriangles)
	p.BeginFrame()
	if got := p.Stats().Buffers; got != 1 {
		t.Fatalf("Stats().Buffers = %d after first frame, want 1", got)
	}
	if len(p.Calls()) != 0 {
		t.Errorf("Calls() = %d after BeginFrame, want 0", len(p.Calls()))
	}

	p.BeginFrame()
	st := p.Stats()
	if st.Buffers != 0 || st.Released != 1 {
		t.Errorf("Stats() = %+v, want the idle buffer released", st)
	}
}

func TestBlendDisabled(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p := New(device, queue)
	p.SetBlendEnabled(false)
	p.DrawCoords(quad(image.Rect(0, 0, 2, 2), drawmethod.ModeTriangles), drawmethod.ModeTriangles)
	if got := p.Calls()[0].Blend; got != painter.Replace {
		t.Errorf("Blend = %+v, want Replace", got)
	}
}

type program uint64

func (p program) ProgramID() uint64 { return uint64(p) }

func TestProgramAndAction(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p := New(device, queue)
	ran := 0
	s := painter.DefaultState()
	s.ShaderProgram = program(77)
	s.Action = func() { ran++ }
	p.ExecuteState(&s)
	p.DrawCoords(quad(image.Rect(0, 0, 2, 2), drawmethod.ModeTriangles), drawmethod.ModeTriangles)

	if ran != 1 {
		t.Errorf("action ran %d times, want 1", ran)
	}
	if got := p.Calls()[0].ProgramID; got != 77 {
		t.Errorf("ProgramID = %d, want 77", got)
	}
}

func TestRelease(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p := New(device, queue)
	p.DrawCoords(quad(image.Rect(0, 0, 2, 2), drawmethod.ModeTriangles), drawmethod.ModeTriangles)
	p.Release()
	if got := p.Stats().Buffers; got != 0 {
		t.Errorf("Stats().Buffers = %d after Release, want 0", got)
	}
	p.DrawCoords(quad(image.Rect(0, 0, 2, 2), drawmethod.ModeTriangles), drawmethod.ModeTriangles)
	if !errors.Is(p.Err(), ErrReleased) {
		t.Errorf("Err() = %v, want ErrReleased", p.Err())
	}
}

func TestHeadless(t *testing.T) {
	h, err := NewHeadless()
	if err != nil {
		t.Fatalf("NewHeadless() error = %v", err)
	}

	c := quad(image.Rect(0, 0, 4, 4), drawmethod.ModeTriangles)
	h.DrawCoords(c, drawmethod.ModeTriangles)
	h.BeginFrame()
	h.DrawCoords(c, drawmethod.ModeTriangles)

	if err := h.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	if st := h.Stats(); st.Uploads != 1 || st.Reuses != 1 {
		t.Errorf("Stats() = %+v, want 1 upload and 1 reuse", st)
	}

	h.Close()
	h.DrawCoords(c, drawmethod.ModeTriangles)
	if !errors.Is(h.Err(), ErrReleased) {
		t.Errorf("Err() after Close = %v, want %v", h.Err(), ErrReleased)
	}
}
