package pool

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/drawpool/drawmethod"
	"github.com/gogpu/drawpool/framebuffer"
	"github.com/gogpu/drawpool/painter"
)

func TestCreate(t *testing.T) {
	tests := []struct {
		typ      Type
		framed   bool
		grouping bool
	}{
		{TypeMap, true, false},
		{TypeCreatureInformation, false, true},
		{TypeLight, true, true},
		{TypeText, false, true},
		{TypeForeground, true, false},
		{TypeUnknown, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			p := Create(tt.typ)
			if p.Type() != tt.typ {
				t.Errorf("Type() = %v, want %v", p.Type(), tt.typ)
			}
			if got := p.Framed() != nil; got != tt.framed {
				t.Errorf("framed = %v, want %v", got, tt.framed)
			}
			if p.ForceGrouping() != tt.grouping {
				t.Errorf("ForceGrouping() = %v, want %v", p.ForceGrouping(), tt.grouping)
			}
			if !p.Enabled() {
				t.Error("Enabled() = false")
			}
		})
	}
}

func TestCreateFrameBufferSettings(t *testing.T) {
	m := Create(TypeMap).Framed()
	if m.FrameBuffer().BlendEnabled() {
		t.Error("map frame buffer blends")
	}

	l := Create(TypeLight).Framed()
	if got := l.FrameBuffer().CompositionMode(); got != painter.CompositionLight {
		t.Errorf("light composition = %v, want Light", got)
	}
	if !l.FrameBuffer().BlendEnabled() {
		t.Error("light frame buffer does not blend")
	}
}

func TestCreateWithFrameBuffer(t *testing.T) {
	fb := framebuffer.New(image.Pt(32, 32))
	f := Create(TypeForeground, WithFrameBuffer(fb)).Framed()
	if f.FrameBuffer() != fb {
		t.Error("WithFrameBuffer() not used")
	}

	f = Create(TypeMap, WithFrameBufferSize(image.Pt(20, 10))).Framed()
	if got := f.Size(); got != image.Pt(20, 10) {
		t.Errorf("Size() = %v, want (20,10)", got)
	}
}

func TestFramedPaintAndComposite(t *testing.T) {
	f := Create(TypeForeground, WithFrameBufferSize(image.Pt(4, 4))).Framed()
	f.SetRects(image.Rect(4, 0, 8, 4), image.Rect(0, 0, 4, 4))

	f.Add(color.NRGBA{R: 255, A: 255}, nil, &drawmethod.FilledRect{Dest: image.Rect(0, 0, 2, 2)}, drawmethod.ModeTriangleStrip, nil)
	f.Paint()
	if got := f.FrameBuffer().Image().RGBAAt(1, 1).R; got != 255 {
		t.Fatalf("frame buffer R = %d, want 255", got)
	}

	var order []string
	f.OnBeforeDraw(func() { order = append(order, "before") })
	f.OnAfterDraw(func() { order = append(order, "after") })

	screen := image.NewRGBA(image.Rect(0, 0, 8, 4))
	f.Composite(painter.NewSoftware(screen))
	if got := screen.RGBAAt(5, 1).R; got != 255 {
		t.Errorf("screen (5,1) R = %d, want 255", got)
	}
	if got := screen.RGBAAt(1, 1).A; got != 0 {
		t.Errorf("screen (1,1) A = %d, want 0", got)
	}
	if len(order) != 2 || order[0] != "before" || order[1] != "after" {
		t.Errorf("callbacks = %v, want [before after]", order)
	}
	if f.Dest() != image.Rect(4, 0, 8, 4) || f.Src() != image.Rect(0, 0, 4, 4) {
		t.Errorf("Dest(), Src() = %v, %v", f.Dest(), f.Src())
	}
}

func TestTypeOrder(t *testing.T) {
	for i := 1; i < len(Types); i++ {
		if Types[i-1] >= Types[i] {
			t.Errorf("Types[%d] = %v not before Types[%d] = %v", i-1, Types[i-1], i, Types[i])
		}
	}
	if Type(42).String() != "Invalid" {
		t.Errorf("Type(42).String() = %q", Type(42).String())
	}
}

func TestFramedBlankSkipsComposite(t *testing.T) {
	f := Create(TypeLight, WithFrameBufferSize(image.Pt(4, 4))).Framed()
	if !f.Blank() {
		t.Fatal("new framed pool Blank() = false, want true")
	}

	called := false
	f.OnBeforeDraw(func() { called = true })

	screen := image.NewRGBA(image.Rect(0, 0, 4, 4))
	screen.Set(1, 1, color.NRGBA{G: 255, A: 255})
	f.Paint()
	f.Composite(painter.NewSoftware(screen))
	if called {
		t.Error("Composite() ran callbacks for a blank frame buffer")
	}
	if got := screen.RGBAAt(1, 1).G; got != 255 {
		t.Errorf("screen (1,1) G = %d, want 255 (untouched)", got)
	}

	f.Add(color.NRGBA{R: 255, G: 255, B: 255, A: 255}, nil, &drawmethod.FilledRect{Dest: image.Rect(0, 0, 4, 4)}, drawmethod.ModeTriangleStrip, nil)
	f.Paint()
	if f.Blank() {
		t.Error("Blank() = true after painting an object")
	}
}

func TestFramedResizeForcesRepaint(t *testing.T) {
	f := Create(TypeForeground, WithFrameBufferSize(image.Pt(4, 4))).Framed()
	f.UpdateStatus()

	f.Resize(image.Pt(4, 4))
	if f.HasModification(false) {
		t.Error("HasModification() = true after resizing to the same size")
	}
	f.Resize(image.Pt(8, 8))
	if !f.HasModification(false) {
		t.Error("HasModification() = false after a resize")
	}
	if got := f.Size(); got != image.Pt(8, 8) {
		t.Errorf("Size() = %v, want (8,8)", got)
	}
}
