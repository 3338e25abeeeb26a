package pool

import (
	"image"
	"testing"

	"github.com/gogpu/drawpool/drawmethod"
)

func TestNewBufferIsValid(t *testing.T) {
	b := NewBuffer()
	if !b.IsValid() {
		t.Error("IsValid() = false for a new buffer")
	}
	if b.Len() != 0 || b.Cursor() != 0 {
		t.Errorf("Len() = %d, Cursor() = %d, want 0, 0", b.Len(), b.Cursor())
	}
	if b.Coords() == nil {
		t.Error("Coords() = nil")
	}
}

func TestBufferValidate(t *testing.T) {
	tests := []struct {
		name  string
		first image.Point
		next  image.Point
		valid bool
	}{
		{"same point", image.Pt(0, 0), image.Pt(0, 0), true},
		{"moved", image.Pt(0, 0), image.Pt(1, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer()
			b.Validate(tt.first)
			b.rebuild([]drawmethod.Method{&drawmethod.FilledRect{Dest: image.Rect(0, 0, 1, 1)}})
			if got := b.Validate(tt.next); got != tt.valid {
				t.Errorf("Validate(%v) = %v, want %v", tt.next, got, tt.valid)
			}
			if b.Ref() != tt.next {
				t.Errorf("Ref() = %v, want %v", b.Ref(), tt.next)
			}
		})
	}
}

func TestBufferInvalidate(t *testing.T) {
	b := NewBuffer()
	b.rebuild([]drawmethod.Method{
		&drawmethod.FilledRect{Dest: image.Rect(0, 0, 1, 1)},
		&drawmethod.FilledRect{Dest: image.Rect(1, 0, 2, 1)},
	})
	if b.Len() != 2 || b.Cursor() != 2 {
		t.Fatalf("Len() = %d, Cursor() = %d, want 2, 2", b.Len(), b.Cursor())
	}

	b.Invalidate()
	if b.IsValid() {
		t.Error("IsValid() = true after Invalidate")
	}
	if b.Len() != 0 || b.Cursor() != 0 {
		t.Errorf("Len() = %d, Cursor() = %d after Invalidate, want 0, 0", b.Len(), b.Cursor())
	}
}

func TestBufferRebuild(t *testing.T) {
	b := NewBuffer()
	b.rebuild([]drawmethod.Method{&drawmethod.FilledRect{Dest: image.Rect(0, 0, 1, 1)}})
	b.rebuild([]drawmethod.Method{&drawmethod.TexturedRect{Dest: image.Rect(0, 0, 2, 2)}})

	if b.Generation() != 2 {
		t.Errorf("Generation() = %d, want 2", b.Generation())
	}
	if got := b.Coords().VertexCount(); got != 6 {
		t.Errorf("VertexCount() = %d, want 6", got)
	}
	if got := len(b.Coords().Chunks()); got != 1 {
		t.Errorf("chunks = %d, want 1", got)
	}
}
