package pool

import (
	"github.com/gogpu/drawpool/drawmethod"
	"github.com/gogpu/drawpool/painter"
)

// Object is one submission unit: a state and the geometry drawn with it.
//
// Ungrouped objects draw Methods. Grouped objects draw their Buffer and
// keep the frame's Methods only to regenerate it.
type Object struct {
	State   painter.State
	Mode    drawmethod.DrawMode
	Methods []drawmethod.Method
	Buffer  *Buffer
}

// Grouped reports whether the object draws from a cached buffer.
func (o *Object) Grouped() bool { return o.Buffer != nil }
