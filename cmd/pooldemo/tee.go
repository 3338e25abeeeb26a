package main

import (
	"github.com/gogpu/drawpool/drawmethod"
	"github.com/gogpu/drawpool/painter"
)

// recorder is a secondary painter fed the same frame as the screen.
type recorder interface {
	target() painter.Painter
	beginFrame()
	close()
}

// tee forwards every call to each painter in order.
type tee []painter.Painter

func (t tee) ExecuteState(s *painter.State) {
	for _, p := range t {
		p.ExecuteState(s)
	}
}

func (t tee) DrawCoords(c *drawmethod.CoordsBuffer, mode drawmethod.DrawMode) {
	for _, p := range t {
		p.DrawCoords(c, mode)
	}
}
