package painter

import "github.com/gogpu/drawpool/drawmethod"

// Painter executes recorded draw calls. Implementations apply a state and
// then draw the vertices of a coordinate buffer with that state.
type Painter interface {
	ExecuteState(s *State)
	DrawCoords(c *drawmethod.CoordsBuffer, mode drawmethod.DrawMode)
}
