package glscene

import "github.com/soypat/geometry/ms3"

// Key is a host independent key code. Only keys that move the scene are listed.
type Key uint8

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyA
	KeyD
	KeyS
	KeyW
)

type dragState struct {
	dragging     bool
	lastX, lastY float64
}

// KeyDown applies a key press to the scene offset. Escape restores the
// configured initial offset exactly; a and d step along x, w and s along z.
func (s *Scene) KeyDown(k Key) {
	step := s.cfg.Step
	switch k {
	case KeyEscape:
		s.offset = s.cfg.InitialOffset
	case KeyA:
		s.offset.X += step
	case KeyD:
		s.offset.X -= step
	case KeyS:
		s.offset.Z -= step
	case KeyW:
		s.offset.Z += step
	}
}

// MouseDown starts a drag at pointer position (x,y).
func (s *Scene) MouseDown(x, y float64) {
	s.drag = dragState{dragging: true, lastX: x, lastY: y}
}

// MouseMove moves the scene along x and y proportionally to the pointer
// delta while a drag is in progress. Screen y grows downwards.
func (s *Scene) MouseMove(x, y float64) {
	if !s.drag.dragging {
		return
	}
	scale := float64(s.cfg.DragScale)
	delta := ms3.Vec{
		X: float32((x - s.drag.lastX) * scale),
		Y: -float32((y - s.drag.lastY) * scale),
	}
	s.offset = ms3.Add(s.offset, delta)
	s.drag.lastX, s.drag.lastY = x, y
}

// MouseUp ends a drag.
func (s *Scene) MouseUp() { s.drag.dragging = false }
