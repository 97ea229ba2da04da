package main

import (
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/diorama/pkg/scene"
)

// dragStep is the orbit angle per cell of mouse drag.
const dragStep = 0.03

// Mouse tracking escapes: any-event motion and SGR extended coordinates.
const (
	enableMouse  = "\x1b[?1003h\x1b[?1006h"
	disableMouse = "\x1b[?1003l\x1b[?1006l"
)

// mouseDrag turns a held button and its motion into orbit commands.
type mouseDrag struct {
	down bool
	x, y int
}

// command returns the camera command for a mouse event, if any. Dragging
// right or up orbits like the right or up arrow; the wheel zooms.
func (m *mouseDrag) command(ev uv.Event) (scene.Command, bool) {
	switch ev := ev.(type) {
	case uv.MouseClickEvent:
		m.down = true
		m.x, m.y = ev.X, ev.Y
	case uv.MouseReleaseEvent:
		m.down = false
	case uv.MouseMotionEvent:
		if !m.down {
			return scene.Command{}, false
		}
		dx, dy := ev.X-m.x, ev.Y-m.y
		m.x, m.y = ev.X, ev.Y
		if dx != 0 || dy != 0 {
			return scene.OrbitBy(float64(dx)*dragStep, float64(-dy)*dragStep), true
		}
	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			return scene.ZoomBy(zoomStep), true
		case uv.MouseWheelDown:
			return scene.ZoomBy(-zoomStep), true
		}
	}
	return scene.Command{}, false
}
