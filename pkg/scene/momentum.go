package scene

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

const (
	// momentumFrequency and momentumDamping shape the velocity decay: a
	// critically damped spring with no overshoot.
	momentumFrequency = 4.0
	momentumDamping   = 1.0

	// momentumRest is the speed below which an axis counts as stopped.
	momentumRest = 1e-4

	// maxImpulses caps an axis at this many times the latest impulse, so a
	// held key reaches a steady speed.
	maxImpulses = 3.0
)

// Axis is one velocity that decays towards zero with spring physics.
type Axis struct {
	Velocity float64
	spring   harmonica.Spring
	accel    float64 // internal spring velocity (for animating Velocity toward 0)
}

// NewAxis creates an axis stepped fps times per second.
func NewAxis(fps int) Axis {
	return Axis{spring: harmonica.NewSpring(harmonica.FPS(max(fps, 1)), momentumFrequency, momentumDamping)}
}

// push adds impulse to the velocity, capped at maxImpulses times its size.
func (a *Axis) push(impulse float64) {
	if impulse == 0 {
		return
	}
	limit := maxImpulses * math.Abs(impulse)
	a.Velocity = max(-limit, min(limit, a.Velocity+impulse))
}

// Step returns the velocity for this frame and decays it for the next one.
func (a *Axis) Step() float64 {
	v := a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
	if math.Abs(a.Velocity) < momentumRest && math.Abs(a.accel) < momentumRest {
		a.Velocity, a.accel = 0, 0
	}
	return v
}

// Momentum turns orbit and zoom commands into impulses that ease out over
// the following frames, so a held key glides instead of stepping.
type Momentum struct {
	Yaw, Pitch, Zoom Axis
	fps              int
}

// NewMomentum creates momentum for a loop running at fps.
func NewMomentum(fps int) *Momentum {
	m := &Momentum{fps: fps}
	m.Reset()
	return m
}

// Absorb takes orbit and zoom commands as impulses. It reports whether cmd
// was absorbed; other commands must be applied directly.
func (m *Momentum) Absorb(cmd Command) bool {
	switch cmd.Kind {
	case CommandOrbit:
		m.Yaw.push(cmd.Yaw)
		m.Pitch.push(cmd.Pitch)
	case CommandZoom:
		m.Zoom.push(cmd.Amount)
	default:
		return false
	}
	return true
}

// Commands returns at most one orbit and one zoom command carrying this
// frame's velocities, then decays them.
func (m *Momentum) Commands() []Command {
	var cmds []Command
	yaw, pitch := m.Yaw.Step(), m.Pitch.Step()
	if yaw != 0 || pitch != 0 {
		cmds = append(cmds, OrbitBy(yaw, pitch))
	}
	if zoom := m.Zoom.Step(); zoom != 0 {
		cmds = append(cmds, ZoomBy(zoom))
	}
	return cmds
}

// Moving reports whether any axis still has velocity.
func (m *Momentum) Moving() bool {
	return m.Yaw.Velocity != 0 || m.Pitch.Velocity != 0 || m.Zoom.Velocity != 0
}

// Reset stops every axis.
func (m *Momentum) Reset() {
	m.Yaw = NewAxis(m.fps)
	m.Pitch = NewAxis(m.fps)
	m.Zoom = NewAxis(m.fps)
}
