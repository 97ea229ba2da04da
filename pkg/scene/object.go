package scene

import (
	"fmt"
	"math"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/render"
	"github.com/taigrr/diorama/pkg/shader"
)

// Kind tags what an Object is.
type Kind int

const (
	KindStatic   Kind = iota // Fixed position, moved only by commands
	KindOrbiting             // Position follows an Orbit
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindOrbiting:
		return "orbiting"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Orbit is a circular path in the XZ plane around Center.
type Orbit struct {
	Center math3d.Vec3
	Radius float64
	Angle  float64 // Radians, kept in [0, 2π)
	Speed  float64 // Radians per tick
}

// Translate advances the orbit angle by Speed*dt, wrapping into [0, 2π).
func (o *Orbit) Translate(dt float64) {
	a := math.Mod(o.Angle+o.Speed*dt, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if math.IsNaN(a) {
		a = 0
	}
	o.Angle = a
}

// Position returns the point on the orbit at the current angle, at height y
// above the orbit center.
func (o *Orbit) Position(y float64) math3d.Vec3 {
	return o.Center.Add(math3d.V3(o.Radius*math.Cos(o.Angle), y, o.Radius*math.Sin(o.Angle)))
}

// Path returns segments evenly spaced points around the orbit.
func (o *Orbit) Path(segments int) []math3d.Vec3 {
	if segments < 3 {
		segments = 3
	}
	pts := make([]math3d.Vec3, segments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(segments)
		pts[i] = o.Center.Add(math3d.V3(o.Radius*math.Cos(a), 0, o.Radius*math.Sin(a)))
	}
	return pts
}

// Object is one renderable thing in the scene. Orbit is set only for
// KindOrbiting objects.
type Object struct {
	Name   string
	Kind   Kind
	Mesh   MeshID
	Shader shader.Kind

	Position math3d.Vec3
	Scale    float64
	Rotation math3d.Vec3 // Euler angles, radians
	Spin     math3d.Vec3 // Rotation added per tick

	Orbit *Orbit
}

// NewStatic creates a static object at position.
func NewStatic(name string, mesh MeshID, sh shader.Kind, position math3d.Vec3, scale float64) *Object {
	return &Object{
		Name:     name,
		Kind:     KindStatic,
		Mesh:     mesh,
		Shader:   sh,
		Position: position,
		Scale:    scale,
	}
}

// NewOrbiting creates an object placed on orbit at its current angle.
func NewOrbiting(name string, mesh MeshID, sh shader.Kind, scale float64, orbit Orbit) *Object {
	o := &Object{
		Name:   name,
		Kind:   KindOrbiting,
		Mesh:   mesh,
		Shader: sh,
		Scale:  scale,
		Orbit:  &orbit,
	}
	o.Position = orbit.Position(0)
	return o
}

// Update advances the object by dt ticks: it spins and, when orbiting,
// moves along its orbit keeping its height.
func (o *Object) Update(dt float64) {
	o.Rotation = o.Rotation.Add(o.Spin.Scale(dt))
	if o.Kind == KindOrbiting && o.Orbit != nil {
		o.Orbit.Translate(dt)
		o.Position = o.Orbit.Position(o.Position.Y - o.Orbit.Center.Y)
	}
}

// Translate moves the object. Orbiting objects move their orbit center.
func (o *Object) Translate(delta math3d.Vec3) {
	o.Position = o.Position.Add(delta)
	if o.Kind == KindOrbiting && o.Orbit != nil {
		o.Orbit.Center = o.Orbit.Center.Add(delta)
	}
}

// Rotate adds delta to the object's Euler angles.
func (o *Object) Rotate(delta math3d.Vec3) {
	o.Rotation = o.Rotation.Add(delta)
}

// ModelMatrix returns the object's model matrix.
func (o *Object) ModelMatrix() math3d.Mat4 {
	return render.CreateModelMatrix(o.Position, o.Scale, o.Rotation)
}
