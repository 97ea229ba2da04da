package scene

import (
	"fmt"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/shader"
)

// Arena keys used by Populate.
const (
	MeshBody = "body" // Unit sphere shared by the sun and every planet
	MeshRing = "ring" // Flat ring around a unit body
	MeshShip = "ship"
)

// Body describes one orbiting body. A zero OrbitRadius makes it static at
// the origin.
type Body struct {
	Name        string
	Shader      shader.Kind
	Scale       float64
	OrbitRadius float64
	OrbitAngle  float64
	OrbitSpeed  float64 // Radians per tick
	Spin        float64 // Radians per tick around Y
	Ring        bool
}

// SolarSystem is the stock set of bodies.
var SolarSystem = []Body{
	{Name: "sun", Shader: shader.Sun, Scale: 7, Spin: 0.002},
	{Name: "ember", Shader: shader.Rocky, Scale: 1.2, OrbitRadius: 14, OrbitAngle: 0.4, OrbitSpeed: 0.012, Spin: 0.01},
	{Name: "terra", Shader: shader.Earth, Scale: 2, OrbitRadius: 23, OrbitAngle: 2.1, OrbitSpeed: 0.008, Spin: 0.015},
	{Name: "thalassa", Shader: shader.Oceanic, Scale: 1.8, OrbitRadius: 32, OrbitAngle: 4.0, OrbitSpeed: 0.006, Spin: 0.012},
	{Name: "jove", Shader: shader.Gaseous, Scale: 4, OrbitRadius: 45, OrbitAngle: 5.3, OrbitSpeed: 0.004, Spin: 0.02, Ring: true},
	{Name: "rime", Shader: shader.Frozen, Scale: 1.6, OrbitRadius: 57, OrbitAngle: 1.2, OrbitSpeed: 0.003, Spin: 0.008},
	{Name: "gargantua", Shader: shader.Gargantua, Scale: 3, OrbitRadius: 72, OrbitAngle: 3.3, OrbitSpeed: 0.002, Ring: true},
	{Name: "wormhole", Shader: shader.Wormhole, Scale: 2.2, OrbitRadius: 86, OrbitAngle: 0.9, OrbitSpeed: 0.0015, Spin: 0.03},
}

// ringTilt is the fixed tilt of planetary rings.
var ringTilt = math3d.V3(0.35, 0, 0.1)

// shipOffset places the ship between the sun and the first orbit.
var shipOffset = math3d.V3(0, 4, 10)

// Populate adds bodies using the arena's body mesh, their rings when a ring
// mesh is present, and the ship as the subject when a ship mesh is present.
func (s *Scene) Populate(bodies []Body) error {
	body, ok := s.Arena.Lookup(MeshBody)
	if !ok {
		return fmt.Errorf("populate: %q: %w", MeshBody, ErrUnknownMesh)
	}
	ring, hasRing := s.Arena.Lookup(MeshRing)

	for _, b := range bodies {
		var o *Object
		if b.OrbitRadius == 0 {
			o = NewStatic(b.Name, body, b.Shader, math3d.Zero3(), b.Scale)
		} else {
			o = NewOrbiting(b.Name, body, b.Shader, b.Scale, Orbit{
				Radius: b.OrbitRadius,
				Angle:  b.OrbitAngle,
				Speed:  b.OrbitSpeed,
			})
		}
		o.Spin = math3d.V3(0, b.Spin, 0)
		s.Add(o)

		if b.Ring && hasRing {
			r := *o
			r.Name = b.Name + " ring"
			r.Mesh = ring
			r.Spin = math3d.Vec3{}
			r.Rotation = ringTilt
			if o.Orbit != nil {
				orbit := *o.Orbit
				r.Orbit = &orbit
			}
			s.Add(&r)
		}
	}

	if ship, ok := s.Arena.Lookup(MeshShip); ok {
		i := s.Add(NewStatic("ship", ship, shader.Ship, shipOffset, 1))
		return s.SetSubject(i)
	}
	return nil
}
