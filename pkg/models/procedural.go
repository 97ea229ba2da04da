package models

import (
	"errors"
	"fmt"

	sdfrender "github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/fogleman/fauxgl"

	"github.com/taigrr/diorama/pkg/math3d"
)

// DefaultCells is the marching cubes resolution along the longest axis of a
// procedural shape.
const DefaultCells = 24

// ErrInvalidShape is returned for non-positive shape dimensions.
var ErrInvalidShape = errors.New("invalid shape dimensions")

// Sphere returns a sphere of the given radius centered on the origin.
func Sphere(radius float64, cells int) (*Mesh, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("sphere radius %v: %w", radius, ErrInvalidShape)
	}
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sphere: %w", err)
	}
	return fromSDF("sphere", s, cells), nil
}

// Ring returns a flat annulus in the XZ plane between inner and outer radius
// with the given thickness along Y.
func Ring(inner, outer, thickness float64, cells int) (*Mesh, error) {
	if !(inner > 0) || !(outer > inner) || !(thickness > 0) {
		return nil, fmt.Errorf("ring %v..%v x %v: %w", inner, outer, thickness, ErrInvalidShape)
	}
	// Cross-section in the (radius, height) plane, revolved about Z.
	section := sdf.Box2D(v2.Vec{X: outer - inner, Y: thickness}, 0)
	section = sdf.Transform2D(section, sdf.Translate2d(v2.Vec{X: (inner + outer) / 2}))
	s, err := sdf.Revolve3D(section)
	if err != nil {
		return nil, fmt.Errorf("ring: %w", err)
	}
	s = sdf.Transform3D(s, sdf.RotateX(sdf.DtoR(90)))
	return fromSDF("ring", s, cells), nil
}

// Ship returns a small craft pointing along +X: a rounded hull with a pair
// of swept wings.
func Ship(length float64, cells int) (*Mesh, error) {
	if !(length > 0) {
		return nil, fmt.Errorf("ship length %v: %w", length, ErrInvalidShape)
	}
	radius := length / 6
	hull, err := sdf.Cylinder3D(length, radius, radius*0.9)
	if err != nil {
		return nil, fmt.Errorf("ship hull: %w", err)
	}
	hull = sdf.Transform3D(hull, sdf.RotateY(sdf.DtoR(90)))

	wings, err := sdf.Box3D(v3.Vec{X: length / 3, Y: radius / 3, Z: length * 0.8}, radius/8)
	if err != nil {
		return nil, fmt.Errorf("ship wings: %w", err)
	}
	wings = sdf.Transform3D(wings, sdf.Translate3d(v3.Vec{X: -length / 8}))

	return fromSDF("ship", sdf.Union3D(hull, wings), cells), nil
}

// fromSDF polygonizes s with uniform marching cubes. Triangles are streamed
// from a generator goroutine and smoothed through fauxgl.
func fromSDF(name string, s sdf.SDF3, cells int) *Mesh {
	if cells <= 0 {
		cells = DefaultCells
	}

	var triangles []*fauxgl.Triangle
	triChan := make(chan []*sdfrender.Triangle3)
	go func() {
		sdfrender.NewMarchingCubesUniform(cells).Render(s, triChan)
		close(triChan)
	}()
	for tris := range triChan {
		for _, tri := range tris {
			triangles = append(triangles, toFauxgl(
				sdfVec(tri.V[0]), sdfVec(tri.V[1]), sdfVec(tri.V[2]), sdfVec(tri.Normal())))
		}
	}

	fm := fauxgl.NewTriangleMesh(triangles)
	fm.SmoothNormalsThreshold(smoothAngle)
	return fromFauxgl(name, fm)
}

func sdfVec(v v3.Vec) math3d.Vec3 {
	return math3d.V3(v.X, v.Y, v.Z)
}
