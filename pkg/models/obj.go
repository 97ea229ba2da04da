package models

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/fogleman/fauxgl"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/render"
)

// smoothAngle is the crease angle used when smoothing generated normals.
const smoothAngle = math.Pi / 3

// LoadOBJ loads a Wavefront OBJ file. Material diffuse colors become vertex
// colors; faces without a material are white. Files without normals get
// smoothed face normals.
func LoadOBJ(path string) (*Mesh, error) {
	fm, err := fauxgl.LoadOBJ(path)
	if err != nil {
		return nil, fmt.Errorf("load obj: %w", err)
	}
	mesh := fromFauxgl(filepath.Base(path), fm)
	if !mesh.HasNormals() {
		mesh.CalculateSmoothNormals()
	}
	render.Logger().Debug("obj mesh loaded", "path", path, "triangles", mesh.TriangleCount())
	return mesh, nil
}

// fromFauxgl flattens a fauxgl triangle mesh.
func fromFauxgl(name string, fm *fauxgl.Mesh) *Mesh {
	vertices := make([]render.Vertex, 0, 3*len(fm.Triangles))
	for _, t := range fm.Triangles {
		for _, v := range [3]fauxgl.Vertex{t.V1, t.V2, t.V3} {
			n := vec3(v.Normal)
			if !n.IsFinite() {
				n = math3d.Vec3{}
			}
			vertices = append(vertices, render.Vertex{
				Position: vec3(v.Position),
				Normal:   n,
				UV:       math3d.V2(v.Texture.X, v.Texture.Y),
				Color:    fauxglColor(v.Color),
			})
		}
	}
	return NewMesh(name, vertices)
}

// toFauxgl builds a fauxgl triangle from three positions sharing one normal.
func toFauxgl(a, b, c, n math3d.Vec3) *fauxgl.Triangle {
	normal := fauxglVector(n)
	return &fauxgl.Triangle{
		V1: fauxgl.Vertex{Position: fauxglVector(a), Normal: normal, Color: fauxgl.Gray(1)},
		V2: fauxgl.Vertex{Position: fauxglVector(b), Normal: normal, Color: fauxgl.Gray(1)},
		V3: fauxgl.Vertex{Position: fauxglVector(c), Normal: normal, Color: fauxgl.Gray(1)},
	}
}

func vec3(v fauxgl.Vector) math3d.Vec3 {
	return math3d.V3(v.X, v.Y, v.Z)
}

func fauxglVector(v math3d.Vec3) fauxgl.Vector {
	return fauxgl.Vector{X: v.X, Y: v.Y, Z: v.Z}
}

// fauxglColor converts a material color. Zero alpha means no material was
// set.
func fauxglColor(c fauxgl.Color) render.Color {
	if c.A == 0 {
		return render.ColorWhite
	}
	return Material{BaseColor: [4]float64{c.R, c.G, c.B, c.A}}.Color()
}
