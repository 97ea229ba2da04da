// Package models loads and builds the triangle meshes drawn by diorama.
package models

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/render"
)

// Mesh is a flat triangulated vertex list: vertices 3i, 3i+1 and 3i+2 form
// triangle i. A trailing partial triangle is ignored by the renderer.
type Mesh struct {
	Name     string
	Vertices []render.Vertex

	// Bounding box (calculated on load)
	Bounds render.AABB
}

// Material is the base color of a group of triangles.
type Material struct {
	Name      string
	BaseColor [4]float64 // RGBA in 0-1 range
}

// DefaultMaterial is used for triangles without a material.
var DefaultMaterial = Material{Name: "default", BaseColor: [4]float64{1, 1, 1, 1}}

// Color converts the base color to a render color. Alpha is ignored.
func (m Material) Color() render.Color {
	return render.RGB(
		unitToChannel(m.BaseColor[0]),
		unitToChannel(m.BaseColor[1]),
		unitToChannel(m.BaseColor[2]),
	)
}

func unitToChannel(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// NewMesh creates a mesh over vertices and computes its bounds.
func NewMesh(name string, vertices []render.Vertex) *Mesh {
	m := &Mesh{Name: name, Vertices: vertices}
	m.CalculateBounds()
	return m
}

// Load reads a mesh file, choosing the loader by extension (.obj, .glb or
// .gltf).
func Load(path string) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return LoadOBJ(path)
	case ".glb", ".gltf":
		return LoadGLB(path)
	default:
		return nil, fmt.Errorf("load mesh %s: unsupported format %q", path, ext)
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	m.Bounds = render.VerticesAABB(m.Vertices)
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.Bounds.Center()
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.Bounds.Size()
}

// TriangleCount returns the number of complete triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Vertices) / 3
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// HasNormals reports whether any vertex carries a usable normal.
func (m *Mesh) HasNormals() bool {
	for i := range m.Vertices {
		if m.Vertices[i].Normal.Len() > 0.001 {
			return true
		}
	}
	return false
}

// CalculateNormals assigns every vertex the normal of its own face.
func (m *Mesh) CalculateNormals() {
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		n := faceNormal(m.Vertices[i].Position, m.Vertices[i+1].Position, m.Vertices[i+2].Position)
		m.Vertices[i].Normal = n
		m.Vertices[i+1].Normal = n
		m.Vertices[i+2].Normal = n
	}
}

// CalculateSmoothNormals averages the face normals of all triangles sharing
// a vertex position. Faces are weighted by area.
func (m *Mesh) CalculateSmoothNormals() {
	sums := make(map[math3d.Vec3]math3d.Vec3)
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		v0 := m.Vertices[i].Position
		v1 := m.Vertices[i+1].Position
		v2 := m.Vertices[i+2].Position
		n := v1.Sub(v0).Cross(v2.Sub(v0)) // Don't normalize yet
		sums[v0] = sums[v0].Add(n)
		sums[v1] = sums[v1].Add(n)
		sums[v2] = sums[v2].Add(n)
	}
	for i := range m.Vertices {
		if n, ok := sums[m.Vertices[i].Position].TryNormalize(); ok {
			m.Vertices[i].Normal = n
		}
	}
}

// SetColor paints every vertex with c.
func (m *Mesh) SetColor(c render.Color) {
	for i := range m.Vertices {
		m.Vertices[i].Color = c
	}
}

// Fit centers the mesh on the origin and scales it uniformly so its
// bounding sphere has the given radius. Empty meshes are left alone.
func (m *Mesh) Fit(radius float64) {
	if m.Bounds.IsEmpty() {
		return
	}
	center, r := m.Bounds.BoundingSphere()
	s := 1.0
	if r > 0 {
		s = radius / r
	}
	m.Transform(math3d.ScaleUniform(s).Mul(math3d.Translate(center.Negate())))
}

// Transform applies mat to every position and its normal matrix to every
// normal, then recomputes the bounds.
func (m *Mesh) Transform(mat math3d.Mat4) {
	linear := mat
	linear[12], linear[13], linear[14] = 0, 0, 0
	nm := linear.NormalMatrix()
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = mat.MulVec3(v.Position)
		if n, ok := nm.MulVec3Dir(v.Normal).TryNormalize(); ok {
			v.Normal = n
		}
	}
	m.CalculateBounds()
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:     m.Name,
		Vertices: make([]render.Vertex, len(m.Vertices)),
		Bounds:   m.Bounds,
	}
	copy(clone.Vertices, m.Vertices)
	return clone
}

func faceNormal(v0, v1, v2 math3d.Vec3) math3d.Vec3 {
	n, _ := v1.Sub(v0).Cross(v2.Sub(v0)).TryNormalize()
	return n
}
