package models

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/render"
)

func vertices(ps ...math3d.Vec3) []render.Vertex {
	vs := make([]render.Vertex, len(ps))
	for i, p := range ps {
		vs[i] = render.NewVertex(p, math3d.Vec3{}, math3d.Vec2{})
	}
	return vs
}

// roof returns two triangles folded 90 degrees along the X axis.
func roof() *Mesh {
	return NewMesh("roof", vertices(
		math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0),
		math3d.V3(0, 0, 0), math3d.V3(0, 0, 1), math3d.V3(1, 0, 0),
	))
}

func TestMeshCounts(t *testing.T) {
	m := NewMesh("partial", vertices(
		math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0),
		math3d.V3(2, 2, 2),
	))
	if m.TriangleCount() != 1 {
		t.Errorf("TriangleCount = %d, want 1", m.TriangleCount())
	}
	if m.VertexCount() != 4 {
		t.Errorf("VertexCount = %d, want 4", m.VertexCount())
	}
	if !m.Bounds.Max.ApproxEqual(math3d.V3(2, 2, 2), 0) {
		t.Errorf("Bounds.Max = %v", m.Bounds.Max)
	}
}

func TestCalculateNormals(t *testing.T) {
	m := roof()
	m.CalculateNormals()

	want := []math3d.Vec3{math3d.V3(0, 0, 1), math3d.V3(0, 1, 0)}
	for i, v := range m.Vertices {
		if !v.Normal.ApproxEqual(want[i/3], 1e-12) {
			t.Errorf("vertex %d normal %v, want %v", i, v.Normal, want[i/3])
		}
	}
}

func TestCalculateSmoothNormals(t *testing.T) {
	m := roof()
	m.CalculateSmoothNormals()

	shared := math3d.V3(0, 1, 1).Normalize()
	tests := []struct {
		vertex int
		want   math3d.Vec3
	}{
		{0, shared},
		{1, shared},
		{2, math3d.V3(0, 0, 1)},
		{3, shared},
		{4, math3d.V3(0, 1, 0)},
		{5, shared},
	}
	for _, tc := range tests {
		if got := m.Vertices[tc.vertex].Normal; !got.ApproxEqual(tc.want, 1e-12) {
			t.Errorf("vertex %d normal %v, want %v", tc.vertex, got, tc.want)
		}
	}
}

func TestMeshFit(t *testing.T) {
	m := NewMesh("box", vertices(
		math3d.V3(10, 10, 10), math3d.V3(14, 10, 10), math3d.V3(10, 13, 10),
	))
	m.Fit(2)

	center, r := m.Bounds.BoundingSphere()
	if !center.ApproxEqual(math3d.Zero3(), 1e-9) {
		t.Errorf("center = %v, want origin", center)
	}
	if math.Abs(r-2) > 1e-9 {
		t.Errorf("radius = %v, want 2", r)
	}
}

func TestMeshTransformRotatesNormals(t *testing.T) {
	m := roof()
	m.CalculateNormals()
	m.Transform(math3d.Translate(math3d.V3(5, 0, 0)).Mul(math3d.RotateX(math.Pi / 2)))

	if !m.Vertices[0].Normal.ApproxEqual(math3d.V3(0, -1, 0), 1e-9) {
		t.Errorf("normal = %v, want (0, -1, 0)", m.Vertices[0].Normal)
	}
	if !m.Vertices[1].Position.ApproxEqual(math3d.V3(6, 0, 0), 1e-9) {
		t.Errorf("position = %v, want (6, 0, 0)", m.Vertices[1].Position)
	}
	if m.Bounds.Min.X != 5 {
		t.Errorf("Bounds.Min.X = %v, want 5", m.Bounds.Min.X)
	}
}

func TestMeshClone(t *testing.T) {
	m := roof()
	clone := m.Clone()
	clone.SetColor(render.ColorBlue)
	clone.Vertices[0].Position = math3d.V3(9, 9, 9)

	if m.Vertices[0].Color != render.ColorWhite {
		t.Error("Clone shares colors with the original")
	}
	if m.Vertices[0].Position != math3d.Zero3() {
		t.Error("Clone shares positions with the original")
	}
	if clone.Bounds != m.Bounds {
		t.Error("Clone should copy bounds")
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	if _, err := Load("mesh.stl"); err == nil {
		t.Error("expected error for .stl")
	}
}

const tetrahedronOBJ = `# tetrahedron
v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
f 1 3 2
f 1 2 4
f 1 4 3
f 2 3 4
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOBJ(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tetra.obj", tetrahedronOBJ)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Name != "tetra.obj" {
		t.Errorf("Name = %q", m.Name)
	}
	if m.TriangleCount() != 4 {
		t.Fatalf("TriangleCount = %d, want 4", m.TriangleCount())
	}
	for i, v := range m.Vertices {
		if l := v.Normal.Len(); math.Abs(l-1) > 1e-6 {
			t.Errorf("vertex %d normal length %v", i, l)
		}
	}
	if !m.Bounds.Min.ApproxEqual(math3d.Zero3(), 1e-9) || !m.Bounds.Max.ApproxEqual(math3d.V3(1, 1, 1), 1e-9) {
		t.Errorf("Bounds = %v", m.Bounds)
	}
}

func TestLoadOBJMissingFile(t *testing.T) {
	if _, err := LoadOBJ(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestProceduralInvalid(t *testing.T) {
	tests := []struct {
		name string
		make func() (*Mesh, error)
	}{
		{"sphere", func() (*Mesh, error) { return Sphere(0, 8) }},
		{"ring inverted", func() (*Mesh, error) { return Ring(2, 1, 0.1, 8) }},
		{"ring flat", func() (*Mesh, error) { return Ring(1, 2, 0, 8) }},
		{"ship", func() (*Mesh, error) { return Ship(-1, 8) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.make(); !errors.Is(err, ErrInvalidShape) {
				t.Errorf("err = %v, want ErrInvalidShape", err)
			}
		})
	}
}

func TestSphere(t *testing.T) {
	m, err := Sphere(1, 16)
	if err != nil {
		t.Fatalf("Sphere: %v", err)
	}
	if m.TriangleCount() < 50 {
		t.Fatalf("TriangleCount = %d, too few", m.TriangleCount())
	}
	for i, v := range m.Vertices {
		if d := v.Position.Len(); d < 0.85 || d > 1.15 {
			t.Fatalf("vertex %d at distance %v from the center", i, d)
		}
		if v.Color != render.ColorWhite {
			t.Fatalf("vertex %d color %v, want white", i, v.Color)
		}
	}
	if c := m.Center(); !c.ApproxEqual(math3d.Zero3(), 0.1) {
		t.Errorf("Center = %v", c)
	}
}

func TestRing(t *testing.T) {
	const inner, outer, thickness = 1.0, 2.0, 0.4
	m, err := Ring(inner, outer, thickness, 40)
	if err != nil {
		t.Fatalf("Ring: %v", err)
	}
	if m.TriangleCount() == 0 {
		t.Fatal("empty ring")
	}
	const tol = 0.15
	for i, v := range m.Vertices {
		p := v.Position
		r := math.Hypot(p.X, p.Z)
		if r < inner-tol || r > outer+tol {
			t.Fatalf("vertex %d at radius %v outside [%v, %v]", i, r, inner, outer)
		}
		if math.Abs(p.Y) > thickness/2+tol {
			t.Fatalf("vertex %d at height %v", i, p.Y)
		}
	}
}

func TestShipPointsAlongX(t *testing.T) {
	m, err := Ship(3, 32)
	if err != nil {
		t.Fatalf("Ship: %v", err)
	}
	s := m.Size()
	if !(s.X > s.Y && s.X > s.Z) {
		t.Errorf("Size = %v, want longest along X", s)
	}
}

func BenchmarkSphere(b *testing.B) {
	for b.Loop() {
		_, _ = Sphere(1, DefaultCells)
	}
}
