package render

import (
	"math"
	"testing"

	"github.com/taigrr/diorama/pkg/math3d"
)

func TestPlaneDistanceToPoint(t *testing.T) {
	// Plane at Z=0, normal pointing +Z
	plane := Plane{Normal: math3d.V3(0, 0, 1), D: 0}

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected float64
	}{
		{"origin", math3d.V3(0, 0, 0), 0},
		{"in front", math3d.V3(0, 0, 5), 5},
		{"behind", math3d.V3(0, 0, -3), -3},
		{"offset XY", math3d.V3(10, -5, 2), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist := plane.DistanceToPoint(tc.point)
			if math.Abs(dist-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", dist, tc.expected)
			}
		})
	}
}

func TestPlaneNormalize(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 3, 4), D: 10}
	plane.Normalize()

	if l := plane.Normal.Len(); math.Abs(l-1.0) > 1e-9 {
		t.Errorf("normalized normal length = %v, want 1.0", l)
	}
	if math.Abs(plane.Normal.Y-0.6) > 1e-9 || math.Abs(plane.Normal.Z-0.8) > 1e-9 {
		t.Errorf("normal = %v, want (0, 0.6, 0.8)", plane.Normal)
	}
	if math.Abs(plane.D-2.0) > 1e-9 {
		t.Errorf("D = %v, want 2.0", plane.D)
	}
}

func TestAABBExtend(t *testing.T) {
	box := EmptyAABB()
	if !box.IsEmpty() {
		t.Fatal("EmptyAABB is not empty")
	}

	box = box.Extend(math3d.V3(-1, 2, -3)).Extend(math3d.V3(1, -2, 3))
	if box.IsEmpty() {
		t.Fatal("box with two points reported empty")
	}
	if box.Min != math3d.V3(-1, -2, -3) || box.Max != math3d.V3(1, 2, 3) {
		t.Errorf("box = %+v, want min (-1,-2,-3) max (1,2,3)", box)
	}

	center, radius := box.BoundingSphere()
	if center != math3d.Zero3() {
		t.Errorf("sphere center = %v, want origin", center)
	}
	if want := math.Sqrt(1 + 4 + 9); math.Abs(radius-want) > 1e-9 {
		t.Errorf("sphere radius = %v, want %v", radius, want)
	}
}

func TestVerticesAABB(t *testing.T) {
	vs := []Vertex{
		{Position: math3d.V3(0, 0, 0)},
		{Position: math3d.V3(4, 1, -2)},
		{Position: math3d.V3(-1, 3, 5)},
	}
	box := VerticesAABB(vs)
	if box.Min != math3d.V3(-1, 0, -2) || box.Max != math3d.V3(4, 3, 5) {
		t.Errorf("VerticesAABB = %+v", box)
	}
	if !VerticesAABB(nil).IsEmpty() {
		t.Error("bounds of no vertices should be empty")
	}
}

func testFrustum(t testing.TB, near, far float64) Frustum {
	t.Helper()
	proj, err := CreatePerspectiveMatrix(16, 9, near, far)
	if err != nil {
		t.Fatal(err)
	}
	return NewFrustumFromMatrix(proj)
}

func TestFrustumPlanesNormalized(t *testing.T) {
	frustum := testFrustum(t, 0.1, 100)
	for i, plane := range frustum.Planes {
		if l := plane.Normal.Len(); math.Abs(l-1.0) > 1e-6 {
			t.Errorf("plane %d normal length = %v, want 1.0", i, l)
		}
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	frustum := testFrustum(t, 0.1, 100)

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected bool
	}{
		{"center near", math3d.V3(0, 0, -1), true},
		{"center mid", math3d.V3(0, 0, -50), true},
		{"center far", math3d.V3(0, 0, -99), true},
		{"behind camera", math3d.V3(0, 0, 1), false},
		{"too far", math3d.V3(0, 0, -200), false},
		{"too close", math3d.V3(0, 0, -0.01), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := frustum.ContainsPoint(tc.point); got != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.expected)
			}
		})
	}
}

func TestFrustumIntersectAABB(t *testing.T) {
	frustum := testFrustum(t, 1, 100)

	tests := []struct {
		name     string
		box      AABB
		expected bool
	}{
		{"fully inside", AABB{math3d.V3(-1, -1, -10), math3d.V3(1, 1, -5)}, true},
		{"crosses near plane", AABB{math3d.V3(-1, -1, -2), math3d.V3(1, 1, 2)}, true},
		{"behind camera", AABB{math3d.V3(-1, -1, 5), math3d.V3(1, 1, 10)}, false},
		{"beyond far plane", AABB{math3d.V3(-1, -1, -150), math3d.V3(1, 1, -120)}, false},
		{"far to the right", AABB{math3d.V3(100, -1, -10), math3d.V3(110, 1, -5)}, false},
		{"contains frustum", AABB{math3d.V3(-200, -200, -200), math3d.V3(200, 200, 200)}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := frustum.IntersectAABB(tc.box); got != tc.expected {
				t.Errorf("IntersectAABB(%v) = %v, want %v", tc.box, got, tc.expected)
			}
		})
	}
}

func TestFrustumIntersectsSphere(t *testing.T) {
	frustum := testFrustum(t, 1, 100)

	tests := []struct {
		name     string
		center   math3d.Vec3
		radius   float64
		expected bool
	}{
		{"inside", math3d.V3(0, 0, -10), 1.0, true},
		{"straddles near plane", math3d.V3(0, 0, -0.5), 1.0, true},
		{"behind", math3d.V3(0, 0, 5), 1.0, false},
		{"far behind", math3d.V3(0, 0, 20), 1.0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := frustum.IntersectsSphere(tc.center, tc.radius); got != tc.expected {
				t.Errorf("IntersectsSphere(%v, %v) = %v, want %v", tc.center, tc.radius, got, tc.expected)
			}
		})
	}
}

func TestFrustumWithOrbitCamera(t *testing.T) {
	proj, err := CreatePerspectiveMatrix(1, 1, 1, 100)
	if err != nil {
		t.Fatal(err)
	}
	view, err := CreateViewMatrix(math3d.Zero3(), math3d.V3(10, 0, 0), math3d.Up())
	if err != nil {
		t.Fatal(err)
	}
	frustum := NewFrustumFromMatrix(proj.Mul(view))

	if !frustum.ContainsPoint(math3d.V3(10, 0, 0)) {
		t.Error("point in front of camera should be visible")
	}
	if frustum.ContainsPoint(math3d.V3(-10, 0, 0)) {
		t.Error("point behind camera should not be visible")
	}
}

func BenchmarkFrustumIntersectsSphere(b *testing.B) {
	frustum := testFrustum(b, 0.1, 1000)
	center := math3d.V3(0, 0, -10)

	for b.Loop() {
		_ = frustum.IntersectsSphere(center, 2)
	}
}

func BenchmarkFrustumExtraction(b *testing.B) {
	proj := math3d.Perspective(math.Pi/4, 16.0/9.0, 0.1, 1000.0)
	view := math3d.LookAt(math3d.V3(0, 10, 20), math3d.V3(0, 0, 0), math3d.V3(0, 1, 0))
	viewProj := proj.Mul(view)

	for b.Loop() {
		_ = NewFrustumFromMatrix(viewProj)
	}
}
