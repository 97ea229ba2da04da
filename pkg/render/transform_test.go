package render

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/diorama/pkg/math3d"
)

func TestCreateModelMatrixOrder(t *testing.T) {
	// Rotate +X onto +Y about Z, scale by 2, then translate.
	m := CreateModelMatrix(math3d.V3(10, 0, 0), 2, math3d.V3(0, 0, math.Pi/2))
	got := m.MulVec3(math3d.V3(1, 0, 0))
	if !got.ApproxEqual(math3d.V3(10, 2, 0), 1e-9) {
		t.Errorf("model * (1,0,0) = %v, want (10, 2, 0)", got)
	}

	// X rotation is applied before Y rotation.
	m = CreateModelMatrix(math3d.Zero3(), 1, math3d.V3(math.Pi/2, math.Pi/2, 0))
	got = m.MulVec3(math3d.V3(0, 1, 0))
	// Rx(90°): (0,1,0) -> (0,0,1); Ry(90°): (0,0,1) -> (1,0,0).
	if !got.ApproxEqual(math3d.V3(1, 0, 0), 1e-9) {
		t.Errorf("model * (0,1,0) = %v, want (1, 0, 0)", got)
	}
}

func TestCreateViewMatrixDegenerate(t *testing.T) {
	tests := []struct {
		name        string
		eye, center math3d.Vec3
	}{
		{"eye equals center", math3d.V3(1, 2, 3), math3d.V3(1, 2, 3)},
		{"looking along up", math3d.V3(0, 10, 0), math3d.Zero3()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := CreateViewMatrix(tc.eye, tc.center, math3d.Up()); !errors.Is(err, ErrDegenerateCamera) {
				t.Errorf("err = %v, want ErrDegenerateCamera", err)
			}
		})
	}
}

func TestCreatePerspectiveMatrixValidation(t *testing.T) {
	tests := []struct {
		name                   string
		width, height, nr, far float64
		ok                     bool
	}{
		{"valid", 800, 600, 0.1, 100, true},
		{"zero width", 0, 600, 0.1, 100, false},
		{"negative height", 800, -1, 0.1, 100, false},
		{"zero near", 800, 600, 0, 100, false},
		{"near equals far", 800, 600, 5, 5, false},
		{"near beyond far", 800, 600, 10, 5, false},
		{"nan near", 800, 600, math.NaN(), 5, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreatePerspectiveMatrix(tc.width, tc.height, tc.nr, tc.far)
			if tc.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidProjection) {
				t.Errorf("err = %v, want ErrInvalidProjection", err)
			}
		})
	}
}

func TestCreateViewportMatrix(t *testing.T) {
	vp := CreateViewportMatrix(200, 100)
	tests := []struct {
		ndc, want math3d.Vec3
	}{
		{math3d.V3(-1, 1, 0.5), math3d.V3(0, 0, 0.5)},
		{math3d.V3(1, -1, -0.5), math3d.V3(200, 100, -0.5)},
		{math3d.V3(0, 0, 0), math3d.V3(100, 50, 0)},
	}
	for _, tc := range tests {
		if got := vp.MulVec3(tc.ndc); !got.ApproxEqual(tc.want, 1e-9) {
			t.Errorf("viewport * %v = %v, want %v", tc.ndc, got, tc.want)
		}
	}
}

func testUniforms(t *testing.T, model math3d.Mat4) *Uniforms {
	t.Helper()
	view, err := CreateViewMatrix(math3d.V3(0, 0, 10), math3d.Zero3(), math3d.Up())
	if err != nil {
		t.Fatal(err)
	}
	proj, err := CreatePerspectiveMatrix(100, 100, 0.1, 100)
	if err != nil {
		t.Fatal(err)
	}
	return NewUniforms(model, view, proj, CreateViewportMatrix(100, 100), 0)
}

func TestVertexShaderCentersOrigin(t *testing.T) {
	u := testUniforms(t, math3d.Identity())
	in := NewVertex(math3d.Zero3(), math3d.V3(0, 0, 1), math3d.V2(0, 0))

	out := VertexShader(in, u.Combined(), u)
	if !out.ScreenPosition.ApproxEqual(math3d.V3(50, 50, out.NDCPosition.Z), 1e-9) {
		t.Errorf("screen = %v, want center (50, 50)", out.ScreenPosition)
	}
	if out.ClipPosition.W <= 0 {
		t.Errorf("clip w = %v, want positive", out.ClipPosition.W)
	}
	if !InsideClipVolume(out) {
		t.Errorf("origin NDC %v outside clip volume", out.NDCPosition)
	}
	if in.ScreenPosition != (math3d.Vec3{}) {
		t.Error("VertexShader modified its input")
	}
	if out.Color != ColorWhite {
		t.Errorf("NewVertex color = %v, want white", out.Color)
	}
}

func TestVertexShaderZeroW(t *testing.T) {
	u := testUniforms(t, math3d.Identity())
	// Row 3 of the projection zeroes w for a point at the eye plane.
	v := NewVertex(math3d.V3(1, 1, 10), math3d.V3(0, 0, 1), math3d.V2(0, 0))
	out := VertexShader(v, u.Combined(), u)
	if out.ClipPosition.W != 0 {
		t.Fatalf("setup: clip w = %v, want 0", out.ClipPosition.W)
	}
	if !out.NDCPosition.IsFinite() || !out.ScreenPosition.IsFinite() {
		t.Errorf("w = 0 produced non-finite positions: %v %v", out.NDCPosition, out.ScreenPosition)
	}
}

func TestVertexShaderNormals(t *testing.T) {
	tests := []struct {
		name  string
		model math3d.Mat4
		in    math3d.Vec3
		want  math3d.Vec3
	}{
		{"translation ignored", math3d.Translate(math3d.V3(5, -3, 2)), math3d.V3(0, 1, 0), math3d.V3(0, 1, 0)},
		{"rotation", math3d.RotateZ(math.Pi / 2), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)},
		{"uniform scale renormalized", math3d.ScaleUniform(3), math3d.V3(0, 0, 1), math3d.V3(0, 0, 1)},
		{"singular falls back to identity", math3d.ScaleUniform(0), math3d.V3(0, 0, 2), math3d.V3(0, 0, 1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := testUniforms(t, tc.model)
			out := VertexShader(NewVertex(math3d.Zero3(), tc.in, math3d.V2(0, 0)), u.Combined(), u)
			if !out.TransformedNormal.ApproxEqual(tc.want, 1e-9) {
				t.Errorf("normal = %v, want %v", out.TransformedNormal, tc.want)
			}
		})
	}
}

func TestTransformVerticesFreshSlice(t *testing.T) {
	u := testUniforms(t, math3d.Identity())
	src := []Vertex{NewVertex(math3d.V3(1, 0, 0), math3d.Up(), math3d.V2(0, 0))}
	out := TransformVertices(src, u)
	if len(out) != 1 {
		t.Fatalf("len = %d", len(out))
	}
	if src[0].ScreenPosition != (math3d.Vec3{}) {
		t.Error("TransformVertices mutated the shared source")
	}
}

func TestUniformsCombined(t *testing.T) {
	u := testUniforms(t, math3d.Translate(math3d.V3(1, 2, 3)))
	want := u.Projection.Mul(u.View).Mul(u.Model)
	if u.Combined() != want {
		t.Error("Combined != Projection * View * Model")
	}
}
