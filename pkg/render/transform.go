package render

import (
	"fmt"
	"math"

	"github.com/taigrr/diorama/pkg/math3d"
)

// FieldOfView is the vertical field of view of every projection.
const FieldOfView = math.Pi / 4

// CreateModelMatrix returns T * S * Rz * Ry * Rx, so rotations are applied
// first (X, then Y, then Z), then the uniform scale, then the translation.
func CreateModelMatrix(translation math3d.Vec3, scale float64, rotation math3d.Vec3) math3d.Mat4 {
	return math3d.Translate(translation).
		Mul(math3d.ScaleUniform(scale)).
		Mul(math3d.RotateZ(rotation.Z)).
		Mul(math3d.RotateY(rotation.Y)).
		Mul(math3d.RotateX(rotation.X))
}

// CreateViewMatrix returns a look-at view matrix.
func CreateViewMatrix(eye, center, up math3d.Vec3) (math3d.Mat4, error) {
	f, ok := center.Sub(eye).TryNormalize()
	if !ok {
		return math3d.Identity(), fmt.Errorf("create view matrix: eye equals center: %w", ErrDegenerateCamera)
	}
	if _, ok := f.Cross(up).TryNormalize(); !ok {
		return math3d.Identity(), fmt.Errorf("create view matrix: view direction parallel to up: %w", ErrDegenerateCamera)
	}
	return math3d.LookAt(eye, center, up), nil
}

// CreatePerspectiveMatrix returns a 45° perspective projection for a
// width x height viewport.
func CreatePerspectiveMatrix(width, height, near, far float64) (math3d.Mat4, error) {
	switch {
	case !(width > 0) || !(height > 0):
		return math3d.Identity(), fmt.Errorf("create perspective matrix: size %vx%v: %w", width, height, ErrInvalidProjection)
	case !(near > 0):
		return math3d.Identity(), fmt.Errorf("create perspective matrix: near %v: %w", near, ErrInvalidProjection)
	case !(near < far):
		return math3d.Identity(), fmt.Errorf("create perspective matrix: near %v >= far %v: %w", near, far, ErrInvalidProjection)
	}
	return math3d.Perspective(FieldOfView, width/height, near, far), nil
}

// CreateViewportMatrix maps NDC [-1, 1]² to pixel coordinates with y
// pointing down. Z passes through unchanged.
func CreateViewportMatrix(width, height float64) math3d.Mat4 {
	hw, hh := width/2, height/2
	return math3d.Mat4{
		hw, 0, 0, 0,
		0, -hh, 0, 0,
		0, 0, 1, 0,
		hw, hh, 0, 1,
	}
}

// VertexShader transforms v by the combined model-view-projection matrix and
// the viewport. The input vertex is not modified.
func VertexShader(v Vertex, combined math3d.Mat4, u *Uniforms) Vertex {
	return vertexShader(v, combined, normalMatrix(u.Model), u.Viewport)
}

// TransformVertices runs the vertex shader over src and returns a fresh slice.
func TransformVertices(src []Vertex, u *Uniforms) []Vertex {
	combined := u.Combined()
	nm := normalMatrix(u.Model)
	out := make([]Vertex, len(src))
	for i, v := range src {
		out[i] = vertexShader(v, combined, nm, u.Viewport)
	}
	return out
}

func vertexShader(v Vertex, combined, normal, viewport math3d.Mat4) Vertex {
	clip := combined.MulVec4(math3d.V4FromV3(v.Position, 1))
	ndc := clip.PerspectiveDivide()
	screen := viewport.MulVec4(math3d.V4FromV3(ndc, 1)).PerspectiveDivide()

	n := normal.MulVec4(math3d.V4FromV3(v.Normal, 0)).PerspectiveDivide()
	if nn, ok := n.TryNormalize(); ok {
		n = nn
	}

	v.ClipPosition = clip
	v.NDCPosition = ndc
	v.ScreenPosition = screen
	v.TransformedNormal = n
	return v
}

// normalMatrix returns the inverse-transpose of the linear part of model,
// or identity when it is singular. Dropping the translation keeps w at zero
// for directions.
func normalMatrix(model math3d.Mat4) math3d.Mat4 {
	model[12], model[13], model[14] = 0, 0, 0
	return model.NormalMatrix()
}
