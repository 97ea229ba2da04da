package render

import "github.com/taigrr/diorama/pkg/math3d"

// Vertex is a mesh vertex. Position, Normal, UV and Color come from the mesh;
// the remaining fields are filled in by VertexShader.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
	Color    Color

	ClipPosition      math3d.Vec4
	NDCPosition       math3d.Vec3
	ScreenPosition    math3d.Vec3 // Z holds the depth
	TransformedNormal math3d.Vec3
}

// NewVertex creates a white vertex.
func NewVertex(position, normal math3d.Vec3, uv math3d.Vec2) Vertex {
	return Vertex{
		Position: position,
		Normal:   normal,
		UV:       uv,
		Color:    ColorWhite,
	}
}

// Fragment is a candidate pixel produced by the rasterizer.
type Fragment struct {
	Position      math3d.Vec2 // integer pixel coordinates
	Color         Color
	Depth         float64
	Intensity     float64     // >= 0
	ModelPosition math3d.Vec3 // stable coordinate for procedural patterns
}

// X returns the pixel column.
func (f Fragment) X() int { return int(f.Position.X) }

// Y returns the pixel row.
func (f Fragment) Y() int { return int(f.Position.Y) }

// Uniforms holds the per-draw-call transforms. It is built fresh for every
// draw and is read-only to the pipeline stages.
type Uniforms struct {
	Model      math3d.Mat4
	View       math3d.Mat4
	Projection math3d.Mat4
	Viewport   math3d.Mat4
	Time       float64 // elapsed frame ticks
}

// NewUniforms bundles the four transforms and the time value.
func NewUniforms(model, view, projection, viewport math3d.Mat4, time float64) *Uniforms {
	return &Uniforms{
		Model:      model,
		View:       view,
		Projection: projection,
		Viewport:   viewport,
		Time:       time,
	}
}

// Combined returns Projection * View * Model.
func (u *Uniforms) Combined() math3d.Mat4 {
	return u.Projection.Mul(u.View).Mul(u.Model)
}

// FragmentShader maps a fragment to its final color.
type FragmentShader func(Fragment, *Uniforms) Color
