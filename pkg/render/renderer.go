package render

import (
	"math"

	"github.com/taigrr/diorama/pkg/math3d"
)

// starDepth is written for skybox points so any geometry drawn later wins.
const starDepth = math.MaxFloat64

// DrawStats counts the work done by draw calls since the last ResetStats.
type DrawStats struct {
	ObjectsTested int // Objects passed to Visible
	ObjectsCulled int // Objects rejected by Visible
	Triangles     int // Triangles assembled
	Culled        int // Triangles dropped by CullTriangles
	Fragments     int // Fragments produced by the rasterizer
	Written       int // Fragments that passed the depth test
}

// Renderer runs draw calls through the pipeline into a Framebuffer.
type Renderer struct {
	fb *Framebuffer

	Light   math3d.Vec3 // Unit vector pointing towards the light
	Mode    RasterMode
	Culling bool
	Stats   DrawStats
}

// NewRenderer creates a renderer drawing into fb with culling enabled and
// the light coming from +Z.
func NewRenderer(fb *Framebuffer) *Renderer {
	return &Renderer{
		fb:      fb,
		Light:   math3d.V3(0, 0, 1),
		Culling: true,
	}
}

// Framebuffer returns the render target.
func (r *Renderer) Framebuffer() *Framebuffer {
	return r.fb
}

// ResetStats zeroes the statistics (call once per frame).
func (r *Renderer) ResetStats() {
	r.Stats = DrawStats{}
}

// Visible reports whether a model-space bounding box can intersect the view
// volume of u. Empty boxes are never visible.
func (r *Renderer) Visible(u *Uniforms, bounds AABB) bool {
	r.Stats.ObjectsTested++
	if bounds.IsEmpty() {
		r.Stats.ObjectsCulled++
		return false
	}
	center, radius := bounds.BoundingSphere()
	if !NewFrustumFromMatrix(u.Combined()).IntersectsSphere(center, radius) {
		r.Stats.ObjectsCulled++
		return false
	}
	return true
}

// Draw transforms vertices, assembles them into triangles, optionally culls
// them, rasterizes and shades every fragment and writes it through the
// framebuffer depth test. vertices is not modified.
func (r *Renderer) Draw(u *Uniforms, vertices []Vertex, shade FragmentShader) {
	transformed := TransformVertices(vertices, u)

	tris := AssembleTriangles(transformed)
	r.Stats.Triangles += len(tris)
	if r.Culling {
		kept := CullTriangles(tris)
		r.Stats.Culled += len(tris) - len(kept)
		tris = kept
	}

	raster := Rasterizer{Width: r.fb.Width, Height: r.fb.Height, Mode: r.Mode}
	for _, tri := range tris {
		for frag := range raster.Triangle(tri[0], tri[1], tri[2], r.Light) {
			r.Stats.Fragments++
			r.fb.SetCurrentColor(shade(frag, u))
			if r.fb.DrawPoint(frag.X(), frag.Y(), frag.Depth) {
				r.Stats.Written++
			}
		}
	}
}

// DrawPath draws a closed polyline through points in a single color.
// Segments with an end behind the eye or entirely outside the clip volume
// are skipped.
func (r *Renderer) DrawPath(u *Uniforms, points []math3d.Vec3, color Color) {
	if len(points) < 2 {
		return
	}
	vs := make([]Vertex, len(points))
	for i, p := range points {
		vs[i] = Vertex{Position: p, Color: color}
	}
	vs = TransformVertices(vs, u)

	r.fb.SetCurrentColor(color)
	for i := range vs {
		a, b := vs[i], vs[(i+1)%len(vs)]
		if a.ClipPosition.W <= 0 || b.ClipPosition.W <= 0 {
			continue
		}
		if !InsideClipVolume(a) && !InsideClipVolume(b) {
			continue
		}
		for frag := range Line(a, b) {
			r.Stats.Fragments++
			if r.fb.DrawPoint(frag.X(), frag.Y(), frag.Depth) {
				r.Stats.Written++
			}
		}
	}
}

// DrawStars plots each point that lies in front of the eye as a single
// pixel behind all other geometry. Call it before drawing the scene.
func (r *Renderer) DrawStars(u *Uniforms, stars []math3d.Vec3, color Color) {
	combined := u.Combined()
	r.fb.SetCurrentColor(color)
	for _, s := range stars {
		clip := combined.MulVec4(math3d.V4FromV3(s, 1))
		if clip.W <= 0 {
			continue
		}
		ndc := clip.PerspectiveDivide()
		if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 {
			continue
		}
		p := u.Viewport.MulVec3(ndc)
		if r.fb.DrawPoint(int(p.X), int(p.Y), starDepth) {
			r.Stats.Written++
		}
	}
}
