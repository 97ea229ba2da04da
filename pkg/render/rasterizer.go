package render

import (
	"iter"
	"math"

	"github.com/taigrr/diorama/pkg/math3d"
)

// guardBand bounds screen coordinates handed to the scan loops. Primitives
// reaching further (typically vertices behind the eye) are skipped.
const guardBand = 1 << 15

// RasterMode selects how triangles are turned into fragments.
type RasterMode int

const (
	RasterFilled    RasterMode = iota // Scan-fill the interior
	RasterWireframe                   // Emit the three edges only
)

// String returns the mode name.
func (m RasterMode) String() string {
	if m == RasterWireframe {
		return "wireframe"
	}
	return "filled"
}

// Rasterizer converts screen-space primitives into fragments. It holds no
// buffers; depth testing happens in the Framebuffer.
type Rasterizer struct {
	Width  int
	Height int
	Mode   RasterMode
}

// Line yields the fragments of the segment from a to b using Bresenham's
// algorithm over the truncated screen positions. The end point itself is
// not emitted, so a horizontal segment from x=0 to x=10 yields ten
// fragments and a zero-length segment yields none. Color, depth and model
// position are interpolated along x, or along y for vertical segments.
func Line(a, b Vertex) iter.Seq[Fragment] {
	return line(a, b, 1)
}

func line(a, b Vertex, intensity float64) iter.Seq[Fragment] {
	return func(yield func(Fragment) bool) {
		pa, pb := a.ScreenPosition, b.ScreenPosition
		if !inGuardBand(pa) || !inGuardBand(pb) {
			return
		}

		x0, y0 := int(pa.X), int(pa.Y)
		x1, y1 := int(pb.X), int(pb.Y)

		dx := abs(x1 - x0)
		dy := abs(y1 - y0)
		sx := 1
		if x0 > x1 {
			sx = -1
		}
		sy := 1
		if y0 > y1 {
			sy = -1
		}
		err := dx - dy

		x, y := x0, y0
		for x != x1 || y != y1 {
			var t float64
			if x1 != x0 {
				t = float64(x-x0) / float64(x1-x0)
			} else {
				t = float64(y-y0) / float64(y1-y0)
			}
			t = clamp01(t)

			frag := Fragment{
				Position:      math3d.V2(float64(x), float64(y)),
				Color:         a.Color.Lerp(b.Color, t),
				Depth:         pa.Z + (pb.Z-pa.Z)*t,
				Intensity:     intensity,
				ModelPosition: a.Position.Lerp(b.Position, t),
			}
			if !yield(frag) {
				return
			}

			e2 := 2 * err
			if e2 > -dy {
				err -= dy
				x += sx
			}
			if e2 < dx {
				err += dx
				y += sy
			}
		}
	}
}

// Triangle yields the fragments of a flat-shaded triangle. Intensity is the
// clamped dot product of the triangle normal with light, where the normal is
// the mean of the transformed vertex normals, or the face normal when those
// cancel out. Every fragment carries the mean vertex color.
func (r *Rasterizer) Triangle(v1, v2, v3 Vertex, light math3d.Vec3) iter.Seq[Fragment] {
	intensity := flatIntensity(v1, v2, v3, light)

	if r.Mode == RasterWireframe {
		return func(yield func(Fragment) bool) {
			for _, e := range [3][2]Vertex{{v1, v2}, {v2, v3}, {v3, v1}} {
				for f := range line(e[0], e[1], intensity) {
					if !yield(f) {
						return
					}
				}
			}
		}
	}
	return r.fill(v1, v2, v3, intensity)
}

// fill scan-converts the triangle with edge functions evaluated at pixel
// centers over its screen-clamped bounding box. Pixels on an edge belong to
// every triangle sharing it.
func (r *Rasterizer) fill(v1, v2, v3 Vertex, intensity float64) iter.Seq[Fragment] {
	return func(yield func(Fragment) bool) {
		s0, s1, s2 := v1.ScreenPosition, v2.ScreenPosition, v3.ScreenPosition
		if !inGuardBand(s0) || !inGuardBand(s1) || !inGuardBand(s2) {
			return
		}

		minX := max(0, int(math.Floor(min3(s0.X, s1.X, s2.X))))
		maxX := min(r.Width-1, int(math.Ceil(max3(s0.X, s1.X, s2.X))))
		minY := max(0, int(math.Floor(min3(s0.Y, s1.Y, s2.Y))))
		maxY := min(r.Height-1, int(math.Ceil(max3(s0.Y, s1.Y, s2.Y))))
		if minX > maxX || minY > maxY {
			return
		}

		// Edge 0: v2 -> v3, Edge 1: v3 -> v1, Edge 2: v1 -> v2
		a0, b0, c0 := edgeCoeffs(s1.X, s1.Y, s2.X, s2.Y)
		a1, b1, c1 := edgeCoeffs(s2.X, s2.Y, s0.X, s0.Y)
		a2, b2, c2 := edgeCoeffs(s0.X, s0.Y, s1.X, s1.Y)

		area2 := edgeFunc(a2, b2, c2, s2.X, s2.Y)
		if area2 == 0 || math.IsNaN(area2) {
			return
		}
		// Flip clockwise triangles so inside is always non-negative.
		if area2 < 0 {
			a0, b0, c0 = -a0, -b0, -c0
			a1, b1, c1 = -a1, -b1, -c1
			a2, b2, c2 = -a2, -b2, -c2
			area2 = -area2
		}
		invArea := 1.0 / area2

		color := meanColor(v1.Color, v2.Color, v3.Color)

		px := float64(minX) + 0.5
		py := float64(minY) + 0.5
		w0Row := edgeFunc(a0, b0, c0, px, py)
		w1Row := edgeFunc(a1, b1, c1, px, py)
		w2Row := edgeFunc(a2, b2, c2, px, py)

		for y := minY; y <= maxY; y++ {
			w0, w1, w2 := w0Row, w1Row, w2Row
			for x := minX; x <= maxX; x++ {
				if w0 >= 0 && w1 >= 0 && w2 >= 0 {
					bc0 := w0 * invArea
					bc1 := w1 * invArea
					bc2 := w2 * invArea

					frag := Fragment{
						Position:  math3d.V2(float64(x), float64(y)),
						Color:     color,
						Depth:     bc0*s0.Z + bc1*s1.Z + bc2*s2.Z,
						Intensity: intensity,
						ModelPosition: v1.Position.Scale(bc0).
							Add(v2.Position.Scale(bc1)).
							Add(v3.Position.Scale(bc2)),
					}
					if !yield(frag) {
						return
					}
				}
				w0 += a0
				w1 += a1
				w2 += a2
			}
			w0Row += b0
			w1Row += b1
			w2Row += b2
		}
	}
}

func flatIntensity(v1, v2, v3 Vertex, light math3d.Vec3) float64 {
	n, ok := v1.TransformedNormal.Add(v2.TransformedNormal).Add(v3.TransformedNormal).TryNormalize()
	if !ok {
		e1 := v2.Position.Sub(v1.Position)
		e2 := v3.Position.Sub(v1.Position)
		if n, ok = e1.Cross(e2).TryNormalize(); !ok {
			return 0
		}
	}
	return clamp01(n.Dot(light))
}

func meanColor(a, b, c Color) Color {
	return Color{
		R: uint8((int(a.R) + int(b.R) + int(c.R)) / 3),
		G: uint8((int(a.G) + int(b.G) + int(c.G)) / 3),
		B: uint8((int(a.B) + int(b.B) + int(c.B)) / 3),
	}
}

// edgeCoeffs returns A, B, C for the edge function A*x + B*y + C, positive
// to the left of the directed edge (x0,y0) -> (x1,y1).
func edgeCoeffs(x0, y0, x1, y1 float64) (a, b, c float64) {
	return y0 - y1, x1 - x0, x0*y1 - x1*y0
}

func edgeFunc(a, b, c, x, y float64) float64 {
	return a*x + b*y + c
}

func inGuardBand(p math3d.Vec3) bool {
	return p.IsFinite() &&
		math.Abs(p.X) <= guardBand && math.Abs(p.Y) <= guardBand
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
