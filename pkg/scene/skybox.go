package scene

import (
	"math"
	"math/rand/v2"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/render"
)

// Skybox is a shell of single-pixel stars at a fixed distance from the
// origin, drawn behind everything else.
type Skybox struct {
	Stars      []math3d.Vec3
	StarColor  render.Color
	SpaceColor render.Color
}

// NewSkybox scatters count stars at distance using a generator seeded with
// seed, so equal seeds give equal skies.
func NewSkybox(count int, distance float64, seed int64, star, space render.Color) *Skybox {
	rng := rand.New(rand.NewPCG(uint64(seed), 0x5eed))
	stars := make([]math3d.Vec3, max(count, 0))
	for i := range stars {
		theta := rng.Float64() * 2 * math.Pi
		phi := rng.Float64() * math.Pi
		stars[i] = math3d.V3(
			distance*math.Sin(phi)*math.Cos(theta),
			distance*math.Sin(phi)*math.Sin(theta),
			distance*math.Cos(phi),
		)
	}
	return &Skybox{Stars: stars, StarColor: star, SpaceColor: space}
}

// Draw plots the stars. Stars follow the camera orientation but not its
// position, so u.Model is ignored and the view translation dropped.
func (s *Skybox) Draw(r *render.Renderer, u *render.Uniforms) {
	view := u.View
	view[12], view[13], view[14] = 0, 0, 0
	sky := render.NewUniforms(math3d.Identity(), view, u.Projection, u.Viewport, u.Time)
	r.DrawStars(sky, s.Stars, s.StarColor)
}
