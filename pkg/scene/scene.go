// Package scene holds the objects of a diorama and drives one frame at a
// time: it applies commands to the camera and objects, advances orbits and
// issues the draw calls.
package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/models"
	"github.com/taigrr/diorama/pkg/render"
	"github.com/taigrr/diorama/pkg/shader"
)

// ErrQuit is returned by Apply for a quit command.
var ErrQuit = errors.New("quit")

// Scene is a camera, the meshes and objects it looks at, and the renderer
// that draws them.
type Scene struct {
	Config  Config
	Camera  *render.Camera
	Arena   *MeshArena
	Objects []*Object
	Skybox  *Skybox
	Shaders *shader.Context

	renderer *render.Renderer
	momentum *Momentum

	projection math3d.Mat4
	viewport   math3d.Mat4

	// View matrix and light, rebuilt only when the camera reports a change.
	view      math3d.Mat4
	light     math3d.Vec3
	viewValid bool

	subject int // Index of the object moved by subject commands, -1 for none
	focus   int // Index of the followed object, -1 for none
	ticks   float64
}

// New validates cfg and builds an empty scene rendering into a new
// framebuffer of cfg.Width x cfg.Height.
func New(cfg Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new scene: %w", err)
	}
	cam, err := render.NewCamera(cfg.Eye, cfg.Center, math3d.Up(), cfg.MinRadius, cfg.MaxRadius)
	if err != nil {
		return nil, fmt.Errorf("new scene: %w", err)
	}

	s := &Scene{
		Config:   cfg,
		Camera:   cam,
		Arena:    NewMeshArena(),
		Skybox:   NewSkybox(cfg.Stars, cfg.StarDistance, cfg.Seed, cfg.StarColor, cfg.Background),
		Shaders:  shader.NewContext(cfg.Seed),
		momentum: NewMomentum(cfg.FPS),
		subject:  -1,
		focus:    -1,
	}
	if err := s.Resize(cfg.Width, cfg.Height); err != nil {
		return nil, fmt.Errorf("new scene: %w", err)
	}
	if err := s.updateView(); err != nil {
		return nil, fmt.Errorf("new scene: %w", err)
	}
	return s, nil
}

// Resize replaces the framebuffer and projection for a new output size.
func (s *Scene) Resize(width, height int) error {
	proj, err := render.CreatePerspectiveMatrix(float64(width), float64(height), s.Config.Near, s.Config.Far)
	if err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	s.Config.Width, s.Config.Height = width, height
	s.projection = proj
	s.viewport = render.CreateViewportMatrix(float64(width), float64(height))

	r := render.NewRenderer(render.NewFramebuffer(width, height, s.Config.Background))
	r.Culling = s.Config.Culling
	if s.Config.Wireframe {
		r.Mode = render.RasterWireframe
	}
	s.renderer = r
	s.viewValid = false
	return nil
}

// Framebuffer returns the current render target.
func (s *Scene) Framebuffer() *render.Framebuffer {
	return s.renderer.Framebuffer()
}

// Stats returns the draw statistics of the last frame.
func (s *Scene) Stats() render.DrawStats {
	return s.renderer.Stats
}

// Ticks returns the number of ticks rendered so far; it is the Time uniform.
func (s *Scene) Ticks() float64 {
	return s.ticks
}

// Add appends o and returns its index.
func (s *Scene) Add(o *Object) int {
	s.Objects = append(s.Objects, o)
	return len(s.Objects) - 1
}

// SetSubject selects the object moved by subject commands; -1 clears it.
func (s *Scene) SetSubject(i int) error {
	if i < -1 || i >= len(s.Objects) {
		return fmt.Errorf("set subject %d: index out of range", i)
	}
	s.subject = i
	return nil
}

// Subject returns the object moved by subject commands, or nil.
func (s *Scene) Subject() *Object {
	return s.object(s.subject)
}

// Focused returns the object the camera follows, or nil.
func (s *Scene) Focused() *Object {
	return s.object(s.focus)
}

func (s *Scene) object(i int) *Object {
	if i < 0 || i >= len(s.Objects) {
		return nil
	}
	return s.Objects[i]
}

// ReplaceMesh swaps the mesh stored under key, typically after the file it
// was loaded from changed.
func (s *Scene) ReplaceMesh(key string, m *models.Mesh) error {
	if err := s.Arena.Replace(key, m); err != nil {
		return err
	}
	render.Logger().Info("mesh replaced", "key", key, "triangles", m.TriangleCount())
	return nil
}

// Apply runs one command. Orbit and zoom go through momentum when smooth is
// set; otherwise they move the camera at once. A quit command returns
// ErrQuit.
func (s *Scene) Apply(cmd Command, smooth bool) error {
	if smooth && s.momentum.Absorb(cmd) {
		return nil
	}

	switch cmd.Kind {
	case CommandOrbit:
		s.Camera.Orbit(cmd.Yaw, cmd.Pitch)
	case CommandZoom:
		if err := s.Camera.Zoom(cmd.Amount); err != nil {
			return err
		}
	case CommandChangeCenter:
		s.focus = -1
		if err := s.Camera.ChangeCenter(cmd.Vector); err != nil {
			return err
		}
	case CommandToggleBirdView:
		s.Camera.ToggleBirdView()
	case CommandTranslateSubject:
		if o := s.Subject(); o != nil {
			o.Translate(cmd.Vector)
		}
	case CommandRotateSubject:
		if o := s.Subject(); o != nil {
			o.Rotate(cmd.Vector)
		}
	case CommandCycleFocus:
		s.cycleFocus()
	case CommandToggleWireframe:
		if s.renderer.Mode == render.RasterWireframe {
			s.renderer.Mode = render.RasterFilled
		} else {
			s.renderer.Mode = render.RasterWireframe
		}
		s.Config.Wireframe = s.renderer.Mode == render.RasterWireframe
	case CommandQuit:
		return ErrQuit
	default:
		return fmt.Errorf("apply %v: unknown command", cmd)
	}
	render.Logger().Debug("command applied", "cmd", cmd)
	return nil
}

// cycleFocus follows the next object; after the last one the camera goes
// back to its configured center.
func (s *Scene) cycleFocus() {
	s.focus++
	if s.focus >= len(s.Objects) {
		s.focus = -1
		if err := s.Camera.ChangeCenter(s.Config.Center); err != nil {
			render.Logger().Warn("reset focus", "err", err)
		}
		return
	}
	render.Logger().Debug("focus", "object", s.Objects[s.focus].Name)
}

// Update advances the scene by dt ticks: momentum, objects, then the
// camera follows the focused object.
func (s *Scene) Update(dt float64) error {
	for _, cmd := range s.momentum.Commands() {
		if err := s.Apply(cmd, false); err != nil {
			return err
		}
	}
	for _, o := range s.Objects {
		o.Update(dt)
	}
	s.ticks += dt

	if o := s.Focused(); o != nil && o.Position != s.Camera.Center {
		if err := s.Camera.ChangeCenter(o.Position); err != nil {
			return fmt.Errorf("follow %s: %w", o.Name, err)
		}
	}
	return nil
}

// View returns the view matrix used by the last frame.
func (s *Scene) View() math3d.Mat4 {
	return s.view
}

// updateView rebuilds the view matrix and light direction when the camera
// moved or the cache was invalidated.
func (s *Scene) updateView() error {
	changed := s.Camera.CheckIfChanged()
	if !changed && s.viewValid {
		return nil
	}
	view, err := s.Camera.ViewMatrix()
	if err != nil {
		s.viewValid = false
		return err
	}
	light, err := s.Camera.Direction()
	if err != nil {
		s.viewValid = false
		return err
	}
	s.view, s.light, s.viewValid = view, light, true
	render.Logger().Debug("view rebuilt", "eye", s.Camera.Eye, "center", s.Camera.Center, "radius", s.Camera.Radius())
	return nil
}

// Render draws one frame: stars, then orbit rings, then every visible
// object. The light follows the camera.
func (s *Scene) Render() error {
	if err := s.updateView(); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	r := s.renderer
	r.ResetStats()
	r.Light = s.light
	r.Framebuffer().Clear()

	world := render.NewUniforms(math3d.Identity(), s.view, s.projection, s.viewport, s.ticks)
	if s.Skybox != nil {
		s.Skybox.Draw(r, world)
	}
	for _, o := range s.Objects {
		s.drawObject(o, world)
	}

	st := r.Stats
	render.Logger().Debug("frame",
		"tick", s.ticks,
		"objects", st.ObjectsTested, "objects_culled", st.ObjectsCulled,
		"triangles", st.Triangles, "culled", st.Culled,
		"fragments", st.Fragments, "written", st.Written,
	)
	return nil
}

func (s *Scene) drawObject(o *Object, world *render.Uniforms) {
	if o.Kind == KindOrbiting && o.Orbit != nil {
		s.renderer.DrawPath(world, o.Orbit.Path(s.Config.OrbitSegments), s.Config.OrbitColor)
	}

	mesh := s.Arena.Get(o.Mesh)
	if mesh == nil {
		return
	}
	u := render.NewUniforms(o.ModelMatrix(), world.View, world.Projection, world.Viewport, world.Time)
	if !s.renderer.Visible(u, mesh.Bounds) {
		return
	}
	s.renderer.Draw(u, mesh.Vertices, s.Shaders.Shader(o.Shader))
}

// Frame applies cmds, advances one tick and renders. It returns ErrQuit
// when a quit command was seen; the frame is not rendered in that case.
func (s *Scene) Frame(cmds []Command, smooth bool) error {
	for _, cmd := range cmds {
		if err := s.Apply(cmd, smooth); err != nil {
			return err
		}
	}
	if err := s.Update(1); err != nil {
		return err
	}
	return s.Render()
}
