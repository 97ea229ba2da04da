package render

import (
	"fmt"
	"math"

	"github.com/taigrr/diorama/pkg/math3d"
)

// maxPitch keeps the orbit away from the poles where yaw is undefined.
const maxPitch = math.Pi/2 - 0.01

// birdViewTilt offsets the default bird view so it sits inside the pitch band.
const birdViewTilt = 0.05

// Camera is an orbit camera: an eye circling a center point at a clamped
// radius. It can switch to an alternate bird's-eye viewpoint and back.
type Camera struct {
	Eye    math3d.Vec3 // Camera position
	Center math3d.Vec3 // Look-at target
	Up     math3d.Vec3

	MinRadius float64
	MaxRadius float64

	radius  float64
	changed bool

	birdView   bool
	birdEye    math3d.Vec3
	birdCenter math3d.Vec3

	// Single save slot for the view replaced by the bird view.
	cachedEye    math3d.Vec3
	cachedCenter math3d.Vec3
	cachedRadius float64
}

// NewCamera creates an orbit camera. The eye is moved along the eye-center
// direction so that its distance lies within [minRadius, maxRadius], and
// tilted off the poles if its pitch is outside the orbit band.
// The bird view defaults to a point above center at maxRadius.
func NewCamera(eye, center, up math3d.Vec3, minRadius, maxRadius float64) (*Camera, error) {
	if !(minRadius > 0) || !(minRadius <= maxRadius) || math.IsInf(maxRadius, 0) {
		return nil, fmt.Errorf("new camera: radius [%v, %v]: %w", minRadius, maxRadius, ErrInvalidRadius)
	}
	if _, ok := eye.Sub(center).TryNormalize(); !ok {
		return nil, fmt.Errorf("new camera: %w", ErrDegenerateCamera)
	}

	c := &Camera{
		Center:    center,
		Up:        up,
		MinRadius: minRadius,
		MaxRadius: maxRadius,
		changed:   true,
	}
	c.place(eye, center)

	c.birdCenter = center
	c.birdEye = center.Add(math3d.V3(0, 1, birdViewTilt).Normalize().Scale(maxRadius))
	return c, nil
}

// SetBirdView replaces the alternate viewpoint used by ToggleBirdView.
// If the bird view is active the camera moves there immediately.
func (c *Camera) SetBirdView(eye, center math3d.Vec3) error {
	if _, ok := eye.Sub(center).TryNormalize(); !ok {
		return fmt.Errorf("set bird view: %w", ErrDegenerateCamera)
	}
	c.birdEye = eye
	c.birdCenter = center
	if c.birdView {
		c.place(eye, center)
		c.changed = true
	}
	return nil
}

// Radius returns the current orbit radius.
func (c *Camera) Radius() float64 {
	return c.radius
}

// IsBirdView reports whether the bird's-eye viewpoint is active.
func (c *Camera) IsBirdView() bool {
	return c.birdView
}

// Direction returns the unit vector from Center towards Eye.
func (c *Camera) Direction() (math3d.Vec3, error) {
	dir, ok := c.Eye.Sub(c.Center).TryNormalize()
	if !ok {
		return math3d.Vec3{}, ErrDegenerateCamera
	}
	return dir, nil
}

// Orbit rotates the eye around the center by the given yaw and pitch deltas
// (radians). The radius is preserved; pitch stops just short of the poles.
func (c *Camera) Orbit(deltaYaw, deltaPitch float64) {
	r := c.Eye.Sub(c.Center)

	yaw := math.Atan2(r.Z, r.X)
	pitch := math.Atan2(r.Y, math.Hypot(r.X, r.Z))

	yaw = math.Mod(yaw+deltaYaw, 2*math.Pi)
	if yaw < 0 {
		yaw += 2 * math.Pi
	}
	pitch = max(-maxPitch, min(maxPitch, pitch+deltaPitch))

	c.Eye = c.Center.Add(sphericalDirection(yaw, pitch).Scale(c.radius))
	c.changed = true
}

// Zoom moves the eye towards the center by delta, clamped to the radius
// bounds. It fails without side effects when eye and center coincide.
func (c *Camera) Zoom(delta float64) error {
	dir, err := c.Direction()
	if err != nil {
		return fmt.Errorf("zoom: %w", err)
	}
	c.radius = c.clampRadius(c.radius - delta)
	c.Eye = c.Center.Add(dir.Scale(c.radius))
	c.changed = true
	return nil
}

// ChangeCenter moves the look-at target, carrying the eye along so the
// view direction and radius are unchanged.
func (c *Camera) ChangeCenter(center math3d.Vec3) error {
	dir, err := c.Direction()
	if err != nil {
		return fmt.Errorf("change center: %w", err)
	}
	c.Center = center
	c.Eye = center.Add(dir.Scale(c.radius))
	c.changed = true
	return nil
}

// ToggleBirdView switches between the live view and the bird's-eye view.
// Switching back restores the previous eye and center exactly.
func (c *Camera) ToggleBirdView() {
	if c.birdView {
		c.Eye, c.Center, c.radius = c.cachedEye, c.cachedCenter, c.cachedRadius
		c.birdView = false
	} else {
		c.cachedEye, c.cachedCenter, c.cachedRadius = c.Eye, c.Center, c.radius
		c.place(c.birdEye, c.birdCenter)
		c.birdView = true
	}
	c.changed = true
}

// CheckIfChanged reports whether the camera moved since the last call and
// clears the flag.
func (c *Camera) CheckIfChanged() bool {
	if c.changed {
		c.changed = false
		return true
	}
	return false
}

// ViewMatrix returns the look-at matrix for the current eye, center and up.
func (c *Camera) ViewMatrix() (math3d.Mat4, error) {
	return CreateViewMatrix(c.Eye, c.Center, c.Up)
}

// place puts the eye on the orbit towards eye from center: pitch clamped to
// the band, distance clamped to the radius bounds. eye must differ from center.
func (c *Camera) place(eye, center math3d.Vec3) {
	c.Center = center
	c.radius = c.clampRadius(eye.Distance(center))
	c.Eye = center.Add(orbitDirection(eye.Sub(center).Normalize()).Scale(c.radius))
}

// orbitDirection returns the unit vector dir, moved to the nearest pitch
// inside ±maxPitch when it points too close to a pole.
func orbitDirection(dir math3d.Vec3) math3d.Vec3 {
	pitch := math.Atan2(dir.Y, math.Hypot(dir.X, dir.Z))
	if math.Abs(pitch) <= maxPitch {
		return dir
	}
	return sphericalDirection(math.Atan2(dir.Z, dir.X), max(-maxPitch, min(maxPitch, pitch)))
}

func sphericalDirection(yaw, pitch float64) math3d.Vec3 {
	cp := math.Cos(pitch)
	return math3d.V3(math.Cos(yaw)*cp, math.Sin(pitch), math.Sin(yaw)*cp)
}

func (c *Camera) clampRadius(r float64) float64 {
	if math.IsNaN(r) {
		return c.MinRadius
	}
	return max(c.MinRadius, min(c.MaxRadius, r))
}
