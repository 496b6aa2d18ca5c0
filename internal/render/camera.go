package render

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	fieldOfView = math.Pi / 3
	// virtualHeight is the world-space height visible at z = 0 with no zoom.
	virtualHeight = 500.0

	minZoom  = 0.25
	maxZoom  = 4.0
	maxPitch = math.Pi/2 - 0.05
)

// Camera orbits the origin. Input moves the targets; Step eases the current
// angles and zoom toward them with critically damped springs.
type Camera struct {
	spring harmonica.Spring

	targetYaw, targetPitch, targetZoom float64

	yaw, yawVel     float64
	pitch, pitchVel float64
	zoom, zoomVel   float64
}

// NewCamera creates a camera whose springs are tuned for fps updates per
// second.
func NewCamera(fps int) *Camera {
	if fps < 1 {
		fps = 1
	}
	c := &Camera{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)}
	c.Reset()
	c.yaw, c.pitch, c.zoom = c.targetYaw, c.targetPitch, c.targetZoom
	return c
}

// Orbit rotates the target by the given radians. Pitch is clamped short of
// the poles.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.targetYaw += dYaw
	c.targetPitch = mgl64.Clamp(c.targetPitch+dPitch, -maxPitch, maxPitch)
}

// Zoom scales the target zoom by factor. Values above 1 move closer.
func (c *Camera) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	c.targetZoom = mgl64.Clamp(c.targetZoom*factor, minZoom, maxZoom)
}

// Reset returns the targets to the default front view.
func (c *Camera) Reset() {
	c.targetYaw, c.targetPitch, c.targetZoom = 0, 0, 1
}

// Step advances the springs by one frame.
func (c *Camera) Step() {
	c.yaw, c.yawVel = c.spring.Update(c.yaw, c.yawVel, c.targetYaw)
	c.pitch, c.pitchVel = c.spring.Update(c.pitch, c.pitchVel, c.targetPitch)
	c.zoom, c.zoomVel = c.spring.Update(c.zoom, c.zoomVel, c.targetZoom)
}

// Angles returns the current yaw, pitch and zoom.
func (c *Camera) Angles() (yaw, pitch, zoom float64) {
	return c.yaw, c.pitch, c.zoom
}

// Matrix returns the model-view-projection matrix for a w×h viewport.
func (c *Camera) Matrix(w, h float64) mgl64.Mat4 {
	aspect := 1.0
	if h > 0 {
		aspect = w / h
	}
	dist := (virtualHeight / 2) / math.Tan(fieldOfView/2)
	zoom := math.Max(c.zoom, minZoom)
	eye := mgl64.Vec3{0, 0, dist / zoom}

	proj := mgl64.Perspective(fieldOfView, aspect, dist/100, dist*10)
	view := mgl64.LookAtV(eye, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
	model := mgl64.HomogRotate3DX(c.pitch).Mul4(mgl64.HomogRotate3DY(c.yaw))
	return proj.Mul4(view).Mul4(model)
}

// Project maps a world point to viewport coordinates with the origin at the
// top-left. World +y points down the screen. The second result is false for
// points behind the eye.
func Project(mvp mgl64.Mat4, p mgl64.Vec3, w, h float64) (mgl64.Vec2, bool) {
	clip := mvp.Mul4x1(p.Vec4(1))
	if clip.W() <= 1e-9 {
		return mgl64.Vec2{}, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	return mgl64.Vec2{
		(ndc.X() + 1) / 2 * w,
		(ndc.Y() + 1) / 2 * h,
	}, true
}
