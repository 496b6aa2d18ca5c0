package visualizer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	TrailCapacity        = 50
	DefaultBackwardSpeed = 1.0
	DefaultCurveDetail   = 20

	minAmplitude = 50.0
	maxAmplitude = 200.0
)

type CymaticConfig struct {
	BackwardSpeed float64 // z units each existing point recedes per step
	CurveDetail   int     // spline samples per span
}

func DefaultCymaticConfig() CymaticConfig {
	return CymaticConfig{
		BackwardSpeed: DefaultBackwardSpeed,
		CurveDetail:   DefaultCurveDetail,
	}
}

// Cymatic advances a frequency-driven oscillator and keeps the trail of pen
// positions it has produced.
type Cymatic struct {
	cfg   CymaticConfig
	trail *Trail

	pts   []mgl64.Vec3
	curve []mgl64.Vec3
}

func NewCymatic(cfg CymaticConfig) *Cymatic {
	if cfg.CurveDetail < 1 {
		cfg.CurveDetail = DefaultCurveDetail
	}
	return &Cymatic{
		cfg:   cfg,
		trail: NewTrail(TrailCapacity),
		pts:   make([]mgl64.Vec3, 0, TrailCapacity),
		curve: make([]mgl64.Vec3, 0, (TrailCapacity-1)*cfg.CurveDetail+1),
	}
}

// PenPosition is the oscillator output at frame t for frequency f. With f == 0
// the angle stays at zero and the point sits at (125, 0, 0).
func PenPosition(t uint64, f float64) mgl64.Vec3 {
	angle := float64(t) * (f / 100)
	sin, cos := math.Sincos(angle)
	amp := mapRange(sin, -1, 1, minAmplitude, maxAmplitude)
	return mgl64.Vec3{amp * cos, amp * sin, 0}
}

// Step recedes the existing trail and pushes the new pen position.
func (c *Cymatic) Step(t uint64, f float64) mgl64.Vec3 {
	p := PenPosition(t, f)
	c.trail.Decay(-c.cfg.BackwardSpeed)
	c.trail.Push(p)
	return p
}

// Curve returns the smoothed trail, oldest point first. The slice is reused
// by the next call. It is nil while the trail holds fewer than two points.
func (c *Cymatic) Curve() []mgl64.Vec3 {
	if c.trail.Len() < 2 {
		return nil
	}
	c.pts = c.trail.Points(c.pts[:0])
	c.curve = CatmullRom(c.curve[:0], c.pts, c.cfg.CurveDetail)
	return c.curve
}

func (c *Cymatic) Reset() {
	c.trail.Reset()
}

func (c *Cymatic) Trail() *Trail {
	return c.trail
}
