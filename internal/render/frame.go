package render

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/olivier-w/cymatic/internal/visualizer"
)

// Frame is everything a surface needs to draw one tick. Polyline is used in
// waveform mode with the origin at the viewport centre; Curve holds world
// points in cymatic mode. Either may be empty, in which case only the
// background is painted.
type Frame struct {
	Style    Style
	Mode     visualizer.Mode
	Polyline []mgl64.Vec2
	Curve    []mgl64.Vec3
}
