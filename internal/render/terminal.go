package render

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/olivier-w/cymatic/internal/visualizer"
)

// Terminal draws frames into a braille canvas and keeps the last rendered
// view for the UI to display.
type Terminal struct {
	canvas *Canvas
	camera *Camera
	output string
}

func NewTerminal(cols, rows int, cam *Camera) *Terminal {
	if cam == nil {
		cam = NewCamera(30)
	}
	return &Terminal{canvas: NewCanvas(cols, rows), camera: cam}
}

// Resize sets the drawable area in terminal cells.
func (t *Terminal) Resize(cols, rows int) {
	t.canvas.Resize(cols, rows)
}

// Viewport returns the drawable size in dots.
func (t *Terminal) Viewport() (w, h float64) {
	dw, dh := t.canvas.Dots()
	return float64(dw), float64(dh)
}

func (t *Terminal) Camera() *Camera { return t.camera }

// Present clears the canvas, draws the frame geometry and renders the result
// with the frame style.
func (t *Terminal) Present(f Frame) {
	t.canvas.Clear()
	w, h := t.Viewport()

	switch f.Mode {
	case visualizer.Waveform:
		t.drawPolyline(f.Polyline, w, h)
	case visualizer.Cymatic:
		t.camera.Step()
		t.drawCurve(f.Curve, w, h)
	}

	style := f.Style.lipgloss()
	rows := t.canvas.Rows()
	for i, r := range rows {
		rows[i] = style.Render(r)
	}
	t.output = strings.Join(rows, "\n")
}

func (t *Terminal) View() string {
	return t.output
}

func (t *Terminal) drawPolyline(pts []mgl64.Vec2, w, h float64) {
	offset := mgl64.Vec2{w / 2, h / 2}
	for i := 1; i < len(pts); i++ {
		t.segment(pts[i-1].Add(offset), pts[i].Add(offset), w, h)
	}
}

func (t *Terminal) drawCurve(pts []mgl64.Vec3, w, h float64) {
	if len(pts) < 2 {
		return
	}
	mvp := t.camera.Matrix(w, h)
	prev, prevOK := Project(mvp, pts[0], w, h)
	for _, p := range pts[1:] {
		cur, ok := Project(mvp, p, w, h)
		if ok && prevOK {
			t.segment(prev, cur, w, h)
		}
		prev, prevOK = cur, ok
	}
}

// segment draws a line between two viewport points. Segments reaching far
// outside the canvas are dropped instead of being walked dot by dot.
func (t *Terminal) segment(a, b mgl64.Vec2, w, h float64) {
	if !nearViewport(a, w, h) || !nearViewport(b, w, h) {
		return
	}
	t.canvas.Line(int(a.X()), int(a.Y()), int(b.X()), int(b.Y()))
}

func nearViewport(p mgl64.Vec2, w, h float64) bool {
	return p.X() >= -w && p.X() <= 2*w && p.Y() >= -h && p.Y() <= 2*h
}
