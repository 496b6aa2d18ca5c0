package ui

import tea "github.com/charmbracelet/bubbletea"

const (
	orbitStep = 0.15 // radians per arrow key press
	dragYaw   = 0.05 // radians per cell dragged horizontally
	dragPitch = 0.1  // radians per cell dragged vertically
	zoomStep  = 1.1
	volStep   = 0.05
)

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

func helpText(hasQueue bool) string {
	s := "space pause  tab mode  c/w cymatic/waveform  d dark  ←↑↓→ orbit  +/- zoom  0 reset  [/] volume"
	if hasQueue {
		s += "  n/p track"
	}
	s += "  q quit"
	return s
}
