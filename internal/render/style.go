package render

import "github.com/charmbracelet/lipgloss"

// Style is the background and stroke colour pair used to paint a frame.
type Style struct {
	Background lipgloss.Color
	Stroke     lipgloss.Color
}

const (
	charcoal = lipgloss.Color("#202123")
	paper    = lipgloss.Color("#F7F7F8")
)

func DarkStyle() Style { return Style{Background: charcoal, Stroke: paper} }

func LightStyle() Style { return Style{Background: paper, Stroke: charcoal} }

// Inverse swaps background and stroke.
func (s Style) Inverse() Style {
	return Style{Background: s.Stroke, Stroke: s.Background}
}

func (s Style) lipgloss() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.Stroke).
		Background(s.Background)
}
