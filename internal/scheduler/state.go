package scheduler

import (
	"github.com/olivier-w/cymatic/internal/render"
	"github.com/olivier-w/cymatic/internal/visualizer"
)

// ViewState is the per-session render state. It is owned by the Scheduler
// and changed only through its setters.
type ViewState struct {
	Mode        visualizer.Mode
	Style       render.Style
	Dark        bool
	FrequencyHz float64
	Frame       uint64
	Signal      bool // false while the analyzer reports no signal
}
