// Package visualizer turns analysis output into geometry: a frequency-driven
// 3-D trail for the cymatic mode and a 2-D polyline for the waveform mode.
package visualizer

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects which geometry the scheduler produces each frame.
type Mode int

const (
	Cymatic Mode = iota
	Waveform
)

var modeNames = [...]string{
	Cymatic:  "cymatic",
	Waveform: "waveform",
}

// ErrUnknownMode is returned by ParseMode.
var ErrUnknownMode = errors.New("unknown mode")

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// Next cycles through the modes in declaration order.
func (m Mode) Next() Mode {
	return (m + 1) % Mode(len(modeNames))
}

// Modes lists every mode.
func Modes() []Mode {
	return []Mode{Cymatic, Waveform}
}

// ParseMode accepts a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return Cymatic, fmt.Errorf("%q: %w", s, ErrUnknownMode)
}
