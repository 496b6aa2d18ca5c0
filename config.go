package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/integrii/flaggy"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/olivier-w/cymatic/internal/analysis"
	"github.com/olivier-w/cymatic/internal/logging"
	"github.com/olivier-w/cymatic/internal/render"
	"github.com/olivier-w/cymatic/internal/scheduler"
	"github.com/olivier-w/cymatic/internal/visualizer"
)

const (
	minFPS = 1
	maxFPS = 120
)

// Config holds everything the command line can set.
type Config struct {
	// File or playlist to play. Empty opens the browser.
	Path string

	Mode          string
	FFTSize       int
	FPS           int
	BackwardSpeed float64
	CurveDetail   int
	KeepTrail     bool

	Light      bool
	Background string
	Foreground string

	LogFile  string
	LogLevel string
}

func newZeroConfig() Config {
	return Config{
		Mode:          visualizer.Cymatic.String(),
		FFTSize:       analysis.DefaultFFTSize,
		FPS:           60,
		BackwardSpeed: visualizer.DefaultBackwardSpeed,
		CurveDetail:   visualizer.DefaultCurveDetail,
		LogLevel:      logging.DefaultConfig().Level,
	}
}

// parseFlags fills cfg from args, which exclude the program name.
func parseFlags(cfg *Config, args []string) error {
	parser := flaggy.NewParser(appName)
	parser.Description = appDesc
	parser.Version = version

	parser.AddPositionalValue(&cfg.Path, "path", 1, false, "audio file or playlist")
	parser.String(&cfg.Mode, "m", "mode", "initial mode (cymatic, waveform)")
	parser.Int(&cfg.FFTSize, "n", "fft-size", "analysis window size, a power of two")
	parser.Int(&cfg.FPS, "f", "fps", "frames per second")
	parser.Float64(&cfg.BackwardSpeed, "s", "backward-speed", "depth lost by each trail point per frame")
	parser.Int(&cfg.CurveDetail, "d", "detail", "curve samples per trail segment")
	parser.Bool(&cfg.KeepTrail, "", "keep-trail", "keep the old trail when returning to cymatic mode")
	parser.Bool(&cfg.Light, "", "light", "start in light mode")
	parser.String(&cfg.Background, "", "bg", "background colour (#rrggbb)")
	parser.String(&cfg.Foreground, "", "fg", "stroke colour (#rrggbb)")
	parser.String(&cfg.LogFile, "", "log-file", "write JSON logs to this file")
	parser.String(&cfg.LogLevel, "", "log-level", "debug, info, warn or error")

	return parser.ParseArgs(args)
}

func (cfg *Config) validate() error {
	if _, err := visualizer.ParseMode(cfg.Mode); err != nil {
		return err
	}
	if cfg.FPS < minFPS || cfg.FPS > maxFPS {
		return fmt.Errorf("fps %d out of range [%d, %d]", cfg.FPS, minFPS, maxFPS)
	}
	if cfg.CurveDetail < 1 {
		return errors.New("detail must be at least 1")
	}
	for _, c := range []string{cfg.Background, cfg.Foreground} {
		if c == "" {
			continue
		}
		if _, err := colorful.Hex(c); err != nil {
			return fmt.Errorf("invalid colour %q: %w", c, err)
		}
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	_, err := cfg.schedulerConfig()
	return err
}

// style builds the dark-mode colour pair, applying any --bg/--fg override.
// Light mode is its inverse.
func (cfg *Config) style() render.Style {
	st := render.DarkStyle()
	if cfg.Background != "" {
		st.Background = lipgloss.Color(strings.ToLower(cfg.Background))
	}
	if cfg.Foreground != "" {
		st.Stroke = lipgloss.Color(strings.ToLower(cfg.Foreground))
	}
	if cfg.Light {
		st = st.Inverse()
	}
	return st
}

func (cfg *Config) schedulerConfig() (scheduler.Config, error) {
	mode, err := visualizer.ParseMode(cfg.Mode)
	if err != nil {
		return scheduler.Config{}, err
	}
	sc := scheduler.DefaultConfig()
	sc.Analysis.FFTSize = cfg.FFTSize
	sc.BackwardSpeed = cfg.BackwardSpeed
	sc.CurveDetail = cfg.CurveDetail
	sc.KeepTrailOnSwitch = cfg.KeepTrail
	sc.Mode = mode
	sc.Dark = !cfg.Light
	sc.Style = cfg.style()

	if err := sc.Analysis.Validate(); err != nil {
		return scheduler.Config{}, err
	}
	if sc.BackwardSpeed < 0 {
		return scheduler.Config{}, fmt.Errorf("backward speed %.2f is negative: %w", sc.BackwardSpeed, analysis.ErrInvalidConfig)
	}
	return sc, nil
}

func (cfg *Config) loggingConfig() logging.Config {
	return logging.Config{Path: cfg.LogFile, Level: cfg.LogLevel}
}
