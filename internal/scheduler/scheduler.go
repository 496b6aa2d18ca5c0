// Package scheduler drives one frame of the visualizer per tick: it samples
// the bound audio source, updates the view state and hands the resulting
// geometry to a render surface.
package scheduler

import (
	"fmt"
	"io"

	"github.com/olivier-w/cymatic/internal/analysis"
	"github.com/olivier-w/cymatic/internal/render"
	"github.com/olivier-w/cymatic/internal/visualizer"
	"go.uber.org/zap"
)

// Surface receives finished frames.
type Surface interface {
	// Viewport returns the current drawable size. It is read every tick.
	Viewport() (w, h float64)
	Present(f render.Frame)
}

// Source is an analysis source whose lifetime the scheduler manages.
type Source interface {
	analysis.Source
	io.Closer
}

type Config struct {
	Analysis      analysis.Config
	BackwardSpeed float64
	CurveDetail   int
	// KeepTrailOnSwitch resumes the previous cymatic trail when switching
	// back from waveform mode instead of starting a fresh one.
	KeepTrailOnSwitch bool
	Mode              visualizer.Mode
	Dark              bool
	Style             render.Style
}

func DefaultConfig() Config {
	return Config{
		Analysis:      analysis.DefaultConfig(),
		BackwardSpeed: visualizer.DefaultBackwardSpeed,
		CurveDetail:   visualizer.DefaultCurveDetail,
		Mode:          visualizer.Cymatic,
		Dark:          true,
		Style:         render.DarkStyle(),
	}
}

// Scheduler is not safe for concurrent use; the UI calls it from its update
// loop only.
type Scheduler struct {
	cfg    Config
	logger *zap.Logger

	src      Source
	analyzer *analysis.Analyzer

	cymatic  *visualizer.Cymatic
	waveform *visualizer.WaveformMapper

	state  ViewState
	closed bool
}

func New(cfg Config, logger *zap.Logger) (*Scheduler, error) {
	if err := cfg.Analysis.Validate(); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	if cfg.BackwardSpeed < 0 {
		return nil, fmt.Errorf("scheduler: backward speed %.2f is negative: %w", cfg.BackwardSpeed, analysis.ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cfg:    cfg,
		logger: logger,
		cymatic: visualizer.NewCymatic(visualizer.CymaticConfig{
			BackwardSpeed: cfg.BackwardSpeed,
			CurveDetail:   cfg.CurveDetail,
		}),
		waveform: visualizer.NewWaveformMapper(),
		state: ViewState{
			Mode:  cfg.Mode,
			Style: cfg.Style,
			Dark:  cfg.Dark,
		},
	}, nil
}

// Bind takes ownership of src and releases the previous source. If no
// analyzer can be built for src it is closed as well, and rendering carries
// on without a signal.
func (s *Scheduler) Bind(src Source) error {
	if s.closed {
		if src != nil {
			src.Close()
		}
		return ErrClosed
	}
	s.Unbind()

	a, err := analysis.New(s.cfg.Analysis, src)
	if err != nil {
		if src != nil {
			src.Close()
		}
		s.logger.Warn("bind source failed", zap.Error(err))
		return fmt.Errorf("bind source: %w", err)
	}
	s.src = src
	s.analyzer = a
	s.logger.Info("source bound",
		zap.Float64("sample_rate", a.SampleRateHz()),
		zap.Int("buffer_length", a.BufferLength()))
	return nil
}

// Unbind releases the current source, if any.
func (s *Scheduler) Unbind() {
	if s.src == nil {
		return
	}
	if err := s.src.Close(); err != nil {
		s.logger.Warn("close source", zap.Error(err))
	}
	s.src = nil
	s.analyzer = nil
	s.state.Signal = false
	s.logger.Debug("source released")
}

// Bound reports whether a source is currently bound.
func (s *Scheduler) Bound() bool { return s.src != nil }

// Tick renders one frame onto surface. It returns false once the scheduler
// is closed, in which case nothing is presented.
func (s *Scheduler) Tick(surface Surface) bool {
	if s.closed {
		return false
	}

	s.state.Frame++
	frame := render.Frame{Style: s.state.Style, Mode: s.state.Mode}

	snap, ok := s.sample()
	s.state.Signal = ok
	if ok {
		s.state.FrequencyHz = analysis.DominantFrequency(snap.Magnitudes, snap.SampleRateHz)
	} else {
		s.state.FrequencyHz = 0
	}

	w, h := surface.Viewport()
	switch s.state.Mode {
	case visualizer.Cymatic:
		s.cymatic.Step(s.state.Frame, s.state.FrequencyHz)
		frame.Curve = s.cymatic.Curve()
	case visualizer.Waveform:
		if ok {
			frame.Polyline = s.waveform.Map(snap.TimeSamples, w, h)
		}
	}

	surface.Present(frame)
	return true
}

// sample reads the analyzer, turning a panicking source into a silent frame.
func (s *Scheduler) sample() (snap analysis.Snapshot, ok bool) {
	if s.analyzer == nil {
		return analysis.Snapshot{}, false
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("analysis source panicked", zap.Any("panic", r))
			snap, ok = analysis.Snapshot{}, false
		}
	}()
	return s.analyzer.Sample()
}

// SetMode switches the active visualization. Entering cymatic mode from
// another mode starts a fresh trail unless KeepTrailOnSwitch is set.
func (s *Scheduler) SetMode(m visualizer.Mode) {
	if m == s.state.Mode {
		return
	}
	if m == visualizer.Cymatic && !s.cfg.KeepTrailOnSwitch {
		s.cymatic.Reset()
	}
	s.state.Mode = m
	s.logger.Debug("mode changed", zap.Stringer("mode", m))
}

// CycleMode advances to the next mode.
func (s *Scheduler) CycleMode() {
	s.SetMode(s.state.Mode.Next())
}

func (s *Scheduler) SetStyle(st render.Style) {
	s.state.Style = st
}

// SetDark selects the dark or light variant of the current style.
func (s *Scheduler) SetDark(dark bool) {
	if dark == s.state.Dark {
		return
	}
	s.state.Dark = dark
	s.state.Style = s.state.Style.Inverse()
}

func (s *Scheduler) ToggleDark() {
	s.SetDark(!s.state.Dark)
}

// State returns a copy of the current view state.
func (s *Scheduler) State() ViewState {
	return s.state
}

// Trail exposes the cymatic trail for inspection.
func (s *Scheduler) Trail() *visualizer.Trail {
	return s.cymatic.Trail()
}

// Close releases the bound source. Further ticks do nothing. It is safe to
// call more than once.
func (s *Scheduler) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var err error
	if s.src != nil {
		err = s.src.Close()
		s.src = nil
		s.analyzer = nil
	}
	s.logger.Debug("scheduler closed")
	return err
}
