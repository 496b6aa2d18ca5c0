package scheduler

import (
	"math"
	"testing"

	"github.com/olivier-w/cymatic/internal/analysis"
	"github.com/olivier-w/cymatic/internal/render"
	"github.com/olivier-w/cymatic/internal/visualizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeSource struct {
	rate    int
	samples []float64
	panics  bool
	closed  int
}

func (f *fakeSource) SampleRate() int { return f.rate }

func (f *fakeSource) Latest(dst []float64) int {
	if f.panics {
		panic("device lost")
	}
	src := f.samples
	if len(src) > len(dst) {
		src = src[len(src)-len(dst):]
	}
	return copy(dst, src)
}

func (f *fakeSource) Close() error {
	f.closed++
	return nil
}

type fakeSurface struct {
	w, h   float64
	frames []render.Frame
}

func (f *fakeSurface) Viewport() (float64, float64) { return f.w, f.h }

func (f *fakeSurface) Present(fr render.Frame) { f.frames = append(f.frames, fr) }

func (f *fakeSurface) last() render.Frame { return f.frames[len(f.frames)-1] }

func sineSource(freq float64) *fakeSource {
	const rate = 48000
	s := make([]float64, 1024)
	for i := range s {
		s[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/rate)
	}
	return &fakeSource{rate: rate, samples: s}
}

func newScheduler(t *testing.T, mutate func(*Config)) *Scheduler {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := New(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	return s
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Analysis.FFTSize = 100
	_, err := New(cfg, nil)
	assert.ErrorIs(t, err, analysis.ErrInvalidBufferLength)

	cfg = DefaultConfig()
	cfg.BackwardSpeed = -1
	_, err = New(cfg, nil)
	assert.ErrorIs(t, err, analysis.ErrInvalidConfig)
}

func TestTickWithoutSource(t *testing.T) {
	s := newScheduler(t, nil)
	surf := &fakeSurface{w: 100, h: 100}

	require.True(t, s.Tick(surf))
	st := s.State()
	assert.False(t, st.Signal)
	assert.Zero(t, st.FrequencyHz)
	assert.EqualValues(t, 1, st.Frame)
	assert.Nil(t, surf.last().Curve, "one point is not a curve")

	require.True(t, s.Tick(surf))
	curve := surf.last().Curve
	require.NotEmpty(t, curve)
	for _, p := range curve {
		assert.InDelta(t, 125, p.X(), 1e-9)
		assert.InDelta(t, 0, p.Y(), 1e-9)
	}

	s.SetMode(visualizer.Waveform)
	require.True(t, s.Tick(surf))
	assert.Empty(t, surf.last().Polyline)
	assert.Equal(t, visualizer.Waveform, surf.last().Mode)
}

func TestTickTracksDominantFrequency(t *testing.T) {
	s := newScheduler(t, nil)
	require.NoError(t, s.Bind(sineSource(3000)))

	surf := &fakeSurface{w: 100, h: 100}
	require.True(t, s.Tick(surf))
	st := s.State()
	assert.True(t, st.Signal)
	assert.InDelta(t, 3000, st.FrequencyHz, 1e-9)
}

func TestTickWaveformUsesViewport(t *testing.T) {
	s := newScheduler(t, func(c *Config) { c.Mode = visualizer.Waveform })
	require.NoError(t, s.Bind(sineSource(440)))

	surf := &fakeSurface{w: 256, h: 64}
	s.Tick(surf)
	pts := surf.last().Polyline
	require.Len(t, pts, 128)
	assert.Equal(t, -128.0, pts[0].X())

	surf.w = 512
	s.Tick(surf)
	assert.Equal(t, -256.0, surf.last().Polyline[0].X())
}

func TestTickRecoversFromSourcePanic(t *testing.T) {
	s := newScheduler(t, nil)
	src := sineSource(3000)
	require.NoError(t, s.Bind(src))

	surf := &fakeSurface{w: 100, h: 100}
	s.Tick(surf)
	require.True(t, s.State().Signal)

	src.panics = true
	assert.NotPanics(t, func() { s.Tick(surf) })
	assert.False(t, s.State().Signal)
	assert.Zero(t, s.State().FrequencyHz)
	assert.Len(t, surf.frames, 2)
}

func TestBindReleasesPreviousSource(t *testing.T) {
	s := newScheduler(t, nil)
	first := sineSource(440)
	second := sineSource(880)

	require.NoError(t, s.Bind(first))
	require.NoError(t, s.Bind(second))
	assert.Equal(t, 1, first.closed)
	assert.Zero(t, second.closed)

	s.Unbind()
	assert.Equal(t, 1, second.closed)
	assert.False(t, s.Bound())
}

func TestBindFailureClosesSource(t *testing.T) {
	s := newScheduler(t, nil)
	bad := &fakeSource{rate: 0}

	err := s.Bind(bad)
	assert.ErrorIs(t, err, analysis.ErrResourceUnavailable)
	assert.Equal(t, 1, bad.closed)
	assert.False(t, s.Bound())

	surf := &fakeSurface{w: 10, h: 10}
	assert.True(t, s.Tick(surf))
	assert.False(t, s.State().Signal)
}

func TestModeSwitchStartsFreshTrail(t *testing.T) {
	s := newScheduler(t, nil)
	surf := &fakeSurface{w: 100, h: 100}
	for range 30 {
		s.Tick(surf)
	}
	require.Equal(t, 30, s.Trail().Len())

	s.SetMode(visualizer.Waveform)
	s.Tick(surf)
	assert.Equal(t, 30, s.Trail().Len(), "waveform frames leave the trail alone")

	s.SetMode(visualizer.Cymatic)
	s.Tick(surf)
	assert.Equal(t, 1, s.Trail().Len())

	for range 100 {
		s.Tick(surf)
	}
	assert.Equal(t, visualizer.TrailCapacity, s.Trail().Len())
}

func TestModeSwitchKeepsTrail(t *testing.T) {
	s := newScheduler(t, func(c *Config) { c.KeepTrailOnSwitch = true })
	surf := &fakeSurface{w: 100, h: 100}
	for range 45 {
		s.Tick(surf)
	}

	s.CycleMode()
	assert.Equal(t, visualizer.Waveform, s.State().Mode)
	s.Tick(surf)
	s.CycleMode()
	assert.Equal(t, visualizer.Cymatic, s.State().Mode)

	for range 10 {
		s.Tick(surf)
		require.LessOrEqual(t, s.Trail().Len(), visualizer.TrailCapacity)
	}
	assert.Equal(t, visualizer.TrailCapacity, s.Trail().Len())
}

func TestDarkToggle(t *testing.T) {
	s := newScheduler(t, nil)
	assert.True(t, s.State().Dark)
	assert.Equal(t, render.DarkStyle(), s.State().Style)

	s.ToggleDark()
	assert.False(t, s.State().Dark)
	assert.Equal(t, render.LightStyle(), s.State().Style)

	s.SetDark(false)
	assert.Equal(t, render.LightStyle(), s.State().Style)

	custom := render.Style{Background: "#000000", Stroke: "#FF0000"}
	s.SetStyle(custom)
	surf := &fakeSurface{w: 10, h: 10}
	s.Tick(surf)
	assert.Equal(t, custom, surf.last().Style)
}

func TestCloseStopsTicks(t *testing.T) {
	s := newScheduler(t, nil)
	src := sineSource(440)
	require.NoError(t, s.Bind(src))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, src.closed)

	surf := &fakeSurface{w: 10, h: 10}
	assert.False(t, s.Tick(surf))
	assert.Empty(t, surf.frames)

	late := sineSource(440)
	assert.ErrorIs(t, s.Bind(late), ErrClosed)
	assert.Equal(t, 1, late.closed)
}
