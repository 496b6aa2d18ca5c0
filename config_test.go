package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/cymatic/internal/analysis"
	"github.com/olivier-w/cymatic/internal/render"
	"github.com/olivier-w/cymatic/internal/visualizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestZeroConfigIsValid(t *testing.T) {
	cfg := newZeroConfig()
	require.NoError(t, cfg.validate())

	sc, err := cfg.schedulerConfig()
	require.NoError(t, err)
	assert.Equal(t, visualizer.Cymatic, sc.Mode)
	assert.Equal(t, analysis.DefaultFFTSize, sc.Analysis.FFTSize)
	assert.True(t, sc.Dark)
	assert.Equal(t, render.DarkStyle(), sc.Style)
}

func TestParseFlags(t *testing.T) {
	cfg := newZeroConfig()
	err := parseFlags(&cfg, []string{
		"-m", "waveform", "-n", "1024", "-f", "30", "-s", "2.5", "-d", "8",
		"--keep-trail", "--light", "--bg", "#000000", "--fg", "#FFAA00",
		"--log-level", "debug", "song.flac",
	})
	require.NoError(t, err)

	assert.Equal(t, "song.flac", cfg.Path)
	assert.Equal(t, "waveform", cfg.Mode)
	assert.Equal(t, 1024, cfg.FFTSize)
	assert.Equal(t, 30, cfg.FPS)
	assert.InDelta(t, 2.5, cfg.BackwardSpeed, 1e-9)
	assert.Equal(t, 8, cfg.CurveDetail)
	assert.True(t, cfg.KeepTrail)
	assert.True(t, cfg.Light)
	require.NoError(t, cfg.validate())

	sc, err := cfg.schedulerConfig()
	require.NoError(t, err)
	assert.Equal(t, visualizer.Waveform, sc.Mode)
	assert.True(t, sc.KeepTrailOnSwitch)
	assert.False(t, sc.Dark)
	// light mode inverts the overridden dark pair
	assert.Equal(t, render.Style{Background: lipgloss.Color("#ffaa00"), Stroke: lipgloss.Color("#000000")}, sc.Style)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"mode", func(c *Config) { c.Mode = "spectrum" }, visualizer.ErrUnknownMode},
		{"fft size", func(c *Config) { c.FFTSize = 100 }, analysis.ErrInvalidBufferLength},
		{"negative speed", func(c *Config) { c.BackwardSpeed = -1 }, analysis.ErrInvalidConfig},
		{"fps", func(c *Config) { c.FPS = 0 }, nil},
		{"detail", func(c *Config) { c.CurveDetail = 0 }, nil},
		{"colour", func(c *Config) { c.Background = "red" }, nil},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newZeroConfig()
			tt.mutate(&cfg)
			err := cfg.validate()
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestBuildModelQueuesSiblings(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.mp3", "b.wav", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	cfg := newZeroConfig()
	cfg.Path = filepath.Join(dir, "b.wav")
	_, sched, err := buildModel(&cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, sched)
	assert.False(t, sched.Bound())
	require.NoError(t, sched.Close())
}

func TestBuildModelRejectsUnsupported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	cfg := newZeroConfig()
	cfg.Path = path
	_, sched, err := buildModel(&cfg, zap.NewNop())
	require.Error(t, err)
	assert.Nil(t, sched)
}
