package analysis

import "fmt"

const (
	DefaultFFTSize     = 256
	MinFFTSize         = 32
	MaxFFTSize         = 32768
	DefaultSmoothing   = 0.8
	DefaultMinDecibels = -100.0
	DefaultMaxDecibels = -30.0
)

// Config mirrors the tunables of a Web Audio AnalyserNode.
type Config struct {
	FFTSize     int     // samples per transform, power of two
	Smoothing   float64 // time constant in [0, 1] blending successive spectra
	MinDecibels float64 // maps to byte 0
	MaxDecibels float64 // maps to byte 255
}

// DefaultConfig returns the analyser defaults: fftSize 256 (128 bins).
func DefaultConfig() Config {
	return Config{
		FFTSize:     DefaultFFTSize,
		Smoothing:   DefaultSmoothing,
		MinDecibels: DefaultMinDecibels,
		MaxDecibels: DefaultMaxDecibels,
	}
}

// BufferLength is the number of frequency bins, half the FFT size.
func (c Config) BufferLength() int {
	return c.FFTSize / 2
}

// Validate reports configuration errors. An unusable FFT size wraps
// ErrInvalidBufferLength; everything else wraps ErrInvalidConfig.
func (c Config) Validate() error {
	if c.FFTSize < MinFFTSize || c.FFTSize > MaxFFTSize || c.FFTSize&(c.FFTSize-1) != 0 {
		return fmt.Errorf("fft size %d must be a power of two in [%d, %d]: %w",
			c.FFTSize, MinFFTSize, MaxFFTSize, ErrInvalidBufferLength)
	}
	if c.Smoothing < 0 || c.Smoothing > 1 {
		return fmt.Errorf("smoothing %.3f outside [0, 1]: %w", c.Smoothing, ErrInvalidConfig)
	}
	if c.MinDecibels >= c.MaxDecibels {
		return fmt.Errorf("min decibels %.1f must be below max decibels %.1f: %w",
			c.MinDecibels, c.MaxDecibels, ErrInvalidConfig)
	}
	return nil
}
