// Package analysis turns the most recent window of a mono PCM stream into
// byte-scaled frequency and time-domain arrays, following the behaviour of a
// Web Audio AnalyserNode.
package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// Source supplies mono samples in [-1, 1].
type Source interface {
	SampleRate() int
	// Latest copies up to len(dst) of the most recent samples into dst in
	// chronological order and returns how many were written.
	Latest(dst []float64) int
}

// Snapshot is one frame of analysis output. The slices alias buffers owned by
// the Analyzer and are overwritten by the next call to Sample.
type Snapshot struct {
	Magnitudes   []uint8
	TimeSamples  []uint8
	SampleRateHz float64
}

// BufferLength is the number of entries in both arrays.
func (s Snapshot) BufferLength() int {
	return len(s.Magnitudes)
}

// Analyzer is bound to exactly one Source for its lifetime.
type Analyzer struct {
	cfg        Config
	src        Source
	sampleRate float64
	fft        *fourier.FFT

	window   []float64
	input    []float64
	windowed []float64
	coeffs   []complex128
	mag      []float64
	smoothed []float64

	freqBytes []uint8
	timeBytes []uint8
}

// New validates cfg and binds an analyzer to src.
func New(cfg Config, src Source) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("nil source: %w", ErrResourceUnavailable)
	}
	rate := src.SampleRate()
	if rate <= 0 {
		return nil, fmt.Errorf("sample rate %d: %w", rate, ErrResourceUnavailable)
	}

	n := cfg.FFTSize
	bins := cfg.BufferLength()
	return &Analyzer{
		cfg:        cfg,
		src:        src,
		sampleRate: float64(rate),
		fft:        fourier.NewFFT(n),
		window:     window.Blackman(n),
		input:      make([]float64, n),
		windowed:   make([]float64, n),
		coeffs:     make([]complex128, n/2+1),
		mag:        make([]float64, bins),
		smoothed:   make([]float64, bins),
		freqBytes:  make([]uint8, bins),
		timeBytes:  make([]uint8, bins),
	}, nil
}

// BufferLength returns FFTSize/2.
func (a *Analyzer) BufferLength() int {
	return a.cfg.BufferLength()
}

// SampleRateHz returns the sample rate of the bound source, fixed at bind time.
func (a *Analyzer) SampleRateHz() float64 {
	return a.sampleRate
}

// Sample reads the latest window from the source and fills both arrays. It
// reports false when the source has produced nothing yet.
func (a *Analyzer) Sample() (Snapshot, bool) {
	if a == nil || a.src == nil {
		return Snapshot{}, false
	}

	n := a.cfg.FFTSize
	got := a.src.Latest(a.input)
	if got <= 0 {
		return Snapshot{}, false
	}
	if got < n {
		copy(a.input[n-got:], a.input[:got])
		clear(a.input[:n-got])
	}

	a.frequencyData()
	a.timeData()

	return Snapshot{
		Magnitudes:   a.freqBytes,
		TimeSamples:  a.timeBytes,
		SampleRateHz: a.sampleRate,
	}, true
}

func (a *Analyzer) frequencyData() {
	n := a.cfg.FFTSize
	for i := range n {
		a.windowed[i] = a.input[i] * a.window[i]
	}
	a.coeffs = a.fft.Coefficients(a.coeffs, a.windowed)

	scale := 1.0 / float64(n)
	for k := range a.mag {
		a.mag[k] = cmplx.Abs(a.coeffs[k]) * scale
	}

	tau := a.cfg.Smoothing
	floats.Scale(tau, a.smoothed)
	floats.AddScaled(a.smoothed, 1-tau, a.mag)

	span := a.cfg.MaxDecibels - a.cfg.MinDecibels
	for k, v := range a.smoothed {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			a.smoothed[k] = 0
			v = 0
		}
		db := 20 * math.Log10(v)
		a.freqBytes[k] = clampByte(255 * (db - a.cfg.MinDecibels) / span)
	}
}

func (a *Analyzer) timeData() {
	for i := range a.timeBytes {
		a.timeBytes[i] = clampByte(128 * (a.input[i] + 1))
	}
}

// clampByte truncates v into [0, 255]. -Inf (the log of silence) maps to 0.
func clampByte(v float64) uint8 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
