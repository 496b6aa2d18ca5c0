package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	rate    int
	samples []float64
}

func (f *fakeSource) SampleRate() int { return f.rate }

func (f *fakeSource) Latest(dst []float64) int {
	src := f.samples
	if len(src) > len(dst) {
		src = src[len(src)-len(dst):]
	}
	return copy(dst, src)
}

func sine(freq, amp float64, rate, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return out
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	for _, size := range []int{0, 16, 100, 65536} {
		cfg := DefaultConfig()
		cfg.FFTSize = size
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidBufferLength, "size %d", size)
	}

	cfg := DefaultConfig()
	cfg.Smoothing = 1.5
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.MinDecibels = -10
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestNewRejectsUnusableSource(t *testing.T) {
	_, err := New(DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrResourceUnavailable)

	_, err = New(DefaultConfig(), &fakeSource{rate: 0})
	assert.ErrorIs(t, err, ErrResourceUnavailable)

	cfg := DefaultConfig()
	cfg.FFTSize = 300
	_, err = New(cfg, &fakeSource{rate: 48000})
	assert.ErrorIs(t, err, ErrInvalidBufferLength)
}

func TestAnalyzerIsStable(t *testing.T) {
	src := &fakeSource{rate: 44100, samples: sine(440, 0.5, 44100, 1024)}
	a, err := New(DefaultConfig(), src)
	require.NoError(t, err)

	for range 5 {
		snap, ok := a.Sample()
		require.True(t, ok)
		assert.Equal(t, 128, a.BufferLength())
		assert.Equal(t, 128, snap.BufferLength())
		assert.Len(t, snap.TimeSamples, 128)
		assert.Equal(t, 44100.0, a.SampleRateHz())
		assert.Equal(t, 44100.0, snap.SampleRateHz)
	}
}

func TestSampleWithoutData(t *testing.T) {
	a, err := New(DefaultConfig(), &fakeSource{rate: 48000})
	require.NoError(t, err)

	_, ok := a.Sample()
	assert.False(t, ok)

	var nilAnalyzer *Analyzer
	_, ok = nilAnalyzer.Sample()
	assert.False(t, ok)
}

func TestSampleSilence(t *testing.T) {
	a, err := New(DefaultConfig(), &fakeSource{rate: 48000, samples: make([]float64, 256)})
	require.NoError(t, err)

	snap, ok := a.Sample()
	require.True(t, ok)
	for i, m := range snap.Magnitudes {
		assert.Zero(t, m, "bin %d", i)
	}
	for i, s := range snap.TimeSamples {
		assert.EqualValues(t, 128, s, "sample %d", i)
	}
	assert.Zero(t, DominantFrequency(snap.Magnitudes, snap.SampleRateHz))
}

func TestSampleZeroFillsShortWindow(t *testing.T) {
	src := &fakeSource{rate: 48000, samples: []float64{1, 1, 1, 1}}
	a, err := New(DefaultConfig(), src)
	require.NoError(t, err)

	snap, ok := a.Sample()
	require.True(t, ok)
	// The four samples land at the end of the 256-sample window, outside the
	// half that feeds the time array.
	for _, s := range snap.TimeSamples {
		assert.EqualValues(t, 128, s)
	}
}

func TestSampleFindsSinePeak(t *testing.T) {
	// 3000 Hz falls exactly on bin 16 at 48 kHz with a 256-point transform.
	src := &fakeSource{rate: 48000, samples: sine(3000, 0.5, 48000, 256)}
	a, err := New(DefaultConfig(), src)
	require.NoError(t, err)

	snap, ok := a.Sample()
	require.True(t, ok)
	assert.Equal(t, 16, DominantBin(snap.Magnitudes))
	assert.InDelta(t, 3000, DominantFrequency(snap.Magnitudes, snap.SampleRateHz), 1e-9)
	assert.Greater(t, snap.Magnitudes[16], snap.Magnitudes[60])
}

func TestSmoothingAccumulates(t *testing.T) {
	src := &fakeSource{rate: 48000, samples: sine(3000, 0.05, 48000, 256)}
	a, err := New(DefaultConfig(), src)
	require.NoError(t, err)

	first, ok := a.Sample()
	require.True(t, ok)
	peak := first.Magnitudes[16]

	second, ok := a.Sample()
	require.True(t, ok)
	assert.Greater(t, second.Magnitudes[16], peak)
}

func TestClampByte(t *testing.T) {
	assert.EqualValues(t, 0, clampByte(math.Inf(-1)))
	assert.EqualValues(t, 0, clampByte(math.NaN()))
	assert.EqualValues(t, 0, clampByte(-4))
	assert.EqualValues(t, 127, clampByte(127.9))
	assert.EqualValues(t, 255, clampByte(256))
}

// directMagnitudes is a naive DFT of the windowed input, scaled by 1/N.
func directMagnitudes(in, win []float64) []float64 {
	n := len(in)
	out := make([]float64, n/2)
	for k := range out {
		var re, im float64
		for i, x := range in {
			phi := -2 * math.Pi * float64(k*i) / float64(n)
			re += x * win[i] * math.Cos(phi)
			im += x * win[i] * math.Sin(phi)
		}
		out[k] = math.Hypot(re, im) / float64(n)
	}
	return out
}

func TestMagnitudesMatchDirectDFT(t *testing.T) {
	samples := sine(1234, 0.3, 48000, 256)
	for i := range samples {
		samples[i] += 0.1 * math.Cos(2*math.Pi*9000*float64(i)/48000)
	}

	cfg := DefaultConfig()
	cfg.Smoothing = 0
	a, err := New(cfg, &fakeSource{rate: 48000, samples: samples})
	require.NoError(t, err)

	_, ok := a.Sample()
	require.True(t, ok)

	want := directMagnitudes(samples, a.window)
	require.Len(t, a.mag, len(want))
	for k := range want {
		assert.InDelta(t, want[k], a.mag[k], 1e-12, "bin %d", k)
	}
}
