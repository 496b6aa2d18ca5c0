package visualizer

import "github.com/go-gl/mathgl/mgl64"

// WaveformMapper maps time-domain bytes onto a centred viewport. Output is
// written into a buffer that is reused across frames.
type WaveformMapper struct {
	buf []mgl64.Vec2
}

func NewWaveformMapper() *WaveformMapper {
	return &WaveformMapper{}
}

// Map places sample i at x = map(i, 0, N, -w/2, w/2) and
// y = map(s, 0, 255, -h/2, h/2). Empty input yields an empty result.
func (m *WaveformMapper) Map(samples []uint8, w, h float64) []mgl64.Vec2 {
	m.buf = MapWaveform(m.buf[:0], samples, w, h)
	return m.buf
}

// MapWaveform appends the mapped polyline to dst.
func MapWaveform(dst []mgl64.Vec2, samples []uint8, w, h float64) []mgl64.Vec2 {
	n := float64(len(samples))
	for i, s := range samples {
		dst = append(dst, mgl64.Vec2{
			mapRange(float64(i), 0, n, -w/2, w/2),
			mapRange(float64(s), 0, 255, -h/2, h/2),
		})
	}
	return dst
}
