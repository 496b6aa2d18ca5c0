package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDominantBin(t *testing.T) {
	tests := []struct {
		name string
		in   []uint8
		want int
	}{
		{name: "empty", in: nil, want: 0},
		{name: "single", in: []uint8{7}, want: 0},
		{name: "peak", in: []uint8{10, 10, 200, 10}, want: 2},
		{name: "tie resolves left", in: []uint8{3, 90, 40, 90}, want: 1},
		{name: "all zero", in: []uint8{0, 0, 0}, want: 0},
		{name: "last", in: []uint8{1, 2, 3, 255}, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DominantBin(tt.in))
		})
	}
}

func TestDominantFrequency(t *testing.T) {
	assert.Equal(t, 12000.0, DominantFrequency([]uint8{10, 10, 200, 10}, 48000))
	assert.Equal(t, 0.0, DominantFrequency(nil, 48000))
	assert.Equal(t, 0.0, DominantFrequency([]uint8{255, 0}, 44100))

	mags := make([]uint8, 128)
	mags[1] = 1
	assert.InDelta(t, 172.265625, DominantFrequency(mags, 44100), 1e-9)
}
