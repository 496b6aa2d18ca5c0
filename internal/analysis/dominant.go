package analysis

// DominantBin returns the index of the largest magnitude. Ties resolve to
// the lowest index because the scan only moves on a strictly greater value.
// An empty slice yields 0.
func DominantBin(magnitudes []uint8) int {
	best := 0
	for i := 1; i < len(magnitudes); i++ {
		if magnitudes[i] > magnitudes[best] {
			best = i
		}
	}
	return best
}

// DominantFrequency converts the dominant bin to Hz. Bins span
// [0, sampleRate/2) evenly, so the result is the lower edge of the winning
// bin; there is no sub-bin interpolation.
func DominantFrequency(magnitudes []uint8, sampleRateHz float64) float64 {
	if len(magnitudes) == 0 {
		return 0
	}
	return float64(DominantBin(magnitudes)) * (sampleRateHz / 2) / float64(len(magnitudes))
}
