package visualizer

// mapRange linearly re-maps v from [inLo, inHi] to [outLo, outHi] without
// clamping.
func mapRange(v, inLo, inHi, outLo, outHi float64) float64 {
	if inHi == inLo {
		return outLo
	}
	return outLo + (v-inLo)*(outHi-outLo)/(inHi-inLo)
}
