package player

import "sync"

// Tap is a thread-safe ring of mono samples in [-1, 1]. The playback path
// writes into it as PCM is handed to the audio device and the analyzer
// copies the most recent window out of it.
type Tap struct {
	buf  []float64
	size int
	w    int // write position
	len  int // current fill level
	mu   sync.Mutex
}

// NewTap creates a tap holding up to size samples.
func NewTap(size int) *Tap {
	if size < 1 {
		size = 1
	}
	return &Tap{
		buf:  make([]float64, size),
		size: size,
	}
}

// WriteStereo16 down-mixes interleaved stereo s16 frames and appends them.
func (t *Tap) WriteStereo16(frames []int16) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := 0; i+1 < len(frames); i += 2 {
		t.buf[t.w] = (float64(frames[i]) + float64(frames[i+1])) / 65536
		t.w = (t.w + 1) % t.size
	}
	t.len = min(t.len+len(frames)/2, t.size)
}

// Latest copies up to len(dst) samples into dst, oldest first, ending skip
// samples before the newest one. It returns how many were copied.
func (t *Tap) Latest(dst []float64, skip int) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	skip = max(min(skip, t.len), 0)
	n := min(len(dst), t.len-skip)
	if n <= 0 {
		return 0
	}

	start := (t.w - skip - n + 2*t.size) % t.size
	first := copy(dst[:n], t.buf[start:min(start+n, t.size)])
	copy(dst[first:n], t.buf[:n-first])
	return n
}

// Len returns the number of buffered samples.
func (t *Tap) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.len
}

// Clear resets the buffer.
func (t *Tap) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.w = 0
	t.len = 0
}
