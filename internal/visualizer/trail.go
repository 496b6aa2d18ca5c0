package visualizer

import "github.com/go-gl/mathgl/mgl64"

// Trail is a fixed-capacity FIFO of pen positions backed by a single arena.
// Pushing onto a full trail overwrites the oldest point.
type Trail struct {
	buf  []mgl64.Vec3
	head int // index of the oldest point
	len  int
}

// NewTrail allocates a trail holding at most capacity points.
func NewTrail(capacity int) *Trail {
	if capacity < 1 {
		capacity = 1
	}
	return &Trail{buf: make([]mgl64.Vec3, capacity)}
}

func (t *Trail) Len() int { return t.len }

func (t *Trail) Cap() int { return len(t.buf) }

// Push appends p as the newest point, evicting the oldest when full.
func (t *Trail) Push(p mgl64.Vec3) {
	if t.len < len(t.buf) {
		t.buf[(t.head+t.len)%len(t.buf)] = p
		t.len++
		return
	}
	t.buf[t.head] = p
	t.head = (t.head + 1) % len(t.buf)
}

// At returns the i-th point, oldest first.
func (t *Trail) At(i int) mgl64.Vec3 {
	if i < 0 || i >= t.len {
		panic("visualizer: trail index out of range")
	}
	return t.buf[(t.head+i)%len(t.buf)]
}

// Decay moves every stored point dz along z.
func (t *Trail) Decay(dz float64) {
	for i := range t.len {
		t.buf[(t.head+i)%len(t.buf)][2] += dz
	}
}

func (t *Trail) Reset() {
	t.head = 0
	t.len = 0
}

// Points appends the stored points to dst in chronological order.
func (t *Trail) Points(dst []mgl64.Vec3) []mgl64.Vec3 {
	for i := range t.len {
		dst = append(dst, t.buf[(t.head+i)%len(t.buf)])
	}
	return dst
}
