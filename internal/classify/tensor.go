package classify

import (
	"fmt"
	"sync"
)

// tensorPool recycles pixel buffers between requests so repeated
// classifications do not grow the heap without bound.
var tensorPool = sync.Pool{
	New: func() any {
		s := make([]float32, 0)
		return &s
	},
}

// Tensor is a float32 image tensor in NHWC layout with a batch dimension
// of 1. The backing buffer is pooled; callers must Release every tensor
// they acquire, on every exit path.
type Tensor struct {
	data []float32
	h    int
	w    int
	c    int

	mu       sync.Mutex
	released bool
}

func newTensor(h, w, c int) *Tensor {
	n := h * w * c
	bufp := tensorPool.Get().(*[]float32)
	buf := *bufp
	if cap(buf) < n {
		buf = make([]float32, n)
	}
	return &Tensor{data: buf[:n], h: h, w: w, c: c}
}

// Shape returns [1, height, width, channels].
func (t *Tensor) Shape() [4]int {
	return [4]int{1, t.h, t.w, t.c}
}

// At returns the value at (y, x, channel) of the single batch entry.
func (t *Tensor) At(y, x, c int) float32 {
	return t.data[(y*t.w+x)*t.c+c]
}

func (t *Tensor) set(y, x, c int, v float32) {
	t.data[(y*t.w+x)*t.c+c] = v
}

// Data exposes the flat backing buffer. Invalid after Release.
func (t *Tensor) Data() []float32 {
	return t.data
}

// Release returns the backing buffer to the pool. Idempotent.
func (t *Tensor) Release() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return
	}
	t.released = true
	buf := t.data[:0]
	t.data = nil
	tensorPool.Put(&buf)
}

func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor%v", t.Shape())
}
