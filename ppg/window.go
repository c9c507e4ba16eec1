package ppg

import (
	"container/ring"
	"math"
)

// Window is a bounded FIFO of the most recent filtered samples, backed by
// container/ring so a push into a full window evicts the oldest entry
// in O(1).
type Window struct {
	r        *ring.Ring
	capacity int
	length   int
}

// NewWindow returns an empty window holding at most capacity samples.
func NewWindow(capacity int) *Window {
	return &Window{
		r:        ring.New(capacity),
		capacity: capacity,
		length:   0,
	}
}

// Push appends s, evicting the oldest sample when full.
func (w *Window) Push(s FilteredSample) {
	w.r.Value = s
	w.r = w.r.Next()
	if w.length < w.capacity {
		w.length++
	}
}

// Len returns the number of buffered samples.
func (w *Window) Len() int {
	return w.length
}

// Recent returns the newest n samples in chronological order. It returns
// fewer when fewer are buffered.
func (w *Window) Recent(n int) []FilteredSample {
	if n > w.length {
		n = w.length
	}
	if n <= 0 {
		return nil
	}

	out := make([]FilteredSample, n)
	cur := w.r
	for i := n - 1; i >= 0; i-- {
		cur = cur.Prev()
		out[i] = cur.Value.(FilteredSample)
	}

	return out
}

// Range returns the minimum and maximum filtered values over the newest n
// samples without allocating. Both are zero when the window is empty.
func (w *Window) Range(n int) (min, max float64) {
	if n > w.length {
		n = w.length
	}
	if n <= 0 {
		return 0, 0
	}

	min = math.MaxFloat64
	max = -math.MaxFloat64

	cur := w.r
	for i := 0; i < n; i++ {
		cur = cur.Prev()
		v := cur.Value.(FilteredSample).Filtered
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	return min, max
}

// Reset empties the window.
func (w *Window) Reset() {
	w.r = ring.New(w.capacity)
	w.length = 0
}
