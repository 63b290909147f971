package circular

import "golang.org/x/exp/constraints"

// Window is a fixed-capacity rolling window ordered most recent first.
// It is created full, so every lag is readable from the first push.
type Window[T constraints.Float] struct {
	data []T
	head int
}

func NewWindow[T constraints.Float](capacity int, fill T) *Window[T] {
	if capacity <= 0 {
		panic("capacity must > 0")
	}
	w := &Window[T]{data: make([]T, capacity)}
	for i := range w.data {
		w.data[i] = fill
	}
	return w
}

func (w *Window[T]) Capacity() int {
	return len(w.data)
}

// Push inserts value as the most recent entry, evicting the oldest one.
func (w *Window[T]) Push(value T) {
	w.head--
	if w.head < 0 {
		w.head = len(w.data) - 1
	}
	w.data[w.head] = value
}

// Get returns the idx-th most recent value, Get(0) being the last push.
func (w *Window[T]) Get(idx int) T {
	if idx < 0 || idx >= len(w.data) {
		panic("index out of range")
	}
	return w.data[(w.head+idx)%len(w.data)]
}

// Data returns the window contents ordered most recent first.
func (w *Window[T]) Data() []T {
	out := make([]T, len(w.data))
	for i := range out {
		out[i] = w.Get(i)
	}
	return out
}
