package comm

import (
	"go.uber.org/atomic"
)

// DefaultRingCapacity is the ring size used by NewChannel.
const DefaultRingCapacity = 32

// Ring is a single-producer single-consumer byte queue.
// head is only written by the producer (interrupt side) and tail only by
// the consumer (loop side). A full ring drops the incoming byte, so at
// most capacity-1 bytes are buffered.
type Ring struct {
	buf  []byte
	head atomic.Uint32
	tail atomic.Uint32
}

// NewRing creates a Ring with the specified capacity.
func NewRing(capacity int) *Ring {
	if capacity < 2 {
		capacity = 2
	}
	return &Ring{buf: make([]byte, capacity)}
}

// Cap returns the capacity including the reserved slot.
func (r *Ring) Cap() int {
	return len(r.buf)
}

// Len returns the number of buffered bytes.
func (r *Ring) Len() int {
	head, tail := r.head.Load(), r.tail.Load()
	n := uint32(len(r.buf))
	return int((head + n - tail) % n)
}

// Put appends b if there is room and reports whether it was stored.
func (r *Ring) Put(b byte) bool {
	head := r.head.Load()
	next := (head + 1) % uint32(len(r.buf))
	if next == r.tail.Load() {
		return false
	}
	r.buf[head] = b
	r.head.Store(next)
	return true
}

// Get removes the oldest byte.
func (r *Ring) Get() (byte, bool) {
	tail := r.tail.Load()
	if tail == r.head.Load() {
		return 0, false
	}
	b := r.buf[tail]
	r.tail.Store((tail + 1) % uint32(len(r.buf)))
	return b, true
}
