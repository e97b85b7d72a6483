package kernel

import "sync/atomic"

// SharedWord publishes a single 64-bit value from one writer to any number
// of readers without locks. The control loop uses it to expose the latest
// packed status to observers on other goroutines.
type SharedWord struct {
	seq atomic.Uint32
	v   atomic.Uint64
}

// Write stores v and bumps the sequence counter.
func (w *SharedWord) Write(v uint64) uint32 {
	w.v.Store(v)
	return w.seq.Add(1)
}

// Read returns the last written value and the current sequence number.
// seq is 0 until the first Write.
func (w *SharedWord) Read() (seq uint32, v uint64) {
	seq = w.seq.Load()
	return seq, w.v.Load()
}
