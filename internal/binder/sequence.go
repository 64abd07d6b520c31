package binder

import "sync/atomic"

// Sequence hands out carrier sequence numbers. Implementations must be safe for
// concurrent use; the numbers only need to be unique, not dense.
type Sequence interface {
	Next() uint64
}

// AtomicSequence counts up from 1.
type AtomicSequence struct {
	n atomic.Uint64
}

func (s *AtomicSequence) Next() uint64 {
	return s.n.Add(1)
}

// defaultSequence is shared by every Binder built without WithSequence.
var defaultSequence = &AtomicSequence{}
