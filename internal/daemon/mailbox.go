package daemon

import (
	"context"
	"sync"
)

// Mailbox is a single-slot buffer where the latest trigger wins. It is not
// a queue: a schedule tick that fires while a run is still pending simply
// replaces the pending trigger, so stale runs never pile up.
type Mailbox[T any] struct {
	mu sync.Mutex
	ch chan T
}

func NewMailbox[T any]() *Mailbox[T] {
	return &Mailbox[T]{ch: make(chan T, 1)}
}

// Put stores a trigger, replacing any pending one. Never blocks.
func (m *Mailbox[T]) Put(v T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.ch:
	default:
	}
	m.ch <- v
}

// Take blocks until a trigger is available or ctx is done.
func (m *Mailbox[T]) Take(ctx context.Context) (T, bool) {
	select {
	case v := <-m.ch:
		return v, true
	case <-ctx.Done():
		var zero T
		return zero, false
	}
}
