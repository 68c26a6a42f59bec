package preload

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrDuplicateRoute rejects a route that was already published.
	ErrDuplicateRoute = errors.New("route already queued")
	// ErrQueueClosed rejects publication after Close.
	ErrQueueClosed = errors.New("ready queue closed")
)

// ReadyQueue is a bounded FIFO of scored routes shared by one producer and
// one consumer.
type ReadyQueue struct {
	slots chan struct{}
	items chan ReadyRoute

	mu      sync.Mutex
	members map[string]struct{}
	closed  bool
}

// NewReadyQueue creates a queue holding at most capacity routes, counting
// routes still being built under a reservation.
func NewReadyQueue(capacity int) *ReadyQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &ReadyQueue{
		slots:   make(chan struct{}, capacity),
		items:   make(chan ReadyRoute, capacity),
		members: make(map[string]struct{}),
	}
}

// Capacity returns the configured bound.
func (q *ReadyQueue) Capacity() int {
	return cap(q.slots)
}

// Len returns the number of published routes waiting for the consumer.
func (q *ReadyQueue) Len() int {
	return len(q.items)
}

// Reserved returns the number of held slots: queued routes plus routes
// being built.
func (q *ReadyQueue) Reserved() int {
	return len(q.slots)
}

// Reserve blocks until a slot is free or ctx is done.
func (q *ReadyQueue) Reserve(ctx context.Context) error {
	select {
	case q.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a reservation that will not be published.
func (q *ReadyQueue) Release() {
	select {
	case <-q.slots:
	default:
	}
}

// Publish appends route under a reservation taken with Reserve. On error the
// reservation is still held and the caller must Release it.
func (q *ReadyQueue) Publish(route ReadyRoute) error {
	if err := route.Validate(); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	if _, dup := q.members[route.Dir]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateRoute, route.Name)
	}
	select {
	case q.items <- route:
	default:
		return fmt.Errorf("publish %s: no reserved slot", route.Name)
	}
	q.members[route.Dir] = struct{}{}
	return nil
}

// Receive pops the oldest route, blocking while the queue is empty and open.
// It returns ok=false once the queue is closed and drained.
func (q *ReadyQueue) Receive(ctx context.Context) (ReadyRoute, bool, error) {
	select {
	case route, ok := <-q.items:
		if !ok {
			return ReadyRoute{}, false, nil
		}
		q.Release()
		return route, true, nil
	case <-ctx.Done():
		return ReadyRoute{}, false, ctx.Err()
	}
}

// Close marks the end of production. Routes already queued stay receivable.
func (q *ReadyQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.items)
}
