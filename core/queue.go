package core

import (
	"context"
	"time"
)

// PendingOperation is a gated call waiting for initialization to settle.
type PendingOperation struct {
	ID         string
	Kind       OperationKind
	Payload    Payload
	Completion *Completion
	QueuedAt   time.Time

	ctx context.Context
}

func (p PendingOperation) Context() context.Context {
	if p.ctx == nil {
		return context.Background()
	}
	return p.ctx
}

type pendingQueue[T any] struct {
	items []T
}

func (q *pendingQueue[T]) push(item T) int {
	q.items = append(q.items, item)
	return len(q.items)
}

// drain hands over the current items and starts a fresh backing slice, so
// arrivals after the snapshot can never be observed twice.
func (q *pendingQueue[T]) drain() []T {
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *pendingQueue[T]) len() int {
	return len(q.items)
}
