// Package txqueue serializes write units against the store so that at most
// one is in flight at a time. Waiting callers are admitted in arrival order.
package txqueue

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Queue admits one unit of work at a time. The zero value is not usable;
// construct with New.
type Queue struct {
	sem     *semaphore.Weighted
	pending atomic.Int64
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{sem: semaphore.NewWeighted(1)}
}

// Do waits for every earlier unit to finish, then runs fn. If ctx ends
// while waiting, fn is never run and ctx.Err() is returned.
func (q *Queue) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	q.pending.Add(1)
	defer q.pending.Add(-1)

	if err := q.sem.Acquire(ctx, 1); err != nil {
		slog.Debug("Left write queue before admission", "error", err)
		return err
	}
	defer q.sem.Release(1)

	return fn(ctx)
}

// Pending returns the number of units queued or running.
func (q *Queue) Pending() int {
	return int(q.pending.Load())
}

// Run is Do for units that produce a value.
func Run[T any](ctx context.Context, q *Queue, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := q.Do(ctx, func(ctx context.Context) error {
		var err error
		result, err = fn(ctx)
		return err
	})
	return result, err
}
