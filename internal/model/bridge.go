package model

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// Bridge runs backend calls on their own goroutine while blocking the
// caller, allowing at most one call in flight.
type Bridge struct {
	sem     *semaphore.Weighted
	busy    atomic.Bool
	timeout time.Duration
}

// NewBridge returns a bridge. A positive timeout bounds every call.
func NewBridge(timeout time.Duration) *Bridge {
	return &Bridge{
		sem:     semaphore.NewWeighted(1),
		timeout: timeout,
	}
}

// Busy reports whether a call is in flight.
func (b *Bridge) Busy() bool {
	return b.busy.Load()
}

type outcome[T any] struct {
	val   T
	err   error
	fault any
}

// Run executes op and waits for its result. A panic in op is re-raised on
// the caller. A call made while another is in flight fails with ErrBridgeBusy.
func Run[T any](b *Bridge, op func(context.Context) (T, error)) (T, error) {
	var zero T
	if !b.sem.TryAcquire(1) {
		return zero, ErrBridgeBusy
	}
	b.busy.Store(true)
	defer func() {
		b.busy.Store(false)
		b.sem.Release(1)
	}()

	ctx, cancel := b.context()
	defer cancel()

	done := make(chan outcome[T], 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- outcome[T]{fault: p}
			}
		}()
		v, err := op(ctx)
		done <- outcome[T]{val: v, err: err}
	}()

	o := <-done
	if o.fault != nil {
		panic(o.fault)
	}

	return o.val, o.err
}

func (b *Bridge) context() (context.Context, context.CancelFunc) {
	if b.timeout > 0 {
		return context.WithTimeout(context.Background(), b.timeout)
	}
	return context.WithCancel(context.Background())
}

// Do runs an op that yields only an error.
func Do(b *Bridge, op func(context.Context) error) error {
	_, err := Run(b, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}
