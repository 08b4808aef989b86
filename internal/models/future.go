package models

import (
	"context"
)

type Future[T any] struct {
	input  chan T
	cancel context.CancelFunc
}

func NewFuture[T any](input chan T, cancel context.CancelFunc) *Future[T] {
	f := &Future[T]{
		input:  input,
		cancel: cancel,
	}

	return f
}

// NewResolvedFuture returns a future whose channel already holds v.
func NewResolvedFuture[T any](v T) *Future[T] {
	c := make(chan T, 1)
	c <- v
	return NewFuture(c, func() {})
}

func (f *Future[T]) C() chan T {
	return f.input
}

// Stop abandons the future. A value that was already delivered stays readable.
func (f *Future[T]) Stop() {
	f.cancel()
}

// Result is the outcome of an asynchronous work.
type Result[T any] struct {
	Data T
	Err  error
}
