package scheduler

import (
	"context"
)

// Work is a function run by a scheduler worker. It must return when ctx is done.
type Work[T any] func(ctx context.Context) (T, error)
