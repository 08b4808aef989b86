package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/kubev2v/xo-harness/internal/models"
)

// ObjectWriter applies a single object change and resolves the waiters of that id.
type ObjectWriter interface {
	Set(id string, obj models.Object) int
	Unset(id string) int
}

// Synchronizer keeps an object store in line with the notifications pushed by the server.
// Batches are applied one at a time, in the order they are received.
type Synchronizer struct {
	store ObjectWriter
}

func NewSynchronizer(st ObjectWriter) *Synchronizer {
	return &Synchronizer{store: st}
}

// Run applies every notification read from notifications until the channel is closed
// or ctx is done.
func (s *Synchronizer) Run(ctx context.Context, notifications <-chan models.Notification) {
	logger := zap.S().Named("sync")
	logger.Debug("synchronizer started")
	defer logger.Debug("synchronizer stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-notifications:
			if !ok {
				return
			}
			s.Apply(n)
		}
	}
}

// Apply applies one batch to the store and returns the number of items applied.
// Notifications other than "all" are ignored.
func (s *Synchronizer) Apply(n models.Notification) int {
	if n.Method != models.MethodAll {
		return 0
	}

	apply := func(id string, obj models.Object) int {
		return s.store.Set(id, obj)
	}
	if n.IsRemoval() {
		apply = func(id string, _ models.Object) int {
			return s.store.Unset(id)
		}
	}

	resolved := 0
	for id, obj := range n.Params.Items {
		resolved += apply(id, obj)
	}

	zap.S().Named("sync").Debugw("applied batch", "type", n.Params.Type, "items", len(n.Params.Items), "resolved_waiters", resolved)

	return len(n.Params.Items)
}

// Bootstrap primes the store with a full snapshot of the server objects.
// Waiters of the loaded ids are resolved as for an upsert batch.
func (s *Synchronizer) Bootstrap(objects map[string]models.Object) int {
	n := s.Apply(models.Notification{
		Method: models.MethodAll,
		Params: models.NotificationParams{
			Type:  models.NotificationTypeEnter,
			Items: objects,
		},
	})
	zap.S().Named("sync").Infow("object store primed", "objects", n)
	return n
}
