package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/kubev2v/xo-harness/internal/models"
	srvErrors "github.com/kubev2v/xo-harness/pkg/errors"
)

// Predicate accepts an object state by returning nil.
// It receives a nil Object when the id is absent.
type Predicate func(obj models.Object) error

// ObjectWatcher gives access to the state of an id and to its next change.
type ObjectWatcher interface {
	Snapshot(id string) models.Snapshot
	WaitSince(id string, revision uint64) *models.Future[models.Snapshot]
}

// WaitObjectState blocks until predicate accepts the state of id.
//
// The predicate is first evaluated against the current state. Each time it fails the
// loop waits for the next change of id and evaluates again. There is no retry bound
// and no timeout: only ctx can stop the loop early.
func WaitObjectState(ctx context.Context, w ObjectWatcher, id string, predicate Predicate) error {
	return NewWatch(w, id, predicate).Run(ctx)
}

// Watch is a wait on id that is registered for the next change from the moment it
// is created, whenever Run starts.
type Watch struct {
	w         ObjectWatcher
	id        string
	predicate Predicate
	snap      models.Snapshot
	err       error
	next      *models.Future[models.Snapshot]
}

// NewWatch evaluates predicate against the current state of id and, when it is
// rejected, registers for the next change of id.
func NewWatch(w ObjectWatcher, id string, predicate Predicate) *Watch {
	watch := &Watch{w: w, id: id, predicate: predicate, snap: w.Snapshot(id)}
	if watch.err = predicate(watch.snap.Object); watch.err != nil {
		watch.next = w.WaitSince(id, watch.snap.Revision)
	}
	return watch
}

// Run blocks until predicate accepts a state of id or ctx is done. It must be called once.
func (wt *Watch) Run(ctx context.Context) error {
	if wt.next == nil {
		return nil
	}

	snap, err, next := wt.snap, wt.err, wt.next
	for attempt := 1; ; attempt++ {
		zap.S().Named("wait").Debugw("predicate rejected object state", "id", wt.id, "attempt", attempt, "revision", snap.Revision, "error", err)

		s, werr := Await(ctx, next)
		if werr != nil {
			return srvErrors.NewWaitCanceledError(wt.id, err, werr)
		}
		snap = s
		if err = wt.predicate(snap.Object); err == nil {
			return nil
		}
		next = wt.w.WaitSince(wt.id, snap.Revision)
	}
}

// Stop drops the registration made by NewWatch. It is a no-op once that registration
// has been resolved.
func (wt *Watch) Stop() {
	if wt.next != nil {
		wt.next.Stop()
	}
}

// Await blocks until future resolves or ctx is done. The future is stopped on cancellation.
func Await(ctx context.Context, future *models.Future[models.Snapshot]) (models.Snapshot, error) {
	select {
	case snap := <-future.C():
		return snap, nil
	case <-ctx.Done():
		future.Stop()
		return models.Snapshot{}, ctx.Err()
	}
}
