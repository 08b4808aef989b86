package store

import (
	"slices"

	"github.com/kubev2v/xo-harness/internal/models"
)

// WaiterRegistry keeps, per object id, the one-shot channels waiting for the next
// change of that id. Several waiters on the same id are all resolved by the same change.
//
// WaiterRegistry is not safe for concurrent use; Store serialises access to it.
type WaiterRegistry struct {
	waiters map[string][]chan models.Snapshot
}

func NewWaiterRegistry() *WaiterRegistry {
	return &WaiterRegistry{waiters: make(map[string][]chan models.Snapshot)}
}

// Add registers a new waiter for id. The returned channel receives exactly one snapshot.
func (r *WaiterRegistry) Add(id string) chan models.Snapshot {
	c := make(chan models.Snapshot, 1)
	r.waiters[id] = append(r.waiters[id], c)
	return c
}

// Remove unregisters c. It returns false if c was already resolved or removed.
func (r *WaiterRegistry) Remove(id string, c chan models.Snapshot) bool {
	pending := r.waiters[id]
	idx := slices.Index(pending, c)
	if idx < 0 {
		return false
	}
	pending = slices.Delete(pending, idx, idx+1)
	if len(pending) == 0 {
		delete(r.waiters, id)
	} else {
		r.waiters[id] = pending
	}
	return true
}

// Resolve delivers snap to every waiter of snap.ID and forgets them.
// It returns the number of resolved waiters.
func (r *WaiterRegistry) Resolve(snap models.Snapshot) int {
	pending, ok := r.waiters[snap.ID]
	if !ok {
		return 0
	}
	delete(r.waiters, snap.ID)
	for _, c := range pending {
		c <- snap
	}
	return len(pending)
}

// Pending returns the number of waiters registered for id.
func (r *WaiterRegistry) Pending(id string) int {
	return len(r.waiters[id])
}

// Len returns the number of waiters over all ids.
func (r *WaiterRegistry) Len() int {
	n := 0
	for _, pending := range r.waiters {
		n += len(pending)
	}
	return n
}
