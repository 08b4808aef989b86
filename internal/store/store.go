package store

import (
	"sync"

	"github.com/kubev2v/xo-harness/internal/models"
)

// Store is the object cache of a single connection.
// It combines the ObjectStore and the WaiterRegistry under one lock so that
// a mutation and the resolution of the waiters of the mutated id are atomic.
type Store struct {
	mu      sync.Mutex
	objects *ObjectStore
	waiters *WaiterRegistry
}

func NewStore() *Store {
	return &Store{
		objects: NewObjectStore(),
		waiters: NewWaiterRegistry(),
	}
}

// Set stores obj under id and resolves the waiters of id with it.
func (s *Store) Set(id string, obj models.Object) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiters.Resolve(s.objects.Set(id, obj))
}

// Unset removes id and resolves the waiters of id with an absent snapshot.
func (s *Store) Unset(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiters.Resolve(s.objects.Unset(id))
}

func (s *Store) Get(id string) (models.Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects.Get(id)
}

func (s *Store) Snapshot(id string) models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects.Snapshot(id)
}

func (s *Store) All() map[string]models.Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects.All()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects.Len()
}

// Wait returns a future resolved by the next change of id.
func (s *Store) Wait(id string) *models.Future[models.Snapshot] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.register(id)
}

// WaitSince returns a future resolved by the first change of id after revision.
// If id already changed after revision, the future holds its current state.
func (s *Store) WaitSince(id string, revision uint64) *models.Future[models.Snapshot] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap := s.objects.Snapshot(id); snap.Revision > revision {
		snap.Removed = snap.Object == nil
		return models.NewResolvedFuture(snap)
	}
	return s.register(id)
}

// GetOrWait returns the current state of id if present, otherwise waits for its next change.
func (s *Store) GetOrWait(id string) *models.Future[models.Snapshot] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap := s.objects.Snapshot(id); snap.Present() {
		return models.NewResolvedFuture(snap)
	}
	return s.register(id)
}

// Waiting returns the number of pending waiters for id.
func (s *Store) Waiting(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiters.Pending(id)
}

// Clear drops all objects. Pending waiters stay registered.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects.Clear()
}

func (s *Store) register(id string) *models.Future[models.Snapshot] {
	c := s.waiters.Add(id)
	return models.NewFuture(c, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.waiters.Remove(id, c)
	})
}
