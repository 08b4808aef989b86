package store

import (
	"maps"

	"github.com/kubev2v/xo-harness/internal/models"
)

// ObjectStore holds the latest known state of every object pushed by the server.
//
// Every Set or Unset of an id is a touch: it moves the id to a new revision, even when
// Unset finds nothing to remove. Revisions are taken from a single counter, so they
// only grow for the lifetime of the store.
//
// ObjectStore is not safe for concurrent use; Store serialises access to it.
type ObjectStore struct {
	objects   map[string]models.Object
	revisions map[string]uint64
	revision  uint64
}

func NewObjectStore() *ObjectStore {
	return &ObjectStore{
		objects:   make(map[string]models.Object),
		revisions: make(map[string]uint64),
	}
}

// Set inserts or replaces the object stored under id.
func (s *ObjectStore) Set(id string, obj models.Object) models.Snapshot {
	s.objects[id] = obj
	return models.Snapshot{ID: id, Object: obj, Revision: s.touch(id)}
}

// Unset removes the object stored under id. It is a no-op if id is unknown.
func (s *ObjectStore) Unset(id string) models.Snapshot {
	delete(s.objects, id)
	return models.Snapshot{ID: id, Revision: s.touch(id), Removed: true}
}

// Get returns the object stored under id.
func (s *ObjectStore) Get(id string) (models.Object, bool) {
	obj, ok := s.objects[id]
	return obj, ok
}

// Snapshot returns the current state of id along with its revision.
// An id that was never touched has revision 0.
func (s *ObjectStore) Snapshot(id string) models.Snapshot {
	return models.Snapshot{
		ID:       id,
		Object:   s.objects[id],
		Revision: s.revisions[id],
	}
}

func (s *ObjectStore) Revision(id string) uint64 {
	return s.revisions[id]
}

// All returns a copy of the id to object mapping.
func (s *ObjectStore) All() map[string]models.Object {
	return maps.Clone(s.objects)
}

func (s *ObjectStore) Len() int {
	return len(s.objects)
}

// Clear drops every object. The revision counter is kept.
func (s *ObjectStore) Clear() {
	clear(s.objects)
	clear(s.revisions)
}

func (s *ObjectStore) touch(id string) uint64 {
	s.revision++
	s.revisions[id] = s.revision
	return s.revision
}
