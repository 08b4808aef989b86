// Package store implements the in-memory object cache of an xo connection.
//
// The cache mirrors the objects the server pushes over the "all" notification
// channel. It is created empty when a connection opens, primed by the
// xo.getAllObjects snapshot, kept current by incremental notifications and
// cleared when the connection closes. Nothing is persisted.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     Store (facade, one mutex)                   │
//	├────────────────────────────────┬────────────────────────────────┤
//	│          ObjectStore           │        WaiterRegistry          │
//	│   id ──► latest Object         │   id ──► [chan] [chan] ...     │
//	│   id ──► revision              │   (one-shot, resolved together)│
//	└────────────────────────────────┴────────────────────────────────┘
//
// # Revisions
//
// Every Set or Unset of an id moves it to a new revision taken from a single
// monotonic counter. A caller that evaluated the state of an id at revision R
// can ask for "the first change after R" with WaitSince: if the id moved in the
// meantime the returned future is already resolved, so no change can fall
// between reading the state and registering the waiter.
//
// # Waiters
//
// A waiter is a buffered channel of size 1 wrapped in a models.Future:
//
//	future := st.GetOrWait("vm-uuid")
//	defer future.Stop()
//
//	select {
//	case snap := <-future.C():
//	    // snap.Object is nil when the object was removed
//	case <-ctx.Done():
//	}
//
// All waiters registered for an id are resolved by the next Set or Unset of
// that id, with the snapshot that mutation produced, inside the same critical
// section as the mutation. Stop unregisters a waiter that has not fired yet.
//
// # Thread Safety
//
// ObjectStore and WaiterRegistry are plain data structures. Store takes its
// mutex on every method; resolution never blocks because each waiter channel
// has room for exactly the one value it will ever receive.
package store
