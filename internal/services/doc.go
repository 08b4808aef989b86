// Package services implements the object synchronization and resource teardown
// logic shared by every e2e test.
//
// # Architecture Overview
//
//	xo-server ──"all" notifications──► Synchronizer ──Set/Unset──► store.Store
//	                                                                   │
//	                                          resolves waiters ◄───────┘
//	                                                   │
//	test code ──► WaitObjectState(id, predicate) ◄─────┘
//	    │
//	    └── creates resources ──► TempResources.Record ──► Drain after each test (LIFO)
//
// # Synchronizer
//
// Synchronizer consumes the single notification stream of a connection and applies
// each batch to the store, strictly one batch after the other:
//
//	┌─────────────────────┬───────────────────────────────────────┐
//	│  params.type        │  Operation per item                   │
//	├─────────────────────┼───────────────────────────────────────┤
//	│  enter, update      │  Set(id, object)                      │
//	│  exit               │  Unset(id)                            │
//	└─────────────────────┴───────────────────────────────────────┘
//
// Waiters of an id are resolved right after that id is mutated, before the next
// item of the batch. Notifications whose method is not "all" are ignored.
// Bootstrap applies the xo.getAllObjects result the same way.
//
// # WaitObjectState
//
// WaitObjectState is a retry loop driven by object changes:
//
//	┌──────────┐  predicate ok   ┌──────┐
//	│ Evaluate │ ──────────────► │ Done │
//	└──────────┘                 └──────┘
//	   ▲    │ predicate error
//	   │    ▼
//	┌────────────┐
//	│ Await-Next │  WaitSince(id, last revision)
//	└────────────┘
//
// The first evaluation uses the current state, which may be absent (nil). When it
// succeeds no waiter is registered at all. There is no retry bound and no internal
// timeout; a predicate that can never pass blocks until ctx is done, in which case a
// WaitCanceledError carrying the last predicate error is returned.
//
// Usage:
//
//	err := services.WaitObjectState(ctx, st, vmID, services.HasType("VM"))
//
// NewWatch splits the loop: it evaluates and registers right away, and Run continues
// later, for waits that are started on another goroutine or queued.
//
// # TempResources
//
// TempResources is a stack of cleanup calls. Helpers record the matching delete call
// right after a successful create; Drain pops and runs them one at a time, newest
// first, because later resources often reference earlier ones (a job references a
// VM). A failing cleanup is logged with its method and params and the drain goes on.
//
//	ledger.Record("vm.delete", map[string]any{"id": vmID})
//	ledger.Record("job.delete", map[string]any{"id": jobID})
//	ledger.Drain(ctx) // job.delete, then vm.delete
//
// # Thread Safety
//
// Synchronizer relies on the store lock. TempResources guards its stack with a
// mutex; Drain takes the whole stack before running it, so entries recorded during a
// drain are kept for the next one.
package services
