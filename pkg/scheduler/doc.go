// Package scheduler implements a worker pool for executing async work with futures.
//
// The wait command uses it to evaluate several objects on a bounded pool: each
// submitted Work gets its own context, derived from the scheduler context, and the
// returned models.Future delivers exactly one models.Result.
//
//	┌───────────────────────────────────────────────────────┐
//	│                      Scheduler                        │
//	│   AddWork(fn) ──► work queue ──► dispatch() ──► N     │
//	│                                              workers  │
//	└───────────────────────────────────────────────────────┘
//
// Cancellation hierarchy:
//   - future.Stop() cancels the context of a single work
//   - scheduler.Close() cancels every work, fails the queued ones with
//     context.Canceled and waits for the running ones to return
//
// Works beyond the number of workers are queued, so a pool of N workers runs at
// most N long waits at a time. A queued wait must be registered before it is
// submitted (services.NewWatch) or it misses the changes made while it queues.
//
// Usage:
//
//	sched := scheduler.NewScheduler(4)
//	defer sched.Close()
//
//	watch := services.NewWatch(st, id, services.HasType("VM"))
//	defer watch.Stop()
//	future := sched.AddWork(func(ctx context.Context) (any, error) {
//	    return nil, watch.Run(ctx)
//	})
//	result := <-future.C()
//
// Workers recover from panics and report them as an error result.
package scheduler
