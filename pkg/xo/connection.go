package xo

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kubev2v/xo-harness/internal/models"
	"github.com/kubev2v/xo-harness/internal/services"
	"github.com/kubev2v/xo-harness/internal/store"
	srvErrors "github.com/kubev2v/xo-harness/pkg/errors"
)

// Transport is the RPC link to xo-server.
type Transport interface {
	Open(ctx context.Context) error
	Close() error
	Call(ctx context.Context, method string, params any) (json.RawMessage, error)
	Notifications() <-chan models.Notification
}

// Connection is a signed-in session on xo-server along with its object cache
// and the ledger of the temporary resources created through it.
//
// A connection is created once per suite (or per alternate user) and passed to
// every helper; it owns its store, nothing is shared between connections.
type Connection struct {
	transport    Transport
	store        *store.Store
	synchronizer *services.Synchronizer
	resources    *services.TempResources

	user     *models.User
	syncCtx  context.Context
	cancel   context.CancelFunc
	syncDone chan struct{}
	waits    sync.WaitGroup
	mu       sync.Mutex
}

func New(t Transport) *Connection {
	st := store.NewStore()
	c := &Connection{
		transport:    t,
		store:        st,
		synchronizer: services.NewSynchronizer(st),
	}
	c.resources = services.NewTempResources(c)
	return c
}

// Connect opens the transport, signs in and loads every object visible to the user.
// The transport is closed if any step fails.
func (c *Connection) Connect(ctx context.Context, creds models.Credentials) (err error) {
	if err := c.transport.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	syncCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.mu.Lock()
	c.syncCtx = syncCtx
	c.cancel = cancel
	c.syncDone = done
	c.mu.Unlock()

	go func() {
		defer close(done)
		c.synchronizer.Run(syncCtx, c.transport.Notifications())
	}()

	var user models.User
	if err := c.CallResult(ctx, "session.signIn", creds, &user); err != nil {
		return fmt.Errorf("failed to sign in as %s: %w", creds.Email, err)
	}
	c.mu.Lock()
	c.user = &user
	c.mu.Unlock()

	if err := c.fetchObjects(ctx); err != nil {
		return err
	}

	zap.S().Named("xo").Infow("connection ready", "user", creds.Email, "objects", c.store.Len())

	return nil
}

// Close ends the session, stops the synchronization and clears the object cache.
// Recorded temporary resources are not deleted.
//
// Waits started with WaitObjectStateAsync are canceled. Waits started with
// WaitObjectState, WaitObject or GetOrWaitObject are not: they end with their
// context only, so a wait on a context without deadline never returns once the
// connection is closed.
func (c *Connection) Close() error {
	c.mu.Lock()
	cancel, done := c.cancel, c.syncDone
	c.syncCtx, c.cancel, c.syncDone = nil, nil, nil
	c.mu.Unlock()

	err := c.transport.Close()
	if cancel != nil {
		cancel()
		<-done
	}
	c.waits.Wait()
	c.store.Clear()

	return err
}

// User returns the signed-in user, nil before Connect.
func (c *Connection) User() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Call invokes a remote method. Remote failures are returned unmodified.
func (c *Connection) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	return c.transport.Call(ctx, method, params)
}

// CallResult invokes a remote method and decodes its result into out.
func (c *Connection) CallResult(ctx context.Context, method string, params any, out any) error {
	raw, err := c.Call(ctx, method, params)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode result of %s: %w", method, err)
	}
	return nil
}

// Objects returns the object cache of the connection.
func (c *Connection) Objects() *store.Store {
	return c.store
}

// WaitObject blocks until the next change of id and returns the new state,
// nil if the object was removed.
func (c *Connection) WaitObject(ctx context.Context, id string) (models.Object, error) {
	snap, err := services.Await(ctx, c.store.Wait(id))
	if err != nil {
		return nil, err
	}
	return snap.Object, nil
}

// GetOrWaitObject returns the object if it is known, otherwise waits for its next change.
func (c *Connection) GetOrWaitObject(ctx context.Context, id string) (models.Object, error) {
	snap, err := services.Await(ctx, c.store.GetOrWait(id))
	if err != nil {
		return nil, err
	}
	return snap.Object, nil
}

// WaitObjectState blocks until predicate accepts the state of id or ctx is done.
func (c *Connection) WaitObjectState(ctx context.Context, id string, predicate services.Predicate) error {
	return services.WaitObjectState(ctx, c.store, id, predicate)
}

// WaitObjectStateAsync runs WaitObjectState in the background. The wait is
// registered before it returns, so no change made afterwards is missed. Stopping
// the returned future cancels the wait, as does Close.
func (c *Connection) WaitObjectStateAsync(id string, predicate services.Predicate) *models.Future[models.Result[any]] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.syncCtx == nil {
		return models.NewResolvedFuture(models.Result[any]{Err: srvErrors.NewNotConnectedError()})
	}

	watch := services.NewWatch(c.store, id, predicate)
	ctx, cancel := context.WithCancel(c.syncCtx)
	result := make(chan models.Result[any], 1)

	c.waits.Add(1)
	go func() {
		defer c.waits.Done()
		defer cancel()
		result <- models.Result[any]{Err: watch.Run(ctx)}
	}()

	return models.NewFuture(result, cancel)
}

// RecordTempResource registers a cleanup call run by DeleteTempResources.
func (c *Connection) RecordTempResource(method string, params map[string]any) {
	c.resources.Record(method, params)
}

// TempResources returns the number of recorded cleanup calls.
func (c *Connection) TempResources() int {
	return c.resources.Len()
}

// DeleteTempResources deletes the temporary resources, newest first. Failures are
// logged and skipped. It returns the number of failed deletions.
func (c *Connection) DeleteTempResources(ctx context.Context) int {
	return c.resources.Drain(ctx)
}

func (c *Connection) fetchObjects(ctx context.Context) error {
	var objects map[string]models.Object
	if err := c.CallResult(ctx, "xo.getAllObjects", nil, &objects); err != nil {
		return fmt.Errorf("failed to fetch objects: %w", err)
	}
	c.synchronizer.Bootstrap(objects)
	return nil
}
