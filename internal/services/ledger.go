package services

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/kubev2v/xo-harness/internal/models"
)

// Caller invokes a remote method by name.
type Caller interface {
	Call(ctx context.Context, method string, params any) (json.RawMessage, error)
}

// TempResources records the cleanup calls of resources created during a test and
// runs them in reverse order of creation.
type TempResources struct {
	caller    Caller
	disposers []models.Disposer
	mu        sync.Mutex
}

func NewTempResources(caller Caller) *TempResources {
	return &TempResources{caller: caller}
}

// Record pushes a cleanup call on the stack.
func (t *TempResources) Record(method string, params map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disposers = append(t.disposers, models.Disposer{Method: method, Params: params})
}

func (t *TempResources) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.disposers)
}

// Drain runs every recorded cleanup call, last recorded first, one at a time.
// A failing call is logged and does not stop the others. The stack is empty
// afterwards. Drain returns the number of failed calls.
func (t *TempResources) Drain(ctx context.Context) int {
	t.mu.Lock()
	disposers := t.disposers
	t.disposers = nil
	t.mu.Unlock()

	logger := zap.S().Named("ledger")

	failed := 0
	for i := len(disposers) - 1; i >= 0; i-- {
		d := disposers[i]
		if _, err := t.caller.Call(ctx, d.Method, d.Params); err != nil {
			failed++
			logger.Warnw("failed to delete temporary resource", "method", d.Method, "params", d.Params, "error", err)
			continue
		}
		logger.Debugw("temporary resource deleted", "method", d.Method, "params", d.Params)
	}

	return failed
}
