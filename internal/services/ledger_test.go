package services_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/xo-harness/internal/services"
)

var _ = Describe("TempResources", func() {
	var (
		ctx    context.Context
		caller *fakeCaller
		ledger *services.TempResources
	)

	BeforeEach(func() {
		ctx = context.Background()
		caller = newFakeCaller()
		ledger = services.NewTempResources(caller)
	})

	Context("Drain", func() {
		// Given three recorded cleanup calls
		// When we drain the ledger
		// Then they run last recorded first
		It("should run cleanup calls in reverse order of creation", func() {
			ledger.Record("op1", map[string]any{"id": "p1"})
			ledger.Record("op2", map[string]any{"id": "p2"})
			ledger.Record("op3", map[string]any{"id": "p3"})

			failed := ledger.Drain(ctx)

			Expect(failed).To(BeZero())
			Expect(caller.Calls()).To(Equal([]call{
				{Method: "op3", Params: map[string]any{"id": "p3"}},
				{Method: "op2", Params: map[string]any{"id": "p2"}},
				{Method: "op1", Params: map[string]any{"id": "p1"}},
			}))
			Expect(ledger.Len()).To(BeZero())
		})

		// Given three recorded calls where the second one fails
		// When we drain the ledger
		// Then every call is still attempted and the ledger ends empty
		It("should isolate a failing cleanup call", func() {
			caller.Fail("op2")
			ledger.Record("op1", map[string]any{"id": "p1"})
			ledger.Record("op2", map[string]any{"id": "p2"})
			ledger.Record("op3", map[string]any{"id": "p3"})

			failed := ledger.Drain(ctx)

			Expect(failed).To(Equal(1))
			methods := []string{}
			for _, c := range caller.Calls() {
				methods = append(methods, c.Method)
			}
			Expect(methods).To(Equal([]string{"op3", "op2", "op1"}))
			Expect(ledger.Len()).To(BeZero())
		})

		It("should perform no call when drained twice", func() {
			ledger.Record("user.delete", map[string]any{"id": "u1"})
			ledger.Drain(ctx)
			caller.Reset()

			Expect(ledger.Drain(ctx)).To(BeZero())
			Expect(caller.Calls()).To(BeEmpty())
		})

		It("should be a no-op on an empty ledger", func() {
			ledger.Drain(ctx)
			Expect(caller.Calls()).To(BeEmpty())
		})
	})

	Context("Record", func() {
		It("should keep entries recorded after a drain for the next one", func() {
			ledger.Record("op1", nil)
			ledger.Drain(ctx)
			ledger.Record("op2", nil)

			Expect(ledger.Len()).To(Equal(1))
		})
	})
})
