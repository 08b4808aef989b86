package store_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/xo-harness/internal/models"
	"github.com/kubev2v/xo-harness/internal/store"
)

var _ = Describe("WaiterRegistry", func() {
	var r *store.WaiterRegistry

	BeforeEach(func() {
		r = store.NewWaiterRegistry()
	})

	It("should resolve all waiters of an id and forget them", func() {
		a := r.Add("x")
		b := r.Add("x")
		r.Add("y")

		Expect(r.Resolve(models.Snapshot{ID: "x", Revision: 1})).To(Equal(2))

		Expect(a).To(Receive())
		Expect(b).To(Receive())
		Expect(r.Pending("x")).To(BeZero())
		Expect(r.Len()).To(Equal(1))
	})

	It("should return 0 when nobody waits", func() {
		Expect(r.Resolve(models.Snapshot{ID: "x"})).To(BeZero())
	})

	It("should remove a single waiter", func() {
		a := r.Add("x")
		r.Add("x")

		Expect(r.Remove("x", a)).To(BeTrue())
		Expect(r.Remove("x", a)).To(BeFalse())
		Expect(r.Pending("x")).To(Equal(1))
	})

	It("should not remove a waiter that already fired", func() {
		a := r.Add("x")
		r.Resolve(models.Snapshot{ID: "x"})

		Expect(r.Remove("x", a)).To(BeFalse())
	})
})
