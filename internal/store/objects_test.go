package store_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/xo-harness/internal/models"
	"github.com/kubev2v/xo-harness/internal/store"
)

var _ = Describe("ObjectStore", func() {
	var s *store.ObjectStore

	BeforeEach(func() {
		s = store.NewObjectStore()
	})

	Context("Set", func() {
		// Given an empty store
		// When we set two distinct ids
		// Then both are retrievable and the size is 2
		It("should insert objects under distinct ids", func() {
			s.Set("a", models.Object{"type": "VM"})
			s.Set("b", models.Object{"type": "VBD"})

			Expect(s.Len()).To(Equal(2))
			obj, ok := s.Get("a")
			Expect(ok).To(BeTrue())
			Expect(obj.Type()).To(Equal("VM"))
		})

		// Given an id already stored
		// When we set it again
		// Then the last write wins and the size does not change
		It("should replace an existing object", func() {
			s.Set("a", models.Object{"state": "pending"})
			s.Set("a", models.Object{"state": "ready"})

			Expect(s.Len()).To(Equal(1))
			obj, _ := s.Get("a")
			Expect(obj).To(Equal(models.Object{"state": "ready"}))
		})

		It("should move the id to a newer revision on every write", func() {
			first := s.Set("a", models.Object{})
			second := s.Set("a", models.Object{})

			Expect(second.Revision).To(BeNumerically(">", first.Revision))
			Expect(s.Revision("a")).To(Equal(second.Revision))
		})
	})

	Context("Unset", func() {
		It("should remove a stored object", func() {
			s.Set("a", models.Object{})

			snap := s.Unset("a")

			Expect(snap.Removed).To(BeTrue())
			Expect(snap.Object).To(BeNil())
			_, ok := s.Get("a")
			Expect(ok).To(BeFalse())
			Expect(s.Len()).To(BeZero())
		})

		// Given an empty store
		// When we unset an unknown id
		// Then nothing is removed but the id is still touched
		It("should be a no-op for unknown ids", func() {
			snap := s.Unset("missing")

			Expect(s.Len()).To(BeZero())
			Expect(snap.Revision).To(BeNumerically(">", 0))
		})
	})

	Context("Get", func() {
		It("should report absent ids", func() {
			obj, ok := s.Get("missing")
			Expect(ok).To(BeFalse())
			Expect(obj).To(BeNil())
		})

		It("should report revision 0 for ids never touched", func() {
			snap := s.Snapshot("missing")
			Expect(snap.Revision).To(BeZero())
			Expect(snap.Present()).To(BeFalse())
		})
	})

	Context("All", func() {
		It("should return a copy of the mapping", func() {
			s.Set("a", models.Object{"n": 1})

			all := s.All()
			delete(all, "a")

			Expect(s.Len()).To(Equal(1))
		})
	})

	Context("Clear", func() {
		It("should drop every object and keep revisions growing", func() {
			before := s.Set("a", models.Object{})
			s.Clear()

			Expect(s.Len()).To(BeZero())
			Expect(s.Revision("a")).To(BeZero())
			after := s.Set("a", models.Object{})
			Expect(after.Revision).To(BeNumerically(">", before.Revision))
		})
	})
})
