package services_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/xo-harness/internal/models"
	"github.com/kubev2v/xo-harness/internal/services"
	"github.com/kubev2v/xo-harness/internal/store"
)

func batch(t models.NotificationType, items map[string]models.Object) models.Notification {
	return models.Notification{
		Method: models.MethodAll,
		Params: models.NotificationParams{Type: t, Items: items},
	}
}

var _ = Describe("Synchronizer", func() {
	var (
		st           *store.Store
		synchronizer *services.Synchronizer
	)

	BeforeEach(func() {
		st = store.NewStore()
		synchronizer = services.NewSynchronizer(st)
	})

	Context("Apply", func() {
		It("should upsert every item of an enter batch", func() {
			n := synchronizer.Apply(batch(models.NotificationTypeEnter, map[string]models.Object{
				"a": {"type": "VM"},
				"b": {"type": "SR"},
			}))

			Expect(n).To(Equal(2))
			Expect(st.Len()).To(Equal(2))
			obj, ok := st.Get("b")
			Expect(ok).To(BeTrue())
			Expect(obj.Type()).To(Equal("SR"))
		})

		It("should replace objects on update batches", func() {
			synchronizer.Apply(batch(models.NotificationTypeEnter, map[string]models.Object{"a": {"power_state": "Halted"}}))
			synchronizer.Apply(batch(models.NotificationTypeUpdate, map[string]models.Object{"a": {"power_state": "Running"}}))

			obj, _ := st.Get("a")
			Expect(obj).To(Equal(models.Object{"power_state": "Running"}))
		})

		It("should remove every item of an exit batch", func() {
			synchronizer.Apply(batch(models.NotificationTypeEnter, map[string]models.Object{"a": {}, "b": {}}))
			synchronizer.Apply(batch(models.NotificationTypeExit, map[string]models.Object{"a": {}}))

			_, ok := st.Get("a")
			Expect(ok).To(BeFalse())
			Expect(st.Len()).To(Equal(1))
		})

		It("should ignore notifications of other methods", func() {
			n := synchronizer.Apply(models.Notification{
				Method: "task.update",
				Params: models.NotificationParams{Items: map[string]models.Object{"a": {}}},
			})

			Expect(n).To(BeZero())
			Expect(st.Len()).To(BeZero())
		})

		// Given a waiter on "a"
		// When a batch touching "a" is applied
		// Then the waiter resolves with the applied object
		It("should resolve waiters of touched ids", func() {
			future := st.Wait("a")

			synchronizer.Apply(batch(models.NotificationTypeEnter, map[string]models.Object{"a": {"n": 1}}))

			var snap models.Snapshot
			Expect(future.C()).To(Receive(&snap))
			Expect(snap.Object).To(Equal(models.Object{"n": 1}))
		})

		It("should resolve waiters with an absent object on removal", func() {
			synchronizer.Apply(batch(models.NotificationTypeEnter, map[string]models.Object{"a": {"n": 1}}))
			future := st.Wait("a")

			synchronizer.Apply(batch(models.NotificationTypeExit, map[string]models.Object{"a": {"n": 1}}))

			var snap models.Snapshot
			Expect(future.C()).To(Receive(&snap))
			Expect(snap.Removed).To(BeTrue())
			Expect(snap.Object).To(BeNil())
		})
	})

	Context("Bootstrap", func() {
		It("should load the snapshot and resolve pending waiters", func() {
			future := st.Wait("vm")

			n := synchronizer.Bootstrap(map[string]models.Object{"vm": {"type": "VM"}, "sr": {"type": "SR"}})

			Expect(n).To(Equal(2))
			Expect(st.Len()).To(Equal(2))
			Expect(future.C()).To(Receive())
		})
	})

	Context("Run", func() {
		It("should apply notifications in order until the channel is closed", func() {
			ch := make(chan models.Notification, 3)
			ch <- batch(models.NotificationTypeEnter, map[string]models.Object{"a": {"n": 1}})
			ch <- batch(models.NotificationTypeUpdate, map[string]models.Object{"a": {"n": 2}})
			ch <- batch(models.NotificationTypeEnter, map[string]models.Object{"b": {}})
			close(ch)

			done := make(chan struct{})
			go func() {
				synchronizer.Run(context.Background(), ch)
				close(done)
			}()

			Eventually(done, time.Second).Should(BeClosed())
			obj, _ := st.Get("a")
			Expect(obj).To(Equal(models.Object{"n": 2}))
			Expect(st.Len()).To(Equal(2))
		})

		It("should stop when the context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				synchronizer.Run(ctx, make(chan models.Notification))
				close(done)
			}()

			cancel()
			Eventually(done, time.Second).Should(BeClosed())
		})
	})
})
