package rpc_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/xo-harness/internal/models"
	srvErrors "github.com/kubev2v/xo-harness/pkg/errors"
	"github.com/kubev2v/xo-harness/pkg/rpc"
	"github.com/kubev2v/xo-harness/test/fakexo"
)

var _ = Describe("Client", func() {
	var (
		srv    *fakexo.Server
		client *rpc.Client
		ctx    context.Context
		cancel context.CancelFunc
	)

	signIn := func() {
		_, err := client.Call(ctx, "session.signIn", models.Credentials{Email: "admin@admin.net", Password: "admin"})
		Expect(err).ToNot(HaveOccurred())
	}

	BeforeEach(func() {
		srv = fakexo.New(fakexo.WithUser("admin@admin.net", "admin", "admin"))
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)

		var err error
		client, err = rpc.NewClient(srv.URL(), rpc.WithDialTimeout(2*time.Second))
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		cancel()
		_ = client.Close()
		srv.Close()
	})

	It("should map the server address to its API endpoint", func() {
		Expect(client.URL()).To(HavePrefix("ws://127.0.0.1:"))
		Expect(client.URL()).To(HaveSuffix("/api/"))
	})

	It("should refuse calls before Open", func() {
		_, err := client.Call(ctx, "session.signIn", nil)
		Expect(srvErrors.IsNotConnectedError(err)).To(BeTrue())
	})

	Context("when open", func() {
		BeforeEach(func() {
			Expect(client.Open(ctx)).To(Succeed())
		})

		It("should not open twice", func() {
			Expect(client.Open(ctx)).ToNot(Succeed())
		})

		// Given a valid account
		// When we sign in
		// Then the result is the signed-in user
		It("should return the result of a call", func() {
			raw, err := client.Call(ctx, "session.signIn", models.Credentials{Email: "admin@admin.net", Password: "admin"})
			Expect(err).ToNot(HaveOccurred())

			var user models.User
			Expect(json.Unmarshal(raw, &user)).To(Succeed())
			Expect(user.Email).To(Equal("admin@admin.net"))
			Expect(user.Permission).To(Equal("admin"))
		})

		It("should send empty params when none are given", func() {
			signIn()
			_, err := client.Call(ctx, "xo.getAllObjects", nil)
			Expect(err).ToNot(HaveOccurred())

			calls := srv.Calls()
			Expect(calls).To(HaveLen(2))
			Expect(string(calls[1].Params)).To(Equal("{}"))
		})

		It("should return remote failures as rpc errors", func() {
			_, err := client.Call(ctx, "session.signIn", models.Credentials{Email: "admin@admin.net", Password: "wrong"})
			Expect(rpc.IsInvalidCredentials(err)).To(BeTrue())

			var rpcErr *rpc.Error
			Expect(errors.As(err, &rpcErr)).To(BeTrue())
			Expect(rpcErr.Code).To(Equal(rpc.CodeInvalidCredentials))
		})

		It("should report unknown methods", func() {
			_, err := client.Call(ctx, "vm.explode", nil)
			Expect(rpc.IsCode(err, rpc.CodeMethodNotFound)).To(BeTrue())
		})

		It("should return injected failures", func() {
			signIn()
			srv.Fail("user.delete", rpc.NewError(rpc.CodeNoSuchObject, "no such object", map[string]any{"id": "u1"}))

			_, err := client.Call(ctx, "user.delete", map[string]any{"id": "u1"})
			Expect(rpc.IsNoSuchObject(err)).To(BeTrue())
		})

		It("should match concurrent responses to their calls", func() {
			signIn()
			ids := make(chan string, 8)
			for i := range 8 {
				go func() {
					defer GinkgoRecover()
					raw, err := client.Call(ctx, "user.create", map[string]any{"email": fmt.Sprintf("u%d@example.org", i), "password": "p"})
					Expect(err).ToNot(HaveOccurred())
					var id string
					Expect(json.Unmarshal(raw, &id)).To(Succeed())
					ids <- id
				}()
			}

			seen := map[string]struct{}{}
			for range 8 {
				var id string
				Eventually(ids).Should(Receive(&id))
				seen[id] = struct{}{}
			}
			Expect(seen).To(HaveLen(8))
		})

		// Given a signed-in session
		// When the server changes an object
		// Then the client delivers an "all" notification carrying the change
		It("should deliver server pushes as notifications", func() {
			signIn()
			srv.SetObject("vm-1", models.Object{"id": "vm-1", "type": "VM"})
			srv.SetObject("vm-1", models.Object{"id": "vm-1", "type": "VM", "power_state": "Running"})
			srv.RemoveObject("vm-1")

			var n models.Notification
			Eventually(client.Notifications()).Should(Receive(&n))
			Expect(n.Method).To(Equal(models.MethodAll))
			Expect(n.Params.Type).To(Equal(models.NotificationTypeEnter))
			Expect(n.Params.Items).To(HaveKey("vm-1"))

			Eventually(client.Notifications()).Should(Receive(&n))
			Expect(n.Params.Type).To(Equal(models.NotificationTypeUpdate))
			Expect(n.Params.Items["vm-1"].String("power_state")).To(Equal("Running"))

			Eventually(client.Notifications()).Should(Receive(&n))
			Expect(n.IsRemoval()).To(BeTrue())
		})

		It("should honor the context of a call", func() {
			signIn()
			release := make(chan struct{})
			defer close(release)
			srv.Handle("vm.start", func(*fakexo.Session, json.RawMessage) (any, error) {
				<-release
				return true, nil
			})

			callCtx, callCancel := context.WithTimeout(ctx, 50*time.Millisecond)
			defer callCancel()
			_, err := client.Call(callCtx, "vm.start", nil)
			Expect(err).To(MatchError(context.DeadlineExceeded))
		})

		// Given a call waiting for its response
		// When the client is closed
		// Then the call fails with ErrClosed and the notification channel is closed
		It("should fail pending calls on Close", func() {
			signIn()
			release := make(chan struct{})
			defer close(release)
			srv.Handle("vm.start", func(*fakexo.Session, json.RawMessage) (any, error) {
				<-release
				return true, nil
			})

			errs := make(chan error, 1)
			go func() {
				_, err := client.Call(ctx, "vm.start", nil)
				errs <- err
			}()
			Eventually(srv.Methods).Should(ContainElement("vm.start"))

			Expect(client.Close()).To(Succeed())

			var err error
			Eventually(errs).Should(Receive(&err))
			Expect(err).To(MatchError(rpc.ErrClosed))
			Eventually(client.Notifications()).Should(BeClosed())

			_, err = client.Call(ctx, "xo.getAllObjects", nil)
			Expect(srvErrors.IsNotConnectedError(err)).To(BeTrue())
		})

		It("should close the notifications when the server goes away", func() {
			signIn()
			srv.Close()

			Eventually(client.Notifications()).Should(BeClosed())
			_, err := client.Call(ctx, "xo.getAllObjects", nil)
			Expect(err).To(HaveOccurred())
		})
	})

	It("should give up dialing after the dial timeout", func() {
		unreachable, err := rpc.NewClient("127.0.0.1:1", rpc.WithDialTimeout(200*time.Millisecond))
		Expect(err).ToNot(HaveOccurred())

		Expect(unreachable.Open(ctx)).ToNot(Succeed())
		Eventually(unreachable.Notifications()).Should(BeClosed())
		Expect(unreachable.Close()).To(Succeed())
	})
})
