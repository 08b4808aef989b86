package xo_test

import (
	"context"
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/xo-harness/internal/models"
	srvErrors "github.com/kubev2v/xo-harness/pkg/errors"
	"github.com/kubev2v/xo-harness/pkg/rpc"
	"github.com/kubev2v/xo-harness/pkg/xo"
	"github.com/kubev2v/xo-harness/test/fakexo"
)

var _ = Describe("Temporary resources", func() {
	var (
		srv    *fakexo.Server
		conn   *xo.Connection
		ctx    context.Context
		cancel context.CancelFunc
	)

	deletions := func() []string {
		var out []string
		for _, m := range srv.Methods() {
			switch m {
			case "user.delete", "job.delete", "backupNg.deleteJob", "vm.delete":
				out = append(out, m)
			}
		}
		return out
	}

	BeforeEach(func() {
		srv = fakexo.New(
			fakexo.WithUser(admin.Email, admin.Password, "admin"),
			fakexo.WithVMDelay(50*time.Millisecond),
		)
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		conn = dial(ctx, srv)
	})

	AfterEach(func() {
		cancel()
		_ = conn.Close()
		srv.Close()
	})

	It("should create a temporary user and find it", func() {
		id, err := conn.CreateTempUser(ctx, map[string]any{"email": "tmp@example.org", "password": "tmp"})
		Expect(err).ToNot(HaveOccurred())
		Expect(conn.TempResources()).To(Equal(1))

		user, err := conn.GetUser(ctx, id)
		Expect(err).ToNot(HaveOccurred())
		Expect(user.Email).To(Equal("tmp@example.org"))

		Expect(conn.DeleteTempResources(ctx)).To(BeZero())
		_, err = conn.GetUser(ctx, id)
		Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
	})

	It("should not record a resource whose creation failed", func() {
		_, err := conn.CreateTempUser(ctx, map[string]any{"email": "tmp@example.org"})
		Expect(rpc.IsCode(err, rpc.CodeInvalidParameters)).To(BeTrue())
		Expect(conn.TempResources()).To(BeZero())
	})

	It("should keep a user created without the ledger", func() {
		id, err := conn.CreateUser(ctx, map[string]any{"email": "kept@example.org", "password": "kept"})
		Expect(err).ToNot(HaveOccurred())
		Expect(conn.DeleteTempResources(ctx)).To(BeZero())

		_, err = conn.GetUser(ctx, id)
		Expect(err).ToNot(HaveOccurred())
	})

	It("should create a backup job and find its schedule", func() {
		job, err := conn.CreateTempBackupNgJob(ctx, map[string]any{
			"mode": "full",
			"vms":  map[string]any{"id": "vm-1"},
			"schedules": map[string]any{
				"tmp": map[string]any{"cron": "0 * * * * *", "timezone": "Europe/Paris"},
			},
			"settings": map[string]any{"tmp": map[string]any{"snapshotRetention": 1}},
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(job.ID()).ToNot(BeEmpty())
		Expect(job.String("userId")).To(Equal(conn.User().ID))

		schedule, err := conn.GetSchedule(ctx, func(s models.Object) bool { return s.String("jobId") == job.ID() })
		Expect(err).ToNot(HaveOccurred())
		Expect(schedule.String("cron")).To(Equal("0 * * * * *"))

		settings, _ := job["settings"].(map[string]any)
		Expect(settings).To(HaveKey(schedule.ID()))

		_, err = conn.GetSchedule(ctx, func(s models.Object) bool { return s.String("jobId") == "other" })
		Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
	})

	// Given a VM announced by the server some time after vm.create answered
	// When we create it as a temporary resource
	// Then the call returns once the object cache holds the VM
	It("should wait for a temporary VM to show up", func() {
		id, err := conn.CreateTempVM(ctx, map[string]any{"name_label": "e2e-vm"})
		Expect(err).ToNot(HaveOccurred())

		obj, found := conn.Objects().Get(id)
		Expect(found).To(BeTrue())
		Expect(obj.Type()).To(Equal("VM"))
		Expect(obj.String("name_label")).To(Equal("e2e-vm"))

		Expect(conn.DeleteTempResources(ctx)).To(BeZero())
		Eventually(func() bool {
			_, found := conn.Objects().Get(id)
			return found
		}).Should(BeFalse())
	})

	// Given resources created in order user, job, backup job and VM
	// When the job deletion fails
	// Then every deletion is attempted newest first and the failure is counted
	It("should delete in reverse order and go on after a failure", func() {
		_, err := conn.CreateTempUser(ctx, map[string]any{"email": "tmp@example.org", "password": "tmp"})
		Expect(err).ToNot(HaveOccurred())
		_, err = conn.CreateTempJob(ctx, map[string]any{"type": "call", "key": "e2e"})
		Expect(err).ToNot(HaveOccurred())
		_, err = conn.CreateTempBackupNgJob(ctx, map[string]any{"mode": "full"})
		Expect(err).ToNot(HaveOccurred())
		_, err = conn.CreateTempVM(ctx, map[string]any{"name_label": "e2e-vm"})
		Expect(err).ToNot(HaveOccurred())
		Expect(conn.TempResources()).To(Equal(4))

		srv.Fail("job.delete", rpc.NewError(rpc.CodeForbiddenOperation, "job is running", nil))

		Expect(conn.DeleteTempResources(ctx)).To(Equal(1))
		Expect(deletions()).To(Equal([]string{"vm.delete", "backupNg.deleteJob", "job.delete", "user.delete"}))
		Expect(conn.TempResources()).To(BeZero())

		Expect(conn.DeleteTempResources(ctx)).To(BeZero())
		Expect(deletions()).To(HaveLen(4))
	})

	It("should run custom cleanup calls", func() {
		srv.Handle("network.delete", func(*fakexo.Session, json.RawMessage) (any, error) {
			return true, nil
		})
		conn.RecordTempResource("network.delete", map[string]any{"id": "net-1"})

		Expect(conn.DeleteTempResources(ctx)).To(BeZero())

		calls := srv.Calls()
		last := calls[len(calls)-1]
		Expect(last.Method).To(Equal("network.delete"))
		Expect(string(last.Params)).To(MatchJSON(`{"id":"net-1"}`))
	})
})
