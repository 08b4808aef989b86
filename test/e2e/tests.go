package main

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/kubev2v/xo-harness/internal/models"
	"github.com/kubev2v/xo-harness/internal/services"
	"github.com/kubev2v/xo-harness/internal/util"
	srvErrors "github.com/kubev2v/xo-harness/pkg/errors"
	"github.com/kubev2v/xo-harness/pkg/rpc"
	"github.com/kubev2v/xo-harness/pkg/xo"
)

const defaultTimeout = 5 * time.Minute

// connect dials the admin connection of a Ginkgo container and registers its teardown.
func connect() *xo.Connection {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Harness.DialTimeout)
	defer cancel()

	conn, err := xo.Dial(ctx, cfg, adminCredentials())
	Expect(err).ToNot(HaveOccurred())

	DeferCleanup(func() {
		if err := conn.Close(); err != nil {
			zap.S().Named("e2e").Warnw("failed to close connection", "error", err)
		}
	})
	return conn
}

var _ = Describe("user", Ordered, func() {
	var (
		conn *xo.Connection
		ctx  context.Context
	)

	BeforeAll(func() {
		conn = connect()
	})

	BeforeEach(func() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), defaultTimeout)
		DeferCleanup(cancel)
	})

	AfterEach(func() {
		Expect(conn.DeleteTempResources(context.Background())).To(BeZero())
	})

	DescribeTable("create",
		func(permission string) {
			creds := models.Credentials{Email: util.RandomName("e2e") + "@vates.fr", Password: "batman"}
			params := map[string]any{"email": creds.Email, "password": creds.Password}
			if permission != "" {
				params["permission"] = permission
			}

			id, err := conn.CreateTempUser(ctx, params)
			Expect(err).ToNot(HaveOccurred())

			user, err := conn.GetUser(ctx, id)
			Expect(err).ToNot(HaveOccurred())
			Expect(user.Email).To(Equal(creds.Email))
			if permission != "" {
				Expect(user.Permission).To(Equal(permission))
			}

			Expect(xo.TestConnection(ctx, cfg, creds)).To(Succeed())
		},
		Entry("a user without permission", ""),
		Entry("a user with permission", "user"),
	)

	DescribeTable("fail to create",
		func(params map[string]any) {
			_, err := conn.CreateTempUser(ctx, params)
			Expect(rpc.IsCode(err, rpc.CodeInvalidParameters)).To(BeTrue())
			Expect(conn.TempResources()).To(BeZero())
		},
		Entry("without email", map[string]any{"password": "batman"}),
		Entry("without password", map[string]any{"email": "wayne@vates.fr"}),
	)

	It("should fail to create a user with an email already used", func() {
		params := map[string]any{"email": util.RandomName("e2e") + "@vates.fr", "password": "batman"}
		_, err := conn.CreateTempUser(ctx, params)
		Expect(err).ToNot(HaveOccurred())

		_, err = conn.CreateTempUser(ctx, params)
		Expect(err).To(HaveOccurred())
	})

	// Given a user without permission
	// When it lists the users on its own connection
	// Then the call is refused
	It("should restrict user.getAll to admins", func() {
		creds := models.Credentials{Email: util.RandomName("e2e") + "@vates.fr", Password: "batman"}
		_, err := conn.CreateTempUser(ctx, map[string]any{"email": creds.Email, "password": creds.Password})
		Expect(err).ToNot(HaveOccurred())

		err = xo.WithOtherConnection(ctx, cfg, creds, func(other *xo.Connection) error {
			_, err := other.Call(ctx, "user.getAll", nil)
			return err
		})
		Expect(rpc.IsCode(err, rpc.CodeUnauthorized)).To(BeTrue())
	})

	It("should not find a deleted user", func() {
		id, err := conn.CreateTempUser(ctx, map[string]any{"email": util.RandomName("e2e") + "@vates.fr", "password": "batman"})
		Expect(err).ToNot(HaveOccurred())
		Expect(conn.DeleteTempResources(ctx)).To(BeZero())

		_, err = conn.GetUser(ctx, id)
		Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
	})
})

var _ = Describe("job", Ordered, func() {
	var conn *xo.Connection

	BeforeAll(func() {
		conn = connect()
	})

	AfterEach(func() {
		Expect(conn.DeleteTempResources(context.Background())).To(BeZero())
	})

	It("should create a job deleted with the temporary resources", func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()

		id, err := conn.CreateTempJob(ctx, map[string]any{
			"name":   util.RandomName("e2e-job"),
			"type":   "call",
			"key":    "snapshot",
			"method": "vm.snapshot",
			"paramsVector": map[string]any{
				"type":  "crossProduct",
				"items": []any{},
			},
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(id).ToNot(BeEmpty())
		Expect(conn.TempResources()).To(Equal(1))
	})
})

var _ = Describe("backupNg", Ordered, func() {
	var conn *xo.Connection

	BeforeAll(func() {
		conn = connect()
	})

	AfterEach(func() {
		Expect(conn.DeleteTempResources(context.Background())).To(BeZero())
	})

	// Given a backup job created with a schedule under a temporary id
	// When we read the job back
	// Then its settings are keyed by the created schedule, which points to the job
	It("should create a backup job with a schedule", func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()

		tmpID := util.RandomName("schedule")
		job, err := conn.CreateTempBackupNgJob(ctx, map[string]any{
			"name": util.RandomName("e2e-backup"),
			"mode": "full",
			"vms":  map[string]any{"id": vmTemplate},
			"schedules": map[string]any{
				tmpID: map[string]any{"name": "scheduleTest", "cron": "0 * * * * *"},
			},
			"settings": map[string]any{
				"":    map[string]any{"reportWhen": "never"},
				tmpID: map[string]any{"snapshotRetention": 1},
			},
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(job.String("userId")).To(Equal(conn.User().ID))

		var stored models.Object
		Expect(conn.CallResult(ctx, "backupNg.getJob", map[string]any{"id": job.ID()}, &stored)).To(Succeed())
		settings, _ := stored["settings"].(map[string]any)
		Expect(settings).To(HaveLen(2))

		schedule, err := conn.GetSchedule(ctx, func(s models.Object) bool { return s.String("jobId") == job.ID() })
		Expect(err).ToNot(HaveOccurred())
		Expect(settings).To(HaveKey(schedule.ID()))
		Expect(schedule.String("cron")).To(Equal("0 * * * * *"))
	})

	It("should report a missing backup job", func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()

		_, err := conn.Call(ctx, "backupNg.getJob", map[string]any{"id": util.RandomName("missing")})
		Expect(rpc.IsNoSuchObject(err)).To(BeTrue())
	})
})

var _ = Describe("vm", Ordered, func() {
	var conn *xo.Connection

	BeforeAll(func() {
		if vmTemplate == "" {
			Skip("no VM template given")
		}
		conn = connect()
	})

	AfterEach(func() {
		if conn != nil {
			Expect(conn.DeleteTempResources(context.Background())).To(BeZero())
		}
	})

	// Given a VM created from the template
	// When it is started
	// Then the object cache sees it running, and it disappears once deleted
	It("should follow a VM through its lifecycle", func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()

		name := util.RandomName("e2e-vm")
		id, err := conn.CreateTempVM(ctx, map[string]any{
			"name_label": name,
			"template":   vmTemplate,
			"VIFs":       []any{},
		})
		Expect(err).ToNot(HaveOccurred())

		vm, found := conn.Objects().Get(id)
		Expect(found).To(BeTrue())
		Expect(vm.String("name_label")).To(Equal(name))

		_, err = conn.Call(ctx, "vm.start", map[string]any{"id": id})
		Expect(err).ToNot(HaveOccurred())
		Expect(conn.WaitObjectState(ctx, id, services.PropertyEquals("power_state", "Running"))).To(Succeed())

		Expect(conn.DeleteTempResources(ctx)).To(BeZero())
		Expect(conn.WaitObjectState(ctx, id, services.IsAbsent())).To(Succeed())
	})

	It("should clone a VM", func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()

		id, err := conn.CreateTempVM(ctx, map[string]any{
			"name_label": util.RandomName("e2e-vm"),
			"template":   vmTemplate,
		})
		Expect(err).ToNot(HaveOccurred())

		var cloneID string
		Expect(conn.CallResult(ctx, "vm.clone", map[string]any{"id": id, "name": util.RandomName("e2e-clone"), "full_copy": false}, &cloneID)).To(Succeed())
		conn.RecordTempResource("vm.delete", map[string]any{"id": cloneID})

		clone, err := conn.GetOrWaitObject(ctx, cloneID)
		Expect(err).ToNot(HaveOccurred())
		vm, _ := conn.Objects().Get(id)

		Expect(util.AlmostEqual(clone, vm,
			"id", "uuid", "name_label", "$VBDs", "VIFs", "current_operations",
			"other.mac_seed", "$ref", "$id", "$poolId",
		)).To(BeTrue())
	})
})
