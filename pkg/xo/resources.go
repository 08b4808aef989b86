package xo

import (
	"context"
	"fmt"

	"github.com/kubev2v/xo-harness/internal/models"
	"github.com/kubev2v/xo-harness/internal/services"
	srvErrors "github.com/kubev2v/xo-harness/pkg/errors"
)

// CreateUser creates a user that is not deleted after the test.
func (c *Connection) CreateUser(ctx context.Context, params map[string]any) (string, error) {
	var id string
	if err := c.CallResult(ctx, "user.create", params, &id); err != nil {
		return "", err
	}
	return id, nil
}

// CreateTempUser creates a user deleted by DeleteTempResources.
func (c *Connection) CreateTempUser(ctx context.Context, params map[string]any) (string, error) {
	id, err := c.CreateUser(ctx, params)
	if err != nil {
		return "", err
	}
	c.RecordTempResource("user.delete", map[string]any{"id": id})
	return id, nil
}

// GetUser returns the user with the given id from user.getAll.
func (c *Connection) GetUser(ctx context.Context, id string) (*models.User, error) {
	var users []models.User
	if err := c.CallResult(ctx, "user.getAll", nil, &users); err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, srvErrors.NewUserNotFoundError(id)
}

// CreateTempJob creates a job deleted by DeleteTempResources.
func (c *Connection) CreateTempJob(ctx context.Context, job map[string]any) (string, error) {
	var id string
	if err := c.CallResult(ctx, "job.create", map[string]any{"job": job}, &id); err != nil {
		return "", err
	}
	c.RecordTempResource("job.delete", map[string]any{"id": id})
	return id, nil
}

// CreateTempBackupNgJob creates a backup job deleted by DeleteTempResources.
func (c *Connection) CreateTempBackupNgJob(ctx context.Context, params map[string]any) (models.Object, error) {
	var job models.Object
	if err := c.CallResult(ctx, "backupNg.createJob", params, &job); err != nil {
		return nil, err
	}
	if job.ID() == "" {
		return nil, fmt.Errorf("backupNg.createJob returned a job without id")
	}
	c.RecordTempResource("backupNg.deleteJob", map[string]any{"id": job.ID()})
	return job, nil
}

// CreateTempVM creates a VM deleted by DeleteTempResources and waits until the
// object cache holds it as a VM.
func (c *Connection) CreateTempVM(ctx context.Context, params map[string]any) (string, error) {
	var id string
	if err := c.CallResult(ctx, "vm.create", params, &id); err != nil {
		return "", err
	}
	c.RecordTempResource("vm.delete", map[string]any{"id": id})

	if err := c.WaitObjectState(ctx, id, services.HasType("VM")); err != nil {
		return id, err
	}
	return id, nil
}

// GetSchedule returns the first schedule accepted by match.
func (c *Connection) GetSchedule(ctx context.Context, match func(models.Object) bool) (models.Object, error) {
	var schedules []models.Object
	if err := c.CallResult(ctx, "schedule.getAll", nil, &schedules); err != nil {
		return nil, err
	}
	for _, s := range schedules {
		if match(s) {
			return s, nil
		}
	}
	return nil, srvErrors.NewScheduleNotFoundError()
}
