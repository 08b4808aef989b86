package fakexo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/kubev2v/xo-harness/internal/models"
	"github.com/kubev2v/xo-harness/pkg/rpc"
)

type idParams struct {
	ID string `json:"id"`
}

// AddUser registers an account and returns its id.
func (s *Server) AddUser(email, password, permission string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(email, password, permission)
}

func (s *Server) addUserLocked(email, password, permission string) string {
	if permission == "" {
		permission = "none"
	}
	id := uuid.NewString()
	s.accounts[id] = &account{
		user:     models.User{ID: id, Email: email, Permission: permission, Preferences: map[string]any{}},
		password: password,
	}
	return id
}

func (s *Server) registerHandlers() {
	s.handlers = map[string]Handler{
		"session.signIn":     s.signIn,
		"xo.getAllObjects":   s.getAllObjects,
		"user.create":        s.createUser,
		"user.delete":        s.deleteUser,
		"user.getAll":        s.getAllUsers,
		"job.create":         s.createJob,
		"job.delete":         s.deleteJob,
		"backupNg.createJob": s.createBackupNgJob,
		"backupNg.getJob":    s.getBackupNgJob,
		"backupNg.deleteJob": s.deleteBackupNgJob,
		"schedule.get":       s.getSchedule,
		"schedule.getAll":    s.getAllSchedules,
		"vm.create":          s.createVM,
		"vm.delete":          s.deleteVM,
	}
}

func decode(params json.RawMessage, v any) error {
	if err := json.Unmarshal(params, v); err != nil {
		return rpc.NewError(rpc.CodeInvalidParameters, "invalid parameters", map[string]any{"error": err.Error()})
	}
	return nil
}

func noSuchObject(id, kind string) error {
	return rpc.NewError(rpc.CodeNoSuchObject, "no such object", map[string]any{"id": id, "type": kind})
}

func (s *Server) signIn(sess *Session, params json.RawMessage) (any, error) {
	var creds models.Credentials
	if err := decode(params, &creds); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.user.Email == creds.Email && acc.password == creds.Password {
			sess.signIn(acc.user)
			return acc.user, nil
		}
	}
	return nil, rpc.NewError(rpc.CodeInvalidCredentials, "invalid credentials", nil)
}

func (s *Server) getAllObjects(_ *Session, _ json.RawMessage) (any, error) {
	return s.Objects(), nil
}

func (s *Server) createUser(_ *Session, params json.RawMessage) (any, error) {
	var p struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		Permission string `json:"permission"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if p.Email == "" || p.Password == "" {
		return nil, rpc.NewError(rpc.CodeInvalidParameters, "invalid parameters", map[string]any{"errors": "email and password are required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.user.Email == p.Email {
			return nil, rpc.NewError(rpc.CodeInvalidParameters, "invalid parameters", map[string]any{"errors": "email already used: " + p.Email})
		}
	}
	return s.addUserLocked(p.Email, p.Password, p.Permission), nil
}

func (s *Server) deleteUser(_ *Session, params json.RawMessage) (any, error) {
	var p idParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[p.ID]; !ok {
		return nil, noSuchObject(p.ID, "user")
	}
	delete(s.accounts, p.ID)
	return true, nil
}

func (s *Server) getAllUsers(_ *Session, _ json.RawMessage) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]models.User, 0, len(s.accounts))
	for _, acc := range s.accounts {
		users = append(users, acc.user)
	}
	return users, nil
}

func (s *Server) createJob(_ *Session, params json.RawMessage) (any, error) {
	var p struct {
		Job map[string]any `json:"job"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if p.Job == nil {
		return nil, rpc.NewError(rpc.CodeInvalidParameters, "invalid parameters", map[string]any{"errors": "job is required"})
	}

	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	p.Job["id"] = id
	s.jobs[id] = p.Job
	return id, nil
}

func (s *Server) deleteJob(_ *Session, params json.RawMessage) (any, error) {
	var p idParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[p.ID]; !ok {
		return nil, noSuchObject(p.ID, "job")
	}
	delete(s.jobs, p.ID)
	return true, nil
}

// createBackupNgJob stores the job and its schedules. Settings keyed by a temporary
// schedule id are moved to the id of the created schedule.
func (s *Server) createBackupNgJob(sess *Session, params json.RawMessage) (any, error) {
	var p map[string]any
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	schedules, _ := p["schedules"].(map[string]any)
	delete(p, "schedules")
	settings, _ := p["settings"].(map[string]any)

	id := uuid.NewString()
	job := models.Object(p)
	job["id"] = id
	job["type"] = "backup"
	job["userId"] = sess.User().ID

	s.mu.Lock()
	defer s.mu.Unlock()
	for tmpID, raw := range schedules {
		schedule, _ := raw.(map[string]any)
		if schedule == nil {
			schedule = map[string]any{}
		}
		scheduleID := uuid.NewString()
		schedule["id"] = scheduleID
		schedule["jobId"] = id
		if _, ok := schedule["enabled"]; !ok {
			schedule["enabled"] = false
		}
		s.schedules[scheduleID] = schedule
		if setting, ok := settings[tmpID]; ok {
			settings[scheduleID] = setting
			delete(settings, tmpID)
		}
	}
	s.backups[id] = job
	return job, nil
}

func (s *Server) getBackupNgJob(_ *Session, params json.RawMessage) (any, error) {
	var p idParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.backups[p.ID]
	if !ok {
		return nil, noSuchObject(p.ID, "job")
	}
	return job, nil
}

func (s *Server) deleteBackupNgJob(_ *Session, params json.RawMessage) (any, error) {
	var p idParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.backups[p.ID]; !ok {
		return nil, noSuchObject(p.ID, "job")
	}
	delete(s.backups, p.ID)
	for id, schedule := range s.schedules {
		if schedule["jobId"] == p.ID {
			delete(s.schedules, id)
		}
	}
	return true, nil
}

func (s *Server) getSchedule(_ *Session, params json.RawMessage) (any, error) {
	var p idParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	schedule, ok := s.schedules[p.ID]
	if !ok {
		return nil, noSuchObject(p.ID, "schedule")
	}
	return schedule, nil
}

func (s *Server) getAllSchedules(_ *Session, _ json.RawMessage) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	schedules := make([]models.Object, 0, len(s.schedules))
	for _, schedule := range s.schedules {
		schedules = append(schedules, schedule)
	}
	return schedules, nil
}

// createVM answers with the new id and announces the VM object afterwards.
func (s *Server) createVM(_ *Session, params json.RawMessage) (any, error) {
	var p map[string]any
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	vm := models.Object{
		"id":          id,
		"type":        "VM",
		"power_state": "Halted",
		"name_label":  p["name_label"],
		"$VBDs":       []any{},
	}
	time.AfterFunc(s.vmDelay, func() {
		s.Push(models.NotificationTypeEnter, map[string]models.Object{id: vm})
	})
	return id, nil
}

func (s *Server) deleteVM(_ *Session, params json.RawMessage) (any, error) {
	var p idParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	s.mu.Lock()
	obj, ok := s.objects[p.ID]
	s.mu.Unlock()
	if !ok || obj.Type() != "VM" {
		return nil, noSuchObject(p.ID, "VM")
	}
	s.Push(models.NotificationTypeExit, map[string]models.Object{p.ID: obj})
	return true, nil
}
