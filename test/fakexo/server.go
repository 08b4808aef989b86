// Package fakexo is an in-process stand-in for xo-server used by the harness tests.
//
// It speaks JSON-RPC over a websocket on /api/, keeps users, jobs, backup jobs,
// schedules and objects in memory, and pushes "all" notifications to signed-in
// sessions whenever an object changes. Tests drive it directly with Push,
// RemoveObject and Fail, and inspect it with Calls.
package fakexo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/net/websocket"

	"github.com/kubev2v/xo-harness/internal/models"
	"github.com/kubev2v/xo-harness/pkg/rpc"
)

// Handler serves one remote method.
type Handler func(sess *Session, params json.RawMessage) (any, error)

// Call is a request received by the server.
type Call struct {
	Method string
	Params json.RawMessage
	User   string
}

type Option func(*Server)

// WithVMDelay delays the notification announcing a VM created by vm.create.
func WithVMDelay(d time.Duration) Option {
	return func(s *Server) {
		s.vmDelay = d
	}
}

// WithUser registers an account at startup.
func WithUser(email, password, permission string) Option {
	return func(s *Server) {
		s.AddUser(email, password, permission)
	}
}

type account struct {
	user     models.User
	password string
}

type Server struct {
	mu        sync.Mutex
	accounts  map[string]*account
	objects   map[string]models.Object
	jobs      map[string]map[string]any
	backups   map[string]models.Object
	schedules map[string]models.Object
	sessions  map[*Session]struct{}
	handlers  map[string]Handler
	failures  map[string]*rpc.Error
	calls     []Call
	vmDelay   time.Duration

	http *httptest.Server
}

// New starts a fake server listening on a local port.
func New(opts ...Option) *Server {
	s := &Server{
		accounts:  make(map[string]*account),
		objects:   make(map[string]models.Object),
		jobs:      make(map[string]map[string]any),
		backups:   make(map[string]models.Object),
		schedules: make(map[string]models.Object),
		sessions:  make(map[*Session]struct{}),
		failures:  make(map[string]*rpc.Error),
	}
	s.registerHandlers()
	for _, opt := range opts {
		opt(s)
	}

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(ginzap.Ginzap(zap.L(), time.RFC3339, true), ginzap.RecoveryWithZap(zap.L(), true))
	engine.GET("/api/", gin.WrapH(websocket.Server{Handler: s.serve}))
	engine.GET("/objects", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Objects())
	})

	s.http = httptest.NewServer(engine)
	return s
}

// URL returns the http address of the server; rpc.ParseURL maps it to the API websocket.
func (s *Server) URL() string {
	return s.http.URL
}

// Close disconnects every session and stops the server.
func (s *Server) Close() {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.conn.Close()
	}
	s.http.Close()
}

// Handle replaces or adds the handler of method.
func (s *Server) Handle(method string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = h
}

// Fail makes every following call to method return err. A nil err clears it.
func (s *Server) Fail(method string, err *rpc.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, method)
		return
	}
	s.failures[method] = err
}

// Calls returns the requests received so far, in order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Methods returns the methods of the calls received so far, in order.
func (s *Server) Methods() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	methods := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		methods = append(methods, c.Method)
	}
	return methods
}

// Sessions returns the number of open sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Objects returns a copy of the server objects.
func (s *Server) Objects() map[string]models.Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.Object, len(s.objects))
	for id, obj := range s.objects {
		out[id] = obj
	}
	return out
}

// Push applies a batch on the server objects and notifies every signed-in session.
func (s *Server) Push(t models.NotificationType, items map[string]models.Object) {
	s.mu.Lock()
	for id, obj := range items {
		if t == models.NotificationTypeExit {
			delete(s.objects, id)
		} else {
			s.objects[id] = obj
		}
	}
	sessions := s.signedInSessions()
	s.mu.Unlock()

	params, err := json.Marshal(models.NotificationParams{Type: t, Items: items})
	if err != nil {
		zap.S().Named("fakexo").Errorw("failed to encode notification", "error", err)
		return
	}
	msg := rpc.Message{JSONRPC: rpc.Version, Method: models.MethodAll, Params: params}
	for _, sess := range sessions {
		sess.send(msg)
	}
}

// SetObject creates or updates one object.
func (s *Server) SetObject(id string, obj models.Object) {
	t := models.NotificationTypeUpdate
	s.mu.Lock()
	if _, ok := s.objects[id]; !ok {
		t = models.NotificationTypeEnter
	}
	s.mu.Unlock()
	s.Push(t, map[string]models.Object{id: obj})
}

// RemoveObject deletes one object.
func (s *Server) RemoveObject(id string) {
	s.mu.Lock()
	obj, ok := s.objects[id]
	s.mu.Unlock()
	if !ok {
		return
	}
	s.Push(models.NotificationTypeExit, map[string]models.Object{id: obj})
}

func (s *Server) signedInSessions() []*Session {
	out := make([]*Session, 0, len(s.sessions))
	for sess := range s.sessions {
		if sess.User() != nil {
			out = append(out, sess)
		}
	}
	return out
}

// Session is one websocket client of the server.
type Session struct {
	conn   *websocket.Conn
	server *Server
	user   *models.User
	mu     sync.Mutex
}

// User returns the signed-in user of the session, nil before sign-in.
func (sess *Session) User() *models.User {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.user
}

func (sess *Session) signIn(u models.User) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.user = &u
}

func (sess *Session) send(msg rpc.Message) {
	if err := websocket.JSON.Send(sess.conn, msg); err != nil {
		zap.S().Named("fakexo").Debugw("failed to send message", "error", err)
	}
}

func (s *Server) serve(conn *websocket.Conn) {
	sess := &Session{conn: conn, server: s}

	s.mu.Lock()
	s.sessions[sess] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess)
		s.mu.Unlock()
		conn.Close()
	}()

	for {
		var req rpc.Message
		if err := websocket.JSON.Receive(conn, &req); err != nil {
			return
		}
		if req.Method == "" || len(req.ID) == 0 {
			continue
		}

		result, err := s.dispatch(sess, req)

		resp := rpc.Message{JSONRPC: rpc.Version, ID: req.ID}
		if err != nil {
			rpcErr, ok := err.(*rpc.Error)
			if !ok {
				rpcErr = rpc.NewError(rpc.CodeInternalError, err.Error(), nil)
			}
			resp.Error = rpcErr
		} else {
			raw, merr := json.Marshal(result)
			if merr != nil {
				resp.Error = rpc.NewError(rpc.CodeInternalError, merr.Error(), nil)
			} else {
				resp.Result = raw
			}
		}
		sess.send(resp)
	}
}

func (s *Server) dispatch(sess *Session, req rpc.Message) (any, error) {
	email := ""
	if u := sess.User(); u != nil {
		email = u.Email
	}

	s.mu.Lock()
	s.calls = append(s.calls, Call{Method: req.Method, Params: req.Params, User: email})
	failure := s.failures[req.Method]
	handler, found := s.handlers[req.Method]
	s.mu.Unlock()

	if failure != nil {
		return nil, failure
	}
	if !found {
		return nil, rpc.NewError(rpc.CodeMethodNotFound, "method not found: "+req.Method, nil)
	}
	if req.Method != "session.signIn" && sess.User() == nil {
		return nil, rpc.NewError(rpc.CodeUnauthorized, "not authenticated", nil)
	}

	return handler(sess, req.Params)
}
