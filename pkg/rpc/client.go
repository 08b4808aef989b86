package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"golang.org/x/net/websocket"

	"github.com/kubev2v/xo-harness/internal/models"
	srvErrors "github.com/kubev2v/xo-harness/pkg/errors"
)

const (
	defaultDialTimeout        = 30 * time.Second
	defaultNotificationBuffer = 256
)

var ErrClosed = errors.New("rpc: connection closed")

type Option func(*Client)

// WithDialTimeout bounds the time spent retrying the initial dial.
func WithDialTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.dialTimeout = d
	}
}

// WithCallTimeout applies a timeout to calls made with a context without deadline.
func WithCallTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.callTimeout = d
	}
}

func WithNotificationBuffer(size int) Option {
	return func(c *Client) {
		c.notifications = make(chan models.Notification, size)
	}
}

// Client is a JSON-RPC 2.0 client over a websocket, the transport of the xo-server API.
//
// Responses are matched to calls by id. Server pushes are decoded and delivered on
// Notifications in arrival order; the channel must be drained, a full buffer stalls
// the read loop and therefore every pending call.
type Client struct {
	url         string
	origin      string
	dialTimeout time.Duration
	callTimeout time.Duration

	conn    *websocket.Conn
	nextID  atomic.Uint64
	pending map[uint64]chan Message
	opened  bool
	closed  bool
	mu      sync.Mutex

	notifications chan models.Notification
	closing       chan struct{}
	done          chan struct{}
	closeOnce     sync.Once
	err           error
}

func NewClient(address string, opts ...Option) (*Client, error) {
	u, err := ParseURL(address)
	if err != nil {
		return nil, err
	}

	c := &Client{
		url:           u.String(),
		origin:        originOf(u),
		dialTimeout:   defaultDialTimeout,
		pending:       make(map[uint64]chan Message),
		notifications: make(chan models.Notification, defaultNotificationBuffer),
		closing:       make(chan struct{}),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Client) URL() string {
	return c.url
}

// Open dials the server, retrying with exponential backoff until the dial timeout.
// A client can only be opened once.
func (c *Client) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.opened || c.closed {
		c.mu.Unlock()
		return fmt.Errorf("rpc: client already used")
	}
	c.opened = true
	c.mu.Unlock()

	cfg, err := websocket.NewConfig(c.url, c.origin)
	if err != nil {
		return fmt.Errorf("failed to configure websocket: %w", err)
	}

	logger := zap.S().Named("rpc")

	conn, err := backoff.Retry(ctx, func() (*websocket.Conn, error) {
		return cfg.DialContext(ctx)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(c.dialTimeout),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Debugw("dial failed, retrying", "url", c.url, "error", err, "next", next)
		}),
	)
	if err != nil {
		close(c.done)
		close(c.notifications)
		return fmt.Errorf("failed to connect to %s: %w", c.url, err)
	}

	c.mu.Lock()
	c.conn = conn
	closed := c.closed
	c.mu.Unlock()

	if closed {
		// Close ran while dialing; the read loop ends on the closed conn.
		conn.Close()
	} else {
		logger.Infow("connected", "url", c.url)
	}

	go c.readLoop(conn)

	return nil
}

// Close closes the connection. Pending calls fail with ErrClosed and the
// notification channel is closed. Close is idempotent.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		conn := c.conn
		opened := c.opened
		c.mu.Unlock()

		close(c.closing)
		if conn != nil {
			err = conn.Close()
		}
		if opened {
			<-c.done
		}
	})
	return err
}

// Notifications returns the stream of server pushes.
func (c *Client) Notifications() <-chan models.Notification {
	return c.notifications
}

// Call invokes method with params and returns the raw result.
// A remote failure is returned as *Error.
func (c *Client) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	if c.callTimeout > 0 {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
			defer cancel()
		}
	}

	if params == nil {
		params = struct{}{}
	}
	rawParams, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode params of %s: %w", method, err)
	}

	id := c.nextID.Add(1)
	resp := make(chan Message, 1)

	c.mu.Lock()
	if c.conn == nil || c.closed {
		c.mu.Unlock()
		return nil, srvErrors.NewNotConnectedError()
	}
	conn := c.conn
	c.pending[id] = resp
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	req := Message{
		JSONRPC: Version,
		ID:      formatID(id),
		Method:  method,
		Params:  rawParams,
	}
	if err := websocket.JSON.Send(conn, req); err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", method, err)
	}

	zap.S().Named("rpc").Debugw("call", "id", id, "method", method)

	select {
	case msg := <-resp:
		if msg.Error != nil {
			return nil, msg.Error
		}
		return msg.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		select {
		case msg := <-resp:
			if msg.Error != nil {
				return nil, msg.Error
			}
			return msg.Result, nil
		default:
		}
		return nil, c.closeErr()
	}
}

func (c *Client) readLoop(conn *websocket.Conn) {
	logger := zap.S().Named("rpc")

	var readErr error
	defer func() {
		c.mu.Lock()
		c.closed = true
		if readErr != nil {
			c.err = readErr
		}
		c.mu.Unlock()

		close(c.notifications)
		close(c.done)
	}()

	for {
		var msg Message
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			select {
			case <-c.closing:
			default:
				readErr = err
				logger.Warnw("connection lost", "url", c.url, "error", err)
			}
			return
		}

		switch {
		case msg.IsNotification():
			var params models.NotificationParams
			if err := json.Unmarshal(msg.Params, &params); err != nil {
				logger.Warnw("failed to decode notification", "method", msg.Method, "error", err)
				continue
			}
			select {
			case c.notifications <- models.Notification{Method: msg.Method, Params: params}:
			case <-c.closing:
				return
			}
		case msg.IsResponse():
			id, ok := parseID(msg.ID)
			if !ok {
				logger.Warnw("response with unexpected id", "id", string(msg.ID))
				continue
			}
			c.mu.Lock()
			resp, found := c.pending[id]
			c.mu.Unlock()
			if found {
				resp <- msg
			}
		default:
			logger.Debugw("ignoring server request", "method", msg.Method)
		}
	}
}

func (c *Client) closeErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return fmt.Errorf("%w: %v", ErrClosed, c.err)
	}
	return ErrClosed
}
