package xo

import (
	"context"

	"go.uber.org/zap"

	"github.com/kubev2v/xo-harness/internal/config"
	"github.com/kubev2v/xo-harness/internal/models"
	"github.com/kubev2v/xo-harness/pkg/rpc"
)

// Dial connects to the server of cfg and signs in with creds.
func Dial(ctx context.Context, cfg *config.Configuration, creds models.Credentials) (*Connection, error) {
	client, err := rpc.NewClient(cfg.Server.URL,
		rpc.WithDialTimeout(cfg.Harness.DialTimeout),
		rpc.WithCallTimeout(cfg.Harness.CallTimeout),
	)
	if err != nil {
		return nil, err
	}

	conn := New(client)
	if err := conn.Connect(ctx, creds); err != nil {
		return nil, err
	}
	return conn, nil
}

// TestConnection checks that creds can sign in, then closes the connection.
func TestConnection(ctx context.Context, cfg *config.Configuration, creds models.Credentials) error {
	conn, err := Dial(ctx, cfg, creds)
	if err != nil {
		return err
	}
	return conn.Close()
}

// WithOtherConnection runs fn on a dedicated connection signed in with creds.
// The connection is closed whatever fn returns.
func WithOtherConnection(ctx context.Context, cfg *config.Configuration, creds models.Credentials, fn func(*Connection) error) error {
	conn, err := Dial(ctx, cfg, creds)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			zap.S().Named("xo").Warnw("failed to close connection", "user", creds.Email, "error", err)
		}
	}()
	return fn(conn)
}
