// Package server provides the HTTP server exposing a harness session.
//
// The server uses the Gin web framework and serves the inspection API under /api/v1.
// It is started by "xo-harness serve" next to a signed-in connection, so that scripts
// and other test runners can read the object cache, wait for an object state and
// trigger the cleanup of temporary resources without speaking JSON-RPC.
//
//	┌──────────────────────────────────────────┐
//	│               HTTP Server                │
//	├──────────────────────────────────────────┤
//	│  Middleware                              │
//	│    ginzap.Ginzap (request logging)       │
//	│    ginzap.RecoveryWithZap (panics)       │
//	├──────────────────────────────────────────┤
//	│  Router (/api/v1)                        │
//	│    handlers registered via callback      │
//	└──────────────────────────────────────────┘
//
// # Server Lifecycle
//
//	srv, err := server.NewServer(":8080", func(router *gin.RouterGroup) {
//	    handlers.RegisterHandlers(router, handlers.New(conn))
//	})
//
//	go srv.Start(ctx)
//	...
//	srv.Stop(shutdownCtx)
//
// NewServer binds the listener right away, so a port already in use is reported
// before Start. Stop performs a graceful shutdown; a pending wait request keeps the
// shutdown waiting until its own timeout or the shutdown context expires.
package server
