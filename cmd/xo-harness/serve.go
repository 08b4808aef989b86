package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kubev2v/xo-harness/internal/config"
	"github.com/kubev2v/xo-harness/internal/handlers"
	"github.com/kubev2v/xo-harness/internal/server"
	"github.com/kubev2v/xo-harness/pkg/xo"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(cfg *config.Configuration) *cobra.Command {
	var (
		listen  string
		cleanup bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Keep a session open and expose it over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := zap.S().Named("cli")

			conn, err := xo.Dial(ctx, cfg, credentials(cfg))
			if err != nil {
				return err
			}
			defer func() {
				if cleanup {
					conn.DeleteTempResources(context.Background())
				}
				if err := conn.Close(); err != nil {
					logger.Warnw("failed to close connection", "error", err)
				}
			}()

			srv, err := server.NewServer(listen, func(router *gin.RouterGroup) {
				handlers.RegisterHandlers(router, handlers.New(conn))
			})
			if err != nil {
				return err
			}

			errs := make(chan error, 1)
			go func() { errs <- srv.Start(ctx) }()

			select {
			case err := <-errs:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Stop(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:8080", "Address of the HTTP API")
	cmd.Flags().BoolVar(&cleanup, "cleanup", true, "Delete the temporary resources on exit")

	return cmd
}
