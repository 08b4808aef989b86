package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kubev2v/xo-harness/internal/config"
	"github.com/kubev2v/xo-harness/internal/models"
	"github.com/kubev2v/xo-harness/internal/util"
	"github.com/kubev2v/xo-harness/pkg/rpc"
)

var eventColors = map[models.NotificationType]*color.Color{
	models.NotificationTypeEnter:  color.New(color.FgGreen),
	models.NotificationTypeUpdate: color.New(color.FgYellow),
	models.NotificationTypeExit:   color.New(color.FgRed),
}

func newWatchCommand(cfg *config.Configuration) *cobra.Command {
	var types []string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print object changes pushed by the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := rpc.NewClient(cfg.Server.URL,
				rpc.WithDialTimeout(cfg.Harness.DialTimeout),
				rpc.WithCallTimeout(cfg.Harness.CallTimeout),
			)
			if err != nil {
				return err
			}
			if err := client.Open(cmd.Context()); err != nil {
				return err
			}
			defer client.Close()

			if _, err := client.Call(cmd.Context(), "session.signIn", credentials(cfg)); err != nil {
				return fmt.Errorf("failed to sign in as %s: %w", cfg.Credentials.Email, err)
			}
			zap.S().Named("cli").Infow("watching object changes", "url", client.URL(), "types", types)

			out := cmd.OutOrStdout()
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case n, ok := <-client.Notifications():
					if !ok {
						return fmt.Errorf("connection to %s lost", cfg.Server.URL)
					}
					printNotification(out, n, types)
				}
			}
		},
	}

	cmd.Flags().StringSliceVar(&types, "type", nil, "Only print objects of these types")

	return cmd
}

func printNotification(out io.Writer, n models.Notification, types []string) {
	if n.Method != models.MethodAll {
		return
	}
	c, found := eventColors[n.Params.Type]
	if !found {
		c = color.New(color.Reset)
	}
	for id, obj := range n.Params.Items {
		if len(types) > 0 && !util.Contains(types, obj.Type()) {
			continue
		}
		c.Fprintf(out, "%-6s %s %s %s\n", n.Params.Type, obj.Type(), id, obj.String("name_label"))
	}
}
