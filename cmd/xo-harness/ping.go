package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubev2v/xo-harness/internal/config"
	"github.com/kubev2v/xo-harness/pkg/xo"
)

func newPingCommand(cfg *config.Configuration) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the credentials can sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := xo.TestConnection(cmd.Context(), cfg, credentials(cfg)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signed in to %s as %s\n", cfg.Server.URL, cfg.Credentials.Email)
			return nil
		},
	}
}
