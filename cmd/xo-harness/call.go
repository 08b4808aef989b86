package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubev2v/xo-harness/internal/config"
	"github.com/kubev2v/xo-harness/pkg/xo"
)

func newCallCommand(cfg *config.Configuration) *cobra.Command {
	return &cobra.Command{
		Use:   "call METHOD [PARAMS]",
		Short: "Invoke a method and print its result",
		Long: `Invoke a method and print its result.

PARAMS is a JSON object, for instance:

	xo-harness call user.getAll
	xo-harness call vm.start '{"id": "2d3f..."}'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := map[string]any{}
			if len(args) == 2 {
				if err := json.Unmarshal([]byte(args[1]), &params); err != nil {
					return fmt.Errorf("params must be a JSON object: %w", err)
				}
			}

			return xo.WithOtherConnection(cmd.Context(), cfg, credentials(cfg), func(conn *xo.Connection) error {
				var result any
				if err := conn.CallResult(cmd.Context(), args[0], params, &result); err != nil {
					return err
				}
				out, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			})
		},
	}
}
