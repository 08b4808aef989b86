package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kubev2v/xo-harness/internal/config"
	"github.com/kubev2v/xo-harness/internal/models"
	"github.com/kubev2v/xo-harness/internal/services"
	"github.com/kubev2v/xo-harness/pkg/scheduler"
	"github.com/kubev2v/xo-harness/pkg/xo"
)

func newWaitCommand(cfg *config.Configuration) *cobra.Command {
	var (
		fields  []string
		absent  bool
		objType string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "wait ID...",
		Short: "Block until objects reach a state",
		Long: `Block until every given object reaches a state.

Without condition, waits for the objects to exist. At most --workers objects
are evaluated at the same time; the others keep their place and see every
change made in the meantime:

	xo-harness wait 2d3f... --field power_state=Running --timeout 5m
	xo-harness wait 2d3f... 8a01... --absent`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			predicate, err := services.ParsePredicate(fields, objType, absent)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			return xo.WithOtherConnection(ctx, cfg, credentials(cfg), func(conn *xo.Connection) error {
				return waitAll(ctx, cmd, conn, cfg.Harness.NumWorkers, args, predicate)
			})
		},
	}

	cmd.Flags().StringArrayVar(&fields, "field", nil, "Condition key=value on a string property, repeatable")
	cmd.Flags().StringVar(&objType, "type", "", "Expected object type")
	cmd.Flags().BoolVar(&absent, "absent", false, "Wait for the object to be removed")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Give up after this duration, 0 waits forever")

	return cmd
}

// waitAll waits for every id on a pool of workers. Every wait is registered
// before the first one runs.
func waitAll(ctx context.Context, cmd *cobra.Command, conn *xo.Connection, workers int, ids []string, predicate services.Predicate) error {
	sched := scheduler.NewScheduler(workers)
	defer sched.Close()

	futures := make([]*models.Future[models.Result[any]], 0, len(ids))
	for _, id := range ids {
		watch := services.NewWatch(conn.Objects(), id, predicate)
		defer watch.Stop()

		futures = append(futures, sched.AddWork(func(workCtx context.Context) (any, error) {
			workCtx, cancel := context.WithCancel(workCtx)
			defer cancel()
			stop := context.AfterFunc(ctx, cancel)
			defer stop()

			return nil, watch.Run(workCtx)
		}))
	}

	for i, future := range futures {
		result := <-future.C()
		if result.Err != nil {
			return result.Err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s reached the expected state\n", ids[i])
	}
	return nil
}
