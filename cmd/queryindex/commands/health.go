package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/ncobase/queryindex/data/metrics"
	"github.com/spf13/cobra"
)

// redisChecker reports the redis connection as a health component.
type redisChecker struct {
	ping func(ctx context.Context) error
}

func (redisChecker) Engine() string { return "redis" }

func (r redisChecker) Health(ctx context.Context) error { return r.ping(ctx) }

// NewHealthCommand creates the health command
func NewHealthCommand(conf func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the search engine and redis connections",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			e, err := newEnv(ctx, conf())
			if err != nil {
				return err
			}
			defer e.close(ctx)

			monitor := metrics.NewHealthMonitor(e.collector)
			monitor.Register(e.conns.Executor())
			if rc := e.conns.RC; rc != nil {
				monitor.Register(redisChecker{ping: func(ctx context.Context) error {
					return rc.Ping(ctx).Err()
				}})
			}

			results := monitor.CheckAll(ctx)
			names := make([]string, 0, len(results))
			for name := range results {
				names = append(names, name)
			}
			sort.Strings(names)

			unhealthy := 0
			out := cmd.OutOrStdout()
			for _, name := range names {
				if err := results[name]; err != nil {
					unhealthy++
					fmt.Fprintf(out, "%s: unhealthy: %v\n", name, err)
					continue
				}
				fmt.Fprintf(out, "%s: ok\n", name)
			}
			if unhealthy > 0 {
				return fmt.Errorf("%d of %d components unhealthy", unhealthy, len(names))
			}
			return nil
		},
	}
}
