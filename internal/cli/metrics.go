package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sadopc/habitr/internal/metrics"
)

// resetInterval is how often a long-running server checks for a new day.
const resetInterval = time.Minute

func newMetricsCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Serve Prometheus metrics until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			if addr == "" {
				addr = sess.cfg.Metrics.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving metrics on http://%s/metrics\n", addr)
			sess.log.Info("metrics server starting", zap.String("addr", addr))

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return metrics.Serve(ctx, addr, metrics.NewRegistry(sess.collector))
			})
			g.Go(func() error {
				resetLoop(ctx, sess)
				return nil
			})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

// resetLoop keeps completedToday honest across midnight for a long-running
// server.
func resetLoop(ctx context.Context, sess *session) {
	ticker := time.NewTicker(resetInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := sess.tracker.DailyReset(); err != nil {
				sess.log.Warn("daily reset", zap.Error(err))
			}
		}
	}
}
