// Package cli wires configuration, storage and the tracker behind the
// habitr command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sadopc/habitr/internal/config"
	"github.com/sadopc/habitr/internal/habit"
	"github.com/sadopc/habitr/internal/logging"
	"github.com/sadopc/habitr/internal/metrics"
	"github.com/sadopc/habitr/internal/store"
	"github.com/sadopc/habitr/internal/tui"
)

type rootOptions struct {
	configPath   string
	dbPath       string
	verbose      bool
	serveMetrics bool
}

// session is everything a command needs, opened from config.
type session struct {
	cfg       *config.Config
	log       *zap.Logger
	store     *store.Store
	tracker   *habit.Tracker
	collector *metrics.Collector
	weekStart time.Weekday
}

func (o *rootOptions) open() (*session, error) {
	path := o.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, fmt.Errorf("locate config: %w", err)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if o.dbPath != "" {
		cfg.DatabasePath = o.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	weekStart, _ := cfg.FirstWeekday()
	theme, _ := habit.ParseTheme(cfg.Theme)

	log, err := logging.New(cfg.Logging, o.verbose)
	if err != nil {
		return nil, err
	}

	s, err := store.New(cfg.DatabasePath)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open database: %w", err)
	}

	collector := metrics.NewCollector(nil)
	tr, err := habit.Open(s,
		habit.WithLogger(log),
		habit.WithOperationHook(collector.Observe),
		habit.WithDefaultTheme(theme),
	)
	if err != nil {
		s.Close()
		log.Sync()
		return nil, err
	}
	collector.SetSource(tr)

	sess := &session{
		cfg:       cfg,
		log:       log,
		store:     s,
		tracker:   tr,
		collector: collector,
		weekStart: weekStart,
	}

	// Seeding must see the store before a reset writes an empty list.
	if cfg.SeedDemo {
		if err := tr.SeedDemo(); err != nil {
			log.Warn("seed demo habits", zap.Error(err))
		}
	}
	if _, err := tr.DailyReset(); err != nil {
		var perr *habit.PersistenceError
		if !errors.As(err, &perr) {
			sess.Close()
			return nil, err
		}
		log.Warn("daily reset not saved", zap.Error(err))
	}

	log.Debug("session opened",
		zap.String("config", path),
		zap.String("database", cfg.DatabasePath),
		zap.Int("habits", len(tr.List(""))),
	)
	return sess, nil
}

func (s *session) Close() error {
	err := s.store.Close()
	s.log.Sync()
	return err
}

// NewRootCmd builds the command tree. The root command runs the TUI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "habitr",
		Short: "A terminal habit tracker",
		Long: `habitr tracks daily habits with streaks, completion history and
weekly statistics. Completions reset at local midnight.

Run without arguments to start the interactive interface.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/habitr/config.yaml)")
	pf.StringVar(&opts.dbPath, "db", "", "database path (overrides config)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	root.Flags().BoolVar(&opts.serveMetrics, "serve-metrics", false, "serve Prometheus metrics while the TUI runs")

	root.AddCommand(
		newAddCmd(opts),
		newListCmd(opts),
		newDoneCmd(opts),
		newRmCmd(opts),
		newStatsCmd(opts),
		newExportCmd(opts),
		newMetricsCmd(opts),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

func runTUI(ctx context.Context, opts *rootOptions) error {
	sess, err := opts.open()
	if err != nil {
		return err
	}
	defer sess.Close()

	if opts.serveMetrics {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		reg := metrics.NewRegistry(sess.collector)
		go func() {
			if err := metrics.Serve(ctx, sess.cfg.Metrics.Addr, reg); err != nil {
				sess.log.Warn("metrics server", zap.Error(err))
			}
		}()
	}

	app := tui.NewApp(sess.tracker, tui.Options{
		WeekStart: sess.weekStart,
		DBPath:    sess.store.Path(),
		Slots:     sess.store,
		Logger:    sess.log,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
