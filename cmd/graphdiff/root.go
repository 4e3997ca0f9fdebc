package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/agenthands/graphdiff/internal/config"
	"github.com/agenthands/graphdiff/internal/core"
	"github.com/agenthands/graphdiff/internal/driver"
	"github.com/agenthands/graphdiff/internal/metrics"
)

var (
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "graphdiff",
	Short: "Compare the graphs returned by ground-truth and LLM-generated queries",
	Long: `graphdiff executes query sets against Apache AGE or Memgraph, extracts the
nodes and relationships each result describes, and reports which elements a
generated query missed or added relative to the ground truth.`,
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command with signal handling
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	path := configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config/config.toml"
	}

	loaded, err := config.LoadOrDefault(path)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.Log.Level = logLevel
		if err := loaded.Validate(); err != nil {
			return err
		}
	}
	cfg = loaded
	logger = cfg.Log.NewLogger(os.Stderr)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the TOML configuration (default config/config.toml or $CONFIG_PATH)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(executeCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(refineCmd)
	rootCmd.AddCommand(serveCmd)
}

// newEvaluator builds an evaluator. With connect the configured database is
// opened and the returned cleanup closes it.
func newEvaluator(ctx context.Context, connect bool) (*core.Evaluator, func(), error) {
	var exec driver.Executor
	cleanup := func() {}
	if connect {
		e, err := driver.NewExecutor(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		exec = e
		cleanup = func() {
			if err := e.Close(context.Background()); err != nil {
				logger.Warn("failed to close database", "error", err)
			}
		}
	}
	ev := core.NewEvaluator(exec, core.Options{
		Workers:      cfg.Concurrency.Workers,
		QueryTimeout: time.Duration(cfg.Database.QueryTimeoutSeconds) * time.Second,
		Metrics:      metrics.NewRegistry(),
		Logger:       logger,
	})
	return ev, cleanup, nil
}
