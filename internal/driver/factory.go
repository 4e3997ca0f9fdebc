package driver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agenthands/graphdiff/internal/config"
)

// NewExecutor connects to the backend named in cfg.
func NewExecutor(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (Executor, error) {
	switch cfg.Backend {
	case config.BackendAGE, "":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("%w: database.dsn is empty", ErrNotConnected)
		}
		exec, err := NewAGEExecutor(ctx, cfg.DSN, logger)
		if err != nil {
			return nil, err
		}
		return exec, nil
	case config.BackendMemgraph:
		if cfg.URI == "" {
			return nil, fmt.Errorf("%w: database.uri is empty", ErrNotConnected)
		}
		exec, err := NewMemgraphExecutor(ctx, cfg.URI, cfg.User, cfg.Password, logger)
		if err != nil {
			return nil, err
		}
		return exec, nil
	default:
		return nil, fmt.Errorf("unsupported database backend: %s", cfg.Backend)
	}
}
