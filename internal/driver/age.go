package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agenthands/graphdiff/internal/core/extraction"
	"github.com/agenthands/graphdiff/internal/core/model"
)

const ageSearchPath = `SET search_path = ag_catalog, "$user", public`

// AGEExecutor runs SQL-wrapped Cypher against PostgreSQL with the Apache AGE
// extension loaded on every pooled connection.
type AGEExecutor struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewAGEExecutor(ctx context.Context, dsn string, logger *slog.Logger) (*AGEExecutor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 8
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		if _, err := conn.Exec(ctx, "LOAD 'age'"); err != nil {
			return fmt.Errorf("failed to load age: %w", err)
		}
		if _, err := conn.Exec(ctx, ageSearchPath); err != nil {
			return fmt.Errorf("failed to set search_path: %w", err)
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	logger.Info("connected to postgres with apache age", "host", config.ConnConfig.Host, "database", config.ConnConfig.Database)
	return &AGEExecutor{pool: pool, logger: logger}, nil
}

func (e *AGEExecutor) Backend() string { return "age" }

func (e *AGEExecutor) Close(ctx context.Context) error {
	e.pool.Close()
	return nil
}

// ExecuteQuery runs query with the simple protocol so agtype columns arrive
// as text, then decodes each cell.
func (e *AGEExecutor) ExecuteQuery(ctx context.Context, query string) (*Result, error) {
	rows, err := e.pool.Query(ctx, strings.TrimSpace(query), pgx.QueryExecModeSimpleProtocol)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	out := &Result{Columns: columns, Rows: []model.RawRow{}}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		row := make(model.RawRow, len(columns))
		for i, col := range columns {
			row[col] = DecodeCell(values[i])
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	e.logger.Debug("query executed", "rows", len(out.Rows))
	return out, nil
}

// DecodeCell decodes an agtype text cell. Scalar agtype strings arrive
// quoted and are unquoted; anything that does not parse is kept verbatim.
func DecodeCell(v any) any {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	decoded := extraction.Decode(v)
	s, ok := decoded.(string)
	if !ok {
		return decoded
	}
	trimmed := strings.TrimSpace(s)
	if len(trimmed) >= 2 && trimmed[0] == '"' {
		var unquoted string
		if err := json.Unmarshal([]byte(trimmed), &unquoted); err == nil {
			return unquoted
		}
	}
	return s
}
