package driver

import (
	"context"
	"errors"

	"github.com/agenthands/graphdiff/internal/core/model"
)

// ErrNotConnected is returned when an operation needs a database and none is configured.
var ErrNotConnected = errors.New("no database connection configured")

// Result is the tabular outcome of one query. Rows are keyed by column name.
type Result struct {
	Columns []string
	Rows    []model.RawRow
}

// Executor runs a query text against a graph database.
type Executor interface {
	ExecuteQuery(ctx context.Context, query string) (*Result, error)
	Backend() string
	Close(ctx context.Context) error
}
