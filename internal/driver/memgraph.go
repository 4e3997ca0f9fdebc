package driver

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/agenthands/graphdiff/internal/core/model"
)

// MemgraphExecutor runs Cypher over bolt against Memgraph or Neo4j.
type MemgraphExecutor struct {
	Driver neo4j.DriverWithContext
	logger *slog.Logger
}

func NewMemgraphExecutor(ctx context.Context, uri, username, password string, logger *slog.Logger) (*MemgraphExecutor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, err
	}

	logger.Info("connected to memgraph", "uri", uri)
	return &MemgraphExecutor{Driver: driver, logger: logger}, nil
}

func (d *MemgraphExecutor) Backend() string { return "memgraph" }

func (d *MemgraphExecutor) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

func (d *MemgraphExecutor) ExecuteQuery(ctx context.Context, query string) (*Result, error) {
	result, err := neo4j.ExecuteQuery(ctx, d.Driver, query, nil, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	out := &Result{Columns: result.Keys, Rows: make([]model.RawRow, 0, len(result.Records))}
	for _, record := range result.Records {
		row := make(model.RawRow, len(record.Keys))
		for i, key := range record.Keys {
			row[key] = ConvertBoltValue(record.Values[i])
		}
		out.Rows = append(out.Rows, row)
	}
	d.logger.Debug("query executed", "rows", len(out.Rows))
	return out, nil
}

// ConvertBoltValue turns bolt graph values into the same mapping shapes Apache
// AGE produces, so both backends feed the extractor identically. Paths become
// alternating node and relationship sequences.
func ConvertBoltValue(v any) any {
	switch val := v.(type) {
	case dbtype.Node:
		return nodeMap(val)
	case *dbtype.Node:
		if val == nil {
			return nil
		}
		return nodeMap(*val)
	case dbtype.Relationship:
		return relationshipMap(val)
	case *dbtype.Relationship:
		if val == nil {
			return nil
		}
		return relationshipMap(*val)
	case dbtype.Path:
		return pathSlice(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = ConvertBoltValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = ConvertBoltValue(item)
		}
		return out
	default:
		return v
	}
}

func nodeMap(n dbtype.Node) map[string]any {
	labels := append([]string(nil), n.Labels...)
	sort.Strings(labels)
	return map[string]any{
		"id":         n.ElementId,
		"label":      strings.Join(labels, ":"),
		"properties": ConvertBoltValue(n.Props),
	}
}

func relationshipMap(r dbtype.Relationship) map[string]any {
	return map[string]any{
		"id":         r.ElementId,
		"label":      r.Type,
		"start_id":   r.StartElementId,
		"end_id":     r.EndElementId,
		"properties": ConvertBoltValue(r.Props),
	}
}

func pathSlice(p dbtype.Path) []any {
	out := make([]any, 0, len(p.Nodes)+len(p.Relationships))
	for i, n := range p.Nodes {
		out = append(out, nodeMap(n))
		if i < len(p.Relationships) {
			out = append(out, relationshipMap(p.Relationships[i]))
		}
	}
	return out
}
