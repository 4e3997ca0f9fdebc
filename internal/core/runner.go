package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/graphdiff/internal/core/extraction"
	"github.com/agenthands/graphdiff/internal/core/model"
	"github.com/agenthands/graphdiff/internal/driver"
)

const emptyQuery = "empty or missing query"

// Run executes every item through the driver and collects a results
// document. Query failures are recorded per item and never stop the batch;
// only a missing driver or a cancelled context returns an error.
func (e *Evaluator) Run(ctx context.Context, items []model.QueryItem, side string) (*model.ResultsDocument, error) {
	if e.Driver == nil {
		return nil, driver.ErrNotConnected
	}

	started := time.Now().UTC()
	results := make([]model.QueryResult, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.Workers)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.Execute(gctx, item, side)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	doc := &model.ResultsDocument{
		Metadata: model.ResultsMetadata{
			RunID:              uuid.New().String(),
			ExecutionTimestamp: started,
			Backend:            e.Driver.Backend(),
			TotalQueries:       len(results),
		},
		Queries: results,
	}
	for _, r := range results {
		if r.Succeeded() {
			doc.Metadata.SuccessfulQueries++
		}
	}

	e.Logger.Info("query set executed",
		"side", side,
		"total", doc.Metadata.TotalQueries,
		"successful", doc.Metadata.SuccessfulQueries)
	return doc, nil
}

// Execute runs one item under the configured timeout.
func (e *Evaluator) Execute(ctx context.Context, item model.QueryItem, side string) model.QueryResult {
	res := model.QueryResult{
		QueryID:     item.ID,
		Description: item.Description,
		Reasoning:   item.Reasoning,
		QueryText:   strings.TrimSpace(item.Query),
		Results:     []model.RawRow{},
	}
	if e.Driver == nil {
		res.Status = model.StatusError
		res.Error = driver.ErrNotConnected.Error()
		return res
	}
	backend := e.Driver.Backend()

	if res.QueryText == "" {
		res.Status = model.StatusSkipped
		res.Error = emptyQuery
		e.Logger.Warn("query skipped", "query_id", item.ID, "side", side)
		e.Metrics.RecordQuery(side, backend, res.Status, 0)
		return res
	}

	if e.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.QueryTimeout)
		defer cancel()
	}

	start := time.Now()
	out, err := e.Driver.ExecuteQuery(ctx, res.QueryText)
	elapsed := time.Since(start)
	res.ExecutionTimeSeconds = elapsed.Seconds()

	if err != nil {
		res.Status = model.StatusError
		res.Error = err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			res.Error = fmt.Sprintf("query timed out after %s: %v", e.QueryTimeout, err)
		}
		e.Logger.Error("query failed", "query_id", item.ID, "side", side, "error", err)
		e.Metrics.RecordQuery(side, backend, res.Status, elapsed)
		return res
	}

	res.Status = model.StatusSuccess
	res.Columns = out.Columns
	if out.Rows != nil {
		res.Results = out.Rows
	}
	res.RowCount = len(res.Results)
	e.Logger.Debug("query executed", "query_id", item.ID, "side", side, "rows", res.RowCount, "seconds", res.ExecutionTimeSeconds)
	e.Metrics.RecordQuery(side, backend, res.Status, elapsed)
	return res
}

// ExportQuery runs query and returns every node and edge in its rows with
// their properties.
func (e *Evaluator) ExportQuery(ctx context.Context, query string) (*model.GraphExport, error) {
	if e.Driver == nil {
		return nil, driver.ErrNotConnected
	}
	if strings.TrimSpace(query) == "" {
		return nil, errors.New(emptyQuery)
	}
	if e.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.QueryTimeout)
		defer cancel()
	}
	out, err := e.Driver.ExecuteQuery(ctx, query)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("query timed out after %s: %w", e.QueryTimeout, err)
		}
		return nil, err
	}
	return extraction.Export(out.Rows), nil
}
