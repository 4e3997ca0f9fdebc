package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/graphdiff/internal/core/compare"
	"github.com/agenthands/graphdiff/internal/core/extraction"
	"github.com/agenthands/graphdiff/internal/core/model"
	"github.com/agenthands/graphdiff/internal/driver"
	"github.com/agenthands/graphdiff/internal/manifest"
	"github.com/agenthands/graphdiff/internal/metrics"
)

// Sides of a comparison, used as metric labels.
const (
	SideGT  = "gt"
	SideLLM = "llm"
)

const missingQuery = "query not found"

type Options struct {
	Workers      int
	QueryTimeout time.Duration
	Metrics      *metrics.Registry
	Logger       *slog.Logger
}

// Evaluator executes query sets and compares the graphs their results describe.
// Driver may be nil when only stored results are compared.
type Evaluator struct {
	Driver       driver.Executor
	Metrics      *metrics.Registry
	Logger       *slog.Logger
	Workers      int
	QueryTimeout time.Duration
}

func NewEvaluator(exec driver.Executor, opts Options) *Evaluator {
	e := &Evaluator{
		Driver:       exec,
		Metrics:      opts.Metrics,
		Logger:       opts.Logger,
		Workers:      opts.Workers,
		QueryTimeout: opts.QueryTimeout,
	}
	if e.Logger == nil {
		e.Logger = slog.Default()
	}
	if e.Workers < 1 {
		e.Workers = 1
	}
	return e
}

// CompareRows extracts both row lists and diffs them.
func (e *Evaluator) CompareRows(queryID string, gtRows, llmRows []model.RawRow) model.Comparison {
	m := compare.Graphs(queryID, extraction.Extract(gtRows), extraction.Extract(llmRows))
	e.record(&m)
	return model.Comparison{QueryID: queryID, Metrics: &m}
}

// CompareResults pairs one query's two execution results. A side that is
// missing or did not succeed turns the entry into an error record and no
// extraction runs.
func (e *Evaluator) CompareResults(queryID string, gt, llm *model.QueryResult) model.Comparison {
	gtErr, llmErr := failure(gt), failure(llm)
	if gtErr != "" || llmErr != "" {
		e.Logger.Warn("query not comparable", "query_id", queryID, "gt_error", gtErr, "llm_error", llmErr)
		e.record(nil)
		return model.Comparison{QueryID: queryID, Error: &model.QueryError{GT: gtErr, LLM: llmErr}}
	}
	return e.CompareRows(queryID, gt.Results, llm.Results)
}

func failure(r *model.QueryResult) string {
	if r == nil {
		return missingQuery
	}
	if !r.Succeeded() {
		return r.Failure()
	}
	return ""
}

// CompareDocuments compares every query id present in either document, in
// ground-truth order followed by candidate-only ids. With a non-empty filter
// only that id is compared; it must exist in at least one document.
func (e *Evaluator) CompareDocuments(ctx context.Context, gt, llm *model.ResultsDocument, filter string) (*model.Report, error) {
	if gt == nil {
		gt = &model.ResultsDocument{}
	}
	if llm == nil {
		llm = &model.ResultsDocument{}
	}

	gtByID, gtOrder := index(gt)
	llmByID, llmOrder := index(llm)

	ids := append([]string(nil), gtOrder...)
	for _, id := range llmOrder {
		if _, ok := gtByID[id]; !ok {
			ids = append(ids, id)
		}
	}
	if filter != "" {
		_, inGT := gtByID[filter]
		_, inLLM := llmByID[filter]
		if !inGT && !inLLM {
			return nil, fmt.Errorf("%w: %s", manifest.ErrQueryNotFound, filter)
		}
		ids = []string{filter}
	}

	comparisons := make([]model.Comparison, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.Workers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			comparisons[i] = e.CompareResults(id, gtByID[id], llmByID[id])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.Logger.Info("comparison finished", "queries", len(comparisons))
	return &model.Report{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		GTFile:      gt.Metadata.SourceFile,
		LLMFile:     llm.Metadata.SourceFile,
		Comparisons: comparisons,
	}, nil
}

// index maps ids to results keeping the first occurrence of each id.
func index(doc *model.ResultsDocument) (map[string]*model.QueryResult, []string) {
	byID := make(map[string]*model.QueryResult, len(doc.Queries))
	order := make([]string, 0, len(doc.Queries))
	for i := range doc.Queries {
		q := &doc.Queries[i]
		if _, ok := byID[q.QueryID]; ok {
			continue
		}
		byID[q.QueryID] = q
		order = append(order, q.QueryID)
	}
	return byID, order
}

func (e *Evaluator) record(m *model.ComparisonMetrics) {
	if m == nil {
		e.Metrics.RecordComparison(metrics.OutcomeError, 0, 0)
		return
	}
	outcome := metrics.OutcomeMismatch
	if m.Match() {
		outcome = metrics.OutcomeMatch
	}
	e.Metrics.RecordComparison(outcome,
		len(m.MissingLLM.Nodes)+len(m.ExtraLLM.Nodes),
		len(m.MissingLLM.Edges)+len(m.ExtraLLM.Edges))
}

// Evaluate executes both query sets and compares the results. A non-empty
// filter restricts execution and comparison to that query id.
func (e *Evaluator) Evaluate(ctx context.Context, gtItems, llmItems []model.QueryItem, filter string) (*model.Report, *model.ResultsDocument, *model.ResultsDocument, error) {
	if filter != "" {
		gtItems, llmItems = keep(gtItems, filter), keep(llmItems, filter)
		if len(gtItems) == 0 && len(llmItems) == 0 {
			return nil, nil, nil, fmt.Errorf("%w: %s", manifest.ErrQueryNotFound, filter)
		}
	}
	gtDoc, err := e.Run(ctx, gtItems, SideGT)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to run ground-truth queries: %w", err)
	}
	llmDoc, err := e.Run(ctx, llmItems, SideLLM)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to run candidate queries: %w", err)
	}
	report, err := e.CompareDocuments(ctx, gtDoc, llmDoc, filter)
	if err != nil {
		return nil, nil, nil, err
	}
	return report, gtDoc, llmDoc, nil
}

func keep(items []model.QueryItem, id string) []model.QueryItem {
	var out []model.QueryItem
	for _, item := range items {
		if item.ID == id {
			out = append(out, item)
		}
	}
	return out
}
