// Package generate asks an LLM to translate natural-language questions into
// candidate graph queries.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/agenthands/graphdiff/internal/core/common"
	"github.com/agenthands/graphdiff/internal/core/model"
	"github.com/agenthands/graphdiff/internal/llm"
)

type response struct {
	Query     string `json:"query"`
	Reasoning string `json:"reasoning"`
}

type Generator struct {
	LLM     llm.LLMClient
	Prompt  string
	Schema  string
	Workers int
	Logger  *slog.Logger
}

func NewGenerator(client llm.LLMClient, prompt, schema string, workers int, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if workers < 1 {
		workers = 1
	}
	return &Generator{LLM: client, Prompt: prompt, Schema: schema, Workers: workers, Logger: logger}
}

// Generate produces one item per question, in input order. The question is
// the item's description. A failed call yields an item with an empty query
// and the failure in its reasoning.
func (g *Generator) Generate(ctx context.Context, questions []model.QueryItem) ([]model.QueryItem, error) {
	out := make([]model.QueryItem, len(questions))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.Workers)
	for i, q := range questions {
		i, q := i, q
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = g.one(ctx, q)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Generator) one(ctx context.Context, q model.QueryItem) model.QueryItem {
	item := model.QueryItem{ID: q.ID, Description: q.Description}

	question := strings.TrimSpace(q.Description)
	if question == "" {
		item.Reasoning = "no question text"
		return item
	}

	prompt := fmt.Sprintf(g.Prompt, g.Schema, question)
	raw, err := g.LLM.Generate(ctx, prompt)
	if err != nil {
		g.Logger.Error("generation failed", "query_id", q.ID, "error", err)
		item.Reasoning = fmt.Sprintf("generation failed: %v", err)
		return item
	}

	resp, err := common.ParseJSON[response](raw)
	if err != nil {
		g.Logger.Warn("unparseable llm answer", "query_id", q.ID, "error", err)
		item.Reasoning = fmt.Sprintf("unparseable answer: %v", err)
		return item
	}

	item.Query = strings.TrimSpace(resp.Query)
	item.Reasoning = strings.TrimSpace(resp.Reasoning)
	g.Logger.Debug("query generated", "query_id", q.ID)
	return item
}
