package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agenthands/graphdiff/internal/core/generate"
	"github.com/agenthands/graphdiff/internal/llm"
	"github.com/agenthands/graphdiff/internal/manifest"
)

var generateSchemaFile string

var generateCmd = &cobra.Command{
	Use:   "generate QUESTIONS OUTPUT",
	Short: "Ask the configured LLM to write a query for each question",
	Long: `Read a YAML manifest whose items carry the natural-language question in
"description" (or "question"), ask the configured LLM for a query per item and
write a manifest that "execute" and "evaluate" accept.`,
	Args: cobra.ExactArgs(2),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateSchemaFile, "schema", "", "File whose contents replace generation.schema (e.g. a refined graph)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	questions, err := manifest.Load(args[0])
	if err != nil {
		return err
	}

	schema := cfg.Generation.Schema
	if generateSchemaFile != "" {
		data, err := os.ReadFile(generateSchemaFile)
		if err != nil {
			return fmt.Errorf("failed to read schema file '%s': %w", generateSchemaFile, err)
		}
		schema = string(data)
	}

	client, err := llm.NewClient(cmd.Context(), cfg.LLM, logger)
	if err != nil {
		return err
	}
	gen := generate.NewGenerator(client, cfg.Generation.Prompt, schema, cfg.Concurrency.Workers, logger)

	items, err := gen.Generate(cmd.Context(), questions)
	if err != nil {
		return err
	}
	if err := manifest.Save(args[1], items); err != nil {
		return err
	}

	var empty int
	for _, item := range items {
		if item.Query == "" {
			empty++
		}
	}
	cmd.Printf("Generated %d queries (%d without a query), saved to %s\n", len(items), empty, args[1])
	return nil
}
