package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenthands/graphdiff/internal/manifest"
	"github.com/agenthands/graphdiff/internal/report"
)

var (
	evaluateQueryID    string
	evaluateKeepResult bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate GT_MANIFEST LLM_MANIFEST OUTPUT",
	Short: "Execute two manifests and compare their results",
	Args:  cobra.ExactArgs(3),
	RunE:  runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVar(&evaluateQueryID, "query-id", "", "Evaluate only the query with this id")
	evaluateCmd.Flags().BoolVar(&evaluateKeepResult, "save-results", false, "Also write both results documents next to OUTPUT")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	gtItems, err := manifest.Load(args[0])
	if err != nil {
		return err
	}
	llmItems, err := manifest.Load(args[1])
	if err != nil {
		return err
	}

	ev, cleanup, err := newEvaluator(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer cleanup()

	r, gtDoc, llmDoc, err := ev.Evaluate(cmd.Context(), gtItems, llmItems, evaluateQueryID)
	if err != nil {
		return err
	}
	gtDoc.Metadata.SourceFile, llmDoc.Metadata.SourceFile = args[0], args[1]
	r.GTFile, r.LLMFile = args[0], args[1]

	if evaluateKeepResult {
		base := strings.TrimSuffix(args[2], ".json")
		if err := report.SaveResults(base+".gt_results.json", gtDoc); err != nil {
			return err
		}
		if err := report.SaveResults(base+".llm_results.json", llmDoc); err != nil {
			return err
		}
	}
	return saveReport(cmd, args[2], r)
}
