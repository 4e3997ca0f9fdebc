package main

import (
	"github.com/spf13/cobra"

	"github.com/agenthands/graphdiff/internal/core/model"
	"github.com/agenthands/graphdiff/internal/report"
)

var compareQueryID string

var compareCmd = &cobra.Command{
	Use:   "compare GT_RESULTS LLM_RESULTS OUTPUT",
	Short: "Compare two saved results documents",
	Long: `Extract the graph described by each query's rows in both results files and
write a report of the nodes and edges the candidate missed or added.`,
	Args: cobra.ExactArgs(3),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareQueryID, "query-id", "", "Compare only the query with this id")
}

func runCompare(cmd *cobra.Command, args []string) error {
	gt, err := report.LoadResults(args[0])
	if err != nil {
		return err
	}
	llm, err := report.LoadResults(args[1])
	if err != nil {
		return err
	}

	ev, cleanup, err := newEvaluator(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer cleanup()

	r, err := ev.CompareDocuments(cmd.Context(), gt, llm, compareQueryID)
	if err != nil {
		return err
	}
	r.GTFile, r.LLMFile = args[0], args[1]
	return saveReport(cmd, args[2], r)
}

func saveReport(cmd *cobra.Command, path string, r *model.Report) error {
	if err := report.SaveReport(path, r); err != nil {
		return err
	}
	var matched, mismatched, failed int
	for _, c := range r.Comparisons {
		switch {
		case c.Error != nil:
			failed++
		case c.Metrics.Match():
			matched++
		default:
			mismatched++
		}
	}
	cmd.Printf("Compared %d queries: %d match, %d differ, %d not comparable. Report saved to %s\n",
		len(r.Comparisons), matched, mismatched, failed, path)
	return nil
}
