package main

import (
	"github.com/spf13/cobra"

	"github.com/agenthands/graphdiff/internal/core"
	"github.com/agenthands/graphdiff/internal/manifest"
	"github.com/agenthands/graphdiff/internal/report"
)

var executeQueryID string

var executeCmd = &cobra.Command{
	Use:   "execute MANIFEST OUTPUT",
	Short: "Execute a query-set manifest and save the results document",
	Long: `Execute every query of a YAML manifest against the configured database and
write the results, including per-query status and errors, as JSON.`,
	Args: cobra.ExactArgs(2),
	RunE: runExecute,
}

func init() {
	executeCmd.Flags().StringVar(&executeQueryID, "query-id", "", "Execute only the query with this id")
}

func runExecute(cmd *cobra.Command, args []string) error {
	items, err := manifest.Load(args[0])
	if err != nil {
		return err
	}
	items, err = manifest.Filter(items, executeQueryID)
	if err != nil {
		return err
	}

	ev, cleanup, err := newEvaluator(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer cleanup()

	doc, err := ev.Run(cmd.Context(), items, core.SideGT)
	if err != nil {
		return err
	}
	doc.Metadata.SourceFile = args[0]

	if err := report.SaveResults(args[1], doc); err != nil {
		return err
	}
	cmd.Printf("Executed %d queries (%d successful), results saved to %s\n",
		doc.Metadata.TotalQueries, doc.Metadata.SuccessfulQueries, args[1])
	return nil
}
