package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agenthands/graphdiff/internal/core/model"
	"github.com/agenthands/graphdiff/internal/core/refine"
	"github.com/agenthands/graphdiff/internal/report"
)

var refineProfile string

var refineCmd = &cobra.Command{
	Use:   "refine INPUT OUTPUT",
	Short: "Clean a full graph export into a schema view",
	Long: `Apply a refine profile (v0, v1, v2 or one defined under [refine.profiles])
to a graph export produced by "export".`,
	Args: cobra.ExactArgs(2),
	RunE: runRefine,
}

func init() {
	refineCmd.Flags().StringVar(&refineProfile, "profile", "v0", "Refine profile name")
}

func runRefine(cmd *cobra.Command, args []string) error {
	p, err := refine.Lookup(refineProfile, cfg.Refine)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read graph export '%s': %w", args[0], err)
	}
	var in model.GraphExport
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("failed to parse graph export '%s': %w", args[0], err)
	}

	out := refine.Clean(&in, p)
	if err := report.SaveJSON(args[1], out); err != nil {
		return err
	}
	logger.Info("graph refined", "profile", p.Name, "nodes", len(out.Nodes), "edges", len(out.Edges))
	cmd.Printf("Refined with profile %s: %d nodes, %d edges, saved to %s\n", p.Name, len(out.Nodes), len(out.Edges), args[1])
	return nil
}
