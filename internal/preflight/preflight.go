package preflight

import (
	"context"

	"routelabel/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Route tree", cfg.Paths.ExtractedDir, AccessRead),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir, AccessWrite),
		CheckDirectoryAccess("Archive directory", cfg.Paths.ArchiveDir, AccessWrite),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir, AccessWrite),
	}
	for _, label := range cfg.LabelNames() {
		results = append(results, CheckDirectoryAccess("Label "+label, cfg.LabelDir(label), AccessWrite))
	}
	results = append(results, CheckModel(ctx, cfg.Model))
	return results
}
