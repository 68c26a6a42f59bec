package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"routelabel/internal/catalog"
	"routelabel/internal/frames"
)

type routeSummary struct {
	Route  string `json:"route"`
	Frames int    `json:"frames"`
	Bytes  uint64 `json:"bytes"`
	Path   string `json:"path"`
}

func newRoutesCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List routes waiting for review",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			names, err := catalog.List(cfg.Paths.ExtractedDir, cfg.Paths.ReservedDirs)
			if err != nil {
				return fmt.Errorf("list routes: %w", err)
			}

			summaries := make([]routeSummary, 0, len(names))
			for _, name := range names {
				dir := filepath.Join(cfg.Paths.ExtractedDir, name)
				frameNames, err := frames.ListNames(dir)
				if err != nil {
					return fmt.Errorf("list frames of %s: %w", name, err)
				}
				summaries = append(summaries, routeSummary{
					Route:  name,
					Frames: len(frameNames),
					Bytes:  framesSize(dir, frameNames),
					Path:   dir,
				})
			}

			if jsonOut {
				return writeJSON(cmd, summaries)
			}

			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintf(out, "No routes waiting in %s\n", cfg.Paths.ExtractedDir)
				return nil
			}
			rows := make([][]string, 0, len(summaries))
			total := 0
			var totalBytes uint64
			for _, s := range summaries {
				rows = append(rows, []string{s.Route, strconv.Itoa(s.Frames), humanize.Bytes(s.Bytes)})
				total += s.Frames
				totalBytes += s.Bytes
			}
			fmt.Fprintln(out, renderTable([]column{textCol("Route"), numCol("Frames"), numCol("Size")}, rows))
			fmt.Fprintf(out, "%d route(s), %d frame(s) waiting (%s)\n", len(summaries), total, humanize.Bytes(totalBytes))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

// framesSize sums the on-disk size of the named frames, ignoring files that
// vanish while listing.
func framesSize(dir string, names []string) uint64 {
	var total uint64
	for _, name := range names {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		total += uint64(info.Size())
	}
	return total
}
