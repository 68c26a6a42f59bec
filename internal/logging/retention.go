package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// runLogPattern matches per-run log files inside log_dir.
const runLogPattern = "routelabel-*.log"

// PruneRunLogs deletes run logs in dir last written more than keepDays ago,
// never touching current. It returns the number of files removed. keepDays
// of zero or less keeps everything.
func PruneRunLogs(logger *slog.Logger, dir string, keepDays int, current string) int {
	if keepDays <= 0 || dir == "" {
		return 0
	}
	matches, err := filepath.Glob(filepath.Join(dir, runLogPattern))
	if err != nil {
		return 0
	}
	cutoff := time.Now().AddDate(0, 0, -keepDays)
	current = filepath.Clean(current)

	removed := 0
	for _, path := range matches {
		if filepath.Clean(path) == current {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "old run log could not be removed", "log_retention_failed",
				String("path", path),
				Error(err),
				Hint("check permissions on log_dir"),
				Impact("old run log stays on disk"),
			)
			continue
		}
		removed++
		if logger != nil {
			logger.Debug("run log pruned", String("path", path), Event("log_pruned"))
		}
	}
	return removed
}
