// Package catalog enumerates the routes waiting for review.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// List returns the route directory names directly under root, in the order
// the filesystem reports them, skipping reserved names, hidden entries, and
// non-directories.
func List(root string, reserved []string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read route tree: %w", err)
	}
	skip := make(map[string]struct{}, len(reserved))
	for _, name := range reserved {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			skip[trimmed] = struct{}{}
		}
	}

	routes := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if _, ok := skip[name]; ok {
			continue
		}
		if !isDir(root, entry) {
			continue
		}
		routes = append(routes, name)
	}
	return routes, nil
}

// isDir follows symlinks so a linked route directory is still a route.
func isDir(root string, entry os.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(root, entry.Name()))
	return err == nil && info.IsDir()
}
