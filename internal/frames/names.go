package frames

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ParseIndex extracts the frame index embedded in name: the last run of
// decimal digits in the file stem. "abc.0123.png" yields 123.
func ParseIndex(name string) (int, bool) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	end := -1
	for i := len(stem) - 1; i >= 0; i-- {
		if isDigit(stem[i]) {
			end = i + 1
			break
		}
	}
	if end < 0 {
		return 0, false
	}
	start := end - 1
	for start > 0 && isDigit(stem[start-1]) {
		start--
	}
	value, err := strconv.Atoi(stem[start:end])
	if err != nil {
		return 0, false
	}
	return value, true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// IsFrameName reports whether name looks like a frame file.
func IsFrameName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	_, ok := ParseIndex(name)
	return ok
}

// SortNames orders frame names by parsed index, breaking ties by name.
func SortNames(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		a, _ := ParseIndex(names[i])
		b, _ := ParseIndex(names[j])
		if a != b {
			return a < b
		}
		return names[i] < names[j]
	})
}

// ListNames returns the frame file names in dir ordered by frame index.
// Hidden files, subdirectories, and names without an index are skipped.
func ListNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read route directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsFrameName(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	SortNames(names)
	return names, nil
}
