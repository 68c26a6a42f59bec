package textutil

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// unsafeSegmentChars cannot appear in a label folder or frame file name on
// any filesystem the route tree is likely to be shared over.
const unsafeSegmentChars = `/\:*?"<>|`

// ErrUnsafeSegment reports a name that cannot be used as a single path segment.
var ErrUnsafeSegment = errors.New("unsafe path segment")

// CheckSegment reports whether name can be joined onto a directory as exactly
// one visible entry. Hidden names are refused because the catalog skips them.
func CheckSegment(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrUnsafeSegment)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrUnsafeSegment, name)
	case strings.TrimSpace(name) != name:
		return fmt.Errorf("%w: %q has surrounding whitespace", ErrUnsafeSegment, name)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q is hidden", ErrUnsafeSegment, name)
	}
	if i := strings.IndexAny(name, unsafeSegmentChars); i >= 0 {
		return fmt.Errorf("%w: %q contains %q", ErrUnsafeSegment, name, name[i])
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: %q contains a control character", ErrUnsafeSegment, name)
		}
	}
	return nil
}
