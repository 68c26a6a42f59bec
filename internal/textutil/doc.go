// Package textutil folds reviewer input to one canonical case and checks that
// label and frame names are usable as single path segments.
package textutil
