package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Canonical upper-cases value and collapses runs of whitespace to a single
// space. Reviewer commands and label names are compared in this form.
func Canonical(value string) string {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}
	return cases.Upper(language.Und).String(strings.Join(fields, " "))
}
