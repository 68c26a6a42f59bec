package services

import (
	"errors"
	"fmt"
	"strings"

	"routelabel/internal/ledger"
)

var (
	ErrExternalTool   = errors.New("external tool error")
	ErrValidation     = errors.New("validation error")
	ErrConfiguration  = errors.New("configuration error")
	ErrNotFound       = errors.New("not found")
	ErrDecode         = errors.New("decode failure")
	ErrEmptyRoute     = errors.New("empty route")
	ErrInference      = errors.New("inference failure")
	ErrInvalidCommand = errors.New("invalid command")
	ErrTransient      = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging it with
// the provided marker for later outcome classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureOutcome maps a route processing error to the outcome recorded in the
// ledger. Routes without usable frames are "empty"; everything else that
// stopped a route is "failed".
func FailureOutcome(err error) ledger.Outcome {
	if errors.Is(err, ErrEmptyRoute) {
		return ledger.OutcomeEmpty
	}
	return ledger.OutcomeFailed
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
