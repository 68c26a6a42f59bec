package services_test

import (
	"errors"
	"strings"
	"testing"

	"routelabel/internal/ledger"
	"routelabel/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrInference, "inference", "predict", "model server rejected batch", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrInference) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"inference", "predict", "rejected"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestFailureOutcomeMapping(t *testing.T) {
	empty := services.Wrap(services.ErrEmptyRoute, "preload", "load", "no decodable frames", nil)
	if outcome := services.FailureOutcome(empty); outcome != ledger.OutcomeEmpty {
		t.Fatalf("expected empty outcome, got %s", outcome)
	}
	failed := services.Wrap(services.ErrInference, "preload", "score", "predict failed", errors.New("503"))
	if outcome := services.FailureOutcome(failed); outcome != ledger.OutcomeFailed {
		t.Fatalf("expected failed outcome, got %s", outcome)
	}
	if outcome := services.FailureOutcome(nil); outcome != ledger.OutcomeFailed {
		t.Fatalf("expected failed for nil error, got %s", outcome)
	}
}
