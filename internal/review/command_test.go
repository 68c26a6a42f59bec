package review_test

import (
	"errors"
	"testing"

	"routelabel/internal/config"
	"routelabel/internal/labels"
	"routelabel/internal/review"
	"routelabel/internal/services"
)

func defaultLabels(t *testing.T) *labels.Set {
	t.Helper()
	set, err := labels.New(config.Default().Labels)
	if err != nil {
		t.Fatalf("labels.New: %v", err)
	}
	return set
}

func TestParseCommand(t *testing.T) {
	set := defaultLabels(t)
	tests := []struct {
		input   string
		kind    review.CommandKind
		label   string
		seconds float64
	}{
		{"r", review.CommandLabel, "RED", 0},
		{"  Yellow ", review.CommandLabel, "YELLOW", 0},
		{"skip 1.5", review.CommandSkip, "", 1.5},
		{"SKIP 2 now", review.CommandSkipNow, "", 2},
		{"q", review.CommandQuit, "", 0},
		{"QUIT", review.CommandQuit, "", 0},
		{"?", review.CommandHelp, "", 0},
		{"help", review.CommandHelp, "", 0},
	}
	for _, tc := range tests {
		cmd, err := review.ParseCommand(tc.input, set)
		if err != nil {
			t.Errorf("ParseCommand(%q) error: %v", tc.input, err)
			continue
		}
		if cmd.Kind != tc.kind || cmd.Label != tc.label || cmd.Seconds != tc.seconds {
			t.Errorf("ParseCommand(%q) = %+v", tc.input, cmd)
		}
	}
}

func TestParseCommandRejectsMalformedInput(t *testing.T) {
	set := defaultLabels(t)
	for _, input := range []string{"", "blue", "skip", "skip x", "skip 2 later", "skip 1 now please", "skip NaN", "quit now"} {
		cmd, err := review.ParseCommand(input, set)
		if cmd.Kind != review.CommandInvalid {
			t.Errorf("ParseCommand(%q) kind = %v, want invalid", input, cmd.Kind)
		}
		if !errors.Is(err, services.ErrInvalidCommand) {
			t.Errorf("ParseCommand(%q) err = %v, want ErrInvalidCommand", input, err)
		}
	}
}
