package review

import (
	"reflect"
	"testing"
)

func shownIndices(state State, frames int) []int {
	var shown []int
	for idx := 0; idx < frames; idx++ {
		var show bool
		state, show = state.Next()
		if show {
			shown = append(shown, idx)
		}
	}
	return shown
}

func TestCadenceShowsEveryKPlusOneFrame(t *testing.T) {
	tests := []struct {
		k    int
		want []int
	}{
		{0, []int{0, 1, 2, 3, 4, 5}},
		{1, []int{0, 2, 4}},
		{2, []int{0, 3}},
		{10, []int{0}},
	}
	for _, tc := range tests {
		if got := shownIndices(NewState(tc.k), 6); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("k=%d shown %v, want %v", tc.k, got, tc.want)
		}
	}
}

func TestManualSkipSuspendsAutoSkip(t *testing.T) {
	state := State{DefaultSkip: 5, AutoSkipRemaining: 3, ManualSkipRemaining: 2}
	for i := 0; i < 2; i++ {
		var show bool
		state, show = state.Next()
		if show {
			t.Fatalf("frame %d shown during manual skip", i)
		}
		if state.AutoSkipRemaining != 3 {
			t.Fatalf("auto skip changed during manual skip: %+v", state)
		}
	}
	for i := 0; i < 3; i++ {
		var show bool
		if state, show = state.Next(); show {
			t.Fatalf("auto skip frame %d shown", i)
		}
	}
	state, show := state.Next()
	if !show || state.AutoSkipRemaining != 5 {
		t.Fatalf("expected frame shown and cadence reset, got show=%v %+v", show, state)
	}
}

func TestSkipNowAtTwentyFPSHidesFortyFrames(t *testing.T) {
	state := State{DefaultSkip: 7, AutoSkipRemaining: 7}
	state, action := Transition(state, Command{Kind: CommandSkipNow, Seconds: 2}, 20)
	if action.Kind != ActionAdvance || action.Frames != 40 {
		t.Fatalf("unexpected action %+v", action)
	}
	if state.ManualSkipRemaining != 40 || state.AutoSkipRemaining != 0 || state.DefaultSkip != 7 {
		t.Fatalf("unexpected state %+v", state)
	}

	hidden := 0
	for {
		var show bool
		state, show = state.Next()
		if show {
			break
		}
		hidden++
	}
	if hidden != 40 {
		t.Fatalf("expected 40 hidden frames, got %d", hidden)
	}
}

func TestSkipSetsCadenceAndReprompts(t *testing.T) {
	state := State{DefaultSkip: 10, AutoSkipRemaining: 10, ManualSkipRemaining: 4}
	state, action := Transition(state, Command{Kind: CommandSkip, Seconds: 1.5}, 20)
	if action.Kind != ActionReprompt || action.Advances() {
		t.Fatalf("SKIP n must re-prompt, got %+v", action)
	}
	want := State{DefaultSkip: 30, AutoSkipRemaining: 30}
	if state != want {
		t.Fatalf("state = %+v, want %+v", state, want)
	}

	state, _ = Transition(state, Command{Kind: CommandSkip, Seconds: -3}, 20)
	if state.DefaultSkip != 0 || state.AutoSkipRemaining != 0 {
		t.Fatalf("negative skip should clamp to 0, got %+v", state)
	}
}

func TestTransitionLeavesStateOnRejectAndFile(t *testing.T) {
	start := State{DefaultSkip: 3, AutoSkipRemaining: 3}
	for _, cmd := range []Command{
		{Kind: CommandInvalid, Raw: "purple"},
		{Kind: CommandLabel, Label: "RED"},
		{Kind: CommandHelp},
		{Kind: CommandQuit},
	} {
		got, _ := Transition(start, cmd, 20)
		if got != start {
			t.Errorf("command %+v changed state to %+v", cmd, got)
		}
	}
	if _, action := Transition(start, Command{Kind: CommandLabel, Label: "RED"}, 20); action.Kind != ActionFile || action.Label != "RED" {
		t.Fatalf("unexpected label action %+v", action)
	}
}

func TestEndRouteKeepsCadence(t *testing.T) {
	got := State{DefaultSkip: 4, AutoSkipRemaining: 2, ManualSkipRemaining: 9}.EndRoute()
	if got != (State{DefaultSkip: 4}) {
		t.Fatalf("EndRoute = %+v", got)
	}
}

func TestFormatCaption(t *testing.T) {
	tests := []struct {
		label string
		prob  float64
		want  string
	}{
		{"RED", 0.934567, "RED (93.46%)"},
		{"GREEN", 1, "GREEN (100%)"},
		{"NONE", 0.5, "NONE (50%)"},
	}
	for _, tc := range tests {
		if got := FormatCaption(tc.label, tc.prob); got != tc.want {
			t.Errorf("FormatCaption(%q, %v) = %q, want %q", tc.label, tc.prob, got, tc.want)
		}
	}
}
