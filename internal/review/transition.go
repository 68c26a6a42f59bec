package review

import "routelabel/internal/config"

// ActionKind tells the session what to do after a command.
type ActionKind int

const (
	// ActionReject re-prompts on the same frame without changing state.
	ActionReject ActionKind = iota
	// ActionFile relocates the frame under Action.Label and advances.
	ActionFile
	// ActionReprompt asks again on the same frame after a cadence change.
	ActionReprompt
	// ActionAdvance moves on without filing the frame.
	ActionAdvance
	// ActionHelp prints the input banner and re-prompts.
	ActionHelp
	// ActionQuit stops the session, leaving the frame in place.
	ActionQuit
)

// Action is the side effect requested by Transition.
type Action struct {
	Kind   ActionKind
	Label  string
	Frames int
}

// Advances reports whether the cursor leaves the current frame.
func (a Action) Advances() bool {
	return a.Kind == ActionFile || a.Kind == ActionAdvance
}

// Transition applies cmd to state. It has no side effects.
func Transition(state State, cmd Command, frameRate float64) (State, Action) {
	switch cmd.Kind {
	case CommandLabel:
		if cmd.Label == "" {
			return state, Action{Kind: ActionReject}
		}
		return state, Action{Kind: ActionFile, Label: cmd.Label}
	case CommandSkip:
		frames := config.SecondsToFrames(cmd.Seconds, frameRate)
		return State{DefaultSkip: frames, AutoSkipRemaining: frames}, Action{Kind: ActionReprompt, Frames: frames}
	case CommandSkipNow:
		frames := config.SecondsToFrames(cmd.Seconds, frameRate)
		state.ManualSkipRemaining = frames
		state.AutoSkipRemaining = 0
		return state, Action{Kind: ActionAdvance, Frames: frames}
	case CommandHelp:
		return state, Action{Kind: ActionHelp}
	case CommandQuit:
		return state, Action{Kind: ActionQuit}
	default:
		return state, Action{Kind: ActionReject}
	}
}
