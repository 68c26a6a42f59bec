package review

// State holds the skip counters carried across frames and routes.
// ManualSkipRemaining is consumed before AutoSkipRemaining, and auto-skip is
// not decremented while a manual skip is pending.
type State struct {
	DefaultSkip         int
	AutoSkipRemaining   int
	ManualSkipRemaining int
}

// NewState returns the state for a fresh session. The first frame is shown.
func NewState(defaultSkip int) State {
	if defaultSkip < 0 {
		defaultSkip = 0
	}
	return State{DefaultSkip: defaultSkip}
}

// Next evaluates the frame boundary and reports whether the frame at the
// cursor is shown.
func (s State) Next() (State, bool) {
	switch {
	case s.ManualSkipRemaining > 0:
		s.ManualSkipRemaining--
		return s, false
	case s.AutoSkipRemaining > 0:
		s.AutoSkipRemaining--
		return s, false
	default:
		s.AutoSkipRemaining = s.DefaultSkip
		return s, true
	}
}

// EndRoute clears both counters; the cadence itself carries over to the next route.
func (s State) EndRoute() State {
	return State{DefaultSkip: s.DefaultSkip}
}
