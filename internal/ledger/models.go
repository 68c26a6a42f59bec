package ledger

import "time"

// Outcome describes how a route left the pipeline.
type Outcome string

const (
	// OutcomeReviewed marks a route whose every frame passed through the review loop.
	OutcomeReviewed Outcome = "reviewed"
	// OutcomeEmpty marks a route archived without review because no frame decoded.
	OutcomeEmpty Outcome = "empty"
	// OutcomeFailed marks a route left in place because scoring failed.
	OutcomeFailed Outcome = "failed"
	// OutcomeAborted marks a route abandoned mid-review when the session stopped.
	OutcomeAborted Outcome = "aborted"
)

// Outcomes lists every outcome in display order.
func Outcomes() []Outcome {
	return []Outcome{OutcomeReviewed, OutcomeEmpty, OutcomeFailed, OutcomeAborted}
}

// Decision is one frame filed by the reviewer.
type Decision struct {
	ID             int64
	SessionID      string
	Route          string
	Frame          string
	FrameIndex     int
	ModelClass     string
	SuggestedLabel string
	Confidence     float64
	Label          string
	Destination    string
	CreatedAt      time.Time
}

// Agreed reports whether the reviewer kept the suggested label.
func (d Decision) Agreed() bool {
	return d.Label == d.SuggestedLabel
}

// RouteRecord captures a route leaving the pipeline.
type RouteRecord struct {
	ID         int64
	SessionID  string
	Route      string
	Outcome    Outcome
	FrameCount int
	ShownCount int
	FiledCount int
	Detail     string
	CreatedAt  time.Time
}

// LabelCount aggregates decisions for one label.
type LabelCount struct {
	Label  string
	Total  int
	Agreed int
}

// AgreementRate returns the share of decisions that kept the suggestion.
func (c LabelCount) AgreementRate() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Agreed) / float64(c.Total)
}
