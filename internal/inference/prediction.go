package inference

import (
	"context"

	"routelabel/internal/frames"
)

// Prediction is a probability vector over the model classes.
type Prediction []float64

// Argmax returns the index and probability of the most likely class, or
// (-1, 0) for an empty vector. Ties resolve to the lowest index.
func (p Prediction) Argmax() (int, float64) {
	best := -1
	var prob float64
	for i, v := range p {
		if best < 0 || v > prob {
			best = i
			prob = v
		}
	}
	return best, prob
}

// Classifier scores a batch of frames, returning one prediction per frame in
// input order. Implementations must be safe for use from any goroutine.
type Classifier interface {
	BatchPredict(ctx context.Context, batch []frames.Frame) ([]Prediction, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, batch []frames.Frame) ([]Prediction, error)

// BatchPredict calls f.
func (f ClassifierFunc) BatchPredict(ctx context.Context, batch []frames.Frame) ([]Prediction, error) {
	return f(ctx, batch)
}
