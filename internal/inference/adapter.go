package inference

import (
	"context"
	"fmt"

	"routelabel/internal/frames"
	"routelabel/internal/services"
)

// Adapter crops frames to the model geometry and scores them in one batch.
// It holds no mutable state.
type Adapter struct {
	classifier Classifier
	geometry   frames.Geometry
	classes    int
}

// NewAdapter builds an adapter expecting prediction vectors of width classes.
func NewAdapter(classifier Classifier, geometry frames.Geometry, classes int) *Adapter {
	return &Adapter{classifier: classifier, geometry: geometry, classes: classes}
}

// Score returns one prediction per frame. Any classifier failure, count
// mismatch, or malformed vector is reported as services.ErrInference.
func (a *Adapter) Score(ctx context.Context, batch []frames.Frame) ([]Prediction, error) {
	if len(batch) == 0 {
		return nil, nil
	}
	if a.classifier == nil {
		return nil, services.Wrap(services.ErrInference, "inference", "score", "classifier not configured", nil)
	}
	cropped := make([]frames.Frame, len(batch))
	for i, frame := range batch {
		cropped[i] = frame.Crop(a.geometry)
	}

	predictions, err := a.classifier.BatchPredict(ctx, cropped)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, services.Wrap(services.ErrInference, "inference", "batch predict", "", err)
	}
	if len(predictions) != len(batch) {
		return nil, services.Wrap(services.ErrInference, "inference", "validate",
			fmt.Sprintf("got %d predictions for %d frames", len(predictions), len(batch)), nil)
	}
	for i, p := range predictions {
		if a.classes > 0 && len(p) != a.classes {
			return nil, services.Wrap(services.ErrInference, "inference", "validate",
				fmt.Sprintf("prediction %d has %d classes, want %d", i, len(p), a.classes), nil)
		}
		if len(p) == 0 {
			return nil, services.Wrap(services.ErrInference, "inference", "validate",
				fmt.Sprintf("prediction %d is empty", i), nil)
		}
	}
	return predictions, nil
}
