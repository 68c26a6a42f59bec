package preload

import (
	"fmt"

	"routelabel/internal/frames"
	"routelabel/internal/inference"
)

// ReadyRoute is a fully decoded and scored route. It is not modified after
// publication.
type ReadyRoute struct {
	Name        string
	Dir         string
	FrameNames  []string
	Frames      []frames.Frame
	Predictions []inference.Prediction
}

// Len returns the number of frames in the route.
func (r ReadyRoute) Len() int {
	return len(r.Frames)
}

// Validate checks that names, frames, and predictions pair up one to one.
func (r ReadyRoute) Validate() error {
	if r.Name == "" || r.Dir == "" {
		return fmt.Errorf("ready route: name and dir are required")
	}
	if len(r.Frames) == 0 {
		return fmt.Errorf("ready route %s: no frames", r.Name)
	}
	if len(r.FrameNames) != len(r.Frames) || len(r.Predictions) != len(r.Frames) {
		return fmt.Errorf("ready route %s: %d names, %d frames, %d predictions",
			r.Name, len(r.FrameNames), len(r.Frames), len(r.Predictions))
	}
	for i, f := range r.Frames {
		if f.Name != r.FrameNames[i] {
			return fmt.Errorf("ready route %s: frame %d is %q, name list has %q", r.Name, i, f.Name, r.FrameNames[i])
		}
	}
	return nil
}
