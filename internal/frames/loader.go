package frames

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"routelabel/internal/logging"
	"routelabel/internal/services"
)

// Loader decodes frame files from a route directory.
type Loader struct {
	logger *slog.Logger
}

// NewLoader constructs a loader that reports dropped frames to logger.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{logger: logging.NewComponentLogger(logger, "frames")}
}

// Decode reads and decodes a single image file.
func Decode(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrDecode, "frames", "open", filepath.Base(path), err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, services.Wrap(services.ErrDecode, "frames", "decode", filepath.Base(path), err)
	}
	return img, nil
}

// Load decodes names from dir in the given order. Files that fail to decode
// are dropped, so the returned frames carry the names of the survivors.
// Only cancellation of ctx produces an error.
func (l *Loader) Load(ctx context.Context, dir string, names []string) ([]Frame, error) {
	logger := logging.WithContext(ctx, l.logger)
	out := make([]Frame, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := Decode(filepath.Join(dir, name))
		if err != nil {
			logger.Debug("frame dropped",
				logging.Frame(name),
				logging.Event("frame_decode_failed"),
				logging.Error(err),
			)
			continue
		}
		out = append(out, FromImage(name, img))
	}
	if dropped := len(names) - len(out); dropped > 0 {
		logger.Info("route frames loaded",
			logging.Int("loaded", len(out)),
			logging.Int("dropped", dropped),
		)
	}
	return out, nil
}

// LoadRoute lists, orders, and loads every frame in dir.
func (l *Loader) LoadRoute(ctx context.Context, dir string) ([]Frame, error) {
	names, err := ListNames(dir)
	if err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}
	return l.Load(ctx, dir, names)
}
