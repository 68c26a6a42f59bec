package terminal

import (
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"

	"routelabel/internal/fileutil"
	"routelabel/internal/logging"
)

const previewQuality = 90

// Preview publishes the current frame to a JPEG file and prints its caption.
type Preview struct {
	path     string
	out      io.Writer
	colorize bool
	logger   *slog.Logger
}

// NewPreview writes frames to path and captions to out. An empty path
// disables the image file and keeps the caption.
func NewPreview(path string, out io.Writer, logger *slog.Logger) *Preview {
	if out == nil {
		out = io.Discard
	}
	return &Preview{
		path:     path,
		out:      out,
		colorize: ShouldColorize(out),
		logger:   logging.NewComponentLogger(logger, "preview"),
	}
}

// Show replaces the preview image and prints caption. Failures are logged
// and never interrupt review.
func (p *Preview) Show(img image.Image, caption string) {
	if p.path != "" && img != nil {
		err := fileutil.WriteFileAtomic(p.path, func(w io.Writer) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: previewQuality})
		})
		if err != nil {
			logging.WarnWithContext(p.logger, "preview write failed", "preview_write_failed",
				logging.Error(err),
				logging.String("path", p.path),
				logging.Impact("preview image is stale"),
				logging.Hint("check paths.preview_path is writable"),
			)
		}
	}
	if caption != "" {
		fmt.Fprintln(p.out, paint(caption, captionAttribute(caption), p.colorize))
	}
}

// Path returns the preview image location.
func (p *Preview) Path() string {
	return p.path
}
