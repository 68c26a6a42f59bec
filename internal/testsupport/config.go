package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"routelabel/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The extracted tree, output label folders, archive area, and log directory
// exist when it returns.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ExtractedDir = filepath.Join(base, "extracted")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.ArchiveDir = filepath.Join(base, "extracted", "already_classified")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.PreviewPath = filepath.Join(base, "preview", "preview.jpg")
	cfgVal.Model.BaseURL = "http://127.0.0.1:0"
	cfgVal.Model.TimeoutSeconds = 5

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := os.MkdirAll(builder.cfg.Paths.ExtractedDir, 0o755); err != nil {
		t.Fatalf("mkdir extracted dir: %v", err)
	}
	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	return builder.cfg
}

// WithModelURL points the inference client at url, usually an httptest server.
func WithModelURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Model.BaseURL = url
	}
}

// WithFrameRate overrides the route frame rate.
func WithFrameRate(fps float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Review.FrameRate = fps
	}
}

// WithDefaultSkipSeconds overrides the default skip cadence.
func WithDefaultSkipSeconds(seconds float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Review.DefaultSkipSeconds = seconds
	}
}

// WithMaxPreloadedRoutes overrides the ready queue capacity.
func WithMaxPreloadedRoutes(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Review.MaxPreloadedRoutes = n
	}
}

// WithCrop overrides the crop geometry.
func WithCrop(side, top, hoodY int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Crop.Side = side
		b.cfg.Crop.Top = top
		b.cfg.Crop.HoodY = hoodY
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.ExtractedDir)
}
