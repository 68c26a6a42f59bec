package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the directory layout of a labeling workspace.
type Paths struct {
	ExtractedDir string   `toml:"extracted_dir"`
	OutputDir    string   `toml:"output_dir"`
	ArchiveDir   string   `toml:"archive_dir"`
	LogDir       string   `toml:"log_dir"`
	PreviewPath  string   `toml:"preview_path"`
	ReservedDirs []string `toml:"reserved_dirs"`
}

// LabelClass is one human-facing label and its single-letter shortcut.
type LabelClass struct {
	Name string `toml:"name"`
	Key  string `toml:"key"`
}

// Labels describes the human label set and how model output classes map onto it.
type Labels struct {
	Classes      []LabelClass      `toml:"classes"`
	ModelClasses []string          `toml:"model_classes"`
	Suggestions  map[string]string `toml:"suggestions"`
}

// Model contains the inference endpoint settings.
type Model struct {
	BaseURL        string `toml:"base_url"`
	Name           string `toml:"name"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Crop contains the frame crop geometry applied before scoring and display.
type Crop struct {
	Side  int `toml:"side"`
	Top   int `toml:"top"`
	HoodY int `toml:"hood_y"`
}

// Review contains the reviewer cadence and preloading bounds.
type Review struct {
	FrameRate          float64 `toml:"frame_rate"`
	DefaultSkipSeconds float64 `toml:"default_skip_seconds"`
	MaxPreloadedRoutes int     `toml:"max_preloaded_routes"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for routelabel.
//
// Configuration sections by subsystem:
//   - Paths: route tree, output tree, archive area, logs, preview image
//   - Labels: human labels, model classes, and suggestion lookup
//   - Model: inference server endpoint
//   - Crop: hood and border crop geometry
//   - Review: frame rate, skip cadence, preload bound
//   - Logging: log format, level, and retention
type Config struct {
	Paths   Paths   `toml:"paths"`
	Labels  Labels  `toml:"labels"`
	Model   Model   `toml:"model"`
	Crop    Crop    `toml:"crop"`
	Review  Review  `toml:"review"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/routelabel/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		data, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		if err := clearOverriddenLists(data, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// clearOverriddenLists drops default list and map values that the file
// redefines, so a configured label set replaces the defaults instead of
// extending them.
func clearOverriddenLists(data []byte, cfg *Config) error {
	var overrides struct {
		Paths struct {
			ReservedDirs []string `toml:"reserved_dirs"`
		} `toml:"paths"`
		Labels Labels `toml:"labels"`
	}
	if err := toml.Unmarshal(data, &overrides); err != nil {
		return err
	}
	if overrides.Paths.ReservedDirs != nil {
		cfg.Paths.ReservedDirs = nil
	}
	if overrides.Labels.Classes != nil {
		cfg.Labels.Classes = nil
	}
	if overrides.Labels.ModelClasses != nil {
		cfg.Labels.ModelClasses = nil
	}
	if overrides.Labels.Suggestions != nil {
		cfg.Labels.Suggestions = nil
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("routelabel.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output label folders, the archive holding
// area, and the log directory. The extracted route tree is never created;
// it must be populated by the downloader.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.ArchiveDir, c.Paths.LogDir}
	for _, label := range c.LabelNames() {
		dirs = append(dirs, c.LabelDir(label))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if dir := filepath.Dir(c.Paths.PreviewPath); strings.TrimSpace(c.Paths.PreviewPath) != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create preview directory %q: %w", dir, err)
		}
	}
	return nil
}

// LabelNames returns the human label names in configuration order.
func (c *Config) LabelNames() []string {
	names := make([]string, 0, len(c.Labels.Classes))
	for _, class := range c.Labels.Classes {
		names = append(names, class.Name)
	}
	return names
}

// LabelDir returns the output folder that receives frames filed under label.
func (c *Config) LabelDir(label string) string {
	return filepath.Join(c.Paths.OutputDir, label)
}

// DefaultSkipFrames converts the configured skip cadence from seconds to frames.
func (c *Config) DefaultSkipFrames() int {
	return SecondsToFrames(c.Review.DefaultSkipSeconds, c.Review.FrameRate)
}

// SecondsToFrames returns max(0, floor(seconds*frameRate)).
func SecondsToFrames(seconds, frameRate float64) int {
	frames := math.Floor(seconds * frameRate)
	if math.IsNaN(frames) || frames <= 0 {
		return 0
	}
	if frames > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(frames)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
