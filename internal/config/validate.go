package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"routelabel/internal/textutil"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLabels(); err != nil {
		return err
	}
	if err := c.validateModel(); err != nil {
		return err
	}
	if err := c.validateCrop(); err != nil {
		return err
	}
	if err := c.validateReview(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.ExtractedDir) == "" {
		return errors.New("paths.extracted_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.ArchiveDir) == "" {
		return errors.New("paths.archive_dir must be set")
	}
	if c.Paths.OutputDir == c.Paths.ExtractedDir {
		return errors.New("paths.output_dir must differ from paths.extracted_dir")
	}
	if c.Paths.ArchiveDir == c.Paths.ExtractedDir {
		return errors.New("paths.archive_dir must differ from paths.extracted_dir")
	}
	if c.Paths.ArchiveDir == c.Paths.OutputDir {
		return errors.New("paths.archive_dir must differ from paths.output_dir")
	}
	return nil
}

func (c *Config) validateLabels() error {
	if len(c.Labels.Classes) == 0 {
		return errors.New("labels.classes must include at least one label")
	}
	names := make(map[string]struct{}, len(c.Labels.Classes))
	keys := make(map[string]string, len(c.Labels.Classes))
	for _, class := range c.Labels.Classes {
		if err := textutil.CheckSegment(class.Name); err != nil {
			return fmt.Errorf("labels.classes: not a valid folder name: %w", err)
		}
		if isReservedWord(class.Name) {
			return fmt.Errorf("labels.classes: %q collides with a reviewer command", class.Name)
		}
		if _, dup := names[class.Name]; dup {
			return fmt.Errorf("labels.classes: duplicate label %q", class.Name)
		}
		names[class.Name] = struct{}{}
		if class.Key == "" {
			continue
		}
		if utf8.RuneCountInString(class.Key) != 1 {
			return fmt.Errorf("labels.classes: key for %q must be a single character, got %q", class.Name, class.Key)
		}
		if other, dup := keys[class.Key]; dup {
			return fmt.Errorf("labels.classes: key %q used by both %q and %q", class.Key, other, class.Name)
		}
		if isReservedWord(class.Key) {
			return fmt.Errorf("labels.classes: key %q collides with a reviewer command", class.Key)
		}
		keys[class.Key] = class.Name
	}
	for key, owner := range keys {
		if _, clash := names[key]; clash && owner != key {
			return fmt.Errorf("labels.classes: key %q of %q is also a label name", key, owner)
		}
	}

	if len(c.Labels.ModelClasses) == 0 {
		return errors.New("labels.model_classes must include at least one class")
	}
	seen := make(map[string]struct{}, len(c.Labels.ModelClasses))
	for _, class := range c.Labels.ModelClasses {
		if class == "" {
			return errors.New("labels.model_classes must not contain empty names")
		}
		if _, dup := seen[class]; dup {
			return fmt.Errorf("labels.model_classes: duplicate class %q", class)
		}
		seen[class] = struct{}{}
		suggestion, ok := c.Labels.Suggestions[class]
		if !ok {
			return fmt.Errorf("labels.suggestions: missing suggestion for model class %q", class)
		}
		if _, known := names[suggestion]; !known {
			return fmt.Errorf("labels.suggestions: model class %q suggests unknown label %q", class, suggestion)
		}
	}
	return nil
}

func (c *Config) validateModel() error {
	if strings.TrimSpace(c.Model.BaseURL) == "" {
		return errors.New("model.base_url must be set (or export ROUTELABEL_MODEL_URL)")
	}
	if strings.TrimSpace(c.Model.Name) == "" {
		return errors.New("model.name must be set")
	}
	if c.Model.TimeoutSeconds <= 0 {
		return errors.New("model.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateCrop() error {
	if err := ensureNonNegativeMap(map[string]int{
		"crop.side":   c.Crop.Side,
		"crop.top":    c.Crop.Top,
		"crop.hood_y": c.Crop.HoodY,
	}); err != nil {
		return err
	}
	if c.Crop.HoodY > 0 && c.Crop.HoodY <= c.Crop.Top {
		return errors.New("crop.hood_y must be greater than crop.top")
	}
	return nil
}

func (c *Config) validateReview() error {
	if c.Review.FrameRate <= 0 || math.IsNaN(c.Review.FrameRate) || math.IsInf(c.Review.FrameRate, 0) {
		return errors.New("review.frame_rate must be a positive number")
	}
	if math.IsNaN(c.Review.DefaultSkipSeconds) || math.IsInf(c.Review.DefaultSkipSeconds, 0) {
		return errors.New("review.default_skip_seconds must be a finite number")
	}
	if c.Review.MaxPreloadedRoutes < 1 {
		return errors.New("review.max_preloaded_routes must be >= 1")
	}
	return nil
}

// isReservedWord reports whether value would be parsed as a reviewer command
// rather than a label.
func isReservedWord(value string) bool {
	switch value {
	case "SKIP", "QUIT", "Q", "HELP", "?":
		return true
	}
	return false
}

func ensureNonNegativeMap(values map[string]int) error {
	for key, value := range values {
		if value < 0 {
			return fmt.Errorf("%s must be >= 0", key)
		}
	}
	return nil
}
