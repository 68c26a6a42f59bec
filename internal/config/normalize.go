package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"routelabel/internal/textutil"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLabels()
	c.normalizeModel()
	c.normalizeReview()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.ExtractedDir, err = expandPath(c.Paths.ExtractedDir); err != nil {
		return fmt.Errorf("paths.extracted_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.ArchiveDir, err = expandPath(c.Paths.ArchiveDir); err != nil {
		return fmt.Errorf("paths.archive_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.PreviewPath) == "" {
		c.Paths.PreviewPath = defaultPreviewPath
	}
	if c.Paths.PreviewPath, err = expandPath(c.Paths.PreviewPath); err != nil {
		return fmt.Errorf("paths.preview_path: %w", err)
	}

	reserved := make([]string, 0, len(c.Paths.ReservedDirs)+1)
	seen := make(map[string]struct{}, len(c.Paths.ReservedDirs)+1)
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		reserved = append(reserved, name)
	}
	for _, name := range c.Paths.ReservedDirs {
		add(name)
	}
	// An archive area nested in the route tree must never be listed as a route.
	if c.Paths.ArchiveDir != "" && filepath.Dir(c.Paths.ArchiveDir) == c.Paths.ExtractedDir {
		add(filepath.Base(c.Paths.ArchiveDir))
	}
	c.Paths.ReservedDirs = reserved
	return nil
}

func (c *Config) normalizeLabels() {
	classes := make([]LabelClass, 0, len(c.Labels.Classes))
	for _, class := range c.Labels.Classes {
		name := textutil.Canonical(class.Name)
		if name == "" {
			continue
		}
		classes = append(classes, LabelClass{Name: name, Key: textutil.Canonical(class.Key)})
	}
	c.Labels.Classes = classes

	modelClasses := make([]string, 0, len(c.Labels.ModelClasses))
	for _, class := range c.Labels.ModelClasses {
		modelClasses = append(modelClasses, textutil.Canonical(class))
	}
	c.Labels.ModelClasses = modelClasses

	suggestions := make(map[string]string, len(c.Labels.Suggestions))
	for modelClass, label := range c.Labels.Suggestions {
		suggestions[textutil.Canonical(modelClass)] = textutil.Canonical(label)
	}
	c.Labels.Suggestions = suggestions
}

func (c *Config) normalizeModel() {
	c.Model.BaseURL = strings.TrimRight(strings.TrimSpace(c.Model.BaseURL), "/")
	if c.Model.BaseURL == "" {
		if value, ok := os.LookupEnv("ROUTELABEL_MODEL_URL"); ok {
			c.Model.BaseURL = strings.TrimRight(strings.TrimSpace(value), "/")
		}
	}
	c.Model.Name = strings.TrimSpace(c.Model.Name)
	if c.Model.TimeoutSeconds <= 0 {
		c.Model.TimeoutSeconds = defaultModelTimeout
	}
}

func (c *Config) normalizeReview() {
	if c.Review.DefaultSkipSeconds < 0 {
		c.Review.DefaultSkipSeconds = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json", "color":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
