package config

const (
	defaultExtractedDir       = "~/routelabel/new_data/extracted"
	defaultOutputDir          = "~/routelabel/data/to_add"
	defaultArchiveDir         = "~/routelabel/new_data/extracted/already_classified"
	defaultLogDir             = "~/.local/share/routelabel/logs"
	defaultPreviewPath        = "~/.local/share/routelabel/preview.jpg"
	defaultModelBaseURL       = "http://127.0.0.1:8501"
	defaultModelName          = "latest_3_class_93_val_acc"
	defaultModelTimeout       = 120
	defaultCropSide           = 175
	defaultCropTop            = 0
	defaultCropHoodY          = 665
	defaultFrameRate          = 20
	defaultSkipSeconds        = 0.5
	defaultMaxPreloadedRoutes = 2
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLogRetentionDays   = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ExtractedDir: defaultExtractedDir,
			OutputDir:    defaultOutputDir,
			ArchiveDir:   defaultArchiveDir,
			LogDir:       defaultLogDir,
			PreviewPath:  defaultPreviewPath,
			ReservedDirs: defaultReservedDirs(),
		},
		Labels: Labels{
			Classes:      defaultLabelClasses(),
			ModelClasses: []string{"SLOW", "GREEN", "NONE"},
			Suggestions: map[string]string{
				"SLOW":  "RED",
				"GREEN": "GREEN",
				"NONE":  "NONE",
			},
		},
		Model: Model{
			BaseURL:        defaultModelBaseURL,
			Name:           defaultModelName,
			TimeoutSeconds: defaultModelTimeout,
		},
		Crop: Crop{
			Side:  defaultCropSide,
			Top:   defaultCropTop,
			HoodY: defaultCropHoodY,
		},
		Review: Review{
			FrameRate:          defaultFrameRate,
			DefaultSkipSeconds: defaultSkipSeconds,
			MaxPreloadedRoutes: defaultMaxPreloadedRoutes,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}

func defaultReservedDirs() []string {
	return []string{"already_classified", "todo", "temp"}
}

func defaultLabelClasses() []LabelClass {
	return []LabelClass{
		{Name: "RED", Key: "R"},
		{Name: "GREEN", Key: "G"},
		{Name: "YELLOW", Key: "Y"},
		{Name: "NONE", Key: "N"},
	}
}
