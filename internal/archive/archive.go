// Package archive moves reviewed frames and routes out of the route tree.
package archive

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"routelabel/internal/config"
	"routelabel/internal/fileutil"
	"routelabel/internal/services"
	"routelabel/internal/textutil"
)

// maxArchiveSuffix bounds the search for a free archive name.
const maxArchiveSuffix = 1000

// Archiver relocates frames into label folders and whole routes into the
// holding area.
type Archiver struct {
	archiveDir string
	outputDir  string
}

// New builds an archiver from explicit directories.
func New(archiveDir, outputDir string) *Archiver {
	return &Archiver{archiveDir: archiveDir, outputDir: outputDir}
}

// FromConfig builds an archiver for the configured paths.
func FromConfig(cfg *config.Config) *Archiver {
	return New(cfg.Paths.ArchiveDir, cfg.Paths.OutputDir)
}

// Archive moves routeDir into the archive directory, keeping its basename.
// If that name is taken, a numeric suffix is appended. Callers archive each
// route once; a second call for the same directory fails because the source
// is gone.
func (a *Archiver) Archive(routeDir string) (string, error) {
	name := filepath.Base(filepath.Clean(routeDir))
	if err := os.MkdirAll(a.archiveDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "archive", "create archive dir", a.archiveDir, err)
	}
	dest := filepath.Join(a.archiveDir, name)
	for i := 2; ; i++ {
		err := fileutil.MoveDir(routeDir, dest)
		if err == nil {
			return dest, nil
		}
		if !errors.Is(err, fileutil.ErrDestinationExists) || i > maxArchiveSuffix {
			return "", services.Wrap(services.ErrExternalTool, "archive", "move route", name, err)
		}
		dest = filepath.Join(a.archiveDir, name+"-"+strconv.Itoa(i))
	}
}

// File moves frame from routeDir into the folder for label and returns the
// destination. Filing a frame that already sits at its destination is a
// no-op; an unrelated file at the destination is never overwritten.
func (a *Archiver) File(routeDir, frame, label string) (string, error) {
	if err := textutil.CheckSegment(frame); err != nil {
		return "", services.Wrap(services.ErrValidation, "archive", "file frame", "frame name", err)
	}
	if err := textutil.CheckSegment(label); err != nil {
		return "", services.Wrap(services.ErrValidation, "archive", "file frame", "label", err)
	}
	src := filepath.Join(routeDir, frame)
	labelDir := filepath.Join(a.outputDir, label)
	dest := filepath.Join(labelDir, frame)

	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		if _, destErr := os.Stat(dest); destErr == nil {
			return dest, nil
		}
		return "", services.Wrap(services.ErrNotFound, "archive", "file frame", frame, err)
	}
	if err := os.MkdirAll(labelDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "archive", "create label dir", labelDir, err)
	}
	if err := fileutil.MoveFile(src, dest); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "archive", "file frame", frame, err)
	}
	return dest, nil
}
