package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"routelabel/internal/archive"
	"routelabel/internal/config"
	"routelabel/internal/frames"
	"routelabel/internal/inference"
	"routelabel/internal/labels"
	"routelabel/internal/ledger"
	"routelabel/internal/logging"
	"routelabel/internal/metrics"
	"routelabel/internal/preflight"
	"routelabel/internal/preload"
	"routelabel/internal/review"
	"routelabel/internal/services"
)

// ErrLocked reports that another review session owns the route tree.
var ErrLocked = errors.New("another routelabel review session is already running on this route tree")

// lockFileName is hidden so the route catalog never lists it.
const lockFileName = ".routelabel.lock"

// Options configures a review run. Source and Preview are required.
type Options struct {
	Source  review.CommandSource
	Preview review.Preview
	Out     io.Writer
	Logger  *slog.Logger

	// Classifier overrides the HTTP model client built from cfg.Model.
	Classifier    inference.Classifier
	Metrics       *metrics.Collector
	SkipPreflight bool
	SessionID     string
}

// Result describes a finished run.
type Result struct {
	SessionID string
	Summary   review.Summary
	Failures  []preload.Failure
	Duration  time.Duration
}

// LockPath returns the lock file guarding cfg's route tree.
func LockPath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.ExtractedDir, lockFileName)
}

// Run executes one review session. A cancelled ctx stops the run cleanly and
// is not reported as an error.
func Run(ctx context.Context, cfg *config.Config, opts Options) (Result, error) {
	if cfg == nil {
		return Result{}, errors.New("config is required")
	}
	if opts.Source == nil || opts.Preview == nil {
		return Result{}, errors.New("pipeline requires a command source and a preview")
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	started := time.Now()

	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	ctx = services.WithSessionID(ctx, sessionID)
	logger := logging.NewComponentLogger(opts.Logger, "pipeline")
	result := Result{SessionID: sessionID}

	if err := cfg.EnsureDirectories(); err != nil {
		return result, services.Wrap(services.ErrConfiguration, "pipeline", "prepare directories", "", err)
	}

	lock := flock.New(LockPath(cfg))
	ok, err := lock.TryLock()
	if err != nil {
		return result, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return result, ErrLocked
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release route tree lock", logging.Error(err))
		}
	}()

	if !opts.SkipPreflight {
		if err := preflight.Err(preflight.RunAll(ctx, cfg)); err != nil {
			return result, services.Wrap(services.ErrConfiguration, "pipeline", "preflight", "", err)
		}
	}

	set, err := labels.New(cfg.Labels)
	if err != nil {
		return result, services.Wrap(services.ErrConfiguration, "pipeline", "labels", "", err)
	}

	store, err := ledger.Open(cfg)
	if err != nil {
		return result, fmt.Errorf("open ledger: %w", err)
	}
	defer store.Close()

	classifier := opts.Classifier
	if classifier == nil {
		classifier = inference.NewClient(inference.Config{
			BaseURL:        cfg.Model.BaseURL,
			Model:          cfg.Model.Name,
			TimeoutSeconds: cfg.Model.TimeoutSeconds,
		})
	}
	geometry := frames.Geometry{Side: cfg.Crop.Side, Top: cfg.Crop.Top, HoodY: cfg.Crop.HoodY}
	archiver := archive.FromConfig(cfg)
	queue := preload.NewReadyQueue(cfg.Review.MaxPreloadedRoutes)
	opts.Metrics.WatchQueue(queue.Len, queue.Reserved)

	preloader := preload.New(preload.Options{
		Root:      cfg.Paths.ExtractedDir,
		Reserved:  cfg.Paths.ReservedDirs,
		Queue:     queue,
		Loader:    frames.NewLoader(opts.Logger),
		Scorer:    inference.NewAdapter(classifier, geometry, len(set.ModelClasses())),
		Archiver:  archiver,
		Recorder:  store,
		SessionID: sessionID,
		Metrics:   opts.Metrics,
		Logger:    opts.Logger,
	})
	session := review.NewSession(review.Options{
		SessionID:   sessionID,
		Labels:      set,
		Source:      opts.Source,
		Preview:     opts.Preview,
		Filer:       archiver,
		Recorder:    store,
		Out:         opts.Out,
		FrameRate:   cfg.Review.FrameRate,
		DefaultSkip: cfg.DefaultSkipFrames(),
		Display:     geometry,
		Metrics:     opts.Metrics,
		Logger:      opts.Logger,
	})

	logging.WithContext(ctx, logger).Info("review session started",
		logging.String("route_tree", cfg.Paths.ExtractedDir),
		logging.Int("max_preloaded_routes", cfg.Review.MaxPreloadedRoutes),
		logging.Int("default_skip_frames", cfg.DefaultSkipFrames()),
		logging.Event("session_started"),
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var producer errgroup.Group
	producer.Go(func() error {
		return preloader.Run(runCtx)
	})
	producer.Go(func() error {
		for failure := range preloader.Failures() {
			result.Failures = append(result.Failures, failure)
		}
		return nil
	})

	summary, sessionErr := session.Run(runCtx, queue)
	cancel()
	producerErr := producer.Wait()

	result.Summary = summary
	result.Duration = time.Since(started)

	if msg := preload.SummarizeFailures(result.Failures); msg != "" {
		fmt.Fprintln(opts.Out, msg)
	}
	logging.WithContext(ctx, logger).Info("review session finished",
		logging.Int("routes", summary.Routes),
		logging.Int("frames_shown", summary.Shown),
		logging.Int("frames_filed", summary.Filed),
		logging.Int("frames_skipped", summary.Skipped),
		logging.Int("routes_failed", len(result.Failures)),
		logging.Bool("quit", summary.Quit),
		logging.Duration("duration", result.Duration),
		logging.Event("session_finished"),
	)

	if sessionErr != nil && !isStop(sessionErr) {
		return result, sessionErr
	}
	if producerErr != nil && !isStop(producerErr) {
		return result, producerErr
	}
	return result, nil
}

func isStop(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
