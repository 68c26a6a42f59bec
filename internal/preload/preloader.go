package preload

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"routelabel/internal/catalog"
	"routelabel/internal/frames"
	"routelabel/internal/inference"
	"routelabel/internal/ledger"
	"routelabel/internal/logging"
	"routelabel/internal/metrics"
	"routelabel/internal/services"
)

// FrameLoader decodes the named frames of a route directory.
type FrameLoader interface {
	Load(ctx context.Context, dir string, names []string) ([]frames.Frame, error)
}

// Scorer returns one prediction per frame.
type Scorer interface {
	Score(ctx context.Context, batch []frames.Frame) ([]inference.Prediction, error)
}

// Archiver moves a route directory out of the route tree.
type Archiver interface {
	Archive(routeDir string) (string, error)
}

// Recorder persists route outcomes.
type Recorder interface {
	RecordRoute(ctx context.Context, record ledger.RouteRecord) error
}

// Failure reports a route that could not be scored. The route stays in the
// route tree for a later run.
type Failure struct {
	Route string
	Err   error
}

// Options configures a Preloader.
type Options struct {
	Root      string
	Reserved  []string
	Queue     *ReadyQueue
	Loader    FrameLoader
	Scorer    Scorer
	Archiver  Archiver
	Recorder  Recorder
	SessionID string
	Metrics   *metrics.Collector
	Logger    *slog.Logger
}

// Preloader is the producer side of a review run.
type Preloader struct {
	opts     Options
	logger   *slog.Logger
	failures chan Failure
}

// failureBuffer bounds how many failures may be pending before the producer
// waits for the reader.
const failureBuffer = 16

// New constructs a preloader. Failures must be drained while Run executes.
func New(opts Options) *Preloader {
	return &Preloader{
		opts:     opts,
		logger:   logging.NewComponentLogger(opts.Logger, "preload"),
		failures: make(chan Failure, failureBuffer),
	}
}

// Failures delivers scoring failures. It is closed when Run returns.
func (p *Preloader) Failures() <-chan Failure {
	return p.failures
}

// Queue returns the queue routes are published to.
func (p *Preloader) Queue() *ReadyQueue {
	return p.opts.Queue
}

// Run processes every route in catalog order and closes the queue when done.
// It returns ctx.Err() on cancellation and an error if the catalog cannot be
// read; per-route problems never stop the run.
func (p *Preloader) Run(ctx context.Context) error {
	defer close(p.failures)
	defer p.opts.Queue.Close()

	ctx = services.WithStage(ctx, "preload")
	routes, err := catalog.List(p.opts.Root, p.opts.Reserved)
	if err != nil {
		return services.Wrap(services.ErrNotFound, "preload", "list routes", p.opts.Root, err)
	}
	p.logger.Info("route catalog listed",
		logging.Int("routes", len(routes)),
		logging.String("root", p.opts.Root),
		logging.Event("catalog_listed"),
	)

	for _, name := range routes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.opts.Queue.Reserve(ctx); err != nil {
			return err
		}
		if err := p.prepare(services.WithRoute(ctx, name), name); err != nil {
			p.opts.Queue.Release()
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}
	p.logger.Info("all routes preloaded", logging.Event("preload_complete"))
	return nil
}

// prepare builds and publishes one route under a held reservation. A non-nil
// error means the reservation was not consumed.
func (p *Preloader) prepare(ctx context.Context, name string) error {
	logger := logging.WithContext(ctx, p.logger)
	dir := filepath.Join(p.opts.Root, name)

	names, err := frames.ListNames(dir)
	if err != nil {
		p.fail(ctx, logger, name, 0, services.Wrap(services.ErrNotFound, "preload", "list frames", name, err))
		return err
	}
	loaded, err := p.opts.Loader.Load(ctx, dir, names)
	if err != nil {
		return err
	}
	if len(loaded) == 0 {
		p.archiveEmpty(ctx, logger, name, dir, len(names))
		return services.Wrap(services.ErrEmptyRoute, "preload", "load", name, nil)
	}

	logger.Info("scoring route",
		logging.Int("frames", len(loaded)),
		logging.Event("route_scoring"),
	)
	started := time.Now()
	predictions, err := p.opts.Scorer.Score(ctx, loaded)
	if ctx.Err() == nil {
		p.opts.Metrics.ObserveInference(time.Since(started), len(loaded), err)
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.fail(ctx, logger, name, len(loaded), err)
		return err
	}

	route := ReadyRoute{
		Name:        name,
		Dir:         dir,
		FrameNames:  make([]string, len(loaded)),
		Frames:      loaded,
		Predictions: predictions,
	}
	for i, f := range loaded {
		route.FrameNames[i] = f.Name
	}
	if err := p.opts.Queue.Publish(route); err != nil {
		logging.WarnWithContext(logger, "route not queued", "route_publish_rejected",
			logging.Error(err),
			logging.Impact("route skipped this run"),
			logging.Hint("check the route tree for duplicate entries"),
		)
		return err
	}
	logger.Info("route ready",
		logging.Int("frames", route.Len()),
		logging.Int("queued", p.opts.Queue.Len()),
		logging.Event("route_ready"),
	)
	return nil
}

func (p *Preloader) archiveEmpty(ctx context.Context, logger *slog.Logger, name, dir string, candidates int) {
	dest, err := p.opts.Archiver.Archive(dir)
	if err != nil {
		logging.ErrorWithContext(logger, "empty route archive failed", "route_archive_failed",
			logging.Error(err),
			logging.Hint("move the route directory out of the route tree by hand"),
		)
	} else {
		logging.WarnWithContext(logger, "route has no usable frames", "route_empty",
			logging.Int("candidates", candidates),
			logging.String("archived_to", dest),
			logging.Impact("route archived without review"),
			logging.Hint("inspect the frame files in the archive"),
		)
	}
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	p.record(ctx, logger, ledger.RouteRecord{
		Route:      name,
		Outcome:    services.FailureOutcome(services.ErrEmptyRoute),
		FrameCount: 0,
		Detail:     detail,
	})
}

func (p *Preloader) fail(ctx context.Context, logger *slog.Logger, name string, frameCount int, err error) {
	logging.ErrorWithContext(logger, "route scoring failed", "route_inference_failed",
		logging.Error(err),
		logging.Int("frames", frameCount),
		logging.Hint("check the model server with 'routelabel check'"),
	)
	p.record(ctx, logger, ledger.RouteRecord{
		Route:      name,
		Outcome:    services.FailureOutcome(err),
		FrameCount: frameCount,
		Detail:     err.Error(),
	})
	select {
	case p.failures <- Failure{Route: name, Err: err}:
	case <-ctx.Done():
	}
}

func (p *Preloader) record(ctx context.Context, logger *slog.Logger, record ledger.RouteRecord) {
	p.opts.Metrics.RouteFinished(record.Outcome)
	if p.opts.Recorder == nil {
		return
	}
	record.SessionID = p.opts.SessionID
	if err := p.opts.Recorder.RecordRoute(ctx, record); err != nil {
		logging.WarnWithContext(logger, "ledger write failed", "ledger_write_failed",
			logging.Error(err),
			logging.Impact("route outcome missing from stats"),
		)
	}
}

// SummarizeFailures renders failures for the end-of-session report.
func SummarizeFailures(failures []Failure) string {
	if len(failures) == 0 {
		return ""
	}
	msg := fmt.Sprintf("%d route(s) could not be scored and were left in place:", len(failures))
	for _, f := range failures {
		reason := "unknown error"
		if f.Err != nil {
			reason = f.Err.Error()
		}
		msg += "\n  " + f.Route + ": " + reason
	}
	return msg
}
