package review

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"time"

	"routelabel/internal/frames"
	"routelabel/internal/inference"
	"routelabel/internal/labels"
	"routelabel/internal/ledger"
	"routelabel/internal/logging"
	"routelabel/internal/metrics"
	"routelabel/internal/preload"
	"routelabel/internal/services"
)

// CommandSource supplies reviewer input one line at a time. It returns
// io.EOF when the reviewer closes the channel.
type CommandSource interface {
	ReadCommand(ctx context.Context, prompt string) (string, error)
}

// Preview displays a frame with its caption. Display failures are the
// sink's own concern.
type Preview interface {
	Show(img image.Image, caption string)
}

// Filer relocates frames and archives reviewed routes.
type Filer interface {
	File(routeDir, frame, label string) (string, error)
	Archive(routeDir string) (string, error)
}

// Recorder appends decisions and route outcomes to the audit trail.
type Recorder interface {
	RecordDecision(ctx context.Context, decision ledger.Decision) error
	RecordRoute(ctx context.Context, record ledger.RouteRecord) error
}

// Queue is the consumer side of the ready queue.
type Queue interface {
	Receive(ctx context.Context) (preload.ReadyRoute, bool, error)
}

// Options configures a Session.
type Options struct {
	SessionID   string
	Labels      *labels.Set
	Source      CommandSource
	Preview     Preview
	Filer       Filer
	Recorder    Recorder
	Out         io.Writer
	FrameRate   float64
	DefaultSkip int
	// Display is the crop geometry for previews; its Top is ignored.
	Display     frames.Geometry
	Metrics     *metrics.Collector
	Logger      *slog.Logger
}

// Summary counts what a session did.
type Summary struct {
	Routes  int
	Frames  int
	Shown   int
	Filed   int
	Skipped int
	Quit    bool
}

// Session is the consumer side of a review run. It is not safe for
// concurrent use.
type Session struct {
	opts    Options
	logger  *slog.Logger
	state   State
	summary Summary
}

// errQuit unwinds a route when the reviewer asks to stop.
var errQuit = errors.New("reviewer quit")

// NewSession constructs a session starting from the default cadence.
func NewSession(opts Options) *Session {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Session{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "review"),
		state:  NewState(opts.DefaultSkip),
	}
}

// State returns the current skip counters.
func (s *Session) State() State {
	return s.state
}

// Run reviews routes from queue in order until the queue is closed and
// drained, the reviewer quits, or ctx is cancelled. Cancellation is returned
// as ctx.Err(); quitting is not an error.
func (s *Session) Run(ctx context.Context, queue Queue) (Summary, error) {
	ctx = services.WithStage(ctx, "review")
	if s.opts.Labels != nil {
		fmt.Fprint(s.opts.Out, "-----\n"+s.opts.Labels.Help()+"-----\n")
	}
	first := true
	for {
		route, ok, err := queue.Receive(ctx)
		if err != nil {
			return s.summary, err
		}
		if !ok {
			fmt.Fprintln(s.opts.Out, "All routes classified!")
			return s.summary, nil
		}
		if !first {
			fmt.Fprintln(s.opts.Out, "NEXT ROUTE!")
		}
		first = false

		err = s.reviewRoute(services.WithRoute(ctx, route.Name), route)
		switch {
		case errors.Is(err, errQuit):
			s.summary.Quit = true
			return s.summary, nil
		case err != nil:
			return s.summary, err
		}
	}
}

func (s *Session) reviewRoute(ctx context.Context, route preload.ReadyRoute) error {
	logger := logging.WithContext(ctx, s.logger)
	fmt.Fprintf(s.opts.Out, "Route: %s\n", route.Name)
	logger.Info("route review started",
		logging.Int("frames", route.Len()),
		logging.Event("route_review_started"),
	)

	var shown, filed int
	for idx := 0; idx < route.Len(); idx++ {
		if err := ctx.Err(); err != nil {
			s.finishAborted(ctx, logger, route, shown, filed, err)
			return err
		}
		var show bool
		s.state, show = s.state.Next()
		if !show {
			s.summary.Skipped++
			s.opts.Metrics.FrameSkipped()
			continue
		}
		shown++
		s.summary.Shown++

		didFile, err := s.reviewFrame(ctx, logger, route, idx)
		if didFile {
			filed++
			s.summary.Filed++
		}
		if err != nil {
			s.finishAborted(ctx, logger, route, shown, filed, err)
			return err
		}
	}

	s.state = s.state.EndRoute()
	s.summary.Routes++
	s.summary.Frames += route.Len()

	detail := ""
	if dest, err := s.opts.Filer.Archive(route.Dir); err != nil {
		detail = err.Error()
		logging.ErrorWithContext(logger, "route archive failed", "route_archive_failed",
			logging.Error(err),
			logging.Hint("move the route directory into the archive by hand"),
		)
	} else {
		logger.Info("route reviewed",
			logging.Int("shown", shown),
			logging.Int("filed", filed),
			logging.String("archived_to", dest),
			logging.Event("route_reviewed"),
		)
	}
	s.recordRoute(ctx, logger, ledger.RouteRecord{
		Route:      route.Name,
		Outcome:    ledger.OutcomeReviewed,
		FrameCount: route.Len(),
		ShownCount: shown,
		FiledCount: filed,
		Detail:     detail,
	})
	return nil
}

// reviewFrame presents one frame and reads commands until one advances.
func (s *Session) reviewFrame(ctx context.Context, logger *slog.Logger, route preload.ReadyRoute, idx int) (bool, error) {
	frame := route.Frames[idx]
	modelClass, suggested, probability := s.suggest(route.Predictions[idx])

	fmt.Fprintf(s.opts.Out, "At frame: %d\n", idx)
	if s.opts.Preview != nil {
		s.opts.Preview.Show(frame.Crop(s.opts.Display.WithoutTop()).ToImage(), FormatCaption(suggested, probability))
	}

	for {
		line, err := s.opts.Source.ReadCommand(ctx, "> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, errQuit
			}
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			return false, fmt.Errorf("read command: %w", err)
		}
		cmd, parseErr := ParseCommand(line, s.opts.Labels)
		next, action := Transition(s.state, cmd, s.opts.FrameRate)
		s.state = next

		switch action.Kind {
		case ActionFile:
			dest, err := s.opts.Filer.File(route.Dir, route.FrameNames[idx], action.Label)
			if err != nil {
				fmt.Fprintf(s.opts.Out, "Could not move frame: %v\n", err)
				logging.ErrorWithContext(logger, "frame relocation failed", "frame_relocation_failed",
					logging.Frame(route.FrameNames[idx]),
					logging.String("label", action.Label),
					logging.Error(err),
					logging.Hint("check permissions on the output directory"),
				)
				return false, nil
			}
			fmt.Fprintf(s.opts.Out, "Moved to %s folder!\n", action.Label)
			s.opts.Metrics.FrameFiled(action.Label, action.Label == suggested)
			s.recordDecision(ctx, logger, ledger.Decision{
				Route:          route.Name,
				Frame:          route.FrameNames[idx],
				FrameIndex:     frame.Index,
				ModelClass:     modelClass,
				SuggestedLabel: suggested,
				Confidence:     probability,
				Label:          action.Label,
				Destination:    dest,
			})
			return true, nil
		case ActionAdvance:
			fmt.Fprintf(s.opts.Out, "Skipping %d frames!\n", action.Frames)
			return false, nil
		case ActionReprompt:
			fmt.Fprintf(s.opts.Out, "Set skipping to %d frames!\n", action.Frames)
		case ActionHelp:
			if s.opts.Labels != nil {
				fmt.Fprint(s.opts.Out, s.opts.Labels.Help())
			}
		case ActionQuit:
			return false, errQuit
		default:
			if parseErr != nil {
				logger.Debug("command rejected", logging.String("input", line), logging.Error(parseErr))
			}
			fmt.Fprintln(s.opts.Out, "Invalid input, try again!")
		}
	}
}

func (s *Session) suggest(p inference.Prediction) (modelClass, label string, probability float64) {
	idx, probability := p.Argmax()
	if s.opts.Labels != nil {
		if class, suggested, ok := s.opts.Labels.Suggest(idx); ok {
			return class, suggested, probability
		}
	}
	return "", "UNKNOWN", probability
}

func (s *Session) finishAborted(ctx context.Context, logger *slog.Logger, route preload.ReadyRoute, shown, filed int, cause error) {
	s.state = s.state.EndRoute()
	logging.WarnWithContext(logger, "route review stopped early", "route_review_aborted",
		logging.Int("shown", shown),
		logging.Int("filed", filed),
		logging.String("reason", cause.Error()),
		logging.Impact("route left in the route tree with its unfiled frames"),
		logging.Hint("run review again to finish the route"),
	)
	// The stop may come from a cancelled ctx; the audit write must still land.
	recordCtx := context.WithoutCancel(ctx)
	s.recordRoute(recordCtx, logger, ledger.RouteRecord{
		Route:      route.Name,
		Outcome:    ledger.OutcomeAborted,
		FrameCount: route.Len(),
		ShownCount: shown,
		FiledCount: filed,
		Detail:     cause.Error(),
	})
}

func (s *Session) recordDecision(ctx context.Context, logger *slog.Logger, d ledger.Decision) {
	if s.opts.Recorder == nil {
		return
	}
	d.SessionID = s.opts.SessionID
	d.CreatedAt = time.Now()
	if err := s.opts.Recorder.RecordDecision(ctx, d); err != nil {
		logging.WarnWithContext(logger, "ledger write failed", "ledger_write_failed",
			logging.Error(err),
			logging.Impact("decision missing from stats"),
		)
	}
}

func (s *Session) recordRoute(ctx context.Context, logger *slog.Logger, r ledger.RouteRecord) {
	s.opts.Metrics.RouteFinished(r.Outcome)
	if s.opts.Recorder == nil {
		return
	}
	r.SessionID = s.opts.SessionID
	if err := s.opts.Recorder.RecordRoute(ctx, r); err != nil {
		logging.WarnWithContext(logger, "ledger write failed", "ledger_write_failed",
			logging.Error(err),
			logging.Impact("route outcome missing from stats"),
		)
	}
}
