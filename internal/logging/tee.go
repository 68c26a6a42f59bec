package logging

import (
	"context"
	"log/slog"
)

// sink is one destination of a tee together with its own floor. The console
// sink of an interactive review sits at warn while the run file keeps info.
// A nil floor defers to the handler's own level.
type sink struct {
	handler slog.Handler
	floor   slog.Leveler
}

func (s sink) accepts(ctx context.Context, level slog.Level) bool {
	return (s.floor == nil || level >= s.floor.Level()) && s.handler.Enabled(ctx, level)
}

// teeHandler writes each record to every sink that accepts its level.
type teeHandler struct {
	sinks []sink
}

// newTee drops sinks without a handler. A single remaining sink with no floor
// is returned unwrapped.
func newTee(sinks ...sink) slog.Handler {
	kept := make([]sink, 0, len(sinks))
	for _, s := range sinks {
		if s.handler != nil {
			kept = append(kept, s)
		}
	}
	switch {
	case len(kept) == 0:
		return discardHandler{}
	case len(kept) == 1 && kept[0].floor == nil:
		return kept[0].handler
	}
	return &teeHandler{sinks: kept}
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range h.sinks {
		if s.accepts(ctx, level) {
			return true
		}
	}
	return false
}

func (h *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	last := len(h.sinks) - 1
	for i, s := range h.sinks {
		if !s.accepts(ctx, record.Level) {
			continue
		}
		rec := record
		if i < last {
			rec = record.Clone()
		}
		if err := s.handler.Handle(ctx, rec); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(next slog.Handler) slog.Handler { return next.WithAttrs(attrs) })
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(next slog.Handler) slog.Handler { return next.WithGroup(name) })
}

func (h *teeHandler) derive(fn func(slog.Handler) slog.Handler) slog.Handler {
	sinks := make([]sink, len(h.sinks))
	for i, s := range h.sinks {
		sinks[i] = sink{handler: fn(s.handler), floor: s.floor}
	}
	return &teeHandler{sinks: sinks}
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }
