// Package logging builds the slog loggers used by routelabel.
//
// It owns the console and JSON handlers, the tee that copies every record into
// a per-run log file, and context helpers that tag lines with the route, stage,
// and session currently being processed. NewNop returns a discarding logger for
// tests and for wiring code that must not fail.
package logging
