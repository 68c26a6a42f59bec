// Package services defines shared utilities consumed by the preloader, the
// review session, and the external model integration.
//
// Key responsibilities:
//   - Context helpers that stamp route names, pipeline stages, and session
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent ledger outcomes (empty vs failed).
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across components.
package services
