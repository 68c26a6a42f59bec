// Package ledger records labeling decisions and route outcomes in SQLite.
//
// The Store is an append-only audit trail: every frame a reviewer files is
// written to the decisions table, and every route that leaves the pipeline
// (reviewed, archived as empty, failed during scoring, or abandoned when the
// session stops) is written to the routes table. The stats command reads it
// back for per-label totals and model agreement.
//
// The ledger is never consulted to resume a review; a restarted session
// starts each remaining route from its first frame. Schema changes bump the
// version in schema.go; users delete the database to adopt the new schema.
package ledger
