// Package preflight provides readiness checks for the filesystem paths and
// model endpoint that a review run depends on.
//
// These checks run in two contexts:
//   - The pipeline calls RunAll before starting the preloader. A failed check
//     aborts the run before any route is touched.
//   - The CLI "routelabel check" command renders every result as a table.
package preflight
