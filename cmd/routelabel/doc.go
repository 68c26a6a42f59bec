// Package main hosts the routelabel CLI entrypoint and command graph.
//
// The Cobra-based command tree starts interactive review sessions, lists the
// routes waiting in the route tree, summarizes the decision ledger, runs
// preflight checks, and scaffolds configuration. Configuration resolution
// and logger construction live here so subcommands stay declarative while
// the pipeline and its components live under internal/.
package main
