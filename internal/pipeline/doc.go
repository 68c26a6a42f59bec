// Package pipeline wires one review run: it takes the route tree lock,
// runs preflight, starts the preloader as producer, and drives the review
// session as consumer until the queue drains, the reviewer quits, or the
// context is cancelled.
package pipeline
