// Package review drives the interactive classification of preloaded routes.
//
// The skip cadence is a State value advanced by State.Next at every frame
// boundary and changed by reviewer commands through the pure Transition
// function. Session wires that state machine to a CommandSource, a Preview
// sink, and the filing and audit collaborators, and consumes routes from the
// ready queue in order.
package review
