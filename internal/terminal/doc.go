// Package terminal adapts the review session to an interactive terminal.
//
// LineSource reads reviewer commands one line at a time from stdin and
// honours context cancellation while blocked. Preview writes the display
// crop of the current frame as a JPEG for an auto-reloading image viewer
// and prints the caption, colored when the output is a terminal.
package terminal
