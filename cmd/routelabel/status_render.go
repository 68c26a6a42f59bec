package main

import (
	"fmt"

	"routelabel/internal/preflight"
	"routelabel/internal/terminal"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

func renderStatusLine(result preflight.Result, colorize bool) string {
	status := fmt.Sprintf("[%s]", result.StatusLabel())
	if result.Detail != "" {
		status += " " + result.Detail
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, result.Name+":", status)
	if !colorize {
		return base
	}
	if result.Passed {
		return ansiGreen + base + ansiReset
	}
	return ansiRed + base + ansiReset
}

var shouldColorize = terminal.ShouldColorize
