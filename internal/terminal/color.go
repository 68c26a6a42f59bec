package terminal

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ShouldColorize reports whether writer is a terminal that accepts ANSI colors.
func ShouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// captionAttribute picks a foreground color from the leading label of a caption.
func captionAttribute(caption string) color.Attribute {
	label, _, _ := strings.Cut(strings.TrimSpace(caption), " ")
	switch strings.ToUpper(label) {
	case "RED":
		return color.FgRed
	case "GREEN":
		return color.FgGreen
	case "YELLOW":
		return color.FgYellow
	default:
		return color.FgBlue
	}
}

// paint renders text in bold fg, or plain when enabled is false.
func paint(text string, fg color.Attribute, enabled bool) string {
	c := color.New(fg, color.Bold)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(text)
}
