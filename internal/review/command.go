package review

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"routelabel/internal/labels"
	"routelabel/internal/services"
	"routelabel/internal/textutil"
)

// CommandKind identifies a parsed reviewer command.
type CommandKind int

const (
	CommandInvalid CommandKind = iota
	CommandLabel
	CommandSkip
	CommandSkipNow
	CommandQuit
	CommandHelp
)

// Command is one parsed line of reviewer input.
type Command struct {
	Kind    CommandKind
	Label   string
	Seconds float64
	Raw     string
}

// ParseCommand interprets a reviewer line. Input is trimmed and
// case-insensitive. Unrecognized input yields CommandInvalid and an error
// marked services.ErrInvalidCommand explaining why.
func ParseCommand(line string, set *labels.Set) (Command, error) {
	raw := strings.TrimSpace(line)
	canonical := textutil.Canonical(raw)
	cmd := Command{Kind: CommandInvalid, Raw: raw}
	if canonical == "" {
		return cmd, invalid("empty input")
	}

	fields := strings.Fields(canonical)
	switch fields[0] {
	case "Q", "QUIT":
		if len(fields) == 1 {
			cmd.Kind = CommandQuit
			return cmd, nil
		}
	case "?", "HELP":
		if len(fields) == 1 {
			cmd.Kind = CommandHelp
			return cmd, nil
		}
	case "SKIP":
		return parseSkip(cmd, fields)
	}

	if set != nil {
		if label, ok := set.Lookup(canonical); ok {
			cmd.Kind = CommandLabel
			cmd.Label = label
			return cmd, nil
		}
	}
	return cmd, invalid(fmt.Sprintf("unrecognized input %q", raw))
}

func parseSkip(cmd Command, fields []string) (Command, error) {
	if len(fields) < 2 || len(fields) > 3 {
		return cmd, invalid("usage: SKIP n or SKIP n NOW")
	}
	seconds, err := strconv.ParseFloat(fields[1], 64)
	if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return cmd, invalid(fmt.Sprintf("skip amount %q is not a number", fields[1]))
	}
	cmd.Seconds = seconds
	if len(fields) == 3 {
		if fields[2] != "NOW" {
			return cmd, invalid("usage: SKIP n or SKIP n NOW")
		}
		cmd.Kind = CommandSkipNow
		return cmd, nil
	}
	cmd.Kind = CommandSkip
	return cmd, nil
}

func invalid(message string) error {
	return services.Wrap(services.ErrInvalidCommand, "review", "parse command", message, nil)
}
