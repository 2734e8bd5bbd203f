package laundry

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"station-mods/internal/entity"
)

// Command is a control action a user can pick for a machine.
type Command int

const (
	CmdStart Command = iota
	CmdStop
	CmdPause
	CmdResume
	CmdSwitchWasherCycle
	CmdSwitchDryerCycle
	CmdSwitchMode
)

var commandNames = []string{"start", "stop", "pause", "resume", "switch-wash-cycle", "switch-dry-cycle", "switch-mode"}

func (c Command) String() string               { return enumName(commandNames, int(c)) }
func (c Command) MarshalText() ([]byte, error) { return []byte(c.String()), nil }
func (c *Command) UnmarshalText(b []byte) error {
	cmd, err := ParseCommand(string(b))
	if err != nil {
		return err
	}
	*c = cmd
	return nil
}

var commandTable = map[Command]func(*System, entity.ID) Feedback{
	CmdStart:             (*System).Start,
	CmdStop:              (*System).Stop,
	CmdPause:             (*System).Pause,
	CmdResume:            (*System).Resume,
	CmdSwitchWasherCycle: (*System).SwitchWasherCycle,
	CmdSwitchDryerCycle:  (*System).SwitchDryerCycle,
	CmdSwitchMode:        (*System).SwitchMode,
}

// Execute runs cmd against the machine.
func (s *System) Execute(id entity.ID, cmd Command) Feedback {
	fn, ok := commandTable[cmd]
	if !ok {
		return refuse(fmt.Sprintf("Unknown command %d.", int(cmd)))
	}
	return fn(s, id)
}

// UnknownCommandError is returned by ParseCommand. Suggestion is empty when nothing was close.
type UnknownCommandError struct {
	Input      string
	Suggestion string
}

func (e *UnknownCommandError) Error() string {
	if e.Suggestion == "" {
		return fmt.Sprintf("unknown command %q", e.Input)
	}
	return fmt.Sprintf("unknown command %q, did you mean %q?", e.Input, e.Suggestion)
}

// ParseCommand accepts a command name in any case, with spaces, dashes or underscores.
func ParseCommand(input string) (Command, error) {
	norm := normaliseCommand(input)
	for i, name := range commandNames {
		if name == norm {
			return Command(i), nil
		}
	}

	best, bestDist := "", -1
	for _, name := range commandNames {
		dist := levenshtein.ComputeDistance(norm, name)
		if dist > levenshteinLimit(len(name)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = name, dist
		}
	}
	return 0, &UnknownCommandError{Input: input, Suggestion: best}
}

func normaliseCommand(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return s
}

func levenshteinLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}

// Commands lists what a user is offered for the machine right now.
func Commands(v View) []Command {
	if v.State == StateOff {
		var out []Command
		if v.CanWash {
			out = append(out, CmdSwitchWasherCycle)
		}
		if v.CanWash && v.CanDry {
			out = append(out, CmdSwitchMode)
		}
		return append(out, CmdStart)
	}
	if v.Paused {
		return []Command{CmdResume, CmdStop}
	}
	return []Command{CmdPause, CmdStop}
}
