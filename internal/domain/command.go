package domain

import "strings"

// Command is the single instruction a cabin receives for one tick.
type Command string

const (
	CommandUp         Command = "UP"
	CommandDown       Command = "DOWN"
	CommandOpen       Command = "OPEN"
	CommandOpenUp     Command = "OPEN_UP"
	CommandOpenDown   Command = "OPEN_DOWN"
	CommandClose      Command = "CLOSE"
	CommandNothing    Command = "NOTHING"
	CommandForceReset Command = "FORCERESET"
)

// IsOpen reports whether the command opens the doors.
func (c Command) IsOpen() bool {
	return c == CommandOpen || c == CommandOpenUp || c == CommandOpenDown
}

// IsMove reports whether the command moves the cabin one floor.
func (c Command) IsMove() bool {
	return c == CommandUp || c == CommandDown
}

// MoveCommand returns UP or DOWN for a direction.
func MoveCommand(d Direction) Command {
	if d == Down {
		return CommandDown
	}
	return CommandUp
}

// OpenCommand returns OPEN_UP or OPEN_DOWN for a direction.
func OpenCommand(d Direction) Command {
	if d == Down {
		return CommandOpenDown
	}
	return CommandOpenUp
}

// OpenDirection reports the direction announced by an open command.
// Plain OPEN announces none.
func (c Command) OpenDirection() (Direction, bool) {
	switch c {
	case CommandOpenUp:
		return Up, true
	case CommandOpenDown:
		return Down, true
	default:
		return Up, false
	}
}

// JoinCommands renders a command batch one per line, the format the
// transport returns from nextCommands.
func JoinCommands(cmds []Command) string {
	parts := make([]string, len(cmds))
	for i, c := range cmds {
		parts[i] = string(c)
	}
	return strings.Join(parts, "\n")
}

// DoorState of a cabin.
type DoorState int

const (
	DoorsClosed DoorState = iota
	DoorsOpen
)

func (s DoorState) String() string {
	if s == DoorsOpen {
		return "OPEN"
	}
	return "CLOSED"
}
