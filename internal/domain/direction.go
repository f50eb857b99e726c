package domain

import (
	"fmt"
	"strings"
)

// Direction of travel requested by a rider or followed by a cabin.
type Direction int

const (
	Up Direction = iota
	Down
)

// Directions lists both directions in a fixed order for deterministic iteration.
var Directions = [2]Direction{Up, Down}

func (d Direction) String() string {
	if d == Down {
		return "DOWN"
	}
	return "UP"
}

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == Up {
		return Down
	}
	return Up
}

// Step is the floor increment for one move in this direction.
func (d Direction) Step() int {
	if d == Down {
		return -1
	}
	return 1
}

// Ahead reports whether floor lies strictly beyond from in this direction.
func (d Direction) Ahead(from, floor int) bool {
	if d == Up {
		return floor > from
	}
	return floor < from
}

// Toward returns the direction that leads from `from` to `to`.
// Equal floors yield Up.
func Toward(from, to int) Direction {
	if to < from {
		return Down
	}
	return Up
}

// ParseDirection accepts "UP" or "DOWN" in any letter case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UP":
		return Up, nil
	case "DOWN":
		return Down, nil
	default:
		return Up, fmt.Errorf("parse direction %q: %w", s, ErrUnknownDirection)
	}
}

// MarshalText renders the direction as UP or DOWN.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses UP or DOWN.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
