package domain

import "time"

// RideRecord describes a rider that has left a cabin.
type RideRecord struct {
	Fleet       string    `json:"fleet"`
	Cabin       int       `json:"cabin"`
	RiderID     int       `json:"rider_id"`
	StartFloor  int       `json:"start_floor"`
	Destination int       `json:"destination"`
	StartTick   int       `json:"start_tick"`
	BoardTick   int       `json:"board_tick"`
	ExitTick    int       `json:"exit_tick"`
	Score       int       `json:"score"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// ResetRecord describes a fleet-wide or single-cabin reset.
type ResetRecord struct {
	Fleet      string    `json:"fleet"`
	Cabin      int       `json:"cabin"` // -1 for fleet-wide resets
	Cause      string    `json:"cause"`
	Kind       string    `json:"kind"` // CLEAN or FORCED
	Reason     string    `json:"reason"`
	Tick       int       `json:"tick"`
	Penalty    int       `json:"penalty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// FleetEvents is the outbox drained by the transport after each operation.
type FleetEvents struct {
	Rides  []RideRecord
	Resets []ResetRecord
}

// Empty reports whether there is nothing to flush.
func (e FleetEvents) Empty() bool { return len(e.Rides) == 0 && len(e.Resets) == 0 }

// TickEvent is the command batch published after every nextCommands.
type TickEvent struct {
	Fleet    string    `json:"fleet"`
	Tick     int       `json:"tick"`
	Commands []Command `json:"commands"`
	Floors   []int     `json:"floors"`
	At       time.Time `json:"at"`
}
