package domain

// LedgerEntry is one pending request as reported by a ledger.
type LedgerEntry struct {
	Kind      string `json:"kind"` // "call", "destination" or "recent"
	Floor     int    `json:"floor"`
	Direction string `json:"direction,omitempty"`
	Urgency   int    `json:"urgency"`
}

// CabinSnapshot is a copy of a cabin's state taken under the fleet lock.
type CabinSnapshot struct {
	Index         int           `json:"index"`
	Floor         int           `json:"floor"`
	Doors         string        `json:"doors"`
	Direction     string        `json:"direction"`
	Occupancy     int           `json:"occupancy"`
	Capacity      int           `json:"capacity"`
	IdleFloor     int           `json:"idle_floor"`
	Score         int           `json:"score"`
	ResetCount    int           `json:"reset_count"`
	NoopTicks     int           `json:"noop_ticks"`
	LastCommand   Command       `json:"last_command"`
	WaitingRiders int           `json:"waiting_riders"`
	OnboardRiders int           `json:"onboard_riders"`
	Ledger        []LedgerEntry `json:"ledger"`
}

// FleetSnapshot is a copy of the whole fleet taken under the fleet lock.
type FleetSnapshot struct {
	Name         string          `json:"name"`
	Tick         int             `json:"tick"`
	LowerFloor   int             `json:"lower_floor"`
	HigherFloor  int             `json:"higher_floor"`
	Policy       string          `json:"policy"`
	Ledger       string          `json:"ledger"`
	Cabins       []CabinSnapshot `json:"cabins"`
	Zones        []Zone          `json:"zones"`
	WaitingCount map[int]int     `json:"waiting_by_floor"`
	CallsByFloor map[int]int     `json:"calls_by_floor"`
	TotalScore   int             `json:"total_score"`
}
