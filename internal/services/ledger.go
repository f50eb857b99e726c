package services

import (
	"elevator-dispatch-service/internal/domain"
	"elevator-dispatch-service/internal/ports"
	"fmt"
	"slices"
)

// Ledger strategy names accepted by NewLedger.
const (
	LedgerScan     = "scan"
	LedgerDecay    = "decay"
	LedgerCapacity = "capacity"
)

type LedgerOptions struct {
	Kind string
	// MaxWait is the urgency horizon in ticks. Zero means the floor count.
	MaxWait int
	// OverflowMaxWait replaces MaxWait once occupancy exceeds OverflowOccupancy.
	OverflowMaxWait   int
	OverflowOccupancy int
	// OldFloorTTL is how long a served destination stays in the fallback set.
	// Zero means MaxWait.
	OldFloorTTL int
}

// NewLedger builds the request ledger named by o.Kind.
func NewLedger(o LedgerOptions) (ports.RequestLedger, error) {
	switch o.Kind {
	case LedgerScan, "":
		return NewScanLedger(), nil
	case LedgerDecay:
		return NewDecayLedger(o.MaxWait), nil
	case LedgerCapacity:
		return NewCapacityLedger(o), nil
	default:
		return nil, fmt.Errorf("new ledger: unknown kind %q", o.Kind)
	}
}

// floorUrgency maps a floor to its remaining urgency.
type floorUrgency map[int]int

// callsByDirection keeps one bucket per direction so the two never alias.
type callsByDirection struct {
	up   floorUrgency
	down floorUrgency
}

func newCallsByDirection() callsByDirection {
	return callsByDirection{up: floorUrgency{}, down: floorUrgency{}}
}

func (c *callsByDirection) of(d domain.Direction) floorUrgency {
	if d == domain.Down {
		return c.down
	}
	return c.up
}

func (c *callsByDirection) empty() bool {
	return len(c.up) == 0 && len(c.down) == 0
}

func (c *callsByDirection) clear() {
	clear(c.up)
	clear(c.down)
}

// anyAhead reports whether a key of m lies strictly ahead of floor in dir.
func anyAhead(m floorUrgency, floor int, dir domain.Direction) bool {
	for f := range m {
		if dir.Ahead(floor, f) {
			return true
		}
	}
	return false
}

// dropOutside removes every floor of m outside [lower, higher].
func dropOutside(m floorUrgency, lower, higher int) {
	for f := range m {
		if f < lower || f > higher {
			delete(m, f)
		}
	}
}

func sortedFloors(m floorUrgency) []int {
	floors := make([]int, 0, len(m))
	for f := range m {
		floors = append(floors, f)
	}
	slices.Sort(floors)
	return floors
}

func appendEntries(out []domain.LedgerEntry, kind, dir string, m floorUrgency) []domain.LedgerEntry {
	for _, f := range sortedFloors(m) {
		out = append(out, domain.LedgerEntry{Kind: kind, Floor: f, Direction: dir, Urgency: m[f]})
	}
	return out
}

// bounds is the served floor range shared by every ledger.
type bounds struct {
	lower, higher int
}

func (b bounds) contains(floor int) bool {
	return floor >= b.lower && floor <= b.higher
}

func (b bounds) floorCount() int {
	return b.higher - b.lower + 1
}
