package ports

import "elevator-dispatch-service/internal/domain"

// Contract for a cabin's directional request queue.
//
// A ledger tracks hall calls per direction and onward destinations of riders
// already aboard. It answers whether the cabin must open at a floor and
// whether any work remains ahead of it; the cabin owns every other decision.
type RequestLedger interface {
	// Name identifies the ledger strategy ("scan", "decay", "capacity").
	Name() string

	// SetBounds fixes the served floor range. Entries outside it are dropped.
	SetBounds(lower, higher int)

	// AddCall registers (or refreshes) a hall call.
	AddCall(floor int, dir domain.Direction)
	// RemoveCall forgets a hall call, used when its riders migrate to another cabin.
	RemoveCall(floor int, dir domain.Direction)
	// HasCall reports whether a hall call is pending.
	HasCall(floor int, dir domain.Direction) bool

	// AddDestination registers a drop-off floor chosen by a rider who boarded at fromFloor.
	AddDestination(floor, fromFloor int)

	// MustOpenHere reports whether the doors should open at floor for dir.
	MustOpenHere(floor int, dir domain.Direction, occupancy, capacity int) bool
	// HasWorkAhead reports whether any request lies strictly ahead in dir.
	HasWorkAhead(floor int, dir domain.Direction, occupancy, capacity int) bool

	// Tick ages every entry by one tick as seen from currentFloor.
	Tick(currentFloor, occupancy int)
	// OnDoorsOpened clears every entry at floor.
	OnDoorsOpened(floor int)

	IsEmpty() bool
	Clear()

	// Entries lists pending entries in a deterministic order.
	Entries() []domain.LedgerEntry
}
