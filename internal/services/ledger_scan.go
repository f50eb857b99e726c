package services

import "elevator-dispatch-service/internal/domain"

// ScanLedger is the plain directional sweep: requests are remembered until
// the doors open on their floor and never expire.
type ScanLedger struct {
	bounds       bounds
	calls        callsByDirection
	destinations floorUrgency
}

func NewScanLedger() *ScanLedger {
	return &ScanLedger{
		bounds:       bounds{lower: 0, higher: 19},
		calls:        newCallsByDirection(),
		destinations: floorUrgency{},
	}
}

func (l *ScanLedger) Name() string { return LedgerScan }

func (l *ScanLedger) SetBounds(lower, higher int) {
	l.bounds = bounds{lower: lower, higher: higher}
	dropOutside(l.calls.up, lower, higher)
	dropOutside(l.calls.down, lower, higher)
	dropOutside(l.destinations, lower, higher)
}

func (l *ScanLedger) AddCall(floor int, dir domain.Direction) {
	if !l.bounds.contains(floor) {
		return
	}
	l.calls.of(dir)[floor] = 0
}

func (l *ScanLedger) RemoveCall(floor int, dir domain.Direction) {
	delete(l.calls.of(dir), floor)
}

func (l *ScanLedger) HasCall(floor int, dir domain.Direction) bool {
	_, ok := l.calls.of(dir)[floor]
	return ok
}

func (l *ScanLedger) AddDestination(floor, _ int) {
	if !l.bounds.contains(floor) {
		return
	}
	l.destinations[floor] = 0
}

// MustOpenHere counts calls only while the cabin has room.
func (l *ScanLedger) MustOpenHere(floor int, dir domain.Direction, occupancy, capacity int) bool {
	if _, ok := l.destinations[floor]; ok {
		return true
	}
	return occupancy < capacity && l.HasCall(floor, dir)
}

func (l *ScanLedger) HasWorkAhead(floor int, dir domain.Direction, occupancy, capacity int) bool {
	if anyAhead(l.destinations, floor, dir) {
		return true
	}
	return occupancy < capacity && (anyAhead(l.calls.up, floor, dir) || anyAhead(l.calls.down, floor, dir))
}

func (l *ScanLedger) Tick(int, int) {}

func (l *ScanLedger) OnDoorsOpened(floor int) {
	delete(l.calls.up, floor)
	delete(l.calls.down, floor)
	delete(l.destinations, floor)
}

func (l *ScanLedger) IsEmpty() bool {
	return l.calls.empty() && len(l.destinations) == 0
}

func (l *ScanLedger) Clear() {
	l.calls.clear()
	clear(l.destinations)
}

func (l *ScanLedger) Entries() []domain.LedgerEntry {
	out := appendEntries(nil, "call", domain.Up.String(), l.calls.up)
	out = appendEntries(out, "call", domain.Down.String(), l.calls.down)
	return appendEntries(out, "destination", "", l.destinations)
}
