package services

import "elevator-dispatch-service/internal/domain"

// CapacityLedger is a DecayLedger that knows how full the cabin is.
//
// Hall calls only count while there is room aboard. Destinations evicted by
// decay are kept for a while as recent floors, a fallback used only when no
// destination is pending and either no call is pending or the cabin is full.
// The urgency horizon widens once occupancy passes OverflowOccupancy.
type CapacityLedger struct {
	*DecayLedger

	oldFloorTTL int
	recent      floorUrgency
}

func NewCapacityLedger(o LedgerOptions) *CapacityLedger {
	l := &CapacityLedger{
		DecayLedger: NewDecayLedger(o.MaxWait),
		oldFloorTTL: o.OldFloorTTL,
		recent:      floorUrgency{},
	}
	if o.OverflowOccupancy > 0 && o.OverflowMaxWait > 0 {
		l.waitFor = func(occupancy int) int {
			if occupancy > o.OverflowOccupancy {
				return o.OverflowMaxWait
			}
			return 0
		}
	}
	l.onEvictDestination = l.remember
	return l
}

func (l *CapacityLedger) Name() string { return LedgerCapacity }

func (l *CapacityLedger) remember(floor int) {
	ttl := l.oldFloorTTL
	if ttl <= 0 {
		ttl = l.MaxWait()
	}
	l.recent[floor] = ttl
}

func (l *CapacityLedger) SetBounds(lower, higher int) {
	l.DecayLedger.SetBounds(lower, higher)
	dropOutside(l.recent, lower, higher)
}

// fallbackActive reports whether recent floors may drive the cabin.
func (l *CapacityLedger) fallbackActive(occupancy, capacity int) bool {
	return len(l.destinations) == 0 && (l.calls.empty() || occupancy >= capacity)
}

func (l *CapacityLedger) MustOpenHere(floor int, dir domain.Direction, occupancy, capacity int) bool {
	l.occupancy = occupancy
	if _, ok := l.destinations[floor]; ok {
		return true
	}
	if occupancy < capacity && l.HasCall(floor, dir) {
		return true
	}
	_, old := l.recent[floor]
	return old && l.fallbackActive(occupancy, capacity)
}

func (l *CapacityLedger) HasWorkAhead(floor int, dir domain.Direction, occupancy, capacity int) bool {
	if anyAhead(l.destinations, floor, dir) {
		return true
	}
	if occupancy < capacity && (anyAhead(l.calls.up, floor, dir) || anyAhead(l.calls.down, floor, dir)) {
		return true
	}
	return l.fallbackActive(occupancy, capacity) && anyAhead(l.recent, floor, dir)
}

func (l *CapacityLedger) Tick(currentFloor, occupancy int) {
	for f, ttl := range l.recent {
		if ttl <= 1 {
			delete(l.recent, f)
			continue
		}
		l.recent[f] = ttl - 1
	}
	l.DecayLedger.Tick(currentFloor, occupancy)
}

func (l *CapacityLedger) OnDoorsOpened(floor int) {
	l.DecayLedger.OnDoorsOpened(floor)
	delete(l.recent, floor)
}

func (l *CapacityLedger) IsEmpty() bool {
	return l.DecayLedger.IsEmpty() && len(l.recent) == 0
}

func (l *CapacityLedger) Clear() {
	l.DecayLedger.Clear()
	clear(l.recent)
}

func (l *CapacityLedger) Entries() []domain.LedgerEntry {
	return appendEntries(l.DecayLedger.Entries(), "recent", "", l.recent)
}
