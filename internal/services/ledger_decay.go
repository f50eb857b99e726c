package services

import "elevator-dispatch-service/internal/domain"

// DecayLedger forgets requests over time.
//
// Every entry carries an urgency counter that loses one unit per tick. An
// entry is evicted once its urgency is at or below the distance between the
// cabin and its floor. Opening on a floor records the urgency it had into a
// history map used to size destinations registered from that floor later.
type DecayLedger struct {
	bounds       bounds
	maxWaitFixed int
	occupancy    int
	// waitFor overrides the urgency horizon for a given occupancy.
	waitFor func(occupancy int) int
	// onEvictDestination is called for each destination dropped by Tick.
	onEvictDestination func(floor int)

	calls        callsByDirection
	destinations floorUrgency
	history      floorUrgency
}

// NewDecayLedger returns a ledger with horizon maxWait (0 = floor count).
func NewDecayLedger(maxWait int) *DecayLedger {
	return &DecayLedger{
		bounds:       bounds{lower: 0, higher: 19},
		maxWaitFixed: maxWait,
		calls:        newCallsByDirection(),
		destinations: floorUrgency{},
		history:      floorUrgency{},
	}
}

func (l *DecayLedger) Name() string { return LedgerDecay }

// MaxWait is the current urgency horizon.
func (l *DecayLedger) MaxWait() int {
	if l.waitFor != nil {
		if w := l.waitFor(l.occupancy); w > 0 {
			return w
		}
	}
	if l.maxWaitFixed > 0 {
		return l.maxWaitFixed
	}
	return l.bounds.floorCount()
}

func (l *DecayLedger) SetBounds(lower, higher int) {
	l.bounds = bounds{lower: lower, higher: higher}
	dropOutside(l.calls.up, lower, higher)
	dropOutside(l.calls.down, lower, higher)
	dropOutside(l.destinations, lower, higher)
	dropOutside(l.history, lower, higher)
}

func (l *DecayLedger) AddCall(floor int, dir domain.Direction) {
	if !l.bounds.contains(floor) {
		return
	}
	l.calls.of(dir)[floor] = 2 * l.MaxWait()
}

func (l *DecayLedger) RemoveCall(floor int, dir domain.Direction) {
	delete(l.calls.of(dir), floor)
}

func (l *DecayLedger) HasCall(floor int, dir domain.Direction) bool {
	_, ok := l.calls.of(dir)[floor]
	return ok
}

// AddDestination sizes the urgency from the trip length and from how urgent
// fromFloor was when the doors last opened there:
//
//	maxWait + |fromFloor-floor| - (2*maxWait - last)/2
//
// A floor never opened on counts as last = 2*maxWait.
func (l *DecayLedger) AddDestination(floor, fromFloor int) {
	if !l.bounds.contains(floor) {
		return
	}
	maxWait := l.MaxWait()
	last, ok := l.history[fromFloor]
	if !ok {
		last = 2 * maxWait
	}
	urgency := maxWait + domain.Distance(fromFloor, floor) - (2*maxWait-last)/2
	if cur, ok := l.destinations[floor]; !ok || cur < urgency {
		l.destinations[floor] = urgency
	}
}

func (l *DecayLedger) MustOpenHere(floor int, dir domain.Direction, occupancy, capacity int) bool {
	l.occupancy = occupancy
	if _, ok := l.destinations[floor]; ok {
		return true
	}
	return occupancy < capacity && l.HasCall(floor, dir)
}

func (l *DecayLedger) HasWorkAhead(floor int, dir domain.Direction, occupancy, capacity int) bool {
	if anyAhead(l.destinations, floor, dir) {
		return true
	}
	return occupancy < capacity && (anyAhead(l.calls.up, floor, dir) || anyAhead(l.calls.down, floor, dir))
}

func (l *DecayLedger) Tick(currentFloor, occupancy int) {
	l.occupancy = occupancy
	decay(l.calls.up, currentFloor, nil)
	decay(l.calls.down, currentFloor, nil)
	decay(l.destinations, currentFloor, l.onEvictDestination)
}

// decay applies one tick to m and evicts entries whose urgency can no longer
// beat their distance to currentFloor.
func decay(m floorUrgency, currentFloor int, evicted func(int)) {
	for f, u := range m {
		u--
		if u <= domain.Distance(currentFloor, f) {
			delete(m, f)
			if evicted != nil {
				evicted(f)
			}
			continue
		}
		m[f] = u
	}
}

func (l *DecayLedger) OnDoorsOpened(floor int) {
	best, found := 0, false
	for _, m := range []floorUrgency{l.calls.up, l.calls.down, l.destinations} {
		if u, ok := m[floor]; ok {
			if !found || u > best {
				best = u
			}
			found = true
			delete(m, floor)
		}
	}
	if !found {
		best = 2 * l.MaxWait()
	}
	l.history[floor] = best
}

func (l *DecayLedger) IsEmpty() bool {
	return l.calls.empty() && len(l.destinations) == 0
}

func (l *DecayLedger) Clear() {
	l.calls.clear()
	clear(l.destinations)
	clear(l.history)
	l.occupancy = 0
}

func (l *DecayLedger) Entries() []domain.LedgerEntry {
	out := appendEntries(nil, "call", domain.Up.String(), l.calls.up)
	out = appendEntries(out, "call", domain.Down.String(), l.calls.down)
	return appendEntries(out, "destination", "", l.destinations)
}
