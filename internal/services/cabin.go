package services

import (
	"elevator-dispatch-service/internal/domain"
	"elevator-dispatch-service/internal/ports"
	"fmt"
	"log/slog"
	"slices"
)

// CabinOptions tune a single cabin's decision loop.
type CabinOptions struct {
	// Scoring gates pickups on the estimated sweep score.
	Scoring bool
	// DirectionalOpen announces OPEN_UP/OPEN_DOWN instead of OPEN.
	DirectionalOpen bool
	// NoopBound is how many consecutive NOTHING commands are tolerated. Zero disables.
	NoopBound int
	// FullGraceTicks is how long the cabin may stay full. Zero disables.
	FullGraceTicks int
	PenaltyBase    int
	PenaltyStep    int
}

// Cabin is the state machine of one elevator car. It is not safe for
// concurrent use; the owning Fleet serialises access.
type Cabin struct {
	index int
	opts  CabinOptions
	log   *slog.Logger

	lower, higher int
	capacity      int

	floor     int
	doors     domain.DoorState
	direction domain.Direction
	occupancy int
	idleFloor int

	ledger ports.RequestLedger

	waiting     map[int][]*domain.Rider
	justEntered []*domain.Rider
	toGo        map[int][]*domain.Rider
	// openedWith holds the riders waiting on this floor when the doors
	// last opened.
	openedWith []*domain.Rider

	lastCommand domain.Command
	noopTicks   int
	fullTicks   int
	resetAsked  string
	// awaitingAck is set after a self reset; the driver's reset that follows
	// is the same event and is not charged twice.
	awaitingAck bool

	resetCount int
	score      int

	resets []cabinReset
}

// cabinReset is a reset the cabin performed on its own.
type cabinReset struct {
	reason  string
	penalty int
}

func NewCabin(index int, ledger ports.RequestLedger, opts CabinOptions, log *slog.Logger) *Cabin {
	if log == nil {
		log = slog.Default()
	}
	if opts.PenaltyBase == 0 && opts.PenaltyStep == 0 {
		opts.PenaltyBase, opts.PenaltyStep = 1, 1
	}
	return &Cabin{
		index:      index,
		opts:       opts,
		log:        log.With("cabin", index),
		ledger:     ledger,
		higher:     19,
		capacity:   1,
		waiting:    map[int][]*domain.Rider{},
		toGo:       map[int][]*domain.Rider{},
		resetCount: 1,
	}
}

func (c *Cabin) Index() int                  { return c.index }
func (c *Cabin) Floor() int                  { return c.floor }
func (c *Cabin) Doors() domain.DoorState     { return c.doors }
func (c *Cabin) Direction() domain.Direction { return c.direction }
func (c *Cabin) Occupancy() int              { return c.occupancy }
func (c *Cabin) Capacity() int               { return c.capacity }
func (c *Cabin) Score() int                  { return c.score }
func (c *Cabin) ResetCount() int             { return c.resetCount }
func (c *Cabin) LastCommand() domain.Command { return c.lastCommand }
func (c *Cabin) Ledger() ports.RequestLedger { return c.ledger }

func (c *Cabin) SetIdleFloor(floor int)          { c.idleFloor = floor }
func (c *Cabin) SetDirection(d domain.Direction) { c.direction = d }

// RequestReset makes the next decision a FORCERESET.
func (c *Cabin) RequestReset(reason string) { c.resetAsked = reason }

func (c *Cabin) position() domain.CabinPosition {
	return domain.CabinPosition{
		Index:     c.index,
		Floor:     c.floor,
		Direction: c.direction,
		Occupancy: c.occupancy,
		Capacity:  c.capacity,
	}
}

// home is the floor a reset parks the cabin on.
func home(lower, higher int) int {
	return min(max(0, lower), higher)
}

// Reset reinitialises the cabin for the given building and returns the
// penalty charged (0 for a clean reset).
func (c *Cabin) Reset(lower, higher, capacity int, dir domain.Direction, cause domain.ResetCause) int {
	c.lower, c.higher, c.capacity = lower, higher, capacity
	c.direction = dir
	c.clearState()
	clear(c.waiting)
	c.idleFloor = c.floor

	penalty := 0
	switch {
	case cause == domain.CauseClean:
		c.score = 0
		c.resetCount = 1
	case c.awaitingAck:
	default:
		penalty = c.chargeReset()
	}
	c.awaitingAck = false
	return penalty
}

func (c *Cabin) clearState() {
	c.floor = home(c.lower, c.higher)
	c.doors = domain.DoorsClosed
	c.occupancy = 0
	c.ledger.SetBounds(c.lower, c.higher)
	c.ledger.Clear()
	c.justEntered = nil
	c.openedWith = nil
	clear(c.toGo)
	c.noopTicks = 0
	c.fullTicks = 0
	c.resetAsked = ""
	c.lastCommand = ""
}

func (c *Cabin) chargeReset() int {
	penalty := domain.ResetPenalty(c.resetCount, c.opts.PenaltyBase, c.opts.PenaltyStep)
	c.score -= penalty
	c.resetCount++
	return penalty
}

// forceReset parks the cabin and drops everyone aboard. Riders still
// waiting for it are kept and re-armed once the cabin is idle.
func (c *Cabin) forceReset(reason string) domain.Command {
	c.clearState()
	penalty := c.chargeReset()
	c.awaitingAck = true
	c.resets = append(c.resets, cabinReset{reason: reason, penalty: penalty})
	c.log.Info("cabin forced reset", "reason", reason, "penalty", penalty)
	return domain.CommandForceReset
}

// takeResets drains the resets performed since the last call.
func (c *Cabin) takeResets() []cabinReset {
	out := c.resets
	c.resets = nil
	return out
}

// AddWaiting queues a rider assigned to this cabin and arms its call.
func (c *Cabin) AddWaiting(r *domain.Rider) {
	c.waiting[r.StartFloor] = append(c.waiting[r.StartFloor], r)
	c.ledger.AddCall(r.StartFloor, r.DirectionCalled)
}

// RemoveWaiting unqueues r, dropping its call when nobody else at that floor
// wants the same direction.
func (c *Cabin) RemoveWaiting(r *domain.Rider) bool {
	riders := c.waiting[r.StartFloor]
	i := slices.Index(riders, r)
	if i < 0 {
		return false
	}
	riders = slices.Delete(riders, i, i+1)
	if len(riders) == 0 {
		delete(c.waiting, r.StartFloor)
	} else {
		c.waiting[r.StartFloor] = riders
	}
	if !slices.ContainsFunc(riders, func(o *domain.Rider) bool { return o.DirectionCalled == r.DirectionCalled }) {
		c.ledger.RemoveCall(r.StartFloor, r.DirectionCalled)
	}
	return true
}

// Waiting lists assigned riders not yet aboard, by floor then arrival.
func (c *Cabin) Waiting() []*domain.Rider {
	floors := make([]int, 0, len(c.waiting))
	for f := range c.waiting {
		floors = append(floors, f)
	}
	slices.Sort(floors)
	var out []*domain.Rider
	for _, f := range floors {
		out = append(out, c.waiting[f]...)
	}
	return out
}

func (c *Cabin) onboardCount() int {
	n := len(c.justEntered)
	for _, rs := range c.toGo {
		n += len(rs)
	}
	return n
}

// UserHasEntered boards the next rider waiting here for the announced
// direction. A rider who never called is synthesised. The boarded rider is
// returned together with whether it came from the waiting queue.
func (c *Cabin) UserHasEntered(now int) (*domain.Rider, bool, error) {
	if c.doors != domain.DoorsOpen {
		return nil, false, fmt.Errorf("cabin %d enter: %w", c.index, domain.ErrDoorsClosed)
	}
	if c.occupancy >= c.capacity {
		return nil, false, fmt.Errorf("cabin %d enter: %w", c.index, domain.ErrCabinFull)
	}
	c.occupancy++

	riders := c.waiting[c.floor]
	i := slices.IndexFunc(riders, func(r *domain.Rider) bool { return r.DirectionCalled == c.direction })
	if i < 0 && len(riders) > 0 {
		i = 0
	}
	if i < 0 {
		r := domain.NewRider(-1, c.floor, now, c.direction)
		c.justEntered = append(c.justEntered, r)
		return r, false, nil
	}

	r := riders[i]
	c.RemoveWaiting(r)
	c.justEntered = append(c.justEntered, r)
	return r, true, nil
}

// Go registers the destination of the earliest rider still choosing one.
func (c *Cabin) Go(floor, now int) error {
	if floor < c.lower || floor > c.higher {
		return fmt.Errorf("cabin %d go %d: %w", c.index, floor, domain.ErrFloorOutOfRange)
	}
	if len(c.justEntered) == 0 {
		return fmt.Errorf("cabin %d go %d: %w", c.index, floor, domain.ErrNoBoardingRider)
	}
	r := c.justEntered[0]
	c.justEntered = c.justEntered[1:]
	r.Board(floor, now)
	c.toGo[floor] = append(c.toGo[floor], r)
	c.ledger.AddDestination(floor, c.floor)
	return nil
}

// UserHasExited alights the first rider bound for the current floor and adds
// its score. The rider is nil when none was bound here.
func (c *Cabin) UserHasExited(now int) (*domain.Rider, int, error) {
	if c.doors != domain.DoorsOpen {
		return nil, 0, fmt.Errorf("cabin %d exit: %w", c.index, domain.ErrDoorsClosed)
	}
	if c.occupancy == 0 {
		return nil, 0, fmt.Errorf("cabin %d exit: %w", c.index, domain.ErrCabinEmpty)
	}
	c.occupancy--

	riders := c.toGo[c.floor]
	if len(riders) == 0 {
		return nil, 0, nil
	}
	r := riders[0]
	if len(riders) == 1 {
		delete(c.toGo, c.floor)
	} else {
		c.toGo[c.floor] = riders[1:]
	}
	score := r.Score(now, c.floor)
	c.score += score
	return r, score, nil
}

// Snapshot copies the cabin's observable state.
func (c *Cabin) Snapshot() domain.CabinSnapshot {
	waiting := 0
	for _, rs := range c.waiting {
		waiting += len(rs)
	}
	return domain.CabinSnapshot{
		Index:         c.index,
		Floor:         c.floor,
		Doors:         c.doors.String(),
		Direction:     c.direction.String(),
		Occupancy:     c.occupancy,
		Capacity:      c.capacity,
		IdleFloor:     c.idleFloor,
		Score:         c.score,
		ResetCount:    c.resetCount,
		NoopTicks:     c.noopTicks,
		LastCommand:   c.lastCommand,
		WaitingRiders: waiting,
		OnboardRiders: c.onboardCount(),
		Ledger:        c.ledger.Entries(),
	}
}
