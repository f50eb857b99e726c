package services

import (
	"context"
	"elevator-dispatch-service/internal/adapters/metrics"
	"elevator-dispatch-service/internal/domain"
	"elevator-dispatch-service/internal/ports"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// FleetOptions configure a Fleet.
type FleetOptions struct {
	Name       string
	Ledger     LedgerOptions
	Assignment string
	Cabin      CabinOptions

	LowerFloor  int
	HigherFloor int
	Capacity    int
	Cabins      int

	// OverloadThreshold is the mean waiting depth per floor that forces a
	// fleet reset. Zero disables the check.
	OverloadThreshold float64
	// OverloadWindow is how many ticks the depth is averaged over.
	OverloadWindow int
	// RebalanceEvery repartitions zones every that many ticks.
	RebalanceEvery int
	CallWindow     int
	// ParallelCabins bounds the workers deciding cabins within a tick.
	// Values below 2 decide sequentially.
	ParallelCabins int
}

func (o FleetOptions) validate() error {
	if o.LowerFloor > o.HigherFloor {
		return fmt.Errorf("fleet %q: %w", o.Name, domain.ErrInvalidBounds)
	}
	if o.Capacity < 1 {
		return fmt.Errorf("fleet %q: %w", o.Name, domain.ErrInvalidCapacity)
	}
	if o.Cabins < 1 {
		return fmt.Errorf("fleet %q: %w", o.Name, domain.ErrInvalidCabinCount)
	}
	return nil
}

// tickHistoryLimit bounds how many ticks of call counts are kept. It is
// independent of the call window feeding the idle positions.
const tickHistoryLimit = 1000

// Fleet coordinates a group of cabins serving one building.
//
// Every exported method takes the fleet lock, so the six driver operations
// are mutually exclusive and each completes without blocking.
type Fleet struct {
	mu sync.Mutex

	opts    FleetOptions
	log     *slog.Logger
	metrics ports.Metrics
	now     func() time.Time

	policy  ports.AssignmentPolicy
	planner *ZonePlanner
	stats   *CallStats
	depth   *depthWindow

	lower, higher, capacity int
	cabins                  []*Cabin

	tick         int
	nextRiderID  int
	callsByFloor map[int]int
	callsByTick  []int

	events domain.FleetEvents
}

// NewFleet builds a fleet ready to serve opts' building. A driver reset is
// not required before the first tick.
func NewFleet(opts FleetOptions, m ports.Metrics, log *slog.Logger) (*Fleet, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("new fleet: %w", err)
	}
	if _, err := NewLedger(opts.Ledger); err != nil {
		return nil, fmt.Errorf("new fleet %q: %w", opts.Name, err)
	}
	if m == nil {
		m = metrics.NewNopMetrics()
	}
	if log == nil {
		log = slog.Default()
	}

	f := &Fleet{
		opts:         opts,
		log:          log.With("fleet", opts.Name),
		metrics:      m,
		now:          time.Now,
		planner:      NewZonePlanner(),
		stats:        NewCallStats(opts.CallWindow),
		depth:        newDepthWindow(opts.OverloadWindow),
		callsByFloor: map[int]int{},
	}
	switch opts.Assignment {
	case AssignNearest, "":
		f.policy = NearestCabin{}
	case AssignZone:
		f.policy = NewZoneOwned(f.planner)
	default:
		return nil, fmt.Errorf("new fleet %q: unknown assignment %q", opts.Name, opts.Assignment)
	}

	f.reinit(domain.CauseClean, opts.LowerFloor, opts.HigherFloor, opts.Capacity, opts.Cabins)
	return f, nil
}

func (f *Fleet) Name() string { return f.opts.Name }

// reinit rebuilds the cabins when their count changes and resets everything.
// It returns the total penalty charged.
func (f *Fleet) reinit(cause domain.ResetCause, lower, higher, capacity, count int) int {
	f.lower, f.higher, f.capacity = lower, higher, capacity

	if count != len(f.cabins) {
		f.cabins = make([]*Cabin, count)
		for i := range f.cabins {
			// validated in NewFleet
			ledger, _ := NewLedger(f.opts.Ledger)
			f.cabins[i] = NewCabin(i, ledger, f.opts.Cabin, f.log)
		}
	}

	clear(f.callsByFloor)
	f.depth.clear()
	if cause == domain.CauseClean {
		f.tick = -1
		f.callsByTick = f.callsByTick[:0]
		f.stats.Clear()
	}
	f.stats.SeedIfEmpty(lower, higher)

	penalty := 0
	dir := domain.Down
	for _, c := range f.cabins {
		penalty += c.Reset(lower, higher, capacity, dir, cause)
		dir = dir.Opposite()
	}

	f.planner.Reset()
	f.planner.Partition(lower, higher, f.positions())
	f.refreshIdleFloors()
	return penalty
}

func (f *Fleet) positions() []domain.CabinPosition {
	out := make([]domain.CabinPosition, len(f.cabins))
	for i, c := range f.cabins {
		out[i] = c.position()
	}
	return out
}

func (f *Fleet) refreshIdleFloors() {
	floors := f.stats.IdleFloors(len(f.cabins), f.lower, f.higher)
	for i, c := range f.cabins {
		c.SetIdleFloor(floors[i])
	}
}

func (f *Fleet) cabin(op string, index int) (*Cabin, bool) {
	if index < 0 || index >= len(f.cabins) {
		f.ignore(op, fmt.Errorf("cabin %d: %w", index, domain.ErrUnknownCabin))
		return nil, false
	}
	return f.cabins[index], true
}

// ignore logs and counts a driver event the scheduler drops.
func (f *Fleet) ignore(op string, err error) {
	f.log.Warn("ignored event", "op", op, "err", err)
	f.metrics.RecordIgnoredEvent(f.opts.Name, op)
}

// Call registers a rider waiting at floor for dir. Floors outside the
// building are ignored.
func (f *Fleet) Call(floor int, dir domain.Direction) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if floor < f.lower || floor > f.higher {
		f.ignore("call", fmt.Errorf("floor %d: %w", floor, domain.ErrFloorOutOfRange))
		return
	}

	f.callsByFloor[floor]++
	if f.tick >= 0 && len(f.callsByTick) > 0 {
		f.callsByTick[len(f.callsByTick)-1]++
	}
	f.stats.Add(floor)
	f.refreshIdleFloors()

	f.nextRiderID++
	r := domain.NewRider(f.nextRiderID, floor, f.tick, dir)
	i := f.policy.Assign(r, f.positions())
	f.cabins[i].AddWaiting(r)
	f.log.Debug("call assigned", "floor", floor, "dir", dir, "cabin", i)
}

// Go registers the destination chosen by the rider who last entered cabin.
func (f *Fleet) Go(cabin, floor int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.cabin("go", cabin)
	if !ok {
		return
	}
	if err := c.Go(floor, f.tick); err != nil {
		f.ignore("go", err)
	}
}

// UserHasEntered records a rider boarding cabin.
func (f *Fleet) UserHasEntered(cabin int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.cabin("userHasEntered", cabin)
	if !ok {
		return
	}
	r, _, err := c.UserHasEntered(f.tick)
	if err != nil {
		f.ignore("userHasEntered", err)
		return
	}
	if r.ID < 0 {
		f.nextRiderID++
		r.ID = f.nextRiderID
	}
}

// UserHasExited records a rider leaving cabin and scores the ride.
func (f *Fleet) UserHasExited(cabin int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.cabin("userHasExited", cabin)
	if !ok {
		return
	}
	r, score, err := c.UserHasExited(f.tick)
	if err != nil {
		f.ignore("userHasExited", err)
		return
	}
	if r == nil {
		return
	}

	dest, _ := r.Destination()
	board, _ := r.BoardTick()
	f.events.Rides = append(f.events.Rides, domain.RideRecord{
		Fleet:       f.opts.Name,
		Cabin:       cabin,
		RiderID:     r.ID,
		StartFloor:  r.StartFloor,
		Destination: dest,
		StartTick:   r.StartTick,
		BoardTick:   board,
		ExitTick:    f.tick,
		Score:       score,
		RecordedAt:  f.now(),
	})
	f.metrics.RecordRide(f.opts.Name, score)
}

// Reset reinitialises the fleet for a (possibly different) building. Invalid
// parameters leave the fleet untouched.
func (f *Fleet) Reset(cause string, lower, higher, capacity, count int) error {
	o := f.opts
	o.LowerFloor, o.HigherFloor, o.Capacity, o.Cabins = lower, higher, capacity, count
	if err := o.validate(); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	kind := domain.ParseResetCause(cause)
	penalty := f.reinit(kind, lower, higher, capacity, count)
	f.recordReset(-1, cause, kind, "driver reset", penalty)
	f.log.Info("fleet reset", "cause", cause, "kind", kind, "floors", fmt.Sprintf("%d..%d", lower, higher),
		"capacity", capacity, "cabins", count, "penalty", penalty)
	return nil
}

func (f *Fleet) recordReset(cabin int, cause string, kind domain.ResetCause, reason string, penalty int) {
	f.events.Resets = append(f.events.Resets, domain.ResetRecord{
		Fleet:      f.opts.Name,
		Cabin:      cabin,
		Cause:      cause,
		Kind:       kind.String(),
		Reason:     reason,
		Tick:       f.tick,
		Penalty:    penalty,
		RecordedAt: f.now(),
	})
	scope := "fleet"
	if cabin >= 0 {
		scope = "cabin"
	}
	f.metrics.RecordReset(f.opts.Name, scope, kind)
}

// TakeEvents drains the rides and resets recorded since the last call.
func (f *Fleet) TakeEvents() domain.FleetEvents {
	f.mu.Lock()
	defer f.mu.Unlock()

	ev := f.events
	f.events = domain.FleetEvents{}
	return ev
}

// Snapshot copies the fleet state.
func (f *Fleet) Snapshot() domain.FleetSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := domain.FleetSnapshot{
		Name:         f.opts.Name,
		Tick:         f.tick,
		LowerFloor:   f.lower,
		HigherFloor:  f.higher,
		Policy:       f.policy.Name(),
		Cabins:       make([]domain.CabinSnapshot, len(f.cabins)),
		Zones:        f.planner.Zones(),
		WaitingCount: f.waitingByFloor(),
		CallsByFloor: make(map[int]int, len(f.callsByFloor)),
	}
	if len(f.cabins) > 0 {
		snap.Ledger = f.cabins[0].Ledger().Name()
	}
	for i, c := range f.cabins {
		snap.Cabins[i] = c.Snapshot()
		snap.TotalScore += c.Score()
	}
	for floor, n := range f.callsByFloor {
		snap.CallsByFloor[floor] = n
	}
	return snap
}

// CallsByTick returns the number of calls received during each of the last
// tickHistoryLimit ticks since the last clean reset.
func (f *Fleet) CallsByTick() []int {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]int, len(f.callsByTick))
	copy(out, f.callsByTick)
	return out
}

func (f *Fleet) waitingByFloor() map[int]int {
	out := map[int]int{}
	for _, c := range f.cabins {
		for floor, riders := range c.waiting {
			if len(riders) > 0 {
				out[floor] += len(riders)
			}
		}
	}
	return out
}

// NextCommands advances the fleet by one tick and returns one command per
// cabin, in cabin order.
func (f *Fleet) NextCommands(ctx context.Context) []domain.Command {
	return f.NextTick(ctx).Commands
}
