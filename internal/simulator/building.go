package simulator

import (
	"context"
	"elevator-dispatch-service/internal/domain"
	"log/slog"
	"slices"
)

// Scheduler is the driver-facing side of a fleet.
type Scheduler interface {
	NextCommands(ctx context.Context) []domain.Command
	Reset(cause string, lower, higher, capacity, count int) error
	Call(floor int, dir domain.Direction)
	Go(cabin, floor int)
	UserHasEntered(cabin int)
	UserHasExited(cabin int)
}

// Reset causes sent by the building.
const (
	CauseStart        = "all elevators are at floor 0"
	CauseIncompatible = "Incompatible command"
	CauseForceReset   = "FORCERESET"
)

// BuildingOptions describe the simulated building.
type BuildingOptions struct {
	LowerFloor  int
	HigherFloor int
	Capacity    int
	Cabins      int
	// ResetPenaltyStep is added to the penalty after every reset.
	ResetPenaltyStep int
}

type user struct {
	arriveTick  int
	startFloor  int
	destination int
	enterTick   int
	cabin       int // -1 while waiting
}

func (u *user) direction() domain.Direction {
	return domain.Toward(u.startFloor, u.destination)
}

// score is what the rider awards on leaving at tick.
func (u *user) score(tick int) int {
	s := 23 + domain.Distance(u.startFloor, u.destination) - (u.enterTick-u.arriveTick)/2 - (tick - u.enterTick)
	return max(s, 0)
}

// Building plays the elevator hardware and the riders against a Scheduler.
// It checks every command, moves the cabins, boards and alights riders,
// and keeps the score the way the contest server does.
type Building struct {
	name  string
	sched Scheduler
	opts  BuildingOptions
	log   *slog.Logger

	users  []*user
	floors []int
	open   []bool

	score     int
	nextReset int

	rides        int
	resets       int
	incompatible int
}

func NewBuilding(name string, s Scheduler, opts BuildingOptions, log *slog.Logger) *Building {
	if log == nil {
		log = slog.Default()
	}
	if opts.ResetPenaltyStep == 0 {
		opts.ResetPenaltyStep = 2
	}
	b := &Building{
		name:  name,
		sched: s,
		opts:  opts,
		log:   log.With("building", name),
	}
	b.reset(CauseStart)
	return b
}

func (b *Building) home() int {
	return min(max(0, b.opts.LowerFloor), b.opts.HigherFloor)
}

func (b *Building) reset(cause string) {
	b.floors = make([]int, b.opts.Cabins)
	b.open = make([]bool, b.opts.Cabins)
	for i := range b.floors {
		b.floors[i] = b.home()
	}
	b.score -= b.nextReset
	b.nextReset += b.opts.ResetPenaltyStep
	b.users = b.users[:0]
	b.resets++

	o := b.opts
	if err := b.sched.Reset(cause, o.LowerFloor, o.HigherFloor, o.Capacity, o.Cabins); err != nil {
		b.log.Error("scheduler rejected reset", "cause", cause, "err", err)
	}
}

// AddUser makes a rider appear at startFloor and call the elevator.
func (b *Building) AddUser(tick, startFloor, destination int) {
	u := &user{arriveTick: tick, startFloor: startFloor, destination: destination, cabin: -1}
	b.users = append(b.users, u)
	b.sched.Call(startFloor, u.direction())
}

// compatible reports whether cmd is legal for cabin i.
func (b *Building) compatible(i int, cmd domain.Command) bool {
	switch {
	case cmd == domain.CommandForceReset:
		return true
	case b.open[i]:
		return cmd == domain.CommandClose
	case cmd == domain.CommandClose:
		return false
	case cmd == domain.CommandUp:
		return b.floors[i] < b.opts.HigherFloor
	case cmd == domain.CommandDown:
		return b.floors[i] > b.opts.LowerFloor
	default:
		return true
	}
}

// Tick asks the scheduler for one batch of commands and applies it.
func (b *Building) Tick(ctx context.Context, tick int) {
	cmds := b.sched.NextCommands(ctx)
	if len(cmds) != b.opts.Cabins {
		b.log.Warn("wrong command count", "tick", tick, "got", len(cmds), "want", b.opts.Cabins)
		b.incompatible++
		b.reset(CauseIncompatible)
		return
	}
	for i, cmd := range cmds {
		if !b.compatible(i, cmd) {
			b.log.Warn("incompatible command", "tick", tick, "cabin", i, "cmd", cmd,
				"floor", b.floors[i], "open", b.open[i])
			b.incompatible++
			b.reset(CauseIncompatible)
			return
		}
	}
	if slices.Contains(cmds, domain.CommandForceReset) {
		b.reset(CauseForceReset)
		return
	}

	for i, cmd := range cmds {
		dir, directional := cmd.OpenDirection()
		switch {
		case cmd.IsOpen():
			b.open[i] = true
		case cmd == domain.CommandClose:
			b.open[i] = false
		case cmd == domain.CommandUp:
			b.floors[i]++
		case cmd == domain.CommandDown:
			b.floors[i]--
		}
		if b.open[i] {
			b.alight(i, tick)
			b.board(i, tick, dir, directional)
		}
	}
}

func (b *Building) alight(cabin, tick int) {
	b.users = slices.DeleteFunc(b.users, func(u *user) bool {
		if u.cabin != cabin || u.destination != b.floors[cabin] {
			return false
		}
		b.score += u.score(tick)
		b.rides++
		b.sched.UserHasExited(cabin)
		return true
	})
}

// board lets in riders waiting on the cabin's floor, up to capacity. After a
// directional open only riders headed that way enter.
func (b *Building) board(cabin, tick int, dir domain.Direction, directional bool) {
	for _, u := range b.users {
		if u.cabin >= 0 || u.startFloor != b.floors[cabin] {
			continue
		}
		if directional && u.direction() != dir {
			continue
		}
		if b.aboard(cabin) >= b.opts.Capacity {
			return
		}
		u.cabin = cabin
		u.enterTick = tick
		b.sched.UserHasEntered(cabin)
		b.sched.Go(cabin, u.destination)
	}
}

func (b *Building) aboard(cabin int) int {
	n := 0
	for _, u := range b.users {
		if u.cabin == cabin {
			n++
		}
	}
	return n
}

// Result summarises a building's run.
type Result struct {
	Name         string `json:"name"`
	Score        int    `json:"score"`
	Rides        int    `json:"rides"`
	Waiting      int    `json:"waiting"`
	Aboard       int    `json:"aboard"`
	Resets       int    `json:"resets"`
	Incompatible int    `json:"incompatible"`
}

func (b *Building) Result() Result {
	waiting, aboard := 0, 0
	for _, u := range b.users {
		if u.cabin < 0 {
			waiting++
		} else {
			aboard++
		}
	}
	return Result{
		Name:         b.name,
		Score:        b.score,
		Rides:        b.rides,
		Waiting:      waiting,
		Aboard:       aboard,
		Resets:       b.resets,
		Incompatible: b.incompatible,
	}
}
