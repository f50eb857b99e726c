package simulator

import (
	"context"
	"elevator-dispatch-service/internal/ports"
	"elevator-dispatch-service/internal/services"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Options configure a simulation run.
type Options struct {
	Building BuildingOptions
	Ticks    int
	Arrivals []int
	Seed     uint64
}

// Simulation drives one or more fleets through the same rider schedule.
type Simulation struct {
	opts     Options
	schedule []Arrival
	metrics  ports.Metrics
	journal  ports.RideJournal
	log      *slog.Logger
}

// New draws the schedule up front so every fleet sees the same riders.
// journal may be nil.
func New(opts Options, m ports.Metrics, journal ports.RideJournal, log *slog.Logger) (*Simulation, error) {
	if opts.Ticks < 1 {
		return nil, fmt.Errorf("new simulation: ticks must be positive, got %d", opts.Ticks)
	}
	if len(opts.Arrivals) == 0 {
		opts.Arrivals = DefaultArrivals()
	}
	b := opts.Building
	schedule, err := GenerateSchedule(opts.Arrivals, opts.Ticks, b.LowerFloor, b.HigherFloor, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("new simulation: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Simulation{opts: opts, schedule: schedule, metrics: m, journal: journal, log: log}, nil
}

func (s *Simulation) Schedule() []Arrival { return slices.Clone(s.schedule) }

// Run plays every fleet concurrently and returns their results in input
// order. Fleet dimensions are overridden by the building's.
func (s *Simulation) Run(ctx context.Context, fleets []services.FleetOptions) ([]Result, error) {
	results := make([]Result, len(fleets))
	g, ctx := errgroup.WithContext(ctx)
	for i, fo := range fleets {
		g.Go(func() error {
			r, err := s.runOne(ctx, fo)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Simulation) runOne(ctx context.Context, fo services.FleetOptions) (Result, error) {
	b := s.opts.Building
	fo.LowerFloor, fo.HigherFloor, fo.Capacity, fo.Cabins = b.LowerFloor, b.HigherFloor, b.Capacity, b.Cabins

	fleet, err := services.NewFleet(fo, s.metrics, s.log)
	if err != nil {
		return Result{}, fmt.Errorf("simulate %q: %w", fo.Name, err)
	}
	flush := func(ctx context.Context) error {
		return services.FlushEvents(ctx, fleet, s.journal)
	}
	return s.play(ctx, fo.Name, fleet, flush)
}

// RunScheduler plays the schedule against a scheduler living elsewhere,
// typically a running server reached over HTTP.
func (s *Simulation) RunScheduler(ctx context.Context, name string, sched Scheduler) (Result, error) {
	return s.play(ctx, name, sched, nil)
}

// play runs every tick against sched; afterTick, when set, runs once per tick.
func (s *Simulation) play(ctx context.Context, name string, sched Scheduler, afterTick func(context.Context) error) (Result, error) {
	building := NewBuilding(name, sched, s.opts.Building, s.log)

	next := 0
	for tick := range s.opts.Ticks {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("simulate %q at tick %d: %w", name, tick, err)
		}
		building.Tick(ctx, tick)
		for ; next < len(s.schedule) && s.schedule[next].Tick == tick; next++ {
			a := s.schedule[next]
			building.AddUser(tick, a.StartFloor, a.Destination)
		}
		if afterTick == nil {
			continue
		}
		if err := afterTick(ctx); err != nil {
			return Result{}, fmt.Errorf("simulate %q: %w", name, err)
		}
	}

	res := building.Result()
	s.log.Info("simulation finished", "fleet", name, "score", res.Score, "rides", res.Rides,
		"resets", res.Resets, "incompatible", res.Incompatible)
	return res, nil
}
