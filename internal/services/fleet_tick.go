package services

import (
	"context"
	"elevator-dispatch-service/internal/domain"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
)

// NextTick advances the fleet by one tick: waiting riders are reassigned,
// overload is checked, directions may flip together, then every cabin
// decides. Zones slide when a cabin reaches an outer floor and are
// repartitioned on the rebalance period.
func (f *Fleet) NextTick(ctx context.Context) domain.TickEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	start := time.Now()
	f.tick++
	f.callsByTick = append(f.callsByTick, 0)
	if len(f.callsByTick) > tickHistoryLimit {
		f.callsByTick = slices.Delete(f.callsByTick, 0, 1)
	}

	f.migrate()

	var cmds []domain.Command
	if f.overloaded() {
		cmds = f.overloadReset()
	} else {
		f.reverseTogether()
		cmds = f.decide()
	}
	f.collectCabinResets()
	f.rebalance(cmds)

	waiting := 0
	for _, n := range f.waitingByFloor() {
		waiting += n
	}
	score := 0
	for _, c := range f.cabins {
		score += c.Score()
	}
	for _, c := range cmds {
		f.metrics.RecordCommand(f.opts.Name, c)
	}
	f.metrics.SetWaitingRiders(f.opts.Name, waiting)
	f.metrics.SetFleetScore(f.opts.Name, score)
	f.metrics.ObserveTickDuration(f.opts.Name, time.Since(start).Seconds())

	floors := make([]int, len(f.cabins))
	for i, c := range f.cabins {
		floors[i] = c.Floor()
	}
	return domain.TickEvent{
		Fleet:    f.opts.Name,
		Tick:     f.tick,
		Commands: cmds,
		Floors:   floors,
		At:       f.now(),
	}
}

// migrate moves every waiting rider to a better cabin when the policy
// finds one. Boarded riders never move.
func (f *Fleet) migrate() {
	if len(f.cabins) < 2 {
		return
	}
	pos := f.positions()
	for from, c := range f.cabins {
		for _, r := range c.Waiting() {
			to := f.policy.Assign(r, pos)
			if to == from || !f.policy.Improves(r, pos, from, to) {
				continue
			}
			c.RemoveWaiting(r)
			f.cabins[to].AddWaiting(r)
			f.metrics.RecordMigration(f.opts.Name)
			f.log.Debug("rider migrated", "rider", r.ID, "from", from, "to", to)
		}
	}
}

// overloaded reports whether the mean waiting depth per floor, averaged
// over the trailing window, exceeds the threshold.
func (f *Fleet) overloaded() bool {
	if f.opts.OverloadThreshold <= 0 {
		return false
	}
	total := 0
	for _, n := range f.waitingByFloor() {
		total += n
	}
	mean := float64(total) / float64(f.higher-f.lower+1)
	return f.depth.add(mean) > f.opts.OverloadThreshold
}

// overloadReset turns the whole tick into FORCERESET and drops every
// waiting rider; the driver is expected to reset the building.
func (f *Fleet) overloadReset() []domain.Command {
	cmds := make([]domain.Command, len(f.cabins))
	penalty := 0
	for i, c := range f.cabins {
		clear(c.waiting)
		cmds[i] = c.forceReset("overload")
		c.lastCommand = cmds[i]
		for _, r := range c.takeResets() {
			penalty += r.penalty
		}
	}
	f.depth.clear()
	f.recordReset(-1, "overload", domain.CauseForced, "mean waiting depth above threshold", penalty)
	f.log.Info("fleet overloaded, forcing reset", "tick", f.tick)
	return cmds
}

// reverseTogether flips every cabin when none has productive work in its
// current direction but some cabin still has pending requests.
func (f *Fleet) reverseTogether() {
	if len(f.cabins) < 2 {
		return
	}
	pending := false
	for _, c := range f.cabins {
		if c.Doors() == domain.DoorsOpen || c.HasProductiveWork() {
			return
		}
		if !c.Ledger().IsEmpty() {
			pending = true
		}
	}
	if !pending {
		return
	}
	for _, c := range f.cabins {
		c.SetDirection(c.Direction().Opposite())
	}
	f.log.Debug("fleet reversed", "tick", f.tick)
}

// decide collects one command per cabin. Cabins only touch their own state,
// so they may be decided on separate workers.
func (f *Fleet) decide() []domain.Command {
	cmds := make([]domain.Command, len(f.cabins))
	if f.opts.ParallelCabins < 2 || len(f.cabins) < 2 {
		for i, c := range f.cabins {
			cmds[i] = c.Decide(f.tick)
		}
		return cmds
	}

	var g errgroup.Group
	g.SetLimit(f.opts.ParallelCabins)
	now := f.tick
	for i, c := range f.cabins {
		g.Go(func() error {
			cmds[i] = c.Decide(now)
			return nil
		})
	}
	// Decide never fails.
	_ = g.Wait()
	return cmds
}

func (f *Fleet) collectCabinResets() {
	for _, c := range f.cabins {
		for _, r := range c.takeResets() {
			f.recordReset(c.Index(), "FORCERESET", domain.CauseForced, r.reason, r.penalty)
		}
	}
}

// rebalance slides zone ownership when a cabin just reached an outer floor
// and repartitions on the configured period.
func (f *Fleet) rebalance(cmds []domain.Command) {
	if f.opts.Assignment != AssignZone {
		return
	}
	for i, c := range f.cabins {
		if cmds[i].IsMove() && (c.Floor() == f.lower || c.Floor() == f.higher) {
			f.planner.Slide(f.positions())
			f.log.Debug("zones slid", "tick", f.tick, "shift", f.planner.Shift())
			return
		}
	}
	if f.opts.RebalanceEvery > 0 && f.tick%f.opts.RebalanceEvery == 0 {
		f.planner.Partition(f.lower, f.higher, f.positions())
	}
}

// depthWindow is a fixed ring of recent mean waiting depths.
type depthWindow struct {
	values []float64
	next   int
	n      int
}

func newDepthWindow(size int) *depthWindow {
	return &depthWindow{values: make([]float64, max(1, size))}
}

// add records v and returns the mean of the recorded values.
func (w *depthWindow) add(v float64) float64 {
	w.values[w.next] = v
	w.next = (w.next + 1) % len(w.values)
	w.n = min(w.n+1, len(w.values))

	sum := 0.0
	for i := 0; i < w.n; i++ {
		sum += w.values[i]
	}
	return sum / float64(w.n)
}

func (w *depthWindow) clear() {
	w.next, w.n = 0, 0
}
