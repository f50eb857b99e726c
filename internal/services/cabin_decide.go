package services

import (
	"elevator-dispatch-service/internal/domain"
	"slices"
)

// Decide advances the cabin by one tick and returns its command.
func (c *Cabin) Decide(now int) domain.Command {
	cmd := c.decide(now)

	if cmd == domain.CommandNothing {
		c.noopTicks++
		if c.opts.NoopBound > 0 && c.noopTicks > c.opts.NoopBound {
			cmd = c.forceReset("stuck doing nothing")
		}
	} else {
		c.noopTicks = 0
	}

	c.lastCommand = cmd
	c.log.Debug("cabin decision", "tick", now, "cmd", cmd, "floor", c.floor, "dir", c.direction)
	return cmd
}

func (c *Cabin) decide(now int) domain.Command {
	if c.occupancy >= c.capacity {
		c.fullTicks++
	} else {
		c.fullTicks = 0
	}
	if c.resetAsked != "" {
		return c.forceReset(c.resetAsked)
	}
	if c.opts.FullGraceTicks > 0 && c.fullTicks > c.opts.FullGraceTicks {
		return c.forceReset("cabin full for too long")
	}

	c.ledger.Tick(c.floor, c.occupancy)
	if c.ledger.IsEmpty() {
		c.rearm()
	}
	if c.ledger.IsEmpty() {
		return c.idle()
	}

	if c.doors == domain.DoorsOpen {
		return c.close()
	}

	if cmd, ok := c.tryOpen(now); ok {
		return cmd
	}
	if !c.hasWorkAhead() {
		c.direction = c.direction.Opposite()
		if cmd, ok := c.tryOpen(now); ok {
			return cmd
		}
	}
	if !c.hasWorkAhead() {
		c.rearm()
		if !c.hasWorkAhead() {
			return domain.CommandNothing
		}
	}
	return c.move(c.direction)
}

func (c *Cabin) hasWorkAhead() bool {
	return c.ledger.HasWorkAhead(c.floor, c.direction, c.occupancy, c.capacity)
}

// HasProductiveWork reports whether the cabin has something to do without
// reversing: an open due here or a request ahead.
func (c *Cabin) HasProductiveWork() bool {
	return c.ledger.MustOpenHere(c.floor, c.direction, c.occupancy, c.capacity) || c.hasWorkAhead()
}

// idle parks the cabin on its idle floor.
func (c *Cabin) idle() domain.Command {
	if c.doors == domain.DoorsOpen {
		return c.close()
	}
	switch {
	case c.floor < c.idleFloor:
		return c.move(domain.Up)
	case c.floor > c.idleFloor:
		return c.move(domain.Down)
	default:
		return domain.CommandNothing
	}
}

func (c *Cabin) move(dir domain.Direction) domain.Command {
	next := c.floor + dir.Step()
	if next < c.lower || next > c.higher {
		return domain.CommandNothing
	}
	c.floor = next
	return domain.MoveCommand(dir)
}

// close shuts the doors. Riders who were waiting here for the announced
// direction when the doors opened and did not board although there was room
// are forgotten. When the cabin is full they keep waiting and their call is
// armed again. Riders who called while the doors were open are left alone.
func (c *Cabin) close() domain.Command {
	c.doors = domain.DoorsClosed
	present := c.openedWith
	c.openedWith = nil
	for _, r := range slices.Clone(c.waiting[c.floor]) {
		if r.DirectionCalled != c.direction || !slices.Contains(present, r) {
			continue
		}
		if c.occupancy >= c.capacity {
			c.ledger.AddCall(c.floor, c.direction)
			continue
		}
		c.RemoveWaiting(r)
		c.log.Debug("rider did not board", "rider", r.ID, "floor", c.floor)
	}
	return domain.CommandClose
}

// tryOpen opens here when the ledger asks for it, never right after a CLOSE.
// With scoring on, a pickup is only made when it raises the estimated sweep
// score; drop-offs are always made.
func (c *Cabin) tryOpen(now int) (domain.Command, bool) {
	if c.lastCommand == domain.CommandClose {
		return "", false
	}
	if !c.ledger.MustOpenHere(c.floor, c.direction, c.occupancy, c.capacity) {
		return "", false
	}
	if c.opts.Scoring && len(c.toGo[c.floor]) == 0 && c.hasRidersWithScore(now) {
		if c.estimateScore(now, c.direction, true) <= c.estimateScore(now, c.direction, false) {
			return "", false
		}
	}
	return c.open(), true
}

func (c *Cabin) open() domain.Command {
	c.doors = domain.DoorsOpen
	c.openedWith = slices.Clone(c.waiting[c.floor])
	c.ledger.OnDoorsOpened(c.floor)

	// Riders here for the other way still need a later stop.
	other := c.direction.Opposite()
	if slices.ContainsFunc(c.waiting[c.floor], func(r *domain.Rider) bool { return r.DirectionCalled == other }) {
		c.ledger.AddCall(c.floor, other)
	}

	if c.opts.DirectionalOpen {
		return domain.OpenCommand(c.direction)
	}
	return domain.CommandOpen
}

// rearm restores requests the ledger forgot while their riders are still
// known to the cabin. Riders on the current floor are skipped while the
// doors are open or were just closed on them.
func (c *Cabin) rearm() {
	skipHere := c.doors == domain.DoorsOpen || c.lastCommand == domain.CommandClose
	for f, riders := range c.waiting {
		if skipHere && f == c.floor {
			continue
		}
		for _, r := range riders {
			if !c.ledger.HasCall(f, r.DirectionCalled) {
				c.ledger.AddCall(f, r.DirectionCalled)
			}
		}
	}
	for f, riders := range c.toGo {
		if len(riders) > 0 && !(skipHere && f == c.floor) {
			c.ledger.AddDestination(f, c.floor)
		}
	}
}

func (c *Cabin) hasRidersWithScore(now int) bool {
	for _, group := range []map[int][]*domain.Rider{c.waiting, c.toGo} {
		for _, riders := range group {
			for _, r := range riders {
				if r.Score(now, c.floor) > 0 {
					return true
				}
			}
		}
	}
	return false
}

// estimateScore sums the scores of the riders a sweep in dir would serve,
// starting on the current floor. Pickups count only while the simulated
// load has room; every stop other than the current one costs each rider 2
// when the cabin opens here first.
func (c *Cabin) estimateScore(now int, dir domain.Direction, openHere bool) int {
	load := c.occupancy
	score := 0
	for f := c.floor; f >= c.lower && f <= c.higher; f += dir.Step() {
		if f == c.floor && !openHere {
			continue
		}
		score += c.floorScore(now, dir, openHere, f, c.toGo[f], &load)
		score += c.floorScore(now, dir, openHere, f, c.waiting[f], &load)
	}
	return score
}

func (c *Cabin) floorScore(now int, dir domain.Direction, openHere bool, floor int, riders []*domain.Rider, load *int) int {
	score := 0
	for _, r := range riders {
		counted := false
		switch {
		case r.Boarded():
			counted = true
			*load--
		case r.DirectionCalled == dir && *load < c.capacity:
			counted = true
			*load++
		}
		if !counted {
			continue
		}
		s := r.Score(now, c.floor)
		if floor != c.floor && openHere {
			s -= 2
		}
		score += s
	}
	return max(score, 0)
}
