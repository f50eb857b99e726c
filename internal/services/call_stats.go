package services

import (
	"math"
	"slices"
)

// DefaultCallWindow is how many recent call floors feed the idle positions.
const DefaultCallWindow = 500

// CallStats keeps the floors of the most recent calls in a bounded window.
type CallStats struct {
	window []int
	next   int
	full   bool
}

func NewCallStats(size int) *CallStats {
	if size <= 0 {
		size = DefaultCallWindow
	}
	return &CallStats{window: make([]int, 0, size)}
}

// Add records a call floor, overwriting the oldest once the window is full.
func (s *CallStats) Add(floor int) {
	if !s.full {
		s.window = append(s.window, floor)
		if len(s.window) == cap(s.window) {
			s.full = true
		}
		return
	}
	s.window[s.next] = floor
	s.next = (s.next + 1) % len(s.window)
}

func (s *CallStats) Len() int { return len(s.window) }

func (s *CallStats) Clear() {
	s.window = s.window[:0]
	s.next = 0
	s.full = false
}

// SeedIfEmpty fills an empty window with one call per floor of [lower, higher].
func (s *CallStats) SeedIfEmpty(lower, higher int) {
	if len(s.window) > 0 {
		return
	}
	for f := lower; f <= higher; f++ {
		s.Add(f)
	}
}

// Percentile estimates the p-th percentile (0 < p <= 100) of the window.
//
// The estimate places p at position p*(n+1)/100 of the sorted values and
// interpolates linearly between neighbours, clamping to the extremes.
func (s *CallStats) Percentile(p float64) float64 {
	n := len(s.window)
	if n == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(s.window)
	slices.Sort(sorted)
	if n == 1 {
		return float64(sorted[0])
	}

	pos := p * float64(n+1) / 100
	if pos < 1 {
		return float64(sorted[0])
	}
	if pos >= float64(n) {
		return float64(sorted[n-1])
	}
	fpos := math.Floor(pos)
	lower := float64(sorted[int(fpos)-1])
	upper := float64(sorted[int(fpos)])
	return lower + (pos-fpos)*(upper-lower)
}

// IdleFloors spreads n cabins over the call distribution: cabin i parks at
// the (i+0.5)/n quantile, rounded half up and clamped to [lower, higher].
func (s *CallStats) IdleFloors(n, lower, higher int) []int {
	floors := make([]int, n)
	for i := range floors {
		if s.Len() == 0 {
			floors[i] = lower
			continue
		}
		q := (float64(i) + 0.5) / float64(n) * 100
		f := int(math.Floor(s.Percentile(q) + 0.5))
		floors[i] = min(max(f, lower), higher)
	}
	return floors
}
