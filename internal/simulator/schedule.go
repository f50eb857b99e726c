package simulator

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
)

var ErrEmptyArrivals = errors.New("arrivals: empty profile")

// Arrival is one rider appearing in the building.
type Arrival struct {
	Tick        int `json:"tick"`
	StartFloor  int `json:"startFloor"`
	Destination int `json:"destination"`
}

// DefaultArrivals is a day-shaped profile: a quiet start, a morning and an
// evening rush, and a calm middle.
func DefaultArrivals() []int {
	out := make([]int, 0, 400)
	for i := range 400 {
		switch {
		case i < 40 || i >= 360:
			out = append(out, i%4/3)
		case i < 100, i >= 280 && i < 340:
			out = append(out, 1+i%2)
		default:
			out = append(out, i%2)
		}
	}
	return out
}

// LoadArrivals reads a JSON array of per-tick arrival counts.
func LoadArrivals(path string) ([]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load arrivals %s: %w", path, err)
	}
	var counts []int
	if err := json.Unmarshal(data, &counts); err != nil {
		return nil, fmt.Errorf("load arrivals %s: %w", path, err)
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("load arrivals %s: %w", path, ErrEmptyArrivals)
	}
	for i, c := range counts {
		if c < 0 {
			return nil, fmt.Errorf("load arrivals %s: tick %d has %d arrivals", path, i, c)
		}
	}
	return counts, nil
}

// GenerateSchedule draws riders for ticks ticks, cycling through the arrival
// counts. Start and destination are distinct floors in [lower, higher].
// The same seed always yields the same schedule.
func GenerateSchedule(counts []int, ticks, lower, higher int, seed uint64) ([]Arrival, error) {
	if len(counts) == 0 {
		return nil, ErrEmptyArrivals
	}
	span := higher - lower + 1
	if span < 2 {
		return nil, fmt.Errorf("generate schedule: need two floors, got %d..%d", lower, higher)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	var out []Arrival
	for tick := range ticks {
		for range counts[tick%len(counts)] {
			start := lower + rng.IntN(span)
			dest := lower + rng.IntN(span-1)
			if dest >= start {
				dest++
			}
			out = append(out, Arrival{Tick: tick, StartFloor: start, Destination: dest})
		}
	}
	return out, nil
}
