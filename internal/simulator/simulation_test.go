package simulator

import (
	"context"
	"elevator-dispatch-service/internal/config"
	"elevator-dispatch-service/internal/domain"
	"elevator-dispatch-service/internal/ports"
	"elevator-dispatch-service/internal/services"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryJournal struct {
	mu     sync.Mutex
	rides  []domain.RideRecord
	resets []domain.ResetRecord
}

func (m *memoryJournal) RecordRides(_ context.Context, rides []domain.RideRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides = append(m.rides, rides...)
	return nil
}

func (m *memoryJournal) RecordResets(_ context.Context, resets []domain.ResetRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, resets...)
	return nil
}

func (m *memoryJournal) Summarize(context.Context, string) (ports.JournalSummary, error) {
	return ports.JournalSummary{}, nil
}

func defaultProfiles() []services.FleetOptions {
	var out []services.FleetOptions
	for _, f := range config.Default().Fleets {
		out = append(out, f.FleetOptions())
	}
	return out
}

func TestNewSimulationValidation(t *testing.T) {
	b := BuildingOptions{LowerFloor: 0, HigherFloor: 9, Capacity: 5, Cabins: 1}
	_, err := New(Options{Building: b}, nil, nil, quietLogger())
	require.Error(t, err)

	_, err = New(Options{Building: BuildingOptions{HigherFloor: 0, Capacity: 1, Cabins: 1}, Ticks: 10}, nil, nil, quietLogger())
	require.Error(t, err)

	s, err := New(Options{Building: b, Ticks: 10, Seed: 3}, nil, nil, quietLogger())
	require.NoError(t, err)
	require.NotEmpty(t, s.Schedule())
}

func TestSimulationProfilesNeverIssueIncompatibleCommands(t *testing.T) {
	profiles := defaultProfiles()
	journal := &memoryJournal{}
	sim, err := New(Options{
		Building: BuildingOptions{LowerFloor: 0, HigherFloor: 9, Capacity: 5, Cabins: 2},
		Ticks:    400,
		Seed:     7,
	}, nil, journal, quietLogger())
	require.NoError(t, err)

	results, err := sim.Run(context.Background(), profiles)
	require.NoError(t, err)
	require.Len(t, results, len(profiles))

	for i, r := range results {
		require.Equal(t, profiles[i].Name, r.Name)
		require.Zero(t, r.Incompatible, "profile %s", r.Name)
		require.Positive(t, r.Rides, "profile %s", r.Name)
	}
	require.NotEmpty(t, journal.rides)
	require.NotEmpty(t, journal.resets)
}

func TestSimulationSingleCabinWideBuilding(t *testing.T) {
	sim, err := New(Options{
		Building: BuildingOptions{LowerFloor: -13, HigherFloor: 27, Capacity: 60, Cabins: 1},
		Ticks:    300,
		Arrivals: []int{1, 0},
		Seed:     11,
	}, nil, nil, quietLogger())
	require.NoError(t, err)

	scan := defaultProfiles()[1]
	require.Equal(t, services.LedgerScan, scan.Ledger.Kind)
	results, err := sim.Run(context.Background(), []services.FleetOptions{scan})
	require.NoError(t, err)
	require.Zero(t, results[0].Incompatible)
	require.Positive(t, results[0].Rides)
}

func TestSimulationDrainsEveryRider(t *testing.T) {
	// Riders arrive for 300 ticks, then the building goes quiet.
	arrivals := make([]int, 1200)
	for i := 0; i < 300; i += 3 {
		arrivals[i] = 1
	}
	sim, err := New(Options{
		Building: BuildingOptions{LowerFloor: 0, HigherFloor: 19, Capacity: 5, Cabins: 1},
		Ticks:    len(arrivals),
		Arrivals: arrivals,
		Seed:     5,
	}, nil, nil, quietLogger())
	require.NoError(t, err)
	require.Len(t, sim.Schedule(), 100)

	profiles := defaultProfiles()
	for i := range profiles {
		profiles[i].Cabin.NoopBound = 0
		profiles[i].Cabin.FullGraceTicks = 0
		profiles[i].OverloadThreshold = 0
	}
	results, err := sim.Run(context.Background(), profiles)
	require.NoError(t, err)

	for _, r := range results {
		require.Zero(t, r.Incompatible, "profile %s", r.Name)
		require.Equal(t, 1, r.Resets, "profile %s", r.Name)
		require.Zero(t, r.Waiting, "profile %s", r.Name)
		require.Zero(t, r.Aboard, "profile %s", r.Name)
		require.Equal(t, 100, r.Rides, "profile %s", r.Name)
	}
}

func TestSimulationStopsOnCancel(t *testing.T) {
	sim, err := New(Options{
		Building: BuildingOptions{LowerFloor: 0, HigherFloor: 9, Capacity: 5, Cabins: 1},
		Ticks:    50,
	}, nil, nil, quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sim.Run(ctx, defaultProfiles()[:1])
	require.ErrorIs(t, err, context.Canceled)
}

func TestSimulationRejectsBadProfile(t *testing.T) {
	sim, err := New(Options{
		Building: BuildingOptions{LowerFloor: 0, HigherFloor: 9, Capacity: 5, Cabins: 1},
		Ticks:    5,
	}, nil, nil, quietLogger())
	require.NoError(t, err)

	bad := services.FleetOptions{Name: "bad", Ledger: services.LedgerOptions{Kind: "lifo"}}
	_, err = sim.Run(context.Background(), []services.FleetOptions{bad})
	require.Error(t, err)
}

func TestFleetInvariantsHoldEveryTick(t *testing.T) {
	opts := BuildingOptions{LowerFloor: -2, HigherFloor: 8, Capacity: 3, Cabins: 3}
	schedule, err := GenerateSchedule([]int{2, 1, 0, 1}, 300, opts.LowerFloor, opts.HigherFloor, 9)
	require.NoError(t, err)

	for _, fo := range defaultProfiles() {
		t.Run(fo.Name, func(t *testing.T) {
			fleet, err := services.NewFleet(fo, nil, quietLogger())
			require.NoError(t, err)
			b := NewBuilding(fo.Name, fleet, opts, quietLogger())

			next := 0
			for tick := range 300 {
				b.Tick(context.Background(), tick)
				for ; next < len(schedule) && schedule[next].Tick == tick; next++ {
					b.AddUser(tick, schedule[next].StartFloor, schedule[next].Destination)
				}

				snap := fleet.Snapshot()
				require.Len(t, snap.Cabins, opts.Cabins)
				for i, c := range snap.Cabins {
					require.GreaterOrEqual(t, c.Occupancy, 0)
					require.LessOrEqual(t, c.Occupancy, c.Capacity)
					require.Equal(t, b.floors[i], c.Floor, "tick %d cabin %d", tick, i)
					require.Equal(t, b.open[i], c.Doors == domain.DoorsOpen.String(), "tick %d cabin %d", tick, i)
					for _, e := range c.Ledger {
						require.GreaterOrEqual(t, e.Floor, opts.LowerFloor)
						require.LessOrEqual(t, e.Floor, opts.HigherFloor)
					}
				}
			}
			require.Zero(t, b.Result().Incompatible)
		})
	}
}
