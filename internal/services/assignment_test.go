package services

import (
	"elevator-dispatch-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func positions(floors []int, dirs []domain.Direction) []domain.CabinPosition {
	out := make([]domain.CabinPosition, len(floors))
	for i := range floors {
		out[i] = domain.CabinPosition{Index: i, Floor: floors[i], Direction: dirs[i], Capacity: 5}
	}
	return out
}

func TestNearestCabin(t *testing.T) {
	p := NearestCabin{}
	cabins := positions([]int{0, 8, 4}, []domain.Direction{domain.Up, domain.Up, domain.Down})

	r := domain.NewRider(1, 6, 0, domain.Up)
	require.Equal(t, 1, p.Assign(r, cabins))

	t.Run("ties go to lowest index", func(t *testing.T) {
		r := domain.NewRider(2, 2, 0, domain.Up)
		require.Equal(t, 0, p.Assign(r, cabins))
	})

	t.Run("migration needs a strictly closer cabin", func(t *testing.T) {
		r := domain.NewRider(3, 2, 0, domain.Up)
		require.False(t, p.Improves(r, cabins, 0, 2))
		require.True(t, p.Improves(r, cabins, 1, 2))
	})
}

func zoneFleet() []domain.CabinPosition {
	return positions(
		[]int{4, 19, 12, 0},
		[]domain.Direction{domain.Down, domain.Up, domain.Down, domain.Up},
	)
}

func TestZonePlannerPartition(t *testing.T) {
	p := NewZonePlanner()
	p.Partition(0, 19, zoneFleet())

	zones := p.Zones()
	require.Len(t, zones, 4)
	require.Equal(t, domain.Zone{Index: 0, Lower: 0, Higher: 9, Direction: domain.Up, Owners: []int{1}}, zones[0])
	require.Equal(t, domain.Zone{Index: 1, Lower: 10, Higher: 19, Direction: domain.Up, Owners: []int{3}}, zones[1])
	require.Equal(t, []int{0}, zones[2].Owners)
	require.Equal(t, []int{2}, zones[3].Owners)

	t.Run("zones are copies", func(t *testing.T) {
		zones[0].Owners[0] = 99
		require.Equal(t, []int{1}, p.Owners(3, domain.Up))
	})

	t.Run("slide rotates ownership", func(t *testing.T) {
		p.Slide(zoneFleet())
		require.Equal(t, 1, p.Shift())
		require.Equal(t, []int{3}, p.Owners(3, domain.Up))
		require.Equal(t, []int{1}, p.Owners(15, domain.Up))
	})
}

func TestZonePlannerSingleCabinOwnsEverything(t *testing.T) {
	p := NewZonePlanner()
	p.Partition(-2, 7, positions([]int{0}, []domain.Direction{domain.Up}))

	require.Equal(t, []int{0}, p.Owners(-2, domain.Up))
	require.Equal(t, []int{0}, p.Owners(7, domain.Up))
	require.Empty(t, p.Owners(3, domain.Down))
}

func TestZoneOwnedAssign(t *testing.T) {
	planner := NewZonePlanner()
	cabins := zoneFleet()
	planner.Partition(0, 19, cabins)
	policy := NewZoneOwned(planner)

	// Cabin 0 sits on floor 4 but only cabin 1 owns the lower UP band.
	r := domain.NewRider(1, 4, 0, domain.Up)
	require.Equal(t, 1, policy.Assign(r, cabins))
	require.True(t, policy.Improves(r, cabins, 0, 1))
	require.False(t, policy.Improves(r, cabins, 1, 0))

	// With one cabin moving down nobody owns the upper DOWN band.
	cabins[2].Direction = domain.Up
	planner.Partition(0, 19, cabins)
	r = domain.NewRider(2, 13, 0, domain.Down)
	require.Equal(t, 2, policy.Assign(r, cabins))
}
