package services

import "elevator-dispatch-service/internal/domain"

// Assignment policy names accepted by the fleet.
const (
	AssignNearest = "nearest"
	AssignZone    = "zone"
)

// NearestCabin sends a rider to the closest cabin; ties go to the lowest index.
type NearestCabin struct{}

func (NearestCabin) Name() string { return AssignNearest }

func (NearestCabin) Assign(r *domain.Rider, cabins []domain.CabinPosition) int {
	return nearestOf(r.StartFloor, cabins, nil)
}

// Improves is true only when `to` is strictly closer than `from`.
func (NearestCabin) Improves(r *domain.Rider, cabins []domain.CabinPosition, from, to int) bool {
	return domain.Distance(cabins[to].Floor, r.StartFloor) < domain.Distance(cabins[from].Floor, r.StartFloor)
}

// nearestOf returns the index of the cabin closest to floor among those
// accepted by keep (all when keep is nil), or -1 when none is accepted.
func nearestOf(floor int, cabins []domain.CabinPosition, keep func(domain.CabinPosition) bool) int {
	best, bestDist := -1, 0
	for _, c := range cabins {
		if keep != nil && !keep(c) {
			continue
		}
		d := domain.Distance(c.Floor, floor)
		if best < 0 || d < bestDist {
			best, bestDist = c.Index, d
		}
	}
	return best
}
