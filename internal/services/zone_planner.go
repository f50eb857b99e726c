package services

import (
	"elevator-dispatch-service/internal/domain"
	"slices"

	"github.com/tiendc/go-deepcopy"
)

// ZonePlanner partitions the floor range into contiguous zones per
// direction and hands each zone to the cabins currently moving that way.
//
// The range is cut into max(1, n/2) bands of equal width (ceiling division),
// one set per direction. Within a direction the j-th cabin moving that way
// owns band (j + shift) mod bands; Slide bumps shift so ownership rotates by
// one band each time a cabin reaches the outer floors.
type ZonePlanner struct {
	lower, higher int
	shift         int
	zones         []domain.Zone
}

func NewZonePlanner() *ZonePlanner {
	return &ZonePlanner{}
}

// Partition recomputes the zones for [lower, higher] and the given cabins.
func (p *ZonePlanner) Partition(lower, higher int, cabins []domain.CabinPosition) {
	p.lower, p.higher = lower, higher

	bands := max(1, len(cabins)/2)
	span := higher - lower + 1
	width := max(1, (span+bands-1)/bands)

	p.zones = p.zones[:0]
	for _, dir := range domain.Directions {
		first := len(p.zones)
		for k := 0; k < bands; k++ {
			start := lower + k*width
			if start > higher {
				break
			}
			p.zones = append(p.zones, domain.Zone{
				Index:     len(p.zones),
				Lower:     start,
				Higher:    min(higher, start+width-1),
				Direction: dir,
			})
		}
		own := p.zones[first:]

		j := 0
		for _, c := range cabins {
			if c.Direction != dir {
				continue
			}
			z := &own[(j+p.shift)%len(own)]
			z.Owners = append(z.Owners, c.Index)
			j++
		}
	}
}

// Slide rotates ownership by one band and repartitions.
func (p *ZonePlanner) Slide(cabins []domain.CabinPosition) {
	p.shift++
	p.Partition(p.lower, p.higher, cabins)
}

// Reset forgets the accumulated slide.
func (p *ZonePlanner) Reset() { p.shift = 0 }

func (p *ZonePlanner) Shift() int { return p.shift }

// Owners returns the cabins owning floor for dir.
func (p *ZonePlanner) Owners(floor int, dir domain.Direction) []int {
	for _, z := range p.zones {
		if z.Direction == dir && z.Contains(floor) {
			return z.Owners
		}
	}
	return nil
}

// Zones returns a copy of the current zone table.
func (p *ZonePlanner) Zones() []domain.Zone {
	out := make([]domain.Zone, 0, len(p.zones))
	if err := deepcopy.Copy(&out, &p.zones); err != nil {
		return slices.Clone(p.zones)
	}
	return out
}

// ZoneOwned routes a rider to a cabin owning its floor for its direction,
// the closest owner first. Riders in unowned zones go to the nearest cabin.
type ZoneOwned struct {
	planner *ZonePlanner
}

func NewZoneOwned(planner *ZonePlanner) *ZoneOwned {
	return &ZoneOwned{planner: planner}
}

func (z *ZoneOwned) Name() string { return AssignZone }

// rank orders cabins for r: owners before others, then by distance.
func (z *ZoneOwned) rank(r *domain.Rider, c domain.CabinPosition) (int, int) {
	owner := 1
	if slices.Contains(z.planner.Owners(r.StartFloor, r.DirectionCalled), c.Index) {
		owner = 0
	}
	return owner, domain.Distance(c.Floor, r.StartFloor)
}

func (z *ZoneOwned) Assign(r *domain.Rider, cabins []domain.CabinPosition) int {
	best := 0
	for i := 1; i < len(cabins); i++ {
		if z.Improves(r, cabins, best, i) {
			best = i
		}
	}
	return best
}

func (z *ZoneOwned) Improves(r *domain.Rider, cabins []domain.CabinPosition, from, to int) bool {
	fromOwner, fromDist := z.rank(r, cabins[from])
	toOwner, toDist := z.rank(r, cabins[to])
	if toOwner != fromOwner {
		return toOwner < fromOwner
	}
	return toDist < fromDist
}
