package domain

// Zone is a contiguous floor range owned, for one rebalancing epoch, by the
// cabins moving in Direction.
type Zone struct {
	Index     int       `json:"index"`
	Lower     int       `json:"lower"`
	Higher    int       `json:"higher"`
	Direction Direction `json:"direction"`
	Owners    []int     `json:"owners"`
}

// Contains reports whether floor lies inside the zone.
func (z Zone) Contains(floor int) bool {
	return floor >= z.Lower && floor <= z.Higher
}

// CabinPosition is the read-only view assignment policies use to rank cabins.
type CabinPosition struct {
	Index     int
	Floor     int
	Direction Direction
	Occupancy int
	Capacity  int
}
