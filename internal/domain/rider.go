package domain

// Represents a single passenger request from hall call to drop-off.
// A Rider is created by a call, boards exactly once (destination and board
// tick are set together) and is removed from its queue when it exits.
type Rider struct {
	ID              int
	StartFloor      int
	StartTick       int
	DirectionCalled Direction

	destinationFloor int
	boardTick        int
	boarded          bool
}

func NewRider(id, floor, tick int, dir Direction) *Rider {
	return &Rider{
		ID:              id,
		StartFloor:      floor,
		StartTick:       tick,
		DirectionCalled: dir,
	}
}

// Board records the destination chosen after entering the cabin.
// A rider boards once; later calls are ignored.
func (r *Rider) Board(destination, tick int) {
	if r.boarded {
		return
	}
	r.destinationFloor = destination
	r.boardTick = tick
	r.boarded = true
}

// Boarded reports whether the rider has chosen a destination.
func (r *Rider) Boarded() bool { return r.boarded }

// Destination returns the drop-off floor once boarded.
func (r *Rider) Destination() (int, bool) { return r.destinationFloor, r.boarded }

// BoardTick returns the tick the destination was registered once boarded.
func (r *Rider) BoardTick() (int, bool) { return r.boardTick, r.boarded }

// Score returns the rider's expected satisfaction at tick now seen from observerFloor.
func (r *Rider) Score(now, observerFloor int) int {
	return Score(r, now, observerFloor)
}
