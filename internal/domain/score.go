package domain

// BaseRiderScore is the score of a rider served instantly.
const BaseRiderScore = 20

// Score values a rider at tick now as seen by a cabin at observerFloor.
//
// Riders far along their journey are rewarded; waiting time (halved), ride
// time and the remaining distance to the next stop for this rider are
// penalised. The result is never negative.
func Score(r *Rider, now, observerFloor int) int {
	neededTravel := 0
	waitTerm := (now - r.StartTick) / 2
	travelTerm := 0
	proximity := absInt(observerFloor - r.StartFloor)

	if dest, ok := r.Destination(); ok {
		board, _ := r.BoardTick()
		neededTravel = absInt(dest-r.StartFloor) + 2
		waitTerm = (board - r.StartTick) / 2
		travelTerm = now - board
		proximity = absInt(observerFloor - dest)
	}

	score := BaseRiderScore + neededTravel - waitTerm - travelTerm - proximity
	if score < 0 {
		return 0
	}
	return score
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Distance is the number of floors between a and b.
func Distance(a, b int) int { return absInt(a - b) }
