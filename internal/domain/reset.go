package domain

import "strings"

// ResetCause classifies why a fleet or cabin was reinitialised.
type ResetCause int

const (
	// CauseForced resets keep accumulating the reset penalty.
	CauseForced ResetCause = iota
	// CauseClean means the fleet is at rest; score and tick counters restart from zero.
	CauseClean
)

func (c ResetCause) String() string {
	if c == CauseClean {
		return "CLEAN"
	}
	return "FORCED"
}

// Markers that external drivers send when every cabin is parked.
var cleanCauseMarkers = []string{
	"all elevators are at floor",
	"the elevator is at floor",
}

// ParseResetCause maps the free-text cause sent by the driver onto a ResetCause.
func ParseResetCause(cause string) ResetCause {
	c := strings.ToLower(strings.TrimSpace(cause))
	for _, m := range cleanCauseMarkers {
		if strings.HasPrefix(c, m) {
			return CauseClean
		}
	}
	return CauseForced
}

// ResetPenalty returns the score deducted by the n-th consecutive forced reset.
// n starts at 1.
func ResetPenalty(n, base, step int) int {
	if n < 1 {
		n = 1
	}
	return base + (n-1)*step
}
