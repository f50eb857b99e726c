package ports

import (
	"context"
	"elevator-dispatch-service/internal/domain"
)

// Metrics receives scheduler measurements. Implementations must be safe for
// concurrent use; cabins may report from worker goroutines.
type Metrics interface {
	RecordCommand(fleet string, cmd domain.Command)
	RecordReset(fleet, scope string, cause domain.ResetCause)
	RecordIgnoredEvent(fleet, event string)
	RecordRide(fleet string, score int)
	RecordMigration(fleet string)
	SetWaitingRiders(fleet string, n int)
	SetFleetScore(fleet string, score int)
	ObserveTickDuration(fleet string, seconds float64)
}

// TickPublisher broadcasts each tick's command batch to external observers.
type TickPublisher interface {
	PublishTick(ctx context.Context, ev domain.TickEvent) error
}
