package services

import (
	"context"
	"elevator-dispatch-service/internal/ports"
	"errors"
	"fmt"
)

// FlushEvents drains f's recorded rides and resets into j. It must be called
// without holding the fleet lock; a nil journal just discards the events.
func FlushEvents(ctx context.Context, f *Fleet, j ports.RideJournal) error {
	ev := f.TakeEvents()
	if j == nil || ev.Empty() {
		return nil
	}

	var errs []error
	if err := j.RecordRides(ctx, ev.Rides); err != nil {
		errs = append(errs, fmt.Errorf("flush %d rides: %w", len(ev.Rides), err))
	}
	if err := j.RecordResets(ctx, ev.Resets); err != nil {
		errs = append(errs, fmt.Errorf("flush %d resets: %w", len(ev.Resets), err))
	}
	return errors.Join(errs...)
}
