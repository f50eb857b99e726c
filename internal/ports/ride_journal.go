package ports

import (
	"context"
	"elevator-dispatch-service/internal/domain"
)

// Aggregate figures reported by a ride journal.
type JournalSummary struct {
	Rides       int     `json:"rides"`
	TotalScore  int     `json:"total_score"`
	MeanScore   float64 `json:"mean_score"`
	Resets      int     `json:"resets"`
	CleanResets int     `json:"clean_resets"`
	Penalties   int     `json:"penalties"`
}

// Port: an append-only audit log of completed rides and resets.
type RideJournal interface {
	RecordRides(ctx context.Context, rides []domain.RideRecord) error
	RecordResets(ctx context.Context, resets []domain.ResetRecord) error
	// Summarize aggregates the journal of one fleet.
	Summarize(ctx context.Context, fleet string) (JournalSummary, error)
}
