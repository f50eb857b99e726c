package metrics

import (
	"elevator-dispatch-service/internal/domain"
	"elevator-dispatch-service/internal/ports"
)

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Used by default when a fleet is built
// without a collector, and in tests.
type NopMetrics struct{}

var _ ports.Metrics = (*NopMetrics)(nil)

func NewNopMetrics() *NopMetrics {
	return &NopMetrics{}
}

// RecordCommand discards the issued command.
func (n *NopMetrics) RecordCommand(_ /* fleet */ string, _ /* cmd */ domain.Command) {}

// RecordReset discards the reset event.
func (n *NopMetrics) RecordReset(_ /* fleet */, _ /* scope */ string, _ /* cause */ domain.ResetCause) {}

// RecordIgnoredEvent discards the dropped driver event.
func (n *NopMetrics) RecordIgnoredEvent(_ /* fleet */, _ /* event */ string) {}

// RecordRide discards the ride score.
func (n *NopMetrics) RecordRide(_ /* fleet */ string, _ /* score */ int) {}

// RecordMigration discards the rider migration.
func (n *NopMetrics) RecordMigration(_ /* fleet */ string) {}

// SetWaitingRiders discards the waiting rider count.
func (n *NopMetrics) SetWaitingRiders(_ /* fleet */ string, _ /* n */ int) {}

// SetFleetScore discards the fleet score.
func (n *NopMetrics) SetFleetScore(_ /* fleet */ string, _ /* score */ int) {}

// ObserveTickDuration discards the tick duration.
func (n *NopMetrics) ObserveTickDuration(_ /* fleet */ string, _ /* seconds */ float64) {}
