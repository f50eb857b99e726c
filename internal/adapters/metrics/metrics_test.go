package metrics

import (
	"elevator-dispatch-service/internal/domain"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNopMetrics(t *testing.T) {
	m := NewNopMetrics()
	require.NotNil(t, m)

	require.NotPanics(t, func() {
		m.RecordCommand("a", domain.CommandUp)
		m.RecordReset("a", "fleet", domain.CauseForced)
		m.RecordIgnoredEvent("", "call")
		m.RecordRide("a", -1)
		m.RecordMigration("a")
		m.SetWaitingRiders("a", 0)
		m.SetFleetScore("a", -10)
		m.ObserveTickDuration("a", 0)
	})
}

func TestPrometheusCollectorRegistersLazily(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "")

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Empty(t, families)

	p.RecordCommand("main", domain.CommandOpenUp)
	families, err = reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
	require.Equal(t, "elevator_scheduler_commands_total", families[0].GetName())
}

func TestPrometheusCollectorValues(t *testing.T) {
	p := NewPrometheus(prometheus.NewRegistry(), "test")

	p.RecordCommand("main", domain.CommandUp)
	p.RecordCommand("main", domain.CommandUp)
	p.RecordCommand("main", domain.CommandClose)
	require.InDelta(t, 2, testutil.ToFloat64(p.commands.WithLabelValues("main", "UP")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(p.commands.WithLabelValues("main", "CLOSE")), 0)

	p.RecordReset("main", "cabin", domain.CauseForced)
	require.InDelta(t, 1, testutil.ToFloat64(p.resets.WithLabelValues("main", "cabin", "FORCED")), 0)

	p.RecordIgnoredEvent("main", "go")
	require.InDelta(t, 1, testutil.ToFloat64(p.ignored.WithLabelValues("main", "go")), 0)

	p.RecordRide("main", 17)
	p.RecordRide("main", 3)
	require.InDelta(t, 2, testutil.ToFloat64(p.rides.WithLabelValues("main")), 0)

	p.RecordMigration("main")
	require.InDelta(t, 1, testutil.ToFloat64(p.migrations.WithLabelValues("main")), 0)

	p.SetWaitingRiders("main", 4)
	p.SetWaitingRiders("main", 2)
	require.InDelta(t, 2, testutil.ToFloat64(p.waiting.WithLabelValues("main")), 0)

	p.SetFleetScore("main", -3)
	require.InDelta(t, -3, testutil.ToFloat64(p.fleetScore.WithLabelValues("main")), 0)

	p.ObserveTickDuration("main", 0.001)
	require.Equal(t, 1, testutil.CollectAndCount(p.tickDuration))
}
