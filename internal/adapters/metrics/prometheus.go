package metrics

import (
	"elevator-dispatch-service/internal/domain"
	"elevator-dispatch-service/internal/ports"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements ports.Metrics backed by Prometheus.
//
// Collectors are created and registered on first use, so building one that is
// never exercised leaves the registry untouched.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	commands     *prometheus.CounterVec
	resets       *prometheus.CounterVec
	ignored      *prometheus.CounterVec
	rides        *prometheus.CounterVec
	rideScore    *prometheus.HistogramVec
	migrations   *prometheus.CounterVec
	waiting      *prometheus.GaugeVec
	fleetScore   *prometheus.GaugeVec
	tickDuration *prometheus.HistogramVec
}

var _ ports.Metrics = (*PrometheusCollector)(nil)

// NewPrometheus creates a Prometheus-backed collector. A nil registerer
// means prometheus.DefaultRegisterer; an empty namespace means "elevator".
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "elevator"
	}
	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.commands = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "scheduler",
			Name:      "commands_total",
			Help:      "Commands issued to cabins by command.",
		}, []string{"fleet", "command"})

		p.resets = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "scheduler",
			Name:      "resets_total",
			Help:      "Resets by scope (fleet, cabin) and kind (CLEAN, FORCED).",
		}, []string{"fleet", "scope", "kind"})

		p.ignored = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "scheduler",
			Name:      "ignored_events_total",
			Help:      "Driver events dropped as out of range or out of protocol.",
		}, []string{"fleet", "event"})

		p.rides = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "scheduler",
			Name:      "rides_total",
			Help:      "Completed rides.",
		}, []string{"fleet"})

		p.rideScore = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "scheduler",
			Name:      "ride_score",
			Help:      "Score of completed rides.",
			Buckets:   prometheus.LinearBuckets(0, 5, 10),
		}, []string{"fleet"})

		p.migrations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "scheduler",
			Name:      "rider_migrations_total",
			Help:      "Waiting riders moved to a better cabin.",
		}, []string{"fleet"})

		p.waiting = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "scheduler",
			Name:      "waiting_riders",
			Help:      "Riders waiting for a cabin after the last tick.",
		}, []string{"fleet"})

		p.fleetScore = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "scheduler",
			Name:      "fleet_score",
			Help:      "Accumulated score of the fleet since the last clean reset.",
		}, []string{"fleet"})

		p.tickDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "scheduler",
			Name:      "tick_duration_seconds",
			Help:      "Time spent computing one nextCommands batch.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12), // 50us .. ~100ms
		}, []string{"fleet"})

		p.reg.MustRegister(p.commands)
		p.reg.MustRegister(p.resets)
		p.reg.MustRegister(p.ignored)
		p.reg.MustRegister(p.rides)
		p.reg.MustRegister(p.rideScore)
		p.reg.MustRegister(p.migrations)
		p.reg.MustRegister(p.waiting)
		p.reg.MustRegister(p.fleetScore)
		p.reg.MustRegister(p.tickDuration)
	})
}

func (p *PrometheusCollector) RecordCommand(fleet string, cmd domain.Command) {
	p.ensureRegistered()
	p.commands.WithLabelValues(fleet, string(cmd)).Inc()
}

func (p *PrometheusCollector) RecordReset(fleet, scope string, cause domain.ResetCause) {
	p.ensureRegistered()
	p.resets.WithLabelValues(fleet, scope, cause.String()).Inc()
}

func (p *PrometheusCollector) RecordIgnoredEvent(fleet, event string) {
	p.ensureRegistered()
	p.ignored.WithLabelValues(fleet, event).Inc()
}

// RecordRide counts the ride and observes its score.
func (p *PrometheusCollector) RecordRide(fleet string, score int) {
	p.ensureRegistered()
	p.rides.WithLabelValues(fleet).Inc()
	p.rideScore.WithLabelValues(fleet).Observe(float64(score))
}

func (p *PrometheusCollector) RecordMigration(fleet string) {
	p.ensureRegistered()
	p.migrations.WithLabelValues(fleet).Inc()
}

func (p *PrometheusCollector) SetWaitingRiders(fleet string, n int) {
	p.ensureRegistered()
	p.waiting.WithLabelValues(fleet).Set(float64(n))
}

func (p *PrometheusCollector) SetFleetScore(fleet string, score int) {
	p.ensureRegistered()
	p.fleetScore.WithLabelValues(fleet).Set(float64(score))
}

func (p *PrometheusCollector) ObserveTickDuration(fleet string, seconds float64) {
	p.ensureRegistered()
	p.tickDuration.WithLabelValues(fleet).Observe(seconds)
}
