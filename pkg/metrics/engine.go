package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records recompute timings and command outcomes of the aggregation engine.
type EngineMetrics struct {
	recompute   *prometheus.HistogramVec
	bulkLeaves  *prometheus.CounterVec
	commandFail *prometheus.CounterVec
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	recompute := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "engine_recompute_duration_seconds",
		Help:    "Duration of in-memory view recomputation in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"view"})
	bulkLeaves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_bulk_toggle_leaves_total",
		Help: "Leaf items processed by bulk preparation toggles.",
	}, []string{"scope", "outcome"})
	commandFail := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_command_failures_total",
		Help: "Failed mutation commands sent to the order store.",
	}, []string{"command"})
	reg.MustRegister(recompute, bulkLeaves, commandFail)
	return &EngineMetrics{
		recompute:   recompute,
		bulkLeaves:  bulkLeaves,
		commandFail: commandFail,
	}
}

// ObserveRecompute records how long building the named view took.
func (m *EngineMetrics) ObserveRecompute(view string, duration time.Duration) {
	if m == nil || m.recompute == nil {
		return
	}
	m.recompute.WithLabelValues(normalizeLabel(view)).Observe(duration.Seconds())
}

// AddBulkOutcome counts succeeded and failed leaves of one bulk toggle.
func (m *EngineMetrics) AddBulkOutcome(scope string, succeeded, failed int) {
	if m == nil || m.bulkLeaves == nil {
		return
	}
	scope = normalizeLabel(scope)
	if succeeded > 0 {
		m.bulkLeaves.WithLabelValues(scope, "success").Add(float64(succeeded))
	}
	if failed > 0 {
		m.bulkLeaves.WithLabelValues(scope, "failure").Add(float64(failed))
	}
}

// IncCommandFailure counts a failed store command.
func (m *EngineMetrics) IncCommandFailure(command string) {
	if m == nil || m.commandFail == nil {
		return
	}
	m.commandFail.WithLabelValues(normalizeLabel(command)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
