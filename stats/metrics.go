package stats

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

var (
	IntakeDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stagehand_intake_decisions_total",
			Help: "Total number of intake events by outcome (count)",
		},
		[]string{"outcome"},
	)

	DeadLetterRoutingFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stagehand_dead_letter_routing_failures_total",
			Help: "Total number of objects that could not be copied to the dead-letter bucket (count)",
		},
		[]string{"reason"},
	)

	ReplicationTablesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stagehand_replication_tables_total",
			Help: "Total number of tables processed by replication runs (count)",
		},
		[]string{"job", "status"},
	)

	ReplicationRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stagehand_replication_runs_total",
			Help: "Total number of replication runs (count)",
		},
		[]string{"job", "status"},
	)

	ReplicationRunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stagehand_replication_run_duration_seconds",
			Help:    "Duration of replication runs in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
		},
		[]string{"job", "status"},
	)
)

var registerOnce sync.Once

// RegisterMetrics adds all collectors to the default registry. It is safe to call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(IntakeDecisionsTotal)
		prometheus.MustRegister(DeadLetterRoutingFailuresTotal)
		prometheus.MustRegister(ReplicationTablesTotal)
		prometheus.MustRegister(ReplicationRunsTotal)
		prometheus.MustRegister(ReplicationRunDuration)
	})
}

func IncIntakeDecision(outcome string) {
	IntakeDecisionsTotal.WithLabelValues(outcome).Inc()
}

func IncDeadLetterRoutingFailure(reason string) {
	DeadLetterRoutingFailuresTotal.WithLabelValues(reason).Inc()
}

func IncReplicationTable(job, status string) {
	ReplicationTablesTotal.WithLabelValues(job, status).Inc()
}

func ObserveReplicationRun(job, status string, duration time.Duration) {
	ReplicationRunsTotal.WithLabelValues(job, status).Inc()
	ReplicationRunDuration.WithLabelValues(job, status).Observe(duration.Seconds())
}

// Status maps a boolean result to a status label.
func Status(ok bool) string {
	if ok {
		return StatusSuccess
	}
	return StatusFailure
}
