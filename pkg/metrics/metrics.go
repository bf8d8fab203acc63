package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "staff_scheduler"

// RunMetrics collects the outcome of a single CLI run for the node exporter textfile collector
type RunMetrics struct {
	reg *prometheus.Registry

	shiftsGenerated  *prometheus.GaugeVec
	shiftsDeleted    *prometheus.GaugeVec
	assignmentShifts *prometheus.GaugeVec
	notifications    *prometheus.GaugeVec
	runDuration      *prometheus.GaugeVec
	lastRunTimestamp *prometheus.GaugeVec
	runFailures      *prometheus.GaugeVec
}

// New creates a RunMetrics backed by its own registry
func New() *RunMetrics {
	m := &RunMetrics{
		reg: prometheus.NewRegistry(),

		shiftsGenerated: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "generate",
			Name:      "shifts_created",
			Help:      "Shifts created by the last generation run for a period.",
		}, []string{"period"}),

		shiftsDeleted: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "generate",
			Name:      "shifts_deleted",
			Help:      "Shifts replaced by the last generation run for a period.",
		}, []string{"period"}),

		assignmentShifts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "assign",
			Name:      "shifts",
			Help:      "Shifts handled by the last assignment run by outcome (attempted, assigned, unfilled, race_lost).",
		}, []string{"period", "outcome"}),

		notifications: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "assign",
			Name:      "notifications",
			Help:      "Schedule notifications from the last assignment run by outcome (sent, failed).",
		}, []string{"period", "outcome"}),

		runDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last run of each operation in seconds.",
		}, []string{"operation"}),

		lastRunTimestamp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the operation last completed.",
		}, []string{"operation"}),

		runFailures: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_failed",
			Help:      "1 if the last run of the operation returned an error, 0 otherwise.",
		}, []string{"operation"}),
	}

	m.reg.MustRegister(
		m.shiftsGenerated,
		m.shiftsDeleted,
		m.assignmentShifts,
		m.notifications,
		m.runDuration,
		m.lastRunTimestamp,
		m.runFailures,
	)
	return m
}

// Registry exposes the underlying gatherer
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.reg
}

// RecordGenerate records the counts from a generation run
func (m *RunMetrics) RecordGenerate(period string, created, deleted int) {
	m.shiftsGenerated.WithLabelValues(period).Set(float64(created))
	m.shiftsDeleted.WithLabelValues(period).Set(float64(deleted))
}

// AssignCounts are the outcome counts of one committed assignment run.
// RaceLost is the number of prepared assignments another run committed first.
type AssignCounts struct {
	Attempted            int
	Assigned             int
	RaceLost             int
	Unfilled             int
	Notified             int
	NotificationFailures int
}

// RecordAssign records the counts from an assignment run
func (m *RunMetrics) RecordAssign(period string, c AssignCounts) {
	m.assignmentShifts.WithLabelValues(period, "attempted").Set(float64(c.Attempted))
	m.assignmentShifts.WithLabelValues(period, "assigned").Set(float64(c.Assigned))
	m.assignmentShifts.WithLabelValues(period, "unfilled").Set(float64(c.Unfilled))
	m.assignmentShifts.WithLabelValues(period, "race_lost").Set(float64(c.RaceLost))
	m.notifications.WithLabelValues(period, "sent").Set(float64(c.Notified))
	m.notifications.WithLabelValues(period, "failed").Set(float64(c.NotificationFailures))
}

// RecordRun records duration, completion time and failure state for an operation
func (m *RunMetrics) RecordRun(operation string, started time.Time, err error) {
	now := time.Now()
	m.runDuration.WithLabelValues(operation).Set(now.Sub(started).Seconds())
	m.lastRunTimestamp.WithLabelValues(operation).Set(float64(now.Unix()))

	failed := 0.0
	if err != nil {
		failed = 1
	}
	m.runFailures.WithLabelValues(operation).Set(failed)
}

// WriteTextfile writes the metrics in Prometheus text format, replacing the file atomically
func (m *RunMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
