// Package metrics exposes prometheus instruments for the collection
// engine and its scheduler.
package metrics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const (
	JobErrorReasonDeadlineExceeded = "deadline_exceeded"
	JobErrorReasonDB               = "db"
	JobErrorReasonUnknown          = "unknown"
)

const (
	OutcomeReminderSent   = "reminder_sent"
	OutcomeReminderFailed = "reminder_failed"
	OutcomeEscalated      = "escalated"
	OutcomeSkipped        = "skipped"
	OutcomeError          = "error"
)

// SchedulerMetrics captures job-level health signals.
type SchedulerMetrics struct {
	jobRuns     *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
	jobTimeouts *prometheus.CounterVec
	jobErrors   *prometheus.CounterVec
	outcomes    *prometheus.CounterVec
	overdueSwpt prometheus.Counter
}

var (
	metricsOnce sync.Once
	metrics     *SchedulerMetrics
)

// Scheduler returns the singleton metrics registry.
func Scheduler() *SchedulerMetrics {
	metricsOnce.Do(func() {
		metrics = newSchedulerMetrics(prometheus.DefaultRegisterer)
	})
	return metrics
}

// ResetForTest resets the metrics singleton so tests with their own
// registerer do not collide on double registration.
func ResetForTest() {
	metricsOnce = sync.Once{}
	metrics = nil
}

func newSchedulerMetrics(registerer prometheus.Registerer) *SchedulerMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	jobRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "valle360_scheduler_job_runs_total",
		Help: "Scheduler job runs by name.",
	}, []string{"job"})
	jobDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "valle360_scheduler_job_duration_seconds",
		Help:    "Scheduler job latency.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"job"})
	jobTimeouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "valle360_scheduler_job_timeouts_total",
		Help: "Scheduler jobs cut off by their deadline.",
	}, []string{"job"})
	jobErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "valle360_scheduler_job_errors_total",
		Help: "Scheduler job errors by low-cardinality reason.",
	}, []string{"job", "reason"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "valle360_collection_outcomes_total",
		Help: "Per-invoice collection outcomes by kind.",
	}, []string{"outcome"})
	overdueSwept := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "valle360_invoices_swept_overdue_total",
		Help: "Invoices moved from pending to overdue by the daily sweep.",
	})

	registerer.MustRegister(
		jobRuns,
		jobDuration,
		jobTimeouts,
		jobErrors,
		outcomes,
		overdueSwept,
	)

	return &SchedulerMetrics{
		jobRuns:     jobRuns,
		jobDuration: jobDuration,
		jobTimeouts: jobTimeouts,
		jobErrors:   jobErrors,
		outcomes:    outcomes,
		overdueSwpt: overdueSwept,
	}
}

// IncJobRun increments the run counter for a scheduler job.
func (m *SchedulerMetrics) IncJobRun(job string) {
	if m == nil || m.jobRuns == nil {
		return
	}
	m.jobRuns.WithLabelValues(job).Inc()
}

// ObserveJobDuration records scheduler job latency in seconds.
func (m *SchedulerMetrics) ObserveJobDuration(job string, duration time.Duration) {
	if m == nil || m.jobDuration == nil {
		return
	}
	m.jobDuration.WithLabelValues(job).Observe(duration.Seconds())
}

// IncJobTimeout increments the timeout counter for the scheduler job.
func (m *SchedulerMetrics) IncJobTimeout(job string) {
	if m == nil || m.jobTimeouts == nil {
		return
	}
	m.jobTimeouts.WithLabelValues(job).Inc()
}

// IncJobError increments the scheduler job error counter with classification.
func (m *SchedulerMetrics) IncJobError(job string, err error) {
	if m == nil || m.jobErrors == nil || err == nil {
		return
	}
	m.jobErrors.WithLabelValues(job, classifyJobError(err)).Inc()
}

// IncOutcome counts one per-invoice collection outcome.
func (m *SchedulerMetrics) IncOutcome(outcome string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(outcome).Inc()
}

// AddOverdueSwept counts invoices moved to overdue by the sweep.
func (m *SchedulerMetrics) AddOverdueSwept(count int64) {
	if m == nil || m.overdueSwpt == nil || count <= 0 {
		return
	}
	m.overdueSwpt.Add(float64(count))
}

func classifyJobError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return JobErrorReasonDeadlineExceeded
	}
	if isDBError(err) {
		return JobErrorReasonDB
	}
	return JobErrorReasonUnknown
}

func isDBError(err error) bool {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	return errors.Is(err, gorm.ErrInvalidDB) ||
		errors.Is(err, gorm.ErrInvalidTransaction) ||
		errors.Is(err, gorm.ErrMissingWhereClause) ||
		errors.Is(err, gorm.ErrDuplicatedKey)
}
