package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for workflow transitions.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics tracks leave and correction workflow activity and notification delivery.
type Metrics struct {
	WorkflowTransitions  *prometheus.CounterVec
	BalanceDeductedDays  *prometheus.CounterVec
	NotificationsQueued  prometheus.Counter
	NotificationsDropped prometheus.Counter
	NotificationFailures *prometheus.CounterVec
	JobRuns              *prometheus.CounterVec

	factory  promauto.Factory
	gatherer prometheus.Gatherer
}

// New registers all metrics on reg. A nil reg uses a private registry, which
// keeps tests free of duplicate registration panics.
func New(reg prometheus.Registerer) *Metrics {
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if reg == nil {
		r := prometheus.NewRegistry()
		reg, gatherer = r, r
	} else if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}
	factory := promauto.With(reg)

	return &Metrics{
		WorkflowTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hrms_workflow_transitions_total",
			Help: "Leave and attendance correction transitions by workflow, target state and outcome",
		}, []string{"workflow", "transition", "outcome"}),
		BalanceDeductedDays: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hrms_leave_balance_deducted_days_total",
			Help: "Days deducted from leave balances on approval",
		}, []string{"balance"}),
		NotificationsQueued: factory.NewCounter(prometheus.CounterOpts{
			Name: "hrms_notifications_queued_total",
			Help: "Notification events accepted by the dispatcher",
		}),
		NotificationsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "hrms_notifications_dropped_total",
			Help: "Notification events dropped because the queue was full or the service had stopped",
		}),
		NotificationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hrms_notification_failures_total",
			Help: "Notification delivery failures by channel",
		}, []string{"channel"}),
		JobRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hrms_job_runs_total",
			Help: "Scheduled job runs by job name and outcome",
		}, []string{"job", "outcome"}),
		factory:  factory,
		gatherer: gatherer,
	}
}

// ObserveStreams exports the number of open notification streams as reported by count.
func (m *Metrics) ObserveStreams(count func() int) {
	if m == nil {
		return
	}
	m.factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "hrms_notification_streams",
		Help: "Open server-sent event streams",
	}, func() float64 { return float64(count()) })
}

// Transition records a workflow transition attempt.
func (m *Metrics) Transition(workflow, transition, outcome string) {
	if m == nil {
		return
	}
	m.WorkflowTransitions.WithLabelValues(workflow, transition, outcome).Inc()
}

// BalanceDeducted records days taken from a balance.
func (m *Metrics) BalanceDeducted(balance string, days float64) {
	if m == nil {
		return
	}
	m.BalanceDeductedDays.WithLabelValues(balance).Add(days)
}

func (m *Metrics) NotificationQueued() {
	if m == nil {
		return
	}
	m.NotificationsQueued.Inc()
}

func (m *Metrics) NotificationDropped() {
	if m == nil {
		return
	}
	m.NotificationsDropped.Inc()
}

// NotificationFailed records a failed delivery on channel (store, email, sse).
func (m *Metrics) NotificationFailed(channel string) {
	if m == nil {
		return
	}
	m.NotificationFailures.WithLabelValues(channel).Inc()
}

func (m *Metrics) JobRun(job, outcome string) {
	if m == nil {
		return
	}
	m.JobRuns.WithLabelValues(job, outcome).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
