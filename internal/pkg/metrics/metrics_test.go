package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(nil)

	m.Transition("leave", "approved", OutcomeSuccess)
	m.Transition("leave", "approved", OutcomeSuccess)
	m.Transition("leave", "approved", OutcomeRejected)
	m.BalanceDeducted("annual", 2.5)
	m.NotificationFailed("email")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.WorkflowTransitions.WithLabelValues("leave", "approved", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WorkflowTransitions.WithLabelValues("leave", "approved", OutcomeRejected)))
	assert.Equal(t, 2.5, testutil.ToFloat64(m.BalanceDeductedDays.WithLabelValues("annual")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationFailures.WithLabelValues("email")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Transition("leave", "approved", OutcomeSuccess)
		m.NotificationQueued()
		m.JobRun("sync", OutcomeSuccess)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New(nil)
	m.NotificationQueued()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hrms_notifications_queued_total 1")
}

func TestMetrics_ObserveStreams(t *testing.T) {
	m := New(nil)
	open := 3
	m.ObserveStreams(func() int { return open })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "hrms_notification_streams 3")
}
