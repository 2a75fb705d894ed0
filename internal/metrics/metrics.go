// Package metrics provides Prometheus metrics for the intake service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes.
const (
	OutcomeAccepted         = "accepted"
	OutcomeInvalid          = "invalid"
	OutcomeInvalidPayload   = "invalid_payload"
	OutcomeForbidden        = "forbidden"
	OutcomeMethodNotAllowed = "method_not_allowed"
)

// Notification results.
const (
	ResultSent   = "sent"
	ResultFailed = "failed"
)

const defaultNamespace = "intake"

// Recorder owns the service metrics. A nil *Recorder records nothing.
type Recorder struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	submissions          *prometheus.CounterVec
	validationFailures   *prometheus.CounterVec
	notifications        *prometheus.CounterVec
	notificationDuration *prometheus.HistogramVec
}

// New creates a Recorder and registers its collectors.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: defaultNamespace,
		buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
	}

	factory := promauto.With(r.registry)
	r.submissions = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "submissions_total",
		Help:      "Questionnaire submissions by outcome.",
	}, []string{"outcome"})
	r.validationFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "validation_failures_total",
		Help:      "Rejected submissions by the rule that rejected them.",
	}, []string{"rule"})
	r.notifications = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "notifications_total",
		Help:      "Outbound notifications by channel and result.",
	}, []string{"channel", "result"})
	r.notificationDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "notification_duration_seconds",
		Help:      "Latency of outbound notification calls.",
		Buckets:   r.buckets,
	}, []string{"channel"})
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Submission counts one submission outcome.
func (r *Recorder) Submission(outcome string) {
	if r == nil {
		return
	}
	r.submissions.WithLabelValues(outcome).Inc()
}

// ValidationFailure counts a rejection by rule.
func (r *Recorder) ValidationFailure(rule string) {
	if r == nil {
		return
	}
	r.validationFailures.WithLabelValues(rule).Inc()
}

// Notification records the result and latency of one outbound call.
func (r *Recorder) Notification(channel string, err error, took time.Duration) {
	if r == nil {
		return
	}
	result := ResultSent
	if err != nil {
		result = ResultFailed
	}
	r.notifications.WithLabelValues(channel, result).Inc()
	r.notificationDuration.WithLabelValues(channel).Observe(took.Seconds())
}
