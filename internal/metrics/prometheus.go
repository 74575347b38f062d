package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sentiguard/pkg/errors"
)

var (
	// Analysis service calls
	AnalysisRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiguard_analysis_requests_total",
			Help: "Total number of calls to the analysis service",
		},
		[]string{"domain", "status"}, // status: success|empty|transport_error|error
	)

	AnalysisLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentiguard_analysis_latency_seconds",
			Help:    "Analysis service latency in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"domain"},
	)

	AnalyzedItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiguard_analyzed_items_total",
			Help: "Items received from the analysis service by canonical sentiment",
		},
		[]string{"domain", "sentiment"}, // sentiment: Positive|Negative|Neutral|unrecognized
	)

	// Fetch controller
	PhaseTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiguard_fetch_phase_transitions_total",
			Help: "Fetch controller phase transitions",
		},
		[]string{"domain", "phase"},
	)

	StaleResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiguard_fetch_stale_responses_total",
			Help: "Responses discarded because a newer submission or a cancel superseded them",
		},
		[]string{"domain"},
	)

	// Workers
	WorkerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiguard_worker_executions_total",
			Help: "Total number of worker executions",
		},
		[]string{"worker", "status"},
	)

	WorkerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentiguard_worker_duration_seconds",
			Help:    "Worker execution duration in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"worker"},
	)

	// Outbound events
	KafkaMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiguard_kafka_messages_total",
			Help: "Total Kafka messages produced",
		},
		[]string{"topic", "status"},
	)
)

var registerOnce sync.Once

// Init registers all metrics with Prometheus. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(AnalysisRequests)
		prometheus.MustRegister(AnalysisLatency)
		prometheus.MustRegister(AnalyzedItems)

		prometheus.MustRegister(PhaseTransitions)
		prometheus.MustRegister(StaleResponses)

		prometheus.MustRegister(WorkerExecutions)
		prometheus.MustRegister(WorkerDuration)

		prometheus.MustRegister(KafkaMessages)
	})
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAnalysisCall records one call to the analysis service
func RecordAnalysisCall(domain string, latency time.Duration, err error) {
	AnalysisRequests.WithLabelValues(domain, statusOf(err)).Inc()
	AnalysisLatency.WithLabelValues(domain).Observe(latency.Seconds())
}

// RecordAnalyzedItems counts n received items under their canonical label
func RecordAnalyzedItems(domain, label string, n int) {
	if n <= 0 {
		return
	}
	AnalyzedItems.WithLabelValues(domain, label).Add(float64(n))
}

// RecordPhase records a fetch controller transition into phase
func RecordPhase(domain, phase string) {
	PhaseTransitions.WithLabelValues(domain, phase).Inc()
}

// RecordStaleResponse records a discarded out-of-date response
func RecordStaleResponse(domain string) {
	StaleResponses.WithLabelValues(domain).Inc()
}

// RecordWorkerExecution records a worker execution
func RecordWorkerExecution(worker string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	WorkerExecutions.WithLabelValues(worker, status).Inc()
	WorkerDuration.WithLabelValues(worker).Observe(duration.Seconds())
}

// RecordKafkaMessage records a produced event
func RecordKafkaMessage(topic string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	KafkaMessages.WithLabelValues(topic, status).Inc()
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, errors.ErrNoResults):
		return "empty"
	case errors.Is(err, errors.ErrTransport):
		return "transport_error"
	default:
		return "error"
	}
}
