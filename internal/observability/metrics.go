package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	httpRequestsTotal      *prometheus.CounterVec
	httpLatencySeconds     *prometheus.HistogramVec
	pipelineLatencySeconds prometheus.Histogram
	pipelineFailuresTotal  *prometheus.CounterVec
	clipsPersistedTotal    prometheus.Counter
	sessionsCompletedTotal prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the
// interview service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "interview_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "interview_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		pipelineLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "interview_pipeline_latency_seconds",
			Help:    "Latency distribution for submission pipeline invocations.",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		})

		pipelineFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "interview_pipeline_failures_total",
			Help: "Total number of aborted pipeline invocations by step.",
		}, []string{"step"})

		clipsPersistedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "interview_clips_persisted_total",
			Help: "Total number of answer clips fully persisted.",
		})

		sessionsCompletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "interview_sessions_completed_total",
			Help: "Total number of interview sessions reaching the complete stage.",
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			pipelineLatencySeconds,
			pipelineFailuresTotal,
			clipsPersistedTotal,
			sessionsCompletedTotal,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// PipelineLatency exposes the pipeline latency histogram.
func PipelineLatency() prometheus.Histogram {
	RegisterMetrics()
	return pipelineLatencySeconds
}

// PipelineFailures exposes the pipeline abort counter.
func PipelineFailures() *prometheus.CounterVec {
	RegisterMetrics()
	return pipelineFailuresTotal
}

// ClipsPersisted exposes the persisted clip counter.
func ClipsPersisted() prometheus.Counter {
	RegisterMetrics()
	return clipsPersistedTotal
}

// SessionsCompleted exposes the completed session counter.
func SessionsCompleted() prometheus.Counter {
	RegisterMetrics()
	return sessionsCompletedTotal
}
