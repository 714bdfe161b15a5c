package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(pipelineRequestsTotal, pipelineFailuresTotal, dispatchLatencyMs)
}

var pipelineRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pipeline_requests_total",
		Help: "Total chat requests through the command pipeline, labeled by outcome.",
	},
	[]string{"outcome"}, // 'completed', 'failed'
)

var pipelineFailuresTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pipeline_failures_total",
		Help: "Pipeline stage failures, labeled by stage.",
	},
	[]string{"stage"}, // 'extract', 'validate', 'precondition', 'dispatch', 'system'
)

var dispatchLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "dispatch_latency_ms",
		Help:    "Document operation dispatch latency in milliseconds.",
		Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
	},
	[]string{"op", "success"},
)

func IncPipelineRequest(outcome string) {
	pipelineRequestsTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncPipelineFailure(stage string) {
	pipelineFailuresTotal.WithLabelValues(norm(stage)).Inc()
}

func ObserveDispatch(op string, success bool, d time.Duration) {
	s := "false"
	if success {
		s = "true"
	}
	dispatchLatencyMs.WithLabelValues(norm(op), s).Observe(float64(d.Milliseconds()))
}

func norm(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "unknown"
	}
	return s
}
