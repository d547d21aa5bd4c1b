// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ResearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "research_requests_total",
			Help: "Total number of research requests by question type",
		},
		[]string{"question_type"},
	)

	AgentAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "research_agent_attempts_total",
			Help: "Total number of knowledge agent invocations",
		},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "research_validation_failures_total",
			Help: "Total number of answers that failed quality validation",
		},
		[]string{"question_type"},
	)

	FollowUpsDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "research_follow_ups_detected_total",
			Help: "Total number of questions classified as follow-ups",
		},
	)

	AgentCallDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "research_agent_call_duration_seconds",
			Help: "Duration of knowledge agent calls in seconds",
		},
	)
)
