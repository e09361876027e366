// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerateRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_generate_requests_total",
			Help: "Total number of generation requests by outcome",
		},
		[]string{"outcome"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_stage_duration_seconds",
			Help: "Duration of pipeline stage processing in seconds",
		},
		[]string{"stage"},
	)

	ProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_provider_calls_total",
			Help: "Total number of AI provider calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	FallbackServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_fallback_served_total",
			Help: "Total number of canned fallback responses served by reason",
		},
		[]string{"reason"},
	)

	SafetyFindings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_safety_findings_total",
			Help: "Total number of safety filter findings by checkpoint and severity",
		},
		[]string{"checkpoint", "severity"},
	)
)
