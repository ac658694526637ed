package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/d4l-data4life/go-svc/pkg/logging"

	"github.com/llmcouncil/go-llm-council/pkg/config"
)

// Metric definitions
// Ensure that his follows best practices for naming: https://prometheus.io/docs/practices/naming/
var (
	metricNamePrefix = "llm_council"
)

// AddBuildInfoMetric adds a static metric with the build information
func AddBuildInfoMetric() {
	err := prometheus.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: metricNamePrefix,
			Name:      "build_info",
			Help:      "A metric with a constant '1' value labeled by version, branch, commit, build date, and goversion.",
			ConstLabels: prometheus.Labels{
				"version":   config.Version,
				"branch":    config.Branch,
				"commit":    config.Commit,
				"goversion": config.GoVersion,
			},
		},
		func() float64 { return 1 },
	))
	if err != nil {
		logging.LogErrorf(err, "Error registering buld info metric")
	}
}

var (
	// TokensRelayed counts streamed token fragments forwarded to clients.
	TokensRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamePrefix,
			Name:      "tokens_relayed_total",
			Help:      "Number of token fragments relayed to chat clients.",
		},
		[]string{"model_id"},
	)

	// ModelCompletions counts terminal model results by outcome.
	ModelCompletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamePrefix,
			Name:      "model_completions_total",
			Help:      "Number of completed model responses, by outcome (success or error).",
		},
		[]string{"model_id", "outcome"},
	)

	// ModelLatency tracks adapter-reported wall-clock latency per model.
	ModelLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricNamePrefix,
			Name:      "model_latency_seconds",
			Help:      "Wall-clock latency of model completions as reported by the adapter.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"model_id"},
	)
)

// ObserveCompletion records the terminal outcome of one model unit.
func ObserveCompletion(modelID string, latencyMS int64, failed bool) {
	outcome := "success"
	if failed {
		outcome = "error"
	}
	ModelCompletions.WithLabelValues(modelID, outcome).Inc()
	ModelLatency.WithLabelValues(modelID).Observe(float64(latencyMS) / 1000)
}
