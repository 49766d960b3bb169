package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "itinerary_planner"

// Outcome labels.
const (
	OutcomeSuccess        = "success"
	OutcomeInputMalformed = "input_malformed"
	OutcomeRequestFailure = "request_failure"
	OutcomeError          = "error"
)

// Metrics holds the planner's Prometheus collectors.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	ModelCalls      *prometheus.CounterVec
	ModelLatency    *prometheus.HistogramVec
	ModelTokens     *prometheus.CounterVec
	ModelCostUSD    prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Itinerary requests by outcome.",
		}, []string{"outcome"}),
		RequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "End-to-end duration of itinerary requests.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}),
		ModelCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_calls_total",
			Help:      "Chat model invocations by component type and outcome.",
		}, []string{"component", "outcome"}),
		ModelLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_latency_seconds",
			Help:      "Latency of chat model invocations.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"component"}),
		ModelTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_tokens_total",
			Help:      "Tokens consumed by chat model invocations.",
		}, []string{"kind"}),
		ModelCostUSD: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_cost_usd_total",
			Help:      "Accumulated model cost in USD.",
		}),
	}
	reg.MustRegister(m.Requests, m.RequestDuration, m.ModelCalls, m.ModelLatency, m.ModelTokens, m.ModelCostUSD)
	return m
}

// ObserveRequest records one finished itinerary request.
func (m *Metrics) ObserveRequest(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(outcome).Inc()
	m.RequestDuration.Observe(elapsed.Seconds())
}

// AddCost accumulates the priced cost of a model call.
func (m *Metrics) AddCost(usd float64) {
	if m == nil || usd <= 0 {
		return
	}
	m.ModelCostUSD.Add(usd)
}
