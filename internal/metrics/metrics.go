package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the gateway's Prometheus collectors.
type Registry struct {
	reg *prometheus.Registry

	// PredictionsRelayed counts successful relays, labeled by model.
	PredictionsRelayed *prometheus.CounterVec
	// UpstreamErrors counts non-2xx responses from the scoring service.
	UpstreamErrors prometheus.Counter
	// UpstreamUnreachable counts transport failures reaching the scoring service.
	UpstreamUnreachable prometheus.Counter
	// RejectedRequests counts requests refused before forwarding (missing model).
	RejectedRequests prometheus.Counter
	// ScoreLatencySec observes scoring round-trip latency.
	ScoreLatencySec prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	relayed := prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "gateway_predictions_relayed_total"},
		[]string{"model"},
	)
	upstreamErrors := prometheus.NewCounter(prometheus.CounterOpts{Name: "gateway_upstream_errors_total"})
	unreachable := prometheus.NewCounter(prometheus.CounterOpts{Name: "gateway_upstream_unreachable_total"})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{Name: "gateway_rejected_requests_total"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gateway_score_latency_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(relayed, upstreamErrors, unreachable, rejected, latency)
	return &Registry{
		reg:                 r,
		PredictionsRelayed:  relayed,
		UpstreamErrors:      upstreamErrors,
		UpstreamUnreachable: unreachable,
		RejectedRequests:    rejected,
		ScoreLatencySec:     latency,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
