package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels for gateway request metrics
const (
	ResultApproved       = "approved"
	ResultDeclined       = "declined"
	ResultBuildError     = "build_error"
	ResultTransportError = "transport_error"
	ResultParseError     = "parse_error"
)

var (
	gatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qbms_gateway_requests_total",
			Help: "Total number of gateway requests by operation and result",
		},
		[]string{"operation", "result"},
	)

	gatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qbms_gateway_request_duration_seconds",
			Help:    "Duration of gateway requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	gatewayRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "qbms_gateway_requests_in_flight",
			Help: "Number of gateway requests currently being processed",
		},
	)
)

// ObserveGatewayRequest records one completed gateway call
func ObserveGatewayRequest(operation, result string, duration time.Duration) {
	gatewayRequestsTotal.WithLabelValues(operation, result).Inc()
	gatewayRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// TrackInFlight marks a gateway request as started and returns the
// function that marks it finished
func TrackInFlight() func() {
	gatewayRequestsInFlight.Inc()
	return gatewayRequestsInFlight.Dec
}
