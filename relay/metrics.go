package relay

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects the relay's Prometheus counters and gauges: events
// forwarded, subscribers connected/dropped, and a live gauge of the
// current subscriber count, scraped from /metrics.
type Metrics struct {
	registry *prometheus.Registry

	eventsBroadcast   prometheus.Counter
	parseErrors       prometheus.Counter
	subscribersJoined prometheus.Counter
	subscribersDropped prometheus.Counter
	subscribersLive   prometheus.Gauge
}

// NewMetrics builds a fresh registry with the relay's collectors
// pre-registered.
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		eventsBroadcast: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_broadcast_total",
			Help:      "Total number of engine events forwarded to subscribers.",
		}),
		parseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "producer_parse_errors_total",
			Help:      "Total number of undecodable payloads seen by the producer.",
		}),
		subscribersJoined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscribers_joined_total",
			Help:      "Total number of WebSocket subscribers that completed the handshake.",
		}),
		subscribersDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscribers_dropped_total",
			Help:      "Total number of subscribers removed for a slow-consumer write timeout or close.",
		}),
		subscribersLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "subscribers_live",
			Help:      "Current number of connected subscribers.",
		}),
	}

	registry.MustRegister(m.eventsBroadcast, m.parseErrors, m.subscribersJoined, m.subscribersDropped, m.subscribersLive)
	return m
}

// Registry exposes the underlying Prometheus registry for the
// /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
