// Package metrics exposes the relay's Prometheus instrumentation and the
// /metrics HTTP handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// EventsRouted counts inbound events handed to the router, by event name.
	EventsRouted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_events_routed_total",
		Help: "Inbound events dispatched by the event router, by event name.",
	}, []string{"event"})

	// EventsDropped counts events discarded without side effects (unknown
	// sender, undecodable payload, unknown event name).
	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_events_dropped_total",
		Help: "Inbound events dropped without side effects.",
	})

	// Participants is the current number of admitted participants.
	Participants = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_participants",
		Help: "Participants currently registered across all rooms.",
	})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
