// Package metrics holds the Prometheus collectors for the fan-out paths.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RealtimeClients is the number of connected websocket clients.
	RealtimeClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "carehub_realtime_clients",
		Help: "Connected websocket clients.",
	})

	// RealtimeEvents counts published events by name.
	RealtimeEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carehub_realtime_events_total",
		Help: "Events published to the realtime hub.",
	}, []string{"event"})

	// PushDeliveries counts push attempts by outcome (ok, failed, gone).
	PushDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carehub_push_deliveries_total",
		Help: "Web push delivery attempts by outcome.",
	}, []string{"outcome"})

	// Reminders counts appointment reminders emitted by the scanner.
	Reminders = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carehub_reminders_total",
		Help: "Appointment reminders emitted.",
	})
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
