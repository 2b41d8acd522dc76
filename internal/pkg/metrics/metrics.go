/*
Package metrics exposes Prometheus instrumentation for the realtime core.
*/
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ActiveConnections tracks the number of live WebSocket connections.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sockethub_active_connections",
		Help: "Number of currently registered WebSocket connections.",
	})

	// TrackedRooms tracks the number of rooms in the registry, empty ones included.
	TrackedRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sockethub_tracked_rooms",
		Help: "Number of rooms currently tracked by the registry.",
	})

	// FramesDelivered counts frames successfully enqueued for delivery.
	FramesDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sockethub_frames_delivered_total",
		Help: "Total frames enqueued to client connections.",
	})

	// DeliveryFailures counts failed deliveries that evicted a connection.
	DeliveryFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sockethub_delivery_failures_total",
		Help: "Total frame deliveries that failed and evicted the connection.",
	})

	// Broadcasts counts room-wide fan-out operations.
	Broadcasts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sockethub_broadcasts_total",
		Help: "Total room broadcast operations.",
	})
)

// Handler exposes Prometheus metrics at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
