// Package metrics exposes the relay's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	MeetingsCreated   prometheus.Counter
	MeetingsActive    prometheus.Gauge
	ConnectionsActive prometheus.Gauge
	Events            *prometheus.CounterVec
	ChatMessages      prometheus.Counter
	SignalsForwarded  *prometheus.CounterVec
	AudioChunksSent   prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		MeetingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "huddle_meetings_created_total",
			Help: "Meetings created since process start.",
		}),
		MeetingsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "huddle_meetings_active",
			Help: "Meetings currently live.",
		}),
		ConnectionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "huddle_connections_active",
			Help: "Signaling connections currently open.",
		}),
		Events: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "huddle_events_total",
			Help: "Inbound signaling events by type.",
		}, []string{"type"}),
		ChatMessages: factory.NewCounter(prometheus.CounterOpts{
			Name: "huddle_chat_messages_total",
			Help: "Chat messages appended and broadcast.",
		}),
		SignalsForwarded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "huddle_signals_forwarded_total",
			Help: "WebRTC signaling events forwarded to their target.",
		}, []string{"type"}),
		AudioChunksSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "huddle_audio_chunks_sent_total",
			Help: "Binary audio chunks broadcast to rooms.",
		}),
	}
}

// Handler exposes Prometheus metrics at /metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
