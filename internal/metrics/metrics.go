// Package metrics declares the Prometheus collectors neolink exposes for its
// Baichuan transport and session layers, and serves them over net/http.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry wraps a prometheus.Registerer so callers can either share the
// global default registry or, in tests, an isolated one that won't collide
// with metric names registered elsewhere in the process.
type Registry struct {
	reg prometheus.Registerer

	UDPPacketsSent       prometheus.Counter
	UDPPacketsReceived   prometheus.Counter
	UDPRetransmits       prometheus.Counter
	UDPWindowInFlight    prometheus.Gauge
	UDPReassemblyPending prometheus.Gauge

	Subscriptions    prometheus.Gauge
	StandingHandlers prometheus.Gauge

	SessionsConnected prometheus.Gauge
	SessionState      *prometheus.GaugeVec

	HookExecutions *prometheus.CounterVec
	HookFailures   *prometheus.CounterVec

	PushRegistrations prometheus.Counter
}

// New builds a Registry and registers every collector with reg. Pass
// prometheus.DefaultRegisterer in production and prometheus.NewRegistry()
// in tests that construct more than one Registry in the same process.
func New(reg prometheus.Registerer) *Registry {
	f := promauto.With(reg)

	return &Registry{
		reg: reg,

		UDPPacketsSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: "neolink",
			Subsystem: "udp",
			Name:      "packets_sent_total",
			Help:      "UDP packets sent to cameras, including retransmits.",
		}),
		UDPPacketsReceived: f.NewCounter(prometheus.CounterOpts{
			Namespace: "neolink",
			Subsystem: "udp",
			Name:      "packets_received_total",
			Help:      "UDP packets received from cameras.",
		}),
		UDPRetransmits: f.NewCounter(prometheus.CounterOpts{
			Namespace: "neolink",
			Subsystem: "udp",
			Name:      "retransmits_total",
			Help:      "UDP packets retransmitted after an ack timeout.",
		}),
		UDPWindowInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "neolink",
			Subsystem: "udp",
			Name:      "window_in_flight",
			Help:      "UDP packets currently unacknowledged in the send window.",
		}),
		UDPReassemblyPending: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "neolink",
			Subsystem: "udp",
			Name:      "reassembly_pending_fragments",
			Help:      "Fragments buffered awaiting reassembly into a complete packet.",
		}),

		Subscriptions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "neolink",
			Subsystem: "session",
			Name:      "subscriptions",
			Help:      "Open msg_num subscriptions across all camera connections.",
		}),
		StandingHandlers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "neolink",
			Subsystem: "session",
			Name:      "standing_handlers",
			Help:      "Registered msg_id handlers (battery, floodlight, keepalive, ...).",
		}),

		SessionsConnected: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "neolink",
			Subsystem: "session",
			Name:      "connected",
			Help:      "Camera connections currently logged in.",
		}),
		SessionState: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "neolink",
			Subsystem: "session",
			Name:      "state",
			Help:      "1 if the named camera is in the given state, 0 otherwise.",
		}, []string{"camera", "state"}),

		HookExecutions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neolink",
			Subsystem: "hooks",
			Name:      "executions_total",
			Help:      "Hook executions, by event type.",
		}, []string{"event"}),
		HookFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neolink",
			Subsystem: "hooks",
			Name:      "failures_total",
			Help:      "Hook executions that returned an error, by event type.",
		}, []string{"event"}),

		PushRegistrations: f.NewCounter(prometheus.CounterOpts{
			Namespace: "neolink",
			Subsystem: "push",
			Name:      "registrations_total",
			Help:      "FCM push registrations performed (token file absent or unreadable).",
		}),
	}
}

// Gatherer exposes the underlying registry for serving /metrics: the
// concrete *prometheus.Registry backing most Registerer values (including
// prometheus.NewRegistry() and prometheus.DefaultRegisterer) also
// implements prometheus.Gatherer.
func (r *Registry) Gatherer() prometheus.Gatherer {
	if g, ok := r.reg.(prometheus.Gatherer); ok {
		return g
	}
	return prometheus.DefaultGatherer
}

// SetSessionState zeroes every other known state for camera and sets state
// to 1, so a gauge query for a given state always reflects the current one.
func (r *Registry) SetSessionState(camera, state string, known []string) {
	for _, s := range known {
		if s == state {
			continue
		}
		r.SessionState.WithLabelValues(camera, s).Set(0)
	}
	r.SessionState.WithLabelValues(camera, state).Set(1)
}
