package dialogue

import (
	"github.com/prometheus/client_golang/prometheus"
)

var turnsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "chatbot",
		Subsystem: "dialogue",
		Name:      "turns_total",
		Help:      "Dialogue turns by resolved intent",
	},
	[]string{"intent"},
)

var reasoningTierTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "chatbot",
		Subsystem: "dialogue",
		Name:      "reasoning_tier_total",
		Help:      "Reasoning results by relaxation tier",
	},
	[]string{"tier"},
)

var rewriteTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "chatbot",
		Subsystem: "dialogue",
		Name:      "rewrite_total",
		Help:      "Draft rewrites by outcome",
	},
	[]string{"outcome"}, // outcome: rewritten, failed, rejected, disabled
)

var rewriteLatency = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "chatbot",
		Subsystem: "dialogue",
		Name:      "rewrite_latency_seconds",
		Help:      "Latency of draft rewrites",
		Buckets:   []float64{0.25, 0.5, 1, 2, 3, 5, 8, 12, 16, 22, 30},
	},
	[]string{"outcome"},
)

var bookingsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "chatbot",
		Subsystem: "dialogue",
		Name:      "bookings_total",
		Help:      "Appointments booked through the assistant",
	},
)

func init() {
	prometheus.MustRegister(turnsTotal)
	prometheus.MustRegister(reasoningTierTotal)
	prometheus.MustRegister(rewriteTotal)
	prometheus.MustRegister(rewriteLatency)
	prometheus.MustRegister(bookingsTotal)
}

const (
	outcomeRewritten = "rewritten"
	outcomeFailed    = "failed"
	outcomeRejected  = "rejected"
	outcomeDisabled  = "disabled"
)
