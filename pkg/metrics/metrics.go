package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Offer lifecycle
	OffersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courier_offers_total",
			Help: "Total number of order offers, by outcome",
		},
		[]string{"outcome"}, // received, accepted, rejected, expired, conflict, dropped
	)

	OfferDecisionSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "courier_offer_decision_seconds",
			Help:    "Time between offer arrival and resolution",
			Buckets: []float64{1, 2, 5, 10, 15, 20, 25, 30, 35},
		},
	)

	// Active order
	ActiveOrderGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "courier_active_order",
			Help: "1 while an order is in flight, 0 otherwise",
		},
	)

	StageAdvancesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courier_stage_advances_total",
			Help: "Local stage advances issued to dispatch",
		},
		[]string{"stage", "status"},
	)

	// Push channel
	PushMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courier_push_messages_total",
			Help: "Push messages received on the courier channel",
		},
		[]string{"type", "status"},
	)

	PushReconnectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "courier_push_reconnects_total",
			Help: "Push channel reconnect attempts",
		},
	)

	// Routing
	RouteFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courier_route_fetches_total",
			Help: "Route geometry fetches, by status",
		},
		[]string{"status"}, // ok, fallback, stale
	)

	RouteFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "courier_route_fetch_duration_seconds",
			Help:    "Route geometry fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// RecordOffer records an offer lifecycle outcome.
func RecordOffer(outcome string) {
	OffersTotal.WithLabelValues(outcome).Inc()
}

// RecordStageAdvance records a stage advance request result.
func RecordStageAdvance(stage string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	StageAdvancesTotal.WithLabelValues(stage, status).Inc()
}

// RecordPushMessage records a routed or dropped push message.
func RecordPushMessage(msgType string, err error) {
	status := "routed"
	if err != nil {
		status = "dropped"
	}
	PushMessagesTotal.WithLabelValues(msgType, status).Inc()
}

// RecordRouteFetch records a route fetch with its duration.
func RecordRouteFetch(status string, duration time.Duration) {
	RouteFetchesTotal.WithLabelValues(status).Inc()
	RouteFetchDuration.Observe(duration.Seconds())
}
