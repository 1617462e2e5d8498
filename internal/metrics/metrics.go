package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

var (
	PanelRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "panel_requests_total",
		Help:      "Requests sent to the panel API by endpoint and outcome.",
	}, []string{"endpoint", "status"})

	PanelLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "panel_request_duration_seconds",
		Help:      "Panel API request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	OrdersPlaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Orders submitted to the panel by kind (single, mass).",
	}, []string{"kind"})

	OrdersRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_rejected_total",
		Help:      "Orders blocked before submission by reason.",
	}, []string{"reason"})

	RefillsRequested = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refills_requested_total",
		Help:      "Order ids sent in refill batches.",
	})

	Deposits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deposits_total",
		Help:      "Deposit attempts by provider and status.",
	}, []string{"provider", "status"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Query cache lookups by resource and result (fresh, stale, miss).",
	}, []string{"resource", "result"})
)
