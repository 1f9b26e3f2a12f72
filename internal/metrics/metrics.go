// Package metrics defines the kiosk's Prometheus collectors. They are
// registered on the default registry and served by the metrics server in the
// composition root.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersProcessed counts pipeline outcomes by result.
	OrdersProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kiosk_orders_processed_total",
		Help: "Orders run through the pipeline, by outcome.",
	}, []string{"outcome"})

	// RoutingDecisions counts router decisions by router and chosen value.
	RoutingDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kiosk_routing_decisions_total",
		Help: "Routing decisions, by router and decision.",
	}, []string{"router", "decision"})

	// LLMCalls counts gateway calls by backend and result.
	LLMCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kiosk_llm_calls_total",
		Help: "Language-model gateway calls, by backend and result.",
	}, []string{"backend", "result"})

	// ExtractionFallbacks counts deterministic fallback extractions.
	ExtractionFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kiosk_extraction_fallbacks_total",
		Help: "Order extractions served by the deterministic fallback.",
	})

	// ActiveOrders tracks the current size of the active order set.
	ActiveOrders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kiosk_active_orders",
		Help: "Orders currently in a non-terminal status.",
	})
)
