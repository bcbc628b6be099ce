// Package metrics holds the Prometheus collectors of the calculator. They are
// registered on the default registry and served by the HTTP server on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FxSources counts priced trades by the provenance of their FX rate.
var FxSources = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "notional",
		Subsystem: "fx",
		Name:      "resolutions_total",
		Help:      "Priced trades by FX rate source (direct, api, api_cached, fallback)",
	},
	[]string{"source"},
)

// FxAPIRequests counts outbound historical-rate lookups by outcome.
var FxAPIRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "notional",
		Subsystem: "fx",
		Name:      "api_requests_total",
		Help:      "Historical FX API requests by outcome",
	},
	[]string{"outcome"},
)

var FxAPILatency = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "notional",
		Subsystem: "fx",
		Name:      "api_request_duration_seconds",
		Help:      "Latency of historical FX API requests",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	},
)

// Calculations counts completed calculations per platform.
var Calculations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "notional",
		Subsystem: "calculator",
		Name:      "calculations_total",
		Help:      "Completed notional calculations by platform",
	},
	[]string{"platform"},
)

var CalculationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "notional",
		Subsystem: "calculator",
		Name:      "calculation_duration_seconds",
		Help:      "Wall time of one calculation, parsing included",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
	},
)

// SkippedTrades counts trades kept out of the totals.
var SkippedTrades = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "notional",
		Subsystem: "calculator",
		Name:      "skipped_trades_total",
		Help:      "Trades excluded from notional totals by reason",
	},
	[]string{"reason"},
)

// ParseFailures counts uploads rejected before calculation.
var ParseFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "notional",
		Subsystem: "parser",
		Name:      "failures_total",
		Help:      "Rejected uploads by failure kind",
	},
	[]string{"kind"},
)
