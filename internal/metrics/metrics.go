// Package metrics exposes trader counters for Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Iterations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "optionbuyer_iterations_total",
			Help: "Total polling iterations",
		})
	IterationLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "optionbuyer_iteration_latency_seconds",
			Help:    "Time for one fetch, select and submit iteration",
			Buckets: prometheus.DefBuckets,
		})
	FetchErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "optionbuyer_fetch_errors_total",
			Help: "Iterations skipped because market data was unavailable",
		})
	StrikeMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "optionbuyer_strike_misses_total",
			Help: "Iterations skipped because the computed strike was not in the chain",
		})
	Orders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optionbuyer_orders_total",
			Help: "Order submissions by option type and status",
		},
		[]string{"option_type", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		Iterations,
		IterationLatency,
		FetchErrors,
		StrikeMisses,
		Orders,
	)
}
