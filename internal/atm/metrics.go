package atm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atm_operations_total",
		Help: "Total number of executed ATM operations by kind and outcome.",
	}, []string{"kind", "outcome"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "atm_operation_duration_seconds",
		Help:    "Latency of ATM operations by kind.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	cashOnHandGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "atm_cash_on_hand",
		Help: "Current cash float per device.",
	}, []string{"device"})
)
