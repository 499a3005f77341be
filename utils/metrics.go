package utils

import "github.com/prometheus/client_golang/prometheus"

var (
	reconciliationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smartgatepay",
			Name:      "reconciliations_total",
			Help:      "UTR reconciliation attempts per gateway type and outcome",
		},
		[]string{"gateway", "outcome"},
	)

	reconciliationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "smartgatepay",
			Name:      "reconciliation_duration_seconds",
			Help:      "Duration of UTR reconciliation attempts per gateway type",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		},
		[]string{"gateway"},
	)
)

func init() {
	prometheus.MustRegister(reconciliationsTotal, reconciliationDuration)
}

func CountReconciliation(gateway, outcome string) {
	reconciliationsTotal.WithLabelValues(gateway, outcome).Inc()
}

func ObserveReconciliation(gateway string, seconds float64) {
	reconciliationDuration.WithLabelValues(gateway).Observe(seconds)
}
