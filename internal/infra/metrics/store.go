package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(preferenceStoreErrorsTotal) }

var preferenceStoreErrorsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "preference_store_errors_total",
		Help: "Preference store failures by backend and operation.",
	},
	[]string{"backend", "op"}, // e.g., backend="file", op="load"
)

func IncStoreError(backend, op string) {
	preferenceStoreErrorsTotal.WithLabelValues(norm(backend), norm(op)).Inc()
}
