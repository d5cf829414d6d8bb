package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(translationsTotal, translationPassesTotal)
}

var (
	translationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translations_total",
			Help: "Per-target translation outcomes (delivered, failed, skipped, undelivered).",
		},
		[]string{"result"},
	)

	translationPassesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translation_passes_total",
			Help: "Translation passes by outcome (ok, aborted).",
		},
		[]string{"outcome"},
	)
)

func IncTranslation(result string) {
	translationsTotal.WithLabelValues(norm(result)).Inc()
}

func IncTranslationPass(outcome string) {
	translationPassesTotal.WithLabelValues(norm(outcome)).Inc()
}
