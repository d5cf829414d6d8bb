package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		slackEventsReceivedTotal,
		slackSignatureRejectedTotal,
		onboardingTransitionsTotal,
	)
}

var (
	slackEventsReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slack_events_received_total",
			Help: "Inbound Slack events and interaction payloads by type.",
		},
		[]string{"type"},
	)

	slackSignatureRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "slack_signature_rejected_total",
			Help: "Requests rejected because the Slack signature did not verify.",
		},
	)

	onboardingTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_transitions_total",
			Help: "Onboarding state changes by resulting state.",
		},
		[]string{"state"},
	)
)

func IncSlackEvent(eventType string) {
	slackEventsReceivedTotal.WithLabelValues(norm(eventType)).Inc()
}

func IncSignatureRejected() {
	slackSignatureRejectedTotal.Inc()
}

func IncOnboardingTransition(state string) {
	onboardingTransitionsTotal.WithLabelValues(norm(state)).Inc()
}
