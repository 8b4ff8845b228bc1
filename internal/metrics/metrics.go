// Package metrics exposes prometheus counters for command processing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kensho",
		Name:      "commands_total",
		Help:      "Commands applied, by command kind and outcome.",
	}, []string{"kind", "outcome"})

	verificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kensho",
		Name:      "verifications_total",
		Help:      "Oracle verification results, by result.",
	}, []string{"result"})
)

// CommandApplied records one applied command. Outcome is "ok" or the error
// kind that rejected it.
func CommandApplied(kind, outcome string) {
	commandsTotal.WithLabelValues(kind, outcome).Inc()
}

// VerificationResult records one oracle judgement (valid, invalid, indeterminate).
func VerificationResult(result string) {
	verificationsTotal.WithLabelValues(result).Inc()
}
