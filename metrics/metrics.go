package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for edit and publish counters.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Editor holds what the menu editor reports.
type Editor struct {
	Edits     *prometheus.CounterVec // op, outcome
	Publishes *prometheus.CounterVec // outcome
	Sessions  prometheus.Gauge
}

// NewEditor registers the editor metrics on reg.
func NewEditor(reg prometheus.Registerer) *Editor {
	f := promauto.With(reg)
	return &Editor{
		Edits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "menu_edits_total",
			Help: "Menu edit operations by outcome.",
		}, []string{"op", "outcome"}),
		Publishes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "menu_publishes_total",
			Help: "Menu publish attempts by outcome.",
		}, []string{"outcome"}),
		Sessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "menu_editor_sessions",
			Help: "Open menu editing sessions.",
		}),
	}
}

// HandlerForRegistry serves the metrics gathered by reg.
func HandlerForRegistry(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
