package interaction

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var interactionsLoggedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "interactions_logged_total",
		Help: "Total number of interactions logged",
	},
	[]string{"type", "direction"},
)

func RecordInteraction(itype, direction string) {
	interactionsLoggedTotal.WithLabelValues(itype, direction).Inc()
}
