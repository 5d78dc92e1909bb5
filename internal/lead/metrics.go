package lead

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	leadsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_created_total",
			Help: "Total number of leads created",
		},
		[]string{"platform"},
	)

	leadsDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_deleted_total",
			Help: "Total number of leads deleted",
		},
	)

	stageTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_stage_transitions_total",
			Help: "Total number of funnel stage transitions",
		},
		[]string{"from", "to"},
	)
)

func RecordLeadCreated(platform string) {
	leadsCreatedTotal.WithLabelValues(platform).Inc()
}

func RecordLeadDeleted() {
	leadsDeletedTotal.Inc()
}

func RecordStageTransition(from, to string) {
	stageTransitionsTotal.WithLabelValues(from, to).Inc()
}
