package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Submissions counts accepted escalation submissions by claimed severity
	Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cuon_submissions_total",
		Help: "Escalation submissions accepted, by claimed severity",
	}, []string{"severity"})

	// FalseEscalations counts flagged submissions by mismatch reason
	FalseEscalations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cuon_false_escalations_total",
		Help: "Submissions flagged as false escalations, by mismatch reason",
	}, []string{"reason"})

	// TicketLookups counts ticket severity resolutions by source and outcome
	TicketLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cuon_ticket_lookups_total",
		Help: "Ticket severity lookups, by winning source and outcome",
	}, []string{"source", "outcome"})
)

// Handler returns the /metrics endpoint handler
func Handler() http.Handler {
	return promhttp.Handler()
}
