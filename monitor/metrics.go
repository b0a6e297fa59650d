package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Workflow counters exported at /metrics.
var (
	ApplicationsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_applications_submitted_total",
		Help: "Number of scholarship applications submitted.",
	})

	ReviewsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_reviews_submitted_total",
		Help: "Number of review evaluations finalized.",
	})

	DocumentRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_document_requests_total",
		Help: "Number of missing-document requests raised by reviewers.",
	})

	DecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_decisions_total",
		Help: "Number of committee decisions by outcome.",
	}, []string{"decision"})
)
