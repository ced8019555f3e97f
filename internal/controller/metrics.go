package controller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reel_fetch_sessions_total",
		Help: "Fetch sessions by kind and final status",
	}, []string{"kind", "status"})

	sessionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reel_fetch_session_duration_seconds",
		Help:    "Time from session start to its final status",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"kind"})

	droppedResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reel_dropped_responses_total",
		Help: "Responses discarded because their session was superseded or cancelled",
	}, []string{"kind"})
)
