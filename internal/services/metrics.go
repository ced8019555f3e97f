package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for catalog requests.
var (
	tmdbRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reel_tmdb_requests_total",
		Help: "Total TMDb requests by endpoint and status",
	}, []string{"endpoint", "status"})

	tmdbRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reel_tmdb_request_duration_seconds",
		Help:    "TMDb request duration in seconds by endpoint",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"endpoint"})

	tmdbErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reel_tmdb_errors_total",
		Help: "Total TMDb errors by kind",
	}, []string{"kind"})

	genreCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reel_genre_cache_lookups_total",
		Help: "Genre cache lookups by result",
	}, []string{"result"}) // "hit", "fallback"
)
