package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
	outcomeInvalid = "invalid"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "support_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.05, 0.25, 1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"method", "path"},
	)

	inquiriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_inquiries_total",
			Help: "Total number of support inquiries by outcome",
		},
		[]string{"outcome"},
	)
)
