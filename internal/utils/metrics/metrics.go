// File: internal/utils/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method and path.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_service_requests_total",
		Help: "The total number of HTTP requests",
	}, []string{"method", "path"})

	// ResponsesTotal counts HTTP responses by status code.
	ResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_service_responses_total",
		Help: "The total number of HTTP responses by status code",
	}, []string{"status"})

	// RequestDuration measures request handling time.
	RequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "auth_service_request_duration_seconds",
		Help:    "The request duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// LoginAttemptsTotal counts login attempts by outcome.
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_service_login_attempts_total",
		Help: "The total number of login attempts",
	}, []string{"status"})

	// MFAVerificationsTotal counts second-factor verifications by outcome.
	MFAVerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_service_mfa_verifications_total",
		Help: "The total number of MFA verification attempts",
	}, []string{"status"})

	// MFAEnrollmentsTotal counts enable/disable operations by outcome.
	MFAEnrollmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_service_mfa_enrollments_total",
		Help: "The total number of MFA enrollment operations",
	}, []string{"operation", "status"})
)
