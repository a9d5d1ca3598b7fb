// Package metrics provides Prometheus metrics definitions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "campussentry"

var (
	// HTTPRequestDuration tracks HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route", "status_code"},
	)

	// DBPoolConnections tracks database connection pool state.
	DBPoolConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "pool_connections",
			Help:      "Number of database connections by state",
		},
		[]string{"state"},
	)

	// SignupsTotal counts signup outcomes.
	SignupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "signups_total",
			Help:      "Signup attempts by result",
		},
		[]string{"result"},
	)

	// SigninsTotal counts signin outcomes.
	SigninsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "signins_total",
			Help:      "Signin attempts by result",
		},
		[]string{"result"},
	)

	// GuardRedirectsTotal counts route guard redirects.
	GuardRedirectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "guard",
			Name:      "redirects_total",
			Help:      "Route guard redirects by reason",
		},
		[]string{"reason"},
	)
)

// RecordSignup increments the signup counter for the given result.
func RecordSignup(result string) {
	SignupsTotal.WithLabelValues(result).Inc()
}

// RecordSignin increments the signin counter for the given result.
func RecordSignin(result string) {
	SigninsTotal.WithLabelValues(result).Inc()
}

// RecordGuardRedirect increments the guard redirect counter for the given reason.
func RecordGuardRedirect(reason string) {
	GuardRedirectsTotal.WithLabelValues(reason).Inc()
}
