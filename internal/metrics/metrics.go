package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	backendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "frontdesk",
			Name:      "backend_requests_total",
			Help:      "Requests issued to the remote reservations API by resource and method.",
		},
		[]string{"resource", "method"},
	)

	backendErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "frontdesk",
			Name:      "backend_errors_total",
			Help:      "Failed backend requests by error kind.",
		},
		[]string{"kind"},
	)

	logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "frontdesk",
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		},
		[]string{"outcome"},
	)

	guardRedirects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "frontdesk",
			Name:      "guard_redirects_total",
			Help:      "Route guard redirects by target route.",
		},
		[]string{"target"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(backendRequests, backendErrors, logins, guardRedirects)
	})
}

// IncBackendRequest increments the outbound request counter.
func IncBackendRequest(resource, method string) {
	backendRequests.WithLabelValues(resource, method).Inc()
}

// IncBackendError increments the failed request counter for an error kind.
func IncBackendError(kind string) {
	backendErrors.WithLabelValues(kind).Inc()
}

// IncLogin increments the login counter for an outcome label.
func IncLogin(outcome string) {
	logins.WithLabelValues(outcome).Inc()
}

// IncGuardRedirect increments the redirect counter for a target route.
func IncGuardRedirect(target string) {
	guardRedirects.WithLabelValues(target).Inc()
}
