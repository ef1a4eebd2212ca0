// Package metrics holds the Prometheus collectors exposed on the debug server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "alfurqan"

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "http_requests_total", Help: "Handled HTTP requests",
	}, []string{"method", "route", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	Logins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "logins_total", Help: "Login attempts by outcome",
	}, []string{"outcome"})

	Applications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "registration_applications_total", Help: "Registration applications by event",
	}, []string{"event"})

	Emails = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "emails_total", Help: "Outgoing emails by outcome",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, Logins, Applications, Emails)
}

func Handler() http.Handler { return promhttp.Handler() }

// EmailOutcome records the result of a delivery attempt.
func EmailOutcome(err error) {
	if err != nil {
		Emails.WithLabelValues("failed").Inc()
		return
	}
	Emails.WithLabelValues("sent").Inc()
}
