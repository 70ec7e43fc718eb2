package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "optiretail",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "optiretail",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "optiretail",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	validationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "optiretail",
			Subsystem: "validation",
			Name:      "failures_total",
			Help:      "Requests rejected by validation, by form.",
		},
		[]string{"form"},
	)

	authorizationDenials = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "optiretail",
			Subsystem: "validation",
			Name:      "authorization_denied_total",
			Help:      "Requests rejected by an authorization gate, by form.",
		},
		[]string{"form"},
	)

	lifecycleEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "optiretail",
			Subsystem: "lifecycle",
			Name:      "events_total",
			Help:      "Lifecycle events dispatched, by entity and event.",
		},
		[]string{"entity", "event"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		validationFailures,
		authorizationDenials,
		lifecycleEvents,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and durations labelled by route
// template, so path parameters do not explode cardinality.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() == "/metrics" {
				return next(c)
			}

			httpInFlight.Inc()
			defer httpInFlight.Dec()

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := strings.ToUpper(c.Request().Method)
			status := strconv.Itoa(c.Response().Status)

			httpRequests.WithLabelValues(method, route, status).Inc()
			httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

// RecordValidationFailure counts a request rejected by validation.
func RecordValidationFailure(form string) {
	validationFailures.WithLabelValues(form).Inc()
}

// RecordAuthorizationDenied counts a request rejected by an authorization gate.
func RecordAuthorizationDenied(form string) {
	authorizationDenials.WithLabelValues(form).Inc()
}

// RecordLifecycleEvent counts a dispatched lifecycle event.
func RecordLifecycleEvent(entity, event string) {
	lifecycleEvents.WithLabelValues(entity, event).Inc()
}
