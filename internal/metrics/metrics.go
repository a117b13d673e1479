// Package metrics provides Prometheus instrumentation for the credit service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// OrdersTotal counts simulated orders by final status and reject code.
	OrdersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fxcredit_orders_total",
		Help: "Total simulated orders",
	}, []string{"status", "reject_code"})

	// LimitUpdatesTotal counts limit edits by table.
	LimitUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fxcredit_limit_updates_total",
		Help: "Total credit limit edits",
	}, []string{"table"})

	// ExposureChecksTotal counts exposure validations by outcome.
	ExposureChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fxcredit_exposure_checks_total",
		Help: "Total prime broker exposure validations",
	}, []string{"pb_id", "within_limit"})

	// ActiveSimulations tracks the number of live simulations.
	ActiveSimulations = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fxcredit_active_simulations",
		Help: "Number of live simulations",
	})

	// PBUtilization is each non-central prime broker's credit line
	// utilization in the loaded configuration, in percent.
	PBUtilization = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fxcredit_pb_utilization_percent",
		Help: "Configured credit line utilization per prime broker",
	}, []string{"pb_id"})

	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fxcredit_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fxcredit_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		// Label by route pattern; simulation ids would explode cardinality.
		path := routePattern(r)
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
