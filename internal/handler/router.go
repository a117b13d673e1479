package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/efreitasn/fxcredit/internal/metrics"
	"github.com/efreitasn/fxcredit/internal/service"
	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all routes registered, request logging,
// metrics, and Content-Type validation middleware.
func NewRouter(svc *service.SimulationService, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))
	r.Use(metrics.Middleware)
	r.Use(contentTypeJSON)

	// Create handlers.
	refH := NewReferenceHandler(svc)
	simH := NewSimulationHandler(svc)
	creditH := NewCreditHandler(svc)

	// Health check and metrics.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	// Reference data.
	r.Get("/prime-brokers", refH.ListPrimeBrokers)
	r.Get("/customers", refH.ListCustomers)
	r.Get("/sessions", refH.ListSessions)

	// Simulations.
	r.Post("/simulations", simH.Create)
	r.Route("/simulations/{simulation_id}", func(r chi.Router) {
		r.Delete("/", simH.Delete)
		r.Post("/reset", simH.Reset)
		r.Post("/orders", simH.SubmitOrder)
		r.Get("/orders", simH.ListOrders)
		r.Get("/positions", simH.ListPositions)
		r.Get("/audit", simH.Audit)

		r.Get("/sessions/{session_id}/prime-broker", creditH.SessionPrimeBroker)
		r.Get("/customers/{customer_id}/limits", creditH.CustomerLimits)
		r.Put("/customers/{customer_id}/limits/{pb_id}", creditH.UpdateCustomerLimit)
		r.Get("/prime-brokers/{pb_id}/exposure", creditH.Exposure)
		r.Put("/prime-brokers/{pb_id}/credit-line", creditH.UpdateCreditLine)
		r.Get("/credit-data", creditH.CreditData)
	})

	return r
}

// requestLogging returns middleware that logs each request's method, path,
// status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// contentTypeJSON is middleware that validates Content-Type for PUT, PATCH
// and POST requests that carry a body. If the Content-Type header doesn't
// start with "application/json", it returns 400 Bad Request before the
// handler runs.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hasBody(r) && (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) {
			ct := r.Header.Get("Content-Type")
			if ct == "" || !strings.HasPrefix(ct, "application/json") {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// hasBody reports whether the request may carry a body. POST /simulations
// and POST .../reset are sent without one.
func hasBody(r *http.Request) bool {
	return r.ContentLength != 0 || len(r.TransferEncoding) > 0
}
