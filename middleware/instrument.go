package middleware

import (
	"net/http"
	"time"

	"weather-forecast/logging"
	"weather-forecast/metrics"

	"github.com/gorilla/mux"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Instrument logs every request and records it in m, labelled by route template
func Instrument(logger *logging.StructuredLogger, m *metrics.Collector) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}

			elapsed := time.Since(start)
			if m != nil {
				m.RecordHTTPRequest(route, r.Method, rec.status, elapsed)
			}
			logger.Debug(r.Context(), "[HTTP] request served", logging.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"route":       route,
				"status":      rec.status,
				"duration_ms": elapsed.Milliseconds(),
			})
		})
	}
}
