// Package middleware contains HTTP middleware shared across routes.
//
// WHY WRAP THE RESPONSE WRITER?
// http.ResponseWriter is write-only: once a handler calls WriteHeader, there
// is no way to ask it which status it sent. To log the status and the byte
// count we hand the handler a thin wrapper that records what passes through:
//
//	wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
//	next.ServeHTTP(wrapped, r)
//	// wrapped.statusCode and wrapped.written now hold the answer
//
// The embedded ResponseWriter keeps every method we don't override.
package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// responseWriter wraps http.ResponseWriter to capture the status code and
// bytes written, which the standard interface doesn't expose after the
// fact.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Logger logs one structured line per completed request: method, path,
// status, duration, bytes. The request body and headers are never logged —
// login bodies and Authorization headers carry secrets.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK, // default if WriteHeader is never called
			}

			next.ServeHTTP(wrapped, r)

			logger.Info("request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", wrapped.statusCode),
				slog.Duration("duration", time.Since(start)),
				slog.Int64("bytes", wrapped.written),
			)
		})
	}
}
