// Package middleware contains HTTP middleware shared by every route.
//
// HOW THE CHAIN IS ORDERED:
// setupRoutes installs chi's RequestID and RealIP first, then Logger, then
// Recoverer. Logger therefore sees the request id, and a panic that
// Recoverer turns into a 500 is still logged with its status:
//
//	req → RequestID → RealIP → Logger → Recoverer → CORS → handler
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// responseWriter records the status code and body size of a response.
//
// http.ResponseWriter has no getter for the status once WriteHeader has
// run, so the middleware hands handlers this wrapper instead. Every method
// it does not define is promoted from the embedded writer.
type responseWriter struct {
	http.ResponseWriter
	statusCode int   // defaults to 200 for handlers that never call WriteHeader
	written    int64 // body bytes
}

// WriteHeader remembers code before passing it on.
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Write counts body bytes.
func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Logger logs one line per request. It must run after chi's RequestID
// middleware so the request id is available.
//
// 5xx responses are logged at Error, 4xx at Warn, everything else at Info.
// The Authorization header is never logged.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			level := slog.LevelInfo
			switch {
			case wrapped.statusCode >= 500:
				level = slog.LevelError
			case wrapped.statusCode >= 400:
				level = slog.LevelWarn
			}

			logger.LogAttrs(r.Context(), level, "request completed",
				slog.String("requestID", chimiddleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", wrapped.statusCode),
				slog.Duration("duration", time.Since(start)),
				slog.Int64("bytes", wrapped.written),
			)
		})
	}
}
