// Package logger provides structured logging for the service using the Uber
// zap library, plus an HTTP middleware that logs every request.
package logger

import (
	"errors"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// Log is the global SugaredLogger instance. It must be initialized via Init()
// before use.
var Log *zap.SugaredLogger

// Init configures the global logger with the given level
// ("debug", "info", "warn", "error").
func Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	zl, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = zl.Sugar()

	return nil
}

// Sync flushes buffered log entries. Call it on shutdown.
func Sync() error {
	if err := Log.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		return err
	}

	return nil
}

type responseStats struct {
	status int
	size   int
}

type statsResponseWriter struct {
	http.ResponseWriter
	stats *responseStats
}

// Write counts the bytes written to the response body.
func (w *statsResponseWriter) Write(b []byte) (int, error) {
	size, err := w.ResponseWriter.Write(b)
	w.stats.size += size
	return size, err
}

// WriteHeader records the status code written to the response.
func (w *statsResponseWriter) WriteHeader(statusCode int) {
	w.ResponseWriter.WriteHeader(statusCode)
	w.stats.status = statusCode
}

// WithLoggingHTTPMiddleware wraps a handler and logs method, URI, status,
// duration and response size for every request.
func WithLoggingHTTPMiddleware(h http.Handler) http.Handler {
	logFn := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		stats := &responseStats{}
		sw := statsResponseWriter{
			ResponseWriter: w,
			stats:          stats,
		}
		h.ServeHTTP(&sw, r)

		Log.Infow(
			"http request",
			"method", r.Method,
			"uri", r.RequestURI,
			"status", stats.status,
			"duration", time.Since(start),
			"size", stats.size,
		)
	}

	return http.HandlerFunc(logFn)
}
