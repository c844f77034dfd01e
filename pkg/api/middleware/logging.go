package middleware

import (
	"net/http"
	"time"

	"github.com/qnetlab/topoforge/pkg/logging"
)

// Logging creates middleware that logs HTTP requests with timing information.
// It uses the request ID from context if available.
func Logging(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			fields := []logging.Field{
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Duration("duration", time.Since(start)),
			}
			if id := GetRequestID(r); id != "" {
				fields = append(fields, logging.String("request_id", id))
			}
			log.Info("http request", fields...)
		})
	}
}
