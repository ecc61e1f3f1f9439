package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// RequestLogger loguea cada request con zerolog.
// El nivel sale del status: 5xx error, 4xx warn, resto info.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(wrapped, r)

			status := wrapped.Status()
			if status == 0 {
				status = http.StatusOK
			}

			var event *zerolog.Event
			switch {
			case status >= 500:
				event = logger.Error()
			case status >= 400:
				event = logger.Warn()
			default:
				event = logger.Info()
			}

			event.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", wrapped.BytesWritten()).
				Dur("latency", time.Since(start)).
				Str("request_id", RequestIDFrom(r)).
				Msg("request processed")
		})
	}
}
