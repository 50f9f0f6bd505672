package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// WithLogger attaches a request-scoped logger, read back with zerolog.Ctx,
// and logs each completed request at debug level.
func WithLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.With().
			Str("host", r.Host).
			Str("method", r.Method).
			Str("url", r.URL.String()).
			Str("remote_addr", r.RemoteAddr).
			Str("request_id", chimw.GetReqID(r.Context())).
			Logger()

		ctx := logger.WithContext(r.Context())
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r.WithContext(ctx))

		zerolog.Ctx(ctx).Debug().
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request served")
	})
}
