// internal/middleware/logging.go
//
// Access-log middleware.
//
// Context
// -------
// Runs right after chi's RequestID.  It derives a request-scoped zap
// logger tagged with the request id, stores it with logger.WithLogger so
// downstream handlers log through logger.FromContext, and writes one
// "http request" line per request once the handler returns.

package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/survey/internal/logger"
)

// RequestLog returns access-log middleware writing through base.
func RequestLog(base *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			l := base.With("req_id", chimw.GetReqID(r.Context()))
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(logger.WithLogger(r.Context(), l)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			l.Infow("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"dur", time.Since(start),
			)
		})
	}
}
