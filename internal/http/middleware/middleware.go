package middleware

import (
	"net/http"
	"recoverme/internal/core/domain/logging"
	"recoverme/internal/http/handlers/response"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const unmatchedRoute = "<unmatched>"

// AccessLog logs every served request once the handler returns. The route
// pattern is logged instead of the raw path so URL parameters such as reset
// tokens never reach the log.
func AccessLog(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(rw, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			entries := []logging.LogEntry{
				logging.Entry("method", r.Method),
				logging.Entry("route", routePattern(r)),
				logging.Entry("status", status),
				logging.Entry("bytes", ww.BytesWritten()),
				logging.Entry("duration", time.Since(start)),
			}
			if requestID := chimiddleware.GetReqID(r.Context()); requestID != "" {
				entries = append(entries, logging.Entry("requestID", requestID))
			}
			log.Info(r.Context(), "HTTP request.", entries...)
		})
	}
}

// Recoverer turns a panic in a handler into a logged 500 response.
func Recoverer(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error(
					r.Context(),
					"Panic recovered.",
					logging.Entry("panic", rec),
					logging.Entry("stack", string(debug.Stack())),
					logging.Entry("method", r.Method),
					logging.Entry("route", routePattern(r)),
				)
				response.RenderInternalError(rw)
			}()
			next.ServeHTTP(rw, r)
		})
	}
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}
