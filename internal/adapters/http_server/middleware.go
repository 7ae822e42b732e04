package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"hbnb_web/internal/adapters/observability"
	"hbnb_web/internal/session"
)

// Timeout bounds a whole page build, API calls included.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return http.TimeoutHandler(next, d, "timeout") }
}

// statusRecorder remembers the first status written through it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusRecorder) code() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// serveRecorded runs next and reports the matched route and final status.
func serveRecorded(next http.Handler, w http.ResponseWriter, r *http.Request) (route string, status int) {
	rec := &statusRecorder{ResponseWriter: w}
	next.ServeHTTP(rec, r)
	route = chi.RouteContext(r.Context()).RoutePattern()
	if route == "" {
		route = r.URL.Path
	}
	return route, rec.code()
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		route, status := serveRecorded(next, w, r)
		observability.ObserveHTTP(route, r.Method, status, time.Since(start))
	})
}

// Logger writes one line per request. Server errors log at error level; the
// user is the token subject when the cookie holds a readable JWT.
func Logger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route, status := serveRecorded(next, w, r)

			ev := l.Info()
			if status >= http.StatusInternalServerError {
				ev = l.Error()
			}
			ev.Str("route", route).
				Str("method", r.Method).
				Int("status", status).
				Dur("duration", time.Since(start)).
				Str("remote", r.RemoteAddr). // chimw.RealIP has already applied forwarding headers
				Str("request_id", chimw.GetReqID(r.Context())).
				Str("user", session.Subject(session.FromRequest(r).Token)).
				Msg("page_request")
		})
	}
}
