package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/fontastic/pkg/session"
)

type ctxKey int

const sessionKey ctxKey = 0

// sessionFromContext returns the request's session, set by withSession.
func sessionFromContext(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey).(*session.Session)
	return sess
}

// withSession loads the session named by the cookie, or starts a new one
// with the default design when the cookie is missing or unknown.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(CookieName); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				id = c.Value
			}
		}

		var sess *session.Session
		if id != "" {
			var err error
			sess, err = s.store.Get(r.Context(), id)
			if err != nil {
				s.logger.Error("load session", "error", err)
				writeError(w, http.StatusInternalServerError, "Could not load your design.")
				return
			}
		}
		if sess == nil {
			// A well-formed but unknown ID is kept so the cookie stays stable
			// until the first save.
			if id == "" {
				id = session.GenerateID()
			}
			sess = session.NewWithID(id, s.ttl)
			s.logger.Debug("new session", "id", id)
		}
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    sess.ID,
			Path:     "/",
			MaxAge:   int(s.ttl / time.Second),
			HttpOnly: true,
			Secure:   s.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	})
}

// logRequests logs each request once it has been served.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		keyvals := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
		}
		if id := middleware.GetReqID(r.Context()); id != "" {
			keyvals = append(keyvals, "request_id", id)
		}
		if status >= http.StatusInternalServerError {
			s.logger.Warn("request", keyvals...)
			return
		}
		s.logger.Debug("request", keyvals...)
	})
}
