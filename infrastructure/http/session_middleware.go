package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	sessioncontext "verifyimage/frontend/shared/context"
	"verifyimage/infrastructure/session"
)

// SessionMiddleware loads the caller's session, starting a new one when the
// cookie is missing, unknown or expired, and puts its handle in the context.
func (s *Server) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if c, err := r.Cookie(session.CookieName); err == nil {
			token = c.Value
		}

		if _, err := s.Sessions.Load(r.Context(), token); err != nil {
			if !session.IsNotFound(err) {
				slog.Error("load session failed", slog.String("request_id", middleware.GetReqID(r.Context())), slog.Any("err", err))
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}

			_, token, err = s.Sessions.Create(r.Context())
			if err != nil {
				slog.Error("create session failed", slog.String("request_id", middleware.GetReqID(r.Context())), slog.Any("err", err))
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, session.SessionCookie(token, int(s.Sessions.TTL.Seconds())))
		}

		ctx := sessioncontext.NewContextWithSession(r.Context(), session.NewHandle(s.Sessions, token))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
