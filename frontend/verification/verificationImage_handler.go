package verification

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	sessioncontext "verifyimage/frontend/shared/context"
)

// ImageHandler serves a verification image for the "num" request value,
// read from the query string or form body, and records its token in the
// request's session.
func ImageHandler(gen *Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			slog.Error("verification image requested without session", slog.String("request_id", middleware.GetReqID(r.Context())))
			http.Error(w, "session unavailable", http.StatusInternalServerError)
			return
		}

		// A missing value renders an empty image; callers are expected to
		// reject empty answers when verifying.
		candidate := r.FormValue("num")

		var body bytes.Buffer
		if _, err := gen.Generate(r.Context(), &body, candidate, sess); err != nil {
			slog.Error("generate verification image failed",
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.Any("err", err))
			http.Error(w, "failed to generate verification image", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = body.WriteTo(w)
	}
}
