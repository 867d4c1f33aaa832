package http

import (
	"github.com/go-chi/chi/v5"

	"verifyimage/frontend/verification"
)

// LegacyVerificationImagePath is the path older account-request pages link to.
const LegacyVerificationImagePath = "/request_account/verificationimage.php"

// RegisterVerificationRoutes registers the verification image endpoints.
// Both GET and POST are accepted since "num" may arrive in either.
func (s *Server) RegisterVerificationRoutes(r chi.Router) {
	h := verification.ImageHandler(s.Generator)
	for _, path := range []string{"/verificationimage", LegacyVerificationImagePath} {
		r.Get(path, h)
		r.Post(path, h)
	}
}
