package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parasjain182005/Travel-Website/internal/service"
	"github.com/parasjain182005/Travel-Website/pkg/httputil"
	"github.com/parasjain182005/Travel-Website/pkg/middleware"
	"github.com/parasjain182005/Travel-Website/pkg/validator"
)

// maxBodyBytes limits JSON request bodies.
const maxBodyBytes = 1 << 20

// actorFrom builds the service actor from the authenticated claims.
func actorFrom(r *http.Request) service.Actor {
	return service.Actor{
		UserID: middleware.UserIDFromContext(r.Context()),
		Role:   middleware.RoleFromContext(r.Context()),
	}
}

// idParam reads a UUID path parameter. It writes a 400 and returns false
// when the value is malformed.
func idParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, name))
	if !ok {
		return "", false
	}
	return id.String(), true
}

// decode reads a size-limited JSON body into dst and validates it.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return validator.DecodeAndValidate(r, dst)
}
