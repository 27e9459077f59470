package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/jwt"
)

// RequireManager requires manager role
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := jwt.IdentityFromContext(r.Context())
		if err != nil || !identity.IsManager() {
			response.HandleError(w, user.ErrManagerAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
