package middleware

import (
	"net/http"

	"github.com/khabarhub/khabar/internal/ctxkeys"
	"github.com/khabarhub/khabar/internal/model"
	"github.com/khabarhub/khabar/internal/response"
	"github.com/khabarhub/khabar/internal/service"
)

// RequireAuth verifies the session cookie and attaches the claims to the
// request context. Requests without a valid token never reach the handler.
func RequireAuth(authService *service.AuthService) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(authService.CookieName())
			if err != nil {
				response.Error(w, http.StatusUnauthorized, "Unauthorized - no token provided")
				return
			}

			claims, err := authService.VerifyJWT(cookie.Value)
			if err != nil {
				response.Error(w, http.StatusUnauthorized, "Unauthorized - invalid token")
				return
			}

			ctx := ctxkeys.WithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// RequireAdmin gates a handler to ADMIN sessions. Must run after RequireAuth.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ctxkeys.Claims(r.Context())
		if claims == nil || claims.Role != model.RoleAdmin {
			response.Error(w, http.StatusForbidden, "Unauthorized - not an admin")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireUser gates a handler to USER sessions.
func RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ctxkeys.Claims(r.Context())
		if claims == nil || claims.Role != model.RoleUser {
			response.Error(w, http.StatusForbidden, "Unauthorized - not a user")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireAnyRole admits any session with a recognized role.
func RequireAnyRole(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ctxkeys.Claims(r.Context())
		if claims == nil || !claims.Role.Valid() {
			response.Error(w, http.StatusForbidden, "Unauthorized - not an admin or user")
			return
		}
		next.ServeHTTP(w, r)
	}
}
