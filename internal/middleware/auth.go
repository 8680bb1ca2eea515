package middleware

import (
	"net/http"
	"strings"

	"github.com/rahul/shopkart/backend/internal/auth"
	"github.com/rahul/shopkart/backend/internal/httpx"
)

// RequireAuth validates the Authorization bearer token, resolves the user it
// names, and checks the token against the one stored on the user document so
// that logout (or a newer login) actually revokes older tokens. The resolved
// user and raw token are injected into the request context.
func RequireAuth(users auth.UserStore, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httpx.Error(w, http.StatusUnauthorized, "Unauthorized, please login")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				httpx.Error(w, http.StatusUnauthorized, "Unauthorized, please login")
				return
			}
			tokenString := parts[1]

			claims, err := auth.ValidateToken(tokenString, jwtSecret)
			if err != nil {
				httpx.Error(w, http.StatusBadRequest, "Something went wrong, please try again.")
				return
			}

			user, err := users.GetByID(r.Context(), claims.UserID)
			if err != nil {
				httpx.Error(w, http.StatusBadRequest, "Invalid token, please login")
				return
			}

			if user.Token != tokenString {
				httpx.Error(w, http.StatusUnauthorized, "Invalid token, please login")
				return
			}

			ctx := auth.ContextWithUser(r.Context(), user, tokenString)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
