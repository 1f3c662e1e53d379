package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"cinema-tickets/pkg/utils"
)

// Auth validates a bearer token and puts the caller's identity on the
// request context. Tokens are issued elsewhere; this service only verifies.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				utils.ResponseUnauthorized(w, "Missing or invalid authorization header")
				return
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			userID, _ := claims["sub"].(string)
			if userID == "" {
				utils.ResponseUnauthorized(w, "Invalid token claims")
				return
			}
			email, _ := claims["email"].(string)

			ctx := utils.SetUserContext(r.Context(), userID, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
