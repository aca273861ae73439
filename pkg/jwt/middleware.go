package jwt

import (
	"net/http"
	"strings"
)

// SkipFunc decides whether a request bypasses token validation.
type SkipFunc func(r *http.Request) bool

// Middleware validates bearer tokens and injects the parsed claims
// into the request context. Requests without a valid token get 401.
func Middleware(service *Service) func(next http.Handler) http.Handler {
	return MiddlewareWithSkip(service, nil)
}

// MiddlewareWithSkip works like Middleware but lets matching requests
// through without validation.
func MiddlewareWithSkip(service *Service, skip SkipFunc) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip != nil && skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, err := bearerToken(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			claims := make(map[string]any)
			if err := service.Parse(tokenString, &claims); err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := SetToken(r.Context(), tokenString)
			ctx = SetClaims(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer"
// header, the transport defined by RFC 6750.
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrInvalidToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", ErrInvalidToken
	}
	return parts[1], nil
}
