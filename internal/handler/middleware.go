package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"timekeeper/internal/domain"
	"timekeeper/internal/service"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// ClaimsFromContext extracts the validated token claims from the request
// context. Returns nil outside of an authenticated route.
func ClaimsFromContext(ctx context.Context) *service.TokenClaims {
	claims, _ := ctx.Value(claimsContextKey).(*service.TokenClaims)
	return claims
}

// RequireAuth protects routes that need a valid access token. It reads the
// Authorization bearer header, validates the JWT against the blocklist, and
// injects the claims into the request context.
//
// Status mapping is contractual: missing token 401, expired 401, revoked
// 401, malformed or wrong-type 422.
func RequireAuth(auth *service.AuthService, next http.Handler) http.Handler {
	return requireToken(auth, service.TokenTypeAccess, next)
}

// RequireRefresh protects the token refresh route, which accepts only
// refresh-typed tokens.
func RequireRefresh(auth *service.AuthService, next http.Handler) http.Handler {
	return requireToken(auth, service.TokenTypeRefresh, next)
}

func requireToken(auth *service.AuthService, tokenType string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := bearerToken(r)
		if err != nil {
			writeAuthError(w, err)
			return
		}

		claims, err := auth.ValidateToken(r.Context(), tokenString, tokenType)
		if err != nil {
			writeAuthError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", domain.ErrTokenMissing
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) || len(header) == len(prefix) {
		return "", domain.ErrTokenMalformed
	}
	return header[len(prefix):], nil
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrTokenMissing):
		writeError(w, http.StatusUnauthorized, "Authorization token is missing")
	case errors.Is(err, domain.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "Token has expired")
	case errors.Is(err, domain.ErrTokenRevoked):
		writeError(w, http.StatusUnauthorized, "Token has been revoked")
	case errors.Is(err, domain.ErrTokenMalformed):
		writeError(w, http.StatusUnprocessableEntity, "Invalid token")
	default:
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
