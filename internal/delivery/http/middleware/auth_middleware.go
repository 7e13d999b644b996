package middleware

import (
	"context"
	"errors"
	"net/http"

	"gymbook-promotions/internal/domain"
	"gymbook-promotions/pkg/logger"
	"gymbook-promotions/pkg/utils"
)

// AuthMiddleware accepts access tokens issued by the auth backend and stores the caller in the context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := utils.ExtractClaims(r)
		if err != nil {
			if errors.Is(err, utils.ErrNoToken) {
				utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: No token provided")
				return
			}
			logger.WithContext(r.Context()).Debug().Err(err).Msg("Rejected access token")
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: Invalid token")
			return
		}

		// Claims are trusted as-is; this service has no user table to re-check roles against.
		user := &domain.User{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  claims.Role,
		}

		ctx := context.WithValue(r.Context(), domain.UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
