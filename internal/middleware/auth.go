package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/svaldez/socialnet-api/internal/request"
	"github.com/svaldez/socialnet-api/internal/services/authapi"
)

// Ensure the concrete client satisfies the middleware's contract
var _ TokenValidator = (*authapi.Client)(nil)

// TokenValidator is what the auth middleware needs from the external
// validation service.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (string, error)
}

// Auth creates middleware that authorizes each request by posting its
// bearer token to the external validation service. The core behind this
// middleware only ever sees already-authorized calls.
func Auth(client TokenValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondErrorJSON(w, r, http.StatusUnauthorized, "Unauthorized", "Missing Authorization header", logger)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondErrorJSON(w, r, http.StatusUnauthorized, "Unauthorized", "Invalid Authorization header format", logger)
				return
			}

			subject, err := client.Validate(r.Context(), parts[1])
			if err != nil {
				logger.Warn("token_validation_failed",
					zap.Error(err),
					zap.String("client_ip", request.ClientIP(r)),
				)
				respondErrorJSON(w, r, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token", logger)
				return
			}

			next.ServeHTTP(w, r.WithContext(request.WithSubject(r.Context(), subject)))
		})
	}
}
