package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vietcharge/vietcharge/internal/apperrors"
	"github.com/vietcharge/vietcharge/internal/handlers/render"
	"github.com/vietcharge/vietcharge/internal/handlers/userctx"
	"github.com/vietcharge/vietcharge/internal/models"
)

type authService interface {
	Authenticate(ctx context.Context, accessToken string) (models.User, error)
}

// Auth verifies the Bearer access token and stores the resolved user in
// the request context. Requests without a valid token are rejected.
func Auth(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				render.Error(w, apperrors.New(apperrors.KindAuth, "missing or malformed authorization header", http.StatusUnauthorized))
				return
			}

			user, err := as.Authenticate(r.Context(), token)
			if err != nil {
				render.Error(w, err)
				return
			}

			ctx := userctx.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole allows the request through only when the authenticated user
// has one of the listed roles. Must be mounted after Auth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := userctx.User(r.Context())
			if !ok {
				render.Error(w, apperrors.New(apperrors.KindAuth, "authentication required", http.StatusUnauthorized))
				return
			}

			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			render.Error(w, apperrors.ErrForbidden)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}
