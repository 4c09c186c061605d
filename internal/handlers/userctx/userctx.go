// Package userctx stores the authenticated user in the request context.
package userctx

import (
	"context"

	"github.com/vietcharge/vietcharge/internal/models"
)

type contextKey struct{}

func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// User returns the authenticated user stored by the auth middleware.
// ok is false when the request never passed authentication.
func User(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(contextKey{}).(models.User)
	return user, ok
}
