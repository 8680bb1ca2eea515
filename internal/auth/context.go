package auth

import (
	"context"

	"github.com/rahul/shopkart/backend/internal/models"
)

type ctxKey int

const (
	userKey ctxKey = iota
	tokenKey
)

// ContextWithUser attaches the resolved user and the raw bearer token for
// downstream handlers.
func ContextWithUser(ctx context.Context, u *models.User, token string) context.Context {
	ctx = context.WithValue(ctx, userKey, u)
	return context.WithValue(ctx, tokenKey, token)
}

// UserFromContext returns the authenticated user, or nil outside the gate.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

// TokenFromContext returns the raw bearer token the gate accepted.
func TokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey).(string)
	return t
}
