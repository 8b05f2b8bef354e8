package ctxkeys

import (
	"context"

	"github.com/khabarhub/khabar/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const claimsKey contextKey = "claims"

// Claims returns the session claims attached by the auth middleware,
// or nil for unauthenticated requests.
func Claims(ctx context.Context) *model.Claims {
	claims, _ := ctx.Value(claimsKey).(*model.Claims)
	return claims
}

func WithClaims(ctx context.Context, claims *model.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}
