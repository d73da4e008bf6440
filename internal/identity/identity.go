// Package identity carries the authenticated caller through the request context.
package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/2beens/gymsplits/internal/apperr"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	tokenKey
)

func ContextWithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// UserIDFromContext returns the id of the authenticated caller, or
// ErrUnauthenticated when the request was not authenticated.
func UserIDFromContext(ctx context.Context) (uuid.UUID, error) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: no user in request context", apperr.ErrUnauthenticated)
	}
	return userID, nil
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
