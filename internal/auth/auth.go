// Package auth carries the authenticated user through request contexts.
package auth

import (
	"context"

	"github.com/pageza/alchemorsel-ideas/backend/internal/apperr"
)

// User is the authenticated caller as seen by the handlers.
type User struct {
	ID       string
	Username string
}

type contextKey struct{}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// UserFromContext returns the user stored in ctx, if any.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(contextKey{}).(*User)
	if !ok || u == nil || u.ID == "" {
		return nil, false
	}
	return u, true
}

// RequireUser fails closed with an Unauthorized error when ctx has no user.
func RequireUser(ctx context.Context) (*User, error) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return nil, apperr.Unauthorized("")
	}
	return u, nil
}
