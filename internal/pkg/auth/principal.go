package auth

import (
	"context"

	"github.com/tjmun/confreg/internal/app/models"
)

// Principal is the authenticated caller of a request
type Principal struct {
	UserID int64
	Email  string
	Role   models.RoleType
}

// IsAdmin reports whether the caller holds the ADMIN role
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored in ctx, if any
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
