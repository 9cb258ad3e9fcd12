// Package identity carries the caller identity supplied by the identity provider.
// The core trusts it as-is.
package identity

import (
	"context"
	"strings"
)

// Role distinguishes buyers from sellers.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleSeller
}

// Identity is the current actor.
type Identity struct {
	Email string
	Role  Role
}

// Is reports whether the identity belongs to email, ignoring case and surrounding spaces.
func (i Identity) Is(email string) bool {
	return i.Email != "" && strings.EqualFold(strings.TrimSpace(i.Email), strings.TrimSpace(email))
}

type contextKey struct{}

// WithIdentity stores the identity on the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored on ctx, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
