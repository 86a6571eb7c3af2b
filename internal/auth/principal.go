// Package auth handles passwords, access tokens and the caller identity
// that flows through request contexts.
package auth

import (
	"context"
	"strings"

	"filestation-ai/internal/storage"
)

// Roles understood by the access rules.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleMarketer = "marketer"
)

// NormalizeRole lowercases role and maps anything unknown to RoleMarketer.
func NormalizeRole(role string) string {
	switch r := strings.ToLower(strings.TrimSpace(role)); r {
	case RoleAdmin, RoleManager:
		return r
	default:
		return RoleMarketer
	}
}

// Principal is the authenticated caller.
type Principal struct {
	UserID     string
	Role       string
	Department string
	Teams      []string
}

// Visibility returns the document access rule for the principal's role.
func (p Principal) Visibility() storage.Visibility {
	switch NormalizeRole(p.Role) {
	case RoleAdmin:
		return storage.Visibility{Scope: storage.ScopeAll}
	case RoleManager:
		return storage.Visibility{Scope: storage.ScopeDepartment, Department: p.Department}
	default:
		return storage.Visibility{Scope: storage.ScopeOwnOrTeams, UserID: p.UserID, Teams: p.Teams}
	}
}

// PrincipalFromUser builds the principal for a stored user.
func PrincipalFromUser(u *storage.UserRecord) Principal {
	return Principal{
		UserID:     u.ID,
		Role:       NormalizeRole(u.Role),
		Department: u.Department,
		Teams:      u.Teams,
	}
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
