package auth

import (
	"context"

	"github.com/google/uuid"
)

// Role is a staff role carried by the identity.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleManager       Role = "manager"
	RoleSpecialist    Role = "specialist"
	RoleReceptionist  Role = "receptionist"
	RoleSeller        Role = "seller"
	RoleLabTechnician Role = "lab_technician"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleManager, RoleSpecialist, RoleReceptionist, RoleSeller, RoleLabTechnician}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// RoleNames returns the known roles as strings, for enum rules.
func RoleNames() []string {
	out := make([]string, len(Roles))
	for i, r := range Roles {
		out[i] = string(r)
	}
	return out
}

// Identity is the authenticated caller.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

// Authenticated reports whether the identity carries a user.
func (i Identity) Authenticated() bool {
	return i.UserID != uuid.Nil
}

// HasRole reports whether the identity holds one of roles. Admin holds all.
func (i Identity) HasRole(roles ...Role) bool {
	if !i.Authenticated() {
		return false
	}
	if i.Role == RoleAdmin {
		return true
	}
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity binds id to ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the bound identity and whether one was present.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
