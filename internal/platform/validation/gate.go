package validation

import (
	"context"

	"github.com/google/uuid"

	"github.com/optiretail/optiretail/internal/platform/auth"
	"github.com/optiretail/optiretail/internal/platform/store"
)

// Gate decides whether a request may be validated at all. An error aborts
// the request; false denies it.
type Gate interface {
	Allow(ctx context.Context, req Request) (bool, error)
}

// GateFunc adapts a function to Gate.
type GateFunc func(ctx context.Context, req Request) (bool, error)

func (f GateFunc) Allow(ctx context.Context, req Request) (bool, error) {
	return f(ctx, req)
}

// AllowAll admits every request.
func AllowAll() Gate {
	return GateFunc(func(context.Context, Request) (bool, error) {
		return true, nil
	})
}

// RoleIn admits authenticated identities holding one of roles. Admin holds all.
func RoleIn(roles ...auth.Role) Gate {
	return GateFunc(func(_ context.Context, req Request) (bool, error) {
		return req.Identity.HasRole(roles...), nil
	})
}

// TargetResolver maps a request to the record it acts on. ok=false means the
// route does not name a resolvable target.
type TargetResolver func(req Request) (c store.Collection, id uuid.UUID, ok bool)

// TargetExists admits authenticated identities whose route target is a live
// record.
func TargetExists(lookup store.Lookup, resolve TargetResolver) Gate {
	return GateFunc(func(ctx context.Context, req Request) (bool, error) {
		if !req.Identity.Authenticated() {
			return false, nil
		}
		c, id, ok := resolve(req)
		if !ok {
			return false, nil
		}
		return lookup.Exists(ctx, c, store.ByID(id))
	})
}

// All admits a request only when every gate does. Gates run in order and
// stop at the first denial.
func All(gates ...Gate) Gate {
	return GateFunc(func(ctx context.Context, req Request) (bool, error) {
		for _, g := range gates {
			ok, err := g.Allow(ctx, req)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	})
}
