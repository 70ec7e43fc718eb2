package notes

import (
	"github.com/google/uuid"

	"github.com/optiretail/optiretail/internal/platform/auth"
	"github.com/optiretail/optiretail/internal/platform/store"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

// resolveTarget reads the noteable from the route. Unknown types and
// malformed ids resolve to nothing, which the gate denies.
func resolveTarget(req validation.Request) (store.Collection, uuid.UUID, bool) {
	kind, ok := ParseKind(req.Params["noteable_type"])
	if !ok {
		return "", uuid.Nil, false
	}
	id, ok := req.Params.UUID("noteable_id")
	if !ok {
		return "", uuid.Nil, false
	}
	return kind.Collection(), id, true
}

// noteGate admits staff acting on a live noteable.
func noteGate(lookup store.Lookup) validation.Gate {
	return validation.All(
		validation.RoleIn(auth.Staff...),
		validation.TargetExists(lookup, resolveTarget),
	)
}

func createForm(lookup store.Lookup) validation.Form {
	return validation.Form{
		Name: "note.create",
		Gate: noteGate(lookup),
		Fields: []validation.Field{
			validation.F("body", validation.String(), validation.Max(2000)),
		},
	}
}

func listForm(lookup store.Lookup) validation.Form {
	return validation.Form{Name: "note.list", Gate: noteGate(lookup)}
}
