package catalog

import (
	"github.com/optiretail/optiretail/internal/platform/auth"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

// forms holds the create, update and delete forms of one kind.
type forms struct {
	create, update, delete validation.Form
}

func formsFor(k Kind) forms {
	create := validation.Form{
		Name: string(k) + ".create",
		Gate: validation.RoleIn(auth.RoleManager),
		Fields: []validation.Field{
			validation.F("name", validation.String(), validation.Max(150),
				validation.Unique(k.Collection(), "name").Ignore("id")),
			validation.F("description", validation.Optional(), validation.Nullable(), validation.String(), validation.Max(1000)),
			validation.F("price", validation.Numeric(), validation.Min(0)),
		},
	}
	return forms{
		create: create,
		update: create.Partial(string(k) + ".update"),
		delete: validation.Form{Name: string(k) + ".delete", Gate: validation.RoleIn(auth.RoleManager)},
	}
}
