package identity

import (
	"github.com/optiretail/optiretail/internal/platform/auth"
	"github.com/optiretail/optiretail/internal/platform/store"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

var createUserForm = validation.Form{
	Name: "user.create",
	Gate: validation.RoleIn(auth.RoleManager),
	Fields: []validation.Field{
		validation.F("name", validation.String(), validation.Max(255)),
		validation.F("email", validation.Email(), validation.Max(255), validation.Unique(store.Users, "email").Ignore("id")),
		validation.F("role", validation.String(), validation.In(auth.RoleNames()...)),
	},
}

var updateUserForm = createUserForm.Partial("user.update")

var createPatientForm = validation.Form{
	Name: "patient.create",
	Gate: validation.RoleIn(auth.Staff...),
	Fields: []validation.Field{
		validation.F("first_name", validation.String(), validation.Max(100)),
		validation.F("last_name", validation.String(), validation.Max(100)),
		validation.F("email", validation.Optional(), validation.Nullable(), validation.Email(), validation.Max(255),
			validation.Unique(store.Patients, "email").Ignore("id")),
		validation.F("phone", validation.Optional(), validation.Nullable(), validation.String(), validation.Max(30)),
		validation.F("document_number", validation.Optional(), validation.Nullable(), validation.String(), validation.Max(30),
			validation.Unique(store.Patients, "document_number").Ignore("id")),
		validation.F("birth_date", validation.Optional(), validation.Nullable(), validation.Date(), validation.Before(validation.Today)),
		validation.F("address", validation.Optional(), validation.Nullable(), validation.String(), validation.Max(255)),
	},
}

var updatePatientForm = createPatientForm.Partial("patient.update")

// deleteUserForm and deletePatientForm only carry the gate.
var (
	deleteUserForm    = validation.Form{Name: "user.delete", Gate: validation.RoleIn(auth.RoleManager)}
	deletePatientForm = validation.Form{Name: "patient.delete", Gate: validation.RoleIn(auth.RoleManager, auth.RoleReceptionist)}
)
