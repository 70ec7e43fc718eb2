package laboratory

import (
	"github.com/optiretail/optiretail/internal/platform/auth"
	"github.com/optiretail/optiretail/internal/platform/store"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

var (
	labManagers = validation.RoleIn(auth.RoleManager)
	labStaff    = validation.RoleIn(auth.RoleManager, auth.RoleSpecialist, auth.RoleSeller, auth.RoleLabTechnician)
)

var createLaboratoryForm = validation.Form{
	Name: "laboratory.create",
	Gate: labManagers,
	Fields: []validation.Field{
		validation.F("name", validation.String(), validation.Max(150), validation.Unique(store.Laboratories, "name").Ignore("id")),
		validation.F("email", validation.Optional(), validation.Nullable(), validation.Email(), validation.Max(255)),
		validation.F("phone", validation.Optional(), validation.Nullable(), validation.String(), validation.Max(30)),
		validation.F("address", validation.Optional(), validation.Nullable(), validation.String(), validation.Max(255)),
	},
}

var createOrderForm = validation.Form{
	Name: "lab_order.create",
	Gate: labStaff,
	Fields: []validation.Field{
		validation.F("laboratory_id", validation.UUID(), validation.Exists(store.Laboratories)),
		validation.F("prescription_id", validation.UUID(), validation.Exists(store.Prescriptions)),
		validation.F("sale_id", validation.Optional(), validation.Nullable(), validation.UUID(), validation.Exists(store.Sales)),
		validation.F("status", validation.Optional(), validation.String(), validation.In(OrderStatuses...)),
		validation.F("ordered_at", validation.Date()),
		validation.F("due_date", validation.Optional(), validation.Nullable(), validation.Date(), validation.After("ordered_at")),
		validation.F("notes", validation.Optional(), validation.Nullable(), validation.String(), validation.Max(500)),
	},
}

var (
	updateLaboratoryForm = createLaboratoryForm.Partial("laboratory.update")
	updateOrderForm      = createOrderForm.Partial("lab_order.update")
)

var (
	deleteLaboratoryForm = validation.Form{Name: "laboratory.delete", Gate: labManagers}
	deleteOrderForm      = validation.Form{Name: "lab_order.delete", Gate: labManagers}
)
