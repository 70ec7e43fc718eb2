package clinical

import (
	"github.com/optiretail/optiretail/internal/platform/auth"
	"github.com/optiretail/optiretail/internal/platform/store"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

var prescribers = validation.RoleIn(auth.RoleManager, auth.RoleSpecialist)

func sphere(name string) validation.Field {
	return validation.F(name, validation.Optional(), validation.Nullable(), validation.Numeric(), validation.Min(-30), validation.Max(30))
}

func cylinder(name string) validation.Field {
	return validation.F(name, validation.Optional(), validation.Nullable(), validation.Numeric(), validation.Min(-10), validation.Max(10))
}

func axis(name string) validation.Field {
	return validation.F(name, validation.Optional(), validation.Nullable(), validation.Integer(), validation.Min(0), validation.Max(180))
}

var createPrescriptionForm = validation.Form{
	Name: "prescription.create",
	Gate: prescribers,
	Fields: []validation.Field{
		validation.F("appointment_id", validation.UUID(), validation.Exists(store.Appointments)),
		sphere("od_sphere"),
		cylinder("od_cylinder"),
		axis("od_axis"),
		sphere("os_sphere"),
		cylinder("os_cylinder"),
		axis("os_axis"),
		validation.F("addition", validation.Optional(), validation.Nullable(), validation.Numeric(), validation.Min(0), validation.Max(4)),
		validation.F("pupillary_distance", validation.Optional(), validation.Nullable(), validation.Numeric(), validation.Min(40), validation.Max(80)),
		validation.F("diagnosis", validation.Optional(), validation.Nullable(), validation.String(), validation.Max(1000)),
		validation.F("notes", validation.Optional(), validation.Nullable(), validation.String(), validation.Max(2000)),
	},
}

var updatePrescriptionForm = createPrescriptionForm.Partial("prescription.update")

var (
	deletePrescriptionForm  = validation.Form{Name: "prescription.delete", Gate: prescribers}
	restorePrescriptionForm = validation.Form{Name: "prescription.restore", Gate: prescribers}
)
