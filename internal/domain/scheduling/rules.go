package scheduling

import (
	"github.com/optiretail/optiretail/internal/platform/auth"
	"github.com/optiretail/optiretail/internal/platform/store"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

var schedulers = validation.RoleIn(auth.RoleManager, auth.RoleReceptionist, auth.RoleSpecialist)

var createAppointmentForm = validation.Form{
	Name: "appointment.create",
	Gate: schedulers,
	Fields: []validation.Field{
		validation.F("patient_id", validation.UUID(), validation.Exists(store.Patients)),
		validation.F("specialist_id", validation.UUID(), validation.Exists(store.Users)),
		// Defaults to the caller.
		validation.F("receptionist_id", validation.Optional(), validation.UUID(), validation.Exists(store.Users)),
		validation.F("scheduled_at", validation.Date()),
		validation.F("status", validation.Optional(), validation.String(), validation.In(Statuses...)),
		validation.F("reason", validation.Optional(), validation.Nullable(), validation.String(), validation.Max(500)),
		validation.F("prescription_id", validation.Optional(), validation.Nullable(), validation.UUID(), validation.Exists(store.Prescriptions)),
		validation.F("sale_id", validation.Optional(), validation.Nullable(), validation.UUID(), validation.Exists(store.Sales)),
	},
}

var updateAppointmentForm = createAppointmentForm.Partial("appointment.update")

var (
	startAppointmentForm  = validation.Form{Name: "appointment.start", Gate: validation.RoleIn(auth.RoleManager, auth.RoleSpecialist)}
	cancelAppointmentForm = validation.Form{Name: "appointment.cancel", Gate: schedulers}
	deleteAppointmentForm = validation.Form{Name: "appointment.delete", Gate: validation.RoleIn(auth.RoleManager)}
)
