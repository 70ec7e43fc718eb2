package payroll

import (
	"github.com/optiretail/optiretail/internal/platform/auth"
	"github.com/optiretail/optiretail/internal/platform/store"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

var payrollManagers = validation.RoleIn(auth.RoleManager)

var createForm = validation.Form{
	Name: "payroll.create",
	Gate: payrollManagers,
	Fields: []validation.Field{
		validation.F("user_id", validation.UUID(), validation.Exists(store.Users)),
		validation.F("period_start", validation.Date()),
		validation.F("period_end", validation.Date(), validation.After("period_start")),
		validation.F("base_salary", validation.Numeric(), validation.Min(0)),
		validation.F("commissions", validation.Optional(), validation.Numeric(), validation.Min(0)),
		validation.F("deductions", validation.Optional(), validation.Numeric(), validation.Min(0)),
		validation.F("notes", validation.Optional(), validation.Nullable(), validation.String(), validation.Max(500)),
	},
}

var (
	updateForm = createForm.Partial("payroll.update")
	deleteForm = validation.Form{Name: "payroll.delete", Gate: payrollManagers}
)
