package payroll

import (
	"time"

	"github.com/google/uuid"

	"github.com/optiretail/optiretail/internal/platform/lifecycle"
	"github.com/optiretail/optiretail/internal/platform/resource"
)

const EntityPayroll lifecycle.Entity = "payroll"

// Payroll is one pay period of an employee. Net is derived on every save.
type Payroll struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id" mapstructure:"user_id"`
	PeriodStart time.Time `db:"period_start" json:"period_start" mapstructure:"period_start"`
	PeriodEnd   time.Time `db:"period_end" json:"period_end" mapstructure:"period_end"`
	BaseSalary  float64   `db:"base_salary" json:"base_salary" mapstructure:"base_salary"`
	Commissions float64   `db:"commissions" json:"commissions" mapstructure:"commissions"`
	Deductions  float64   `db:"deductions" json:"deductions" mapstructure:"deductions"`
	Net         float64   `db:"net" json:"net" mapstructure:"-"`
	Notes       *string   `db:"notes" json:"notes,omitempty" mapstructure:"notes"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

func (p *Payroll) Identifier() string { return p.ID.String() }

// Gross is the base salary plus commissions.
func (p *Payroll) Gross() float64 { return p.BaseSalary + p.Commissions }

func (p *Payroll) computeNet() { p.Net = p.Gross() - p.Deductions }

func (p *Payroll) ToResource(resource.Includes) resource.Document {
	return resource.Document{
		"id":           p.ID,
		"user_id":      p.UserID,
		"period_start": p.PeriodStart.Format("2006-01-02"),
		"period_end":   p.PeriodEnd.Format("2006-01-02"),
		"base_salary":  p.BaseSalary,
		"commissions":  p.Commissions,
		"deductions":   p.Deductions,
		"gross":        p.Gross(),
		"net":          p.Net,
		"notes":        p.Notes,
		"created_at":   p.CreatedAt,
		"updated_at":   p.UpdatedAt,
	}
}
