package clinical

import (
	"time"

	"github.com/google/uuid"

	"github.com/optiretail/optiretail/internal/domain/scheduling"
	"github.com/optiretail/optiretail/internal/platform/lifecycle"
	"github.com/optiretail/optiretail/internal/platform/resource"
)

const EntityPrescription lifecycle.Entity = "prescription"

// Prescription maps to the prescriptions table. Refraction values follow
// the usual notation: OD is the right eye, OS the left.
type Prescription struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	AppointmentID     uuid.UUID  `db:"appointment_id" json:"appointment_id" mapstructure:"appointment_id"`
	OdSphere          *float64   `db:"od_sphere" json:"od_sphere,omitempty" mapstructure:"od_sphere"`
	OdCylinder        *float64   `db:"od_cylinder" json:"od_cylinder,omitempty" mapstructure:"od_cylinder"`
	OdAxis            *int       `db:"od_axis" json:"od_axis,omitempty" mapstructure:"od_axis"`
	OsSphere          *float64   `db:"os_sphere" json:"os_sphere,omitempty" mapstructure:"os_sphere"`
	OsCylinder        *float64   `db:"os_cylinder" json:"os_cylinder,omitempty" mapstructure:"os_cylinder"`
	OsAxis            *int       `db:"os_axis" json:"os_axis,omitempty" mapstructure:"os_axis"`
	Addition          *float64   `db:"addition" json:"addition,omitempty" mapstructure:"addition"`
	PupillaryDistance *float64   `db:"pupillary_distance" json:"pupillary_distance,omitempty" mapstructure:"pupillary_distance"`
	Diagnosis         *string    `db:"diagnosis" json:"diagnosis,omitempty" mapstructure:"diagnosis"`
	Notes             *string    `db:"notes" json:"notes,omitempty" mapstructure:"notes"`
	DeletedAt         *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`

	Appointment *scheduling.Appointment `db:"-" json:"-"`
}

func (p *Prescription) Identifier() string { return p.ID.String() }

// Trashed reports whether the prescription is soft deleted.
func (p *Prescription) Trashed() bool { return p.DeletedAt != nil }

func (p *Prescription) ToResource(in resource.Includes) resource.Document {
	doc := resource.Document{
		"id":             p.ID,
		"appointment_id": p.AppointmentID,
		"od": resource.Document{
			"sphere":   p.OdSphere,
			"cylinder": p.OdCylinder,
			"axis":     p.OdAxis,
		},
		"os": resource.Document{
			"sphere":   p.OsSphere,
			"cylinder": p.OsCylinder,
			"axis":     p.OsAxis,
		},
		"addition":           p.Addition,
		"pupillary_distance": p.PupillaryDistance,
		"diagnosis":          p.Diagnosis,
		"notes":              p.Notes,
		"created_at":         p.CreatedAt,
		"updated_at":         p.UpdatedAt,
	}
	if p.DeletedAt != nil {
		doc["deleted_at"] = p.DeletedAt
	}
	if in.Has("appointment") && p.Appointment != nil {
		doc["appointment"] = p.Appointment.ToResource(nil)
	}
	return doc
}
