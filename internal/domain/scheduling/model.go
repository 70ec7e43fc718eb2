package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/optiretail/optiretail/internal/domain/identity"
	"github.com/optiretail/optiretail/internal/platform/lifecycle"
	"github.com/optiretail/optiretail/internal/platform/resource"
)

const EntityAppointment lifecycle.Entity = "appointment"

// Appointment statuses.
const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

var Statuses = []string{StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled}

// Appointment maps to the appointments table.
type Appointment struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id" mapstructure:"patient_id"`
	SpecialistID   uuid.UUID  `db:"specialist_id" json:"specialist_id" mapstructure:"specialist_id"`
	ReceptionistID uuid.UUID  `db:"receptionist_id" json:"receptionist_id" mapstructure:"receptionist_id"`
	ScheduledAt    time.Time  `db:"scheduled_at" json:"scheduled_at" mapstructure:"scheduled_at"`
	Status         string     `db:"status" json:"status" mapstructure:"status"`
	Reason         *string    `db:"reason" json:"reason,omitempty" mapstructure:"reason"`
	PrescriptionID *uuid.UUID `db:"prescription_id" json:"prescription_id,omitempty" mapstructure:"prescription_id"`
	SaleID         *uuid.UUID `db:"sale_id" json:"sale_id,omitempty" mapstructure:"sale_id"`
	StartedAt      *time.Time `db:"started_at" json:"started_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`

	// Patient is set only when the caller asked for it.
	Patient *identity.Patient `db:"-" json:"-"`
}

func (a *Appointment) Identifier() string { return a.ID.String() }

// Open reports whether the appointment can still be started.
func (a *Appointment) Open() bool {
	return a.Status == StatusScheduled
}

func (a *Appointment) ToResource(in resource.Includes) resource.Document {
	doc := resource.Document{
		"id":              a.ID,
		"patient_id":      a.PatientID,
		"specialist_id":   a.SpecialistID,
		"receptionist_id": a.ReceptionistID,
		"scheduled_at":    a.ScheduledAt,
		"status":          a.Status,
		"reason":          a.Reason,
		"prescription_id": a.PrescriptionID,
		"sale_id":         a.SaleID,
		"started_at":      a.StartedAt,
		"created_at":      a.CreatedAt,
		"updated_at":      a.UpdatedAt,
	}
	if in.Has("patient") && a.Patient != nil {
		doc["patient"] = a.Patient.ToResource(nil)
	}
	return doc
}
