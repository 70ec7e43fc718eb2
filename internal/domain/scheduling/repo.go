package scheduling

import (
	"context"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error)
	// SetStatus writes only the status column.
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	// InProgressFor returns the specialist's in-progress appointment other
	// than exclude, or nil.
	InProgressFor(ctx context.Context, specialistID, exclude uuid.UUID) (*Appointment, error)
}
