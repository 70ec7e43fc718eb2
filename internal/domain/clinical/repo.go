package clinical

import (
	"context"

	"github.com/google/uuid"

	"github.com/optiretail/optiretail/internal/domain/scheduling"
)

type PrescriptionRepository interface {
	Create(ctx context.Context, p *Prescription) error
	// GetByID returns live prescriptions only.
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	// GetTrashed returns a soft-deleted prescription.
	GetTrashed(ctx context.Context, id uuid.UUID) (*Prescription, error)
	Update(ctx context.Context, p *Prescription) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Prescription, int, error)
}

// AppointmentStore is the part of the appointment repository the clinical
// module reads and advances.
type AppointmentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
}
