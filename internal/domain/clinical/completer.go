package clinical

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/optiretail/optiretail/internal/domain/scheduling"
	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/lifecycle"
)

// AppointmentCompleter marks the appointment of a newly created
// prescription as completed. Subscribe it to EntityPrescription.
//
// Only Created events act. A prescription whose appointment no longer
// exists is logged and ignored. Failing to persist the status fails the
// prescription creation.
type AppointmentCompleter struct {
	appointments AppointmentStore
	logger       zerolog.Logger
}

func NewAppointmentCompleter(appointments AppointmentStore, logger zerolog.Logger) *AppointmentCompleter {
	return &AppointmentCompleter{
		appointments: appointments,
		logger:       logger.With().Str("component", "appointment_completer").Logger(),
	}
}

func (c *AppointmentCompleter) Handle(ctx context.Context, ev lifecycle.Event) error {
	created, ok := ev.(lifecycle.Created)
	if !ok {
		return nil
	}
	p, ok := created.Record.(*Prescription)
	if !ok {
		return nil
	}

	a, err := c.appointments.GetByID(ctx, p.AppointmentID)
	if apperr.IsNotFound(err) {
		// TODO: decide with the clinic whether this should reject the prescription.
		c.logger.Warn().
			Str("prescription_id", p.ID.String()).
			Str("appointment_id", p.AppointmentID.String()).
			Msg("prescription references a missing appointment")
		return nil
	}
	if err != nil {
		return apperr.Persistence("load appointment", err)
	}

	if err := c.appointments.SetStatus(ctx, a.ID, scheduling.StatusCompleted); err != nil {
		return apperr.Persistence("complete appointment", err)
	}
	c.logger.Debug().Str("appointment_id", a.ID.String()).Msg("appointment completed")
	return nil
}
