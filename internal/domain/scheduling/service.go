package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/optiretail/optiretail/internal/domain/identity"
	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/lifecycle"
	"github.com/optiretail/optiretail/internal/platform/resource"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

// PatientReader loads patients for the "patient" include.
type PatientReader interface {
	GetPatient(ctx context.Context, id uuid.UUID) (*identity.Patient, error)
}

type Service struct {
	appointments AppointmentRepository
	patients     PatientReader
	engine       *validation.Engine
	events       lifecycle.Emitter
	now          func() time.Time
}

func NewService(appointments AppointmentRepository, patients PatientReader, engine *validation.Engine, events lifecycle.Emitter) *Service {
	if events == nil {
		events = lifecycle.Nop{}
	}
	return &Service{
		appointments: appointments,
		patients:     patients,
		engine:       engine,
		events:       events,
		now:          time.Now,
	}
}

// Repository exposes the appointment store to lifecycle observers.
func (s *Service) Repository() AppointmentRepository {
	return s.appointments
}

func (s *Service) CreateAppointment(ctx context.Context, req validation.Request) (*Appointment, error) {
	in, err := s.engine.Validate(ctx, createAppointmentForm, req)
	if err != nil {
		return nil, err
	}
	a := &Appointment{Status: StatusScheduled, ReceptionistID: req.Identity.UserID}
	if err := validation.Decode(in, a); err != nil {
		return nil, err
	}
	if err := s.appointments.Create(ctx, a); err != nil {
		return nil, apperr.Persistence("create appointment", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Created{Entity: EntityAppointment, Record: a}); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID, in resource.Includes) (*Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get appointment", err)
	}
	if err := s.load(ctx, []*Appointment{a}, in); err != nil {
		return nil, err
	}
	return a, nil
}

// load fills the relations named in in.
func (s *Service) load(ctx context.Context, items []*Appointment, in resource.Includes) error {
	if !in.Has("patient") || s.patients == nil {
		return nil
	}
	cache := map[uuid.UUID]*identity.Patient{}
	for _, a := range items {
		p, ok := cache[a.PatientID]
		if !ok {
			var err error
			p, err = s.patients.GetPatient(ctx, a.PatientID)
			if err != nil && !apperr.IsNotFound(err) {
				return err
			}
			cache[a.PatientID] = p
		}
		a.Patient = p
	}
	return nil
}

func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, req validation.Request) (*Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get appointment", err)
	}
	in, err := s.engine.Validate(ctx, updateAppointmentForm, req)
	if err != nil {
		return nil, err
	}
	if err := validation.Decode(in, a); err != nil {
		return nil, err
	}
	if err := s.appointments.Update(ctx, a); err != nil {
		return nil, apperr.Persistence("update appointment", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Updated{Entity: EntityAppointment, Record: a}); err != nil {
		return nil, err
	}
	return a, nil
}

// StartAppointment moves a scheduled appointment to in_progress. A
// specialist attends one patient at a time: if another of their
// appointments is in progress the start is refused with a conflict naming
// it.
func (s *Service) StartAppointment(ctx context.Context, id uuid.UUID, req validation.Request) (*Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get appointment", err)
	}
	if _, err := s.engine.Validate(ctx, startAppointmentForm, req); err != nil {
		return nil, err
	}
	if a.Status == StatusInProgress {
		return a, nil
	}
	if !a.Open() {
		return nil, apperr.NewConflict("appointment is "+a.Status+" and cannot be started", "appointment", a.ID)
	}

	other, err := s.appointments.InProgressFor(ctx, a.SpecialistID, a.ID)
	if err != nil {
		return nil, apperr.Persistence("check specialist availability", err)
	}
	if other != nil {
		return nil, apperr.NewConflict("the specialist already has an appointment in progress", "appointment", other.ID)
	}

	started := s.now().UTC()
	a.Status = StatusInProgress
	a.StartedAt = &started
	if err := s.appointments.Update(ctx, a); err != nil {
		return nil, apperr.Persistence("start appointment", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Updated{Entity: EntityAppointment, Record: a}); err != nil {
		return nil, err
	}
	return a, nil
}

// CancelAppointment cancels an appointment that has not been completed.
func (s *Service) CancelAppointment(ctx context.Context, id uuid.UUID, req validation.Request) (*Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get appointment", err)
	}
	if _, err := s.engine.Validate(ctx, cancelAppointmentForm, req); err != nil {
		return nil, err
	}
	switch a.Status {
	case StatusCancelled:
		return a, nil
	case StatusCompleted:
		return nil, apperr.NewConflict("a completed appointment cannot be cancelled", "appointment", a.ID)
	}

	a.Status = StatusCancelled
	if err := s.appointments.Update(ctx, a); err != nil {
		return nil, apperr.Persistence("cancel appointment", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Updated{Entity: EntityAppointment, Record: a}); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID, req validation.Request) error {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return apperr.Persistence("get appointment", err)
	}
	if _, err := s.engine.Validate(ctx, deleteAppointmentForm, req); err != nil {
		return err
	}
	if err := s.appointments.Delete(ctx, id); err != nil {
		return apperr.Persistence("delete appointment", err)
	}
	return s.events.Dispatch(ctx, lifecycle.Deleted{Entity: EntityAppointment, Record: a})
}

func (s *Service) SearchAppointments(ctx context.Context, params map[string]string, in resource.Includes, limit, offset int) ([]*Appointment, int, error) {
	items, total, err := s.appointments.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, apperr.Persistence("search appointments", err)
	}
	if err := s.load(ctx, items, in); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
