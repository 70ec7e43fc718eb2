package clinical

import (
	"context"

	"github.com/google/uuid"

	"github.com/optiretail/optiretail/internal/domain/scheduling"
	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/db"
	"github.com/optiretail/optiretail/internal/platform/lifecycle"
	"github.com/optiretail/optiretail/internal/platform/resource"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

type Service struct {
	prescriptions PrescriptionRepository
	appointments  AppointmentStore
	tx            db.Transactor
	engine        *validation.Engine
	events        lifecycle.Emitter
}

func NewService(prescriptions PrescriptionRepository, appointments AppointmentStore, tx db.Transactor, engine *validation.Engine, events lifecycle.Emitter) *Service {
	if events == nil {
		events = lifecycle.Nop{}
	}
	if tx == nil {
		tx = db.NoTx{}
	}
	return &Service{
		prescriptions: prescriptions,
		appointments:  appointments,
		tx:            tx,
		engine:        engine,
		events:        events,
	}
}

// CreatePrescription stores the prescription and raises Created in the same
// transaction, so an observer failure rolls the insert back.
func (s *Service) CreatePrescription(ctx context.Context, req validation.Request) (*Prescription, error) {
	in, err := s.engine.Validate(ctx, createPrescriptionForm, req)
	if err != nil {
		return nil, err
	}
	p := &Prescription{}
	if err := validation.Decode(in, p); err != nil {
		return nil, err
	}
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.prescriptions.Create(ctx, p); err != nil {
			return apperr.Persistence("create prescription", err)
		}
		return s.events.Dispatch(ctx, lifecycle.Created{Entity: EntityPrescription, Record: p})
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetPrescription(ctx context.Context, id uuid.UUID, in resource.Includes) (*Prescription, error) {
	p, err := s.prescriptions.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get prescription", err)
	}
	if err := s.load(ctx, []*Prescription{p}, in); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) load(ctx context.Context, items []*Prescription, in resource.Includes) error {
	if !in.Has("appointment") || s.appointments == nil {
		return nil
	}
	for _, p := range items {
		a, err := s.appointments.GetByID(ctx, p.AppointmentID)
		if err != nil && !apperr.IsNotFound(err) {
			return apperr.Persistence("load appointment", err)
		}
		p.Appointment = a
	}
	return nil
}

func (s *Service) UpdatePrescription(ctx context.Context, id uuid.UUID, req validation.Request) (*Prescription, error) {
	p, err := s.prescriptions.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get prescription", err)
	}
	in, err := s.engine.Validate(ctx, updatePrescriptionForm, req)
	if err != nil {
		return nil, err
	}
	if err := validation.Decode(in, p); err != nil {
		return nil, err
	}
	if err := s.prescriptions.Update(ctx, p); err != nil {
		return nil, apperr.Persistence("update prescription", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Updated{Entity: EntityPrescription, Record: p}); err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePrescription soft deletes a prescription. Trashed prescriptions are
// hidden from reads and reference checks until restored.
func (s *Service) DeletePrescription(ctx context.Context, id uuid.UUID, req validation.Request) error {
	p, err := s.prescriptions.GetByID(ctx, id)
	if err != nil {
		return apperr.Persistence("get prescription", err)
	}
	if _, err := s.engine.Validate(ctx, deletePrescriptionForm, req); err != nil {
		return err
	}
	if err := s.prescriptions.SoftDelete(ctx, id); err != nil {
		return apperr.Persistence("delete prescription", err)
	}
	return s.events.Dispatch(ctx, lifecycle.Deleted{Entity: EntityPrescription, Record: p})
}

func (s *Service) RestorePrescription(ctx context.Context, id uuid.UUID, req validation.Request) (*Prescription, error) {
	if _, err := s.prescriptions.GetTrashed(ctx, id); err != nil {
		return nil, apperr.Persistence("get prescription", err)
	}
	if _, err := s.engine.Validate(ctx, restorePrescriptionForm, req); err != nil {
		return nil, err
	}
	if err := s.prescriptions.Restore(ctx, id); err != nil {
		return nil, apperr.Persistence("restore prescription", err)
	}
	p, err := s.prescriptions.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get prescription", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Restored{Entity: EntityPrescription, Record: p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) SearchPrescriptions(ctx context.Context, params map[string]string, in resource.Includes, limit, offset int) ([]*Prescription, int, error) {
	items, total, err := s.prescriptions.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, apperr.Persistence("search prescriptions", err)
	}
	if err := s.load(ctx, items, in); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

var _ AppointmentStore = scheduling.AppointmentRepository(nil)
