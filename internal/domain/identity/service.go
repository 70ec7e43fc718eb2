package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/lifecycle"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

type Service struct {
	users    UserRepository
	patients PatientRepository
	engine   *validation.Engine
	events   lifecycle.Emitter
}

func NewService(users UserRepository, patients PatientRepository, engine *validation.Engine, events lifecycle.Emitter) *Service {
	if events == nil {
		events = lifecycle.Nop{}
	}
	return &Service{users: users, patients: patients, engine: engine, events: events}
}

// -- Users --

func (s *Service) CreateUser(ctx context.Context, req validation.Request) (*User, error) {
	in, err := s.engine.Validate(ctx, createUserForm, req)
	if err != nil {
		return nil, err
	}
	u := &User{}
	if err := validation.Decode(in, u); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, apperr.Persistence("create user", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Created{Entity: EntityUser, Record: u}); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get user", err)
	}
	return u, nil
}

func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, req validation.Request) (*User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := s.engine.Validate(ctx, updateUserForm, req)
	if err != nil {
		return nil, err
	}
	if err := validation.Decode(in, u); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, apperr.Persistence("update user", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Updated{Entity: EntityUser, Record: u}); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID, req validation.Request) error {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.engine.Validate(ctx, deleteUserForm, req); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return apperr.Persistence("delete user", err)
	}
	return s.events.Dispatch(ctx, lifecycle.Deleted{Entity: EntityUser, Record: u})
}

func (s *Service) SearchUsers(ctx context.Context, params map[string]string, limit, offset int) ([]*User, int, error) {
	items, total, err := s.users.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, apperr.Persistence("search users", err)
	}
	return items, total, nil
}

// -- Patients --

func (s *Service) CreatePatient(ctx context.Context, req validation.Request) (*Patient, error) {
	in, err := s.engine.Validate(ctx, createPatientForm, req)
	if err != nil {
		return nil, err
	}
	p := &Patient{}
	if err := validation.Decode(in, p); err != nil {
		return nil, err
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, apperr.Persistence("create patient", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Created{Entity: EntityPatient, Record: p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get patient", err)
	}
	return p, nil
}

func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, req validation.Request) (*Patient, error) {
	p, err := s.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := s.engine.Validate(ctx, updatePatientForm, req)
	if err != nil {
		return nil, err
	}
	if err := validation.Decode(in, p); err != nil {
		return nil, err
	}
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, apperr.Persistence("update patient", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Updated{Entity: EntityPatient, Record: p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID, req validation.Request) error {
	p, err := s.GetPatient(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.engine.Validate(ctx, deletePatientForm, req); err != nil {
		return err
	}
	if err := s.patients.Delete(ctx, id); err != nil {
		return apperr.Persistence("delete patient", err)
	}
	return s.events.Dispatch(ctx, lifecycle.Deleted{Entity: EntityPatient, Record: p})
}

func (s *Service) SearchPatients(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	items, total, err := s.patients.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, apperr.Persistence("search patients", err)
	}
	return items, total, nil
}
