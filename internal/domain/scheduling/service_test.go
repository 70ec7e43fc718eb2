package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/optiretail/optiretail/internal/domain/identity"
	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/auth"
	"github.com/optiretail/optiretail/internal/platform/i18n"
	"github.com/optiretail/optiretail/internal/platform/lifecycle"
	"github.com/optiretail/optiretail/internal/platform/resource"
	"github.com/optiretail/optiretail/internal/platform/store"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

// -- Mock Repositories --

type mockAppointmentRepo struct {
	appts map[uuid.UUID]*Appointment
	mem   *store.Memory
}

func newMockAppointmentRepo(mem *store.Memory) *mockAppointmentRepo {
	return &mockAppointmentRepo{appts: make(map[uuid.UUID]*Appointment), mem: mem}
}

func (m *mockAppointmentRepo) sync(a *Appointment) {
	m.mem.Put(store.Appointments, a.ID, store.Record{
		"status":        a.Status,
		"specialist_id": a.SpecialistID,
		"patient_id":    a.PatientID,
	})
}

func (m *mockAppointmentRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.appts[a.ID] = a
	m.sync(a)
	return nil
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, apperr.NewNotFound("appointment", id)
	}
	cp := *a
	return &cp, nil
}

func (m *mockAppointmentRepo) Update(_ context.Context, a *Appointment) error {
	a.UpdatedAt = time.Now()
	cp := *a
	m.appts[a.ID] = &cp
	m.sync(a)
	return nil
}

func (m *mockAppointmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.appts, id)
	m.mem.Delete(store.Appointments, id)
	return nil
}

func (m *mockAppointmentRepo) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appts {
		if s := params["status"]; s != "" && a.Status != s {
			continue
		}
		cp := *a
		result = append(result, &cp)
	}
	return result, len(result), nil
}

func (m *mockAppointmentRepo) SetStatus(_ context.Context, id uuid.UUID, status string) error {
	a, ok := m.appts[id]
	if !ok {
		return apperr.NewNotFound("appointment", id)
	}
	a.Status = status
	m.sync(a)
	return nil
}

func (m *mockAppointmentRepo) InProgressFor(_ context.Context, specialistID, exclude uuid.UUID) (*Appointment, error) {
	for _, a := range m.appts {
		if a.SpecialistID == specialistID && a.Status == StatusInProgress && a.ID != exclude {
			return a, nil
		}
	}
	return nil, nil
}

type mockPatients map[uuid.UUID]*identity.Patient

func (m mockPatients) GetPatient(_ context.Context, id uuid.UUID) (*identity.Patient, error) {
	p, ok := m[id]
	if !ok {
		return nil, apperr.NewNotFound("patient", id)
	}
	return p, nil
}

type fixture struct {
	svc        *Service
	repo       *mockAppointmentRepo
	mem        *store.Memory
	patients   mockPatients
	patientID  uuid.UUID
	specialist uuid.UUID
}

func newFixture() *fixture {
	mem := store.NewMemory()
	repo := newMockAppointmentRepo(mem)
	f := &fixture{
		repo:       repo,
		mem:        mem,
		patients:   mockPatients{},
		patientID:  uuid.New(),
		specialist: uuid.New(),
	}
	mem.Put(store.Patients, f.patientID, store.Record{})
	mem.Put(store.Users, f.specialist, store.Record{"role": "specialist"})
	f.patients[f.patientID] = &identity.Patient{ID: f.patientID, FirstName: "Ana", LastName: "Gomez"}

	engine := validation.NewEngine(mem, i18n.Default("en"), zerolog.Nop())
	f.svc = NewService(repo, f.patients, engine, lifecycle.Nop{})
	f.svc.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	return f
}

func as(role auth.Role, input validation.Input) validation.Request {
	return validation.Request{
		Identity: auth.Identity{UserID: uuid.New(), Role: role},
		Params:   validation.Params{},
		Input:    input,
	}
}

func (f *fixture) create(t *testing.T, specialist uuid.UUID) *Appointment {
	t.Helper()
	a, err := f.svc.CreateAppointment(context.Background(), as(auth.RoleReceptionist, validation.Input{
		"patient_id":    f.patientID.String(),
		"specialist_id": specialist.String(),
		"scheduled_at":  "2024-05-01T09:00:00Z",
	}))
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	return a
}

func TestService_CreateAppointment(t *testing.T) {
	f := newFixture()
	req := as(auth.RoleReceptionist, validation.Input{
		"patient_id":    f.patientID.String(),
		"specialist_id": f.specialist.String(),
		"scheduled_at":  "2024-05-01T09:00:00Z",
		"reason":        "  annual check  ",
	})
	a, err := f.svc.CreateAppointment(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusScheduled {
		t.Errorf("expected status scheduled, got %s", a.Status)
	}
	if a.ReceptionistID != req.Identity.UserID {
		t.Error("expected receptionist to default to the caller")
	}
	if a.Reason == nil || *a.Reason != "annual check" {
		t.Errorf("expected trimmed reason, got %v", a.Reason)
	}
	if a.ScheduledAt.Hour() != 9 {
		t.Errorf("unexpected scheduled_at %v", a.ScheduledAt)
	}
}

func TestService_CreateAppointment_MissingReferences(t *testing.T) {
	f := newFixture()
	_, err := f.svc.CreateAppointment(context.Background(), as(auth.RoleReceptionist, validation.Input{
		"patient_id":    uuid.New().String(),
		"specialist_id": "not-a-uuid",
		"scheduled_at":  "yesterday",
		"status":        "pending",
	}))
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"patient_id", "specialist_id", "scheduled_at", "status"} {
		if verr.First(field) == "" {
			t.Errorf("expected %s to fail", field)
		}
	}
	if len(f.repo.appts) != 0 {
		t.Error("nothing may be persisted when validation fails")
	}
}

func TestService_CreateAppointment_Denied(t *testing.T) {
	f := newFixture()
	_, err := f.svc.CreateAppointment(context.Background(), as(auth.RoleSeller, validation.Input{}))
	if !errors.Is(err, apperr.ErrAuthorizationDenied) {
		t.Errorf("expected authorization denied, got %v", err)
	}
}

func TestService_StartAppointment(t *testing.T) {
	f := newFixture()
	a := f.create(t, f.specialist)

	started, err := f.svc.StartAppointment(context.Background(), a.ID, as(auth.RoleSpecialist, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if started.Status != StatusInProgress || started.StartedAt == nil {
		t.Errorf("expected in_progress with start time, got %+v", started)
	}
}

func TestService_StartAppointment_SpecialistBusy(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	first := f.create(t, f.specialist)
	second := f.create(t, f.specialist)

	if _, err := f.svc.StartAppointment(ctx, first.ID, as(auth.RoleSpecialist, nil)); err != nil {
		t.Fatalf("start first: %v", err)
	}
	_, err := f.svc.StartAppointment(ctx, second.ID, as(auth.RoleSpecialist, nil))
	var conflict *apperr.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if conflict.ResourceID != first.ID {
		t.Errorf("conflict must name the in-progress appointment %s, got %s", first.ID, conflict.ResourceID)
	}

	// A different specialist is not affected.
	other := uuid.New()
	f.mem.Put(store.Users, other, store.Record{})
	third := f.create(t, other)
	if _, err := f.svc.StartAppointment(ctx, third.ID, as(auth.RoleSpecialist, nil)); err != nil {
		t.Errorf("unexpected error for other specialist: %v", err)
	}
}

func TestService_StartAppointment_Completed(t *testing.T) {
	f := newFixture()
	a := f.create(t, f.specialist)
	f.repo.SetStatus(context.Background(), a.ID, StatusCompleted)

	_, err := f.svc.StartAppointment(context.Background(), a.ID, as(auth.RoleSpecialist, nil))
	if !apperr.IsConflict(err) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestService_StartAppointment_ReceptionistDenied(t *testing.T) {
	f := newFixture()
	a := f.create(t, f.specialist)
	_, err := f.svc.StartAppointment(context.Background(), a.ID, as(auth.RoleReceptionist, nil))
	if !errors.Is(err, apperr.ErrAuthorizationDenied) {
		t.Errorf("expected authorization denied, got %v", err)
	}
}

func TestService_CancelAppointment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.create(t, f.specialist)

	cancelled, err := f.svc.CancelAppointment(ctx, a.ID, as(auth.RoleReceptionist, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Status)
	}

	done := f.create(t, f.specialist)
	f.repo.SetStatus(ctx, done.ID, StatusCompleted)
	_, err = f.svc.CancelAppointment(ctx, done.ID, as(auth.RoleReceptionist, nil))
	var conflict *apperr.ConflictError
	if !errors.As(err, &conflict) || conflict.ResourceID != done.ID {
		t.Errorf("expected conflict on completed appointment, got %v", err)
	}
}

func TestService_GetAppointment_IncludePatient(t *testing.T) {
	f := newFixture()
	a := f.create(t, f.specialist)

	plain, err := f.svc.GetAppointment(context.Background(), a.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plain.Patient != nil {
		t.Error("patient must not be loaded unless included")
	}
	if _, ok := plain.ToResource(nil)["patient"]; ok {
		t.Error("document must not carry patient without include")
	}

	in := resource.Includes{"patient": true}
	full, err := f.svc.GetAppointment(context.Background(), a.ID, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc := full.ToResource(in)
	patient, ok := doc["patient"].(resource.Document)
	if !ok || patient["full_name"] != "Ana Gomez" {
		t.Errorf("expected embedded patient, got %v", doc["patient"])
	}
}

func TestService_UpdateAppointment_Partial(t *testing.T) {
	f := newFixture()
	a := f.create(t, f.specialist)
	req := as(auth.RoleReceptionist, validation.Input{"scheduled_at": "2024-06-01 15:30:00"})
	req.Params = validation.Params{"id": a.ID.String()}

	updated, err := f.svc.UpdateAppointment(context.Background(), a.ID, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ScheduledAt.Month() != time.June || updated.PatientID != f.patientID {
		t.Errorf("unexpected appointment %+v", updated)
	}
}
