package clinical

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/optiretail/optiretail/internal/domain/scheduling"
	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/auth"
	"github.com/optiretail/optiretail/internal/platform/i18n"
	"github.com/optiretail/optiretail/internal/platform/lifecycle"
	"github.com/optiretail/optiretail/internal/platform/resource"
	"github.com/optiretail/optiretail/internal/platform/store"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

// -- Mock Repositories --

type mockPrescriptionRepo struct {
	items map[uuid.UUID]*Prescription
	mem   *store.Memory
}

func newMockPrescriptionRepo(mem *store.Memory) *mockPrescriptionRepo {
	return &mockPrescriptionRepo{items: make(map[uuid.UUID]*Prescription), mem: mem}
}

func (m *mockPrescriptionRepo) sync(p *Prescription) {
	rec := store.Record{"appointment_id": p.AppointmentID}
	if p.DeletedAt != nil {
		rec["deleted_at"] = *p.DeletedAt
	}
	m.mem.Put(store.Prescriptions, p.ID, rec)
}

func (m *mockPrescriptionRepo) Create(_ context.Context, p *Prescription) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	cp := *p
	m.items[p.ID] = &cp
	m.sync(p)
	return nil
}

func (m *mockPrescriptionRepo) GetByID(_ context.Context, id uuid.UUID) (*Prescription, error) {
	p, ok := m.items[id]
	if !ok || p.Trashed() {
		return nil, apperr.NewNotFound("prescription", id)
	}
	cp := *p
	return &cp, nil
}

func (m *mockPrescriptionRepo) GetTrashed(_ context.Context, id uuid.UUID) (*Prescription, error) {
	p, ok := m.items[id]
	if !ok || !p.Trashed() {
		return nil, apperr.NewNotFound("prescription", id)
	}
	cp := *p
	return &cp, nil
}

func (m *mockPrescriptionRepo) Update(_ context.Context, p *Prescription) error {
	p.UpdatedAt = time.Now()
	cp := *p
	m.items[p.ID] = &cp
	m.sync(p)
	return nil
}

func (m *mockPrescriptionRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := m.items[id]
	if !ok {
		return apperr.NewNotFound("prescription", id)
	}
	now := time.Now()
	p.DeletedAt = &now
	m.sync(p)
	return nil
}

func (m *mockPrescriptionRepo) Restore(_ context.Context, id uuid.UUID) error {
	p, ok := m.items[id]
	if !ok {
		return apperr.NewNotFound("prescription", id)
	}
	p.DeletedAt = nil
	m.sync(p)
	return nil
}

func (m *mockPrescriptionRepo) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Prescription, int, error) {
	var result []*Prescription
	for _, p := range m.items {
		if p.Trashed() {
			continue
		}
		cp := *p
		result = append(result, &cp)
	}
	return result, len(result), nil
}

type mockAppointmentStore struct {
	appts     map[uuid.UUID]*scheduling.Appointment
	statusErr error
	calls     int
}

func (m *mockAppointmentStore) GetByID(_ context.Context, id uuid.UUID) (*scheduling.Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, apperr.NewNotFound("appointment", id)
	}
	cp := *a
	return &cp, nil
}

func (m *mockAppointmentStore) SetStatus(_ context.Context, id uuid.UUID, status string) error {
	m.calls++
	if m.statusErr != nil {
		return m.statusErr
	}
	a, ok := m.appts[id]
	if !ok {
		return apperr.NewNotFound("appointment", id)
	}
	a.Status = status
	return nil
}

// recordingTx runs fn directly and remembers what it returned.
type recordingTx struct {
	runs int
	err  error
}

func (t *recordingTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.runs++
	t.err = fn(ctx)
	return t.err
}

type fixture struct {
	svc   *Service
	repo  *mockPrescriptionRepo
	appts *mockAppointmentStore
	tx    *recordingTx
	mem   *store.Memory
}

func newFixture() *fixture {
	mem := store.NewMemory()
	f := &fixture{
		repo:  newMockPrescriptionRepo(mem),
		appts: &mockAppointmentStore{appts: make(map[uuid.UUID]*scheduling.Appointment)},
		tx:    &recordingTx{},
		mem:   mem,
	}
	dispatcher := lifecycle.NewDispatcher(zerolog.Nop())
	dispatcher.Subscribe(EntityPrescription, NewAppointmentCompleter(f.appts, zerolog.Nop()))

	engine := validation.NewEngine(mem, i18n.Default("en"), zerolog.Nop())
	f.svc = NewService(f.repo, f.appts, f.tx, engine, dispatcher)
	return f
}

// appointment registers a scheduled appointment in both the store and the
// appointment repository.
func (f *fixture) appointment() uuid.UUID {
	id := uuid.New()
	f.appts.appts[id] = &scheduling.Appointment{ID: id, PatientID: uuid.New(), Status: scheduling.StatusScheduled}
	f.mem.Put(store.Appointments, id, store.Record{"status": scheduling.StatusScheduled})
	return id
}

func as(role auth.Role, input validation.Input) validation.Request {
	return validation.Request{
		Identity: auth.Identity{UserID: uuid.New(), Role: role},
		Params:   validation.Params{},
		Input:    input,
	}
}

func (f *fixture) create(t *testing.T, appointmentID uuid.UUID) *Prescription {
	t.Helper()
	p, err := f.svc.CreatePrescription(context.Background(), as(auth.RoleSpecialist, validation.Input{
		"appointment_id": appointmentID.String(),
		"od_sphere":      -1.25,
		"od_cylinder":    -0.5,
		"od_axis":        90,
	}))
	if err != nil {
		t.Fatalf("create prescription: %v", err)
	}
	return p
}

func TestService_CreatePrescription_CompletesAppointment(t *testing.T) {
	f := newFixture()
	apptID := f.appointment()

	p := f.create(t, apptID)
	if p.OdSphere == nil || *p.OdSphere != -1.25 || p.OdAxis == nil || *p.OdAxis != 90 {
		t.Errorf("unexpected refraction %+v", p)
	}

	a, err := f.appts.GetByID(context.Background(), apptID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != scheduling.StatusCompleted {
		t.Errorf("expected appointment completed, got %s", a.Status)
	}
	if f.tx.runs != 1 || f.tx.err != nil {
		t.Errorf("expected one committed transaction, got runs=%d err=%v", f.tx.runs, f.tx.err)
	}
}

func TestService_CreatePrescription_AppointmentVanished(t *testing.T) {
	f := newFixture()
	// Passes the existence rule but is gone by the time the observer runs.
	apptID := uuid.New()
	f.mem.Put(store.Appointments, apptID, store.Record{})

	p := f.create(t, apptID)
	if _, err := f.repo.GetByID(context.Background(), p.ID); err != nil {
		t.Errorf("prescription must still be stored: %v", err)
	}
	if f.appts.calls != 0 {
		t.Error("no status change may be attempted for a missing appointment")
	}
}

func TestService_CreatePrescription_StatusFailurePropagates(t *testing.T) {
	f := newFixture()
	apptID := f.appointment()
	f.appts.statusErr = errors.New("connection reset")

	_, err := f.svc.CreatePrescription(context.Background(), as(auth.RoleSpecialist, validation.Input{
		"appointment_id": apptID.String(),
	}))
	if !apperr.IsPersistence(err) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if f.tx.err == nil {
		t.Error("transaction must see the failure so it rolls back")
	}
}

func TestService_CreatePrescription_Invalid(t *testing.T) {
	f := newFixture()
	_, err := f.svc.CreatePrescription(context.Background(), as(auth.RoleSpecialist, validation.Input{
		"appointment_id":     uuid.New().String(),
		"od_sphere":          "plus one",
		"od_axis":            200,
		"pupillary_distance": 12,
	}))
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"appointment_id", "od_sphere", "od_axis", "pupillary_distance"} {
		if verr.First(field) == "" {
			t.Errorf("expected %s to fail", field)
		}
	}
	if f.tx.runs != 0 {
		t.Error("nothing may be persisted when validation fails")
	}
}

func TestService_CreatePrescription_DeniedBeforeValidation(t *testing.T) {
	f := newFixture()
	_, err := f.svc.CreatePrescription(context.Background(), as(auth.RoleReceptionist, validation.Input{
		"od_axis": "sideways",
	}))
	if !errors.Is(err, apperr.ErrAuthorizationDenied) {
		t.Fatalf("expected authorization denied, got %v", err)
	}
	if apperr.IsValidation(err) {
		t.Error("a denied request must not report validation errors")
	}
}

func TestService_DeleteAndRestore(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t, f.appointment())

	if err := f.svc.DeletePrescription(ctx, p.ID, as(auth.RoleSpecialist, nil)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.GetPrescription(ctx, p.ID, nil); !apperr.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
	exists, _ := f.mem.Exists(ctx, store.Prescriptions, store.ByID(p.ID))
	if exists {
		t.Error("trashed prescription must not satisfy reference checks")
	}

	restored, err := f.svc.RestorePrescription(ctx, p.ID, as(auth.RoleManager, nil))
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Trashed() {
		t.Error("expected restored prescription to be live")
	}
	if _, err := f.svc.RestorePrescription(ctx, p.ID, as(auth.RoleManager, nil)); !apperr.IsNotFound(err) {
		t.Errorf("restoring a live prescription must be not found, got %v", err)
	}
}

func TestService_UpdatePrescription_ClearsField(t *testing.T) {
	f := newFixture()
	p := f.create(t, f.appointment())

	updated, err := f.svc.UpdatePrescription(context.Background(), p.ID, as(auth.RoleSpecialist, validation.Input{
		"od_cylinder": nil,
		"diagnosis":   "myopia",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.OdCylinder != nil {
		t.Error("expected od_cylinder cleared")
	}
	if updated.OdSphere == nil || *updated.OdSphere != -1.25 {
		t.Error("untouched fields must keep their value")
	}
	if updated.Diagnosis == nil || *updated.Diagnosis != "myopia" {
		t.Errorf("unexpected diagnosis %v", updated.Diagnosis)
	}
}

func TestService_GetPrescription_IncludeAppointment(t *testing.T) {
	f := newFixture()
	apptID := f.appointment()
	p := f.create(t, apptID)

	in := resource.Includes{"appointment": true}
	got, err := f.svc.GetPrescription(context.Background(), p.ID, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc := got.ToResource(in)
	appt, ok := doc["appointment"].(resource.Document)
	if !ok || appt["status"] != scheduling.StatusCompleted {
		t.Errorf("expected embedded completed appointment, got %v", doc["appointment"])
	}
}

func TestAppointmentCompleter(t *testing.T) {
	appts := &mockAppointmentStore{appts: make(map[uuid.UUID]*scheduling.Appointment)}
	c := NewAppointmentCompleter(appts, zerolog.Nop())
	ctx := context.Background()

	apptID := uuid.New()
	appts.appts[apptID] = &scheduling.Appointment{ID: apptID, Status: scheduling.StatusInProgress}
	rx := &Prescription{ID: uuid.New(), AppointmentID: apptID}

	tests := []struct {
		name  string
		ev    lifecycle.Event
		calls int
	}{
		{"updated is a no-op", lifecycle.Updated{Entity: EntityPrescription, Record: rx}, 0},
		{"deleted is a no-op", lifecycle.Deleted{Entity: EntityPrescription, Record: rx}, 0},
		{"restored is a no-op", lifecycle.Restored{Entity: EntityPrescription, Record: rx}, 0},
		{"missing appointment", lifecycle.Created{Entity: EntityPrescription, Record: &Prescription{AppointmentID: uuid.New()}}, 0},
		{"created completes", lifecycle.Created{Entity: EntityPrescription, Record: rx}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appts.calls = 0
			if err := c.Handle(ctx, tt.ev); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if appts.calls != tt.calls {
				t.Errorf("expected %d status writes, got %d", tt.calls, appts.calls)
			}
		})
	}
	if appts.appts[apptID].Status != scheduling.StatusCompleted {
		t.Errorf("expected completed, got %s", appts.appts[apptID].Status)
	}
}
