package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/auth"
	"github.com/optiretail/optiretail/internal/platform/i18n"
	"github.com/optiretail/optiretail/internal/platform/lifecycle"
	"github.com/optiretail/optiretail/internal/platform/store"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

type mockItemRepo struct {
	kind  Kind
	items map[uuid.UUID]*Item
	mem   *store.Memory
}

func newMockItemRepo(k Kind, mem *store.Memory) *mockItemRepo {
	return &mockItemRepo{kind: k, items: make(map[uuid.UUID]*Item), mem: mem}
}

func (m *mockItemRepo) Kind() Kind { return m.kind }

func (m *mockItemRepo) Create(_ context.Context, i *Item) error {
	i.ID = uuid.New()
	i.CreatedAt = time.Now()
	i.UpdatedAt = time.Now()
	cp := *i
	m.items[i.ID] = &cp
	m.mem.Put(m.kind.Collection(), i.ID, store.Record{"name": i.Name, "price": i.Price})
	return nil
}

func (m *mockItemRepo) GetByID(_ context.Context, id uuid.UUID) (*Item, error) {
	i, ok := m.items[id]
	if !ok {
		return nil, apperr.NewNotFound(string(m.kind), id)
	}
	cp := *i
	return &cp, nil
}

func (m *mockItemRepo) Update(_ context.Context, i *Item) error {
	i.UpdatedAt = time.Now()
	cp := *i
	m.items[i.ID] = &cp
	m.mem.Put(m.kind.Collection(), i.ID, store.Record{"name": i.Name, "price": i.Price})
	return nil
}

func (m *mockItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	m.mem.Delete(m.kind.Collection(), id)
	return nil
}

func (m *mockItemRepo) Search(_ context.Context, _ map[string]string, limit, offset int) ([]*Item, int, error) {
	var result []*Item
	for _, i := range m.items {
		cp := *i
		result = append(result, &cp)
	}
	return result, len(result), nil
}

type recordingEmitter struct {
	events []lifecycle.Event
}

func (r *recordingEmitter) Dispatch(_ context.Context, ev lifecycle.Event) error {
	r.events = append(r.events, ev)
	return nil
}

func newTestServices() (lens, treatments *Service, events *recordingEmitter) {
	mem := store.NewMemory()
	engine := validation.NewEngine(mem, i18n.Default("en"), zerolog.Nop())
	events = &recordingEmitter{}
	lens = NewService(newMockItemRepo(KindLensType, mem), engine, events)
	treatments = NewService(newMockItemRepo(KindTreatment, mem), engine, events)
	return lens, treatments, events
}

func as(role auth.Role, input validation.Input) validation.Request {
	return validation.Request{
		Identity: auth.Identity{UserID: uuid.New(), Role: role},
		Params:   validation.Params{},
		Input:    input,
	}
}

func withID(req validation.Request, id uuid.UUID) validation.Request {
	req.Params = validation.Params{"id": id.String()}
	return req
}

func TestService_CreateItem(t *testing.T) {
	lens, _, events := newTestServices()
	i, err := lens.CreateItem(context.Background(), as(auth.RoleManager, validation.Input{
		"name":  "Progressive",
		"price": "1250.50",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if i.Kind != KindLensType || i.Price != 1250.50 {
		t.Errorf("unexpected item %+v", i)
	}
	if len(events.events) != 1 || events.events[0].Of() != KindLensType.Entity() {
		t.Errorf("expected one lens_type created event, got %v", events.events)
	}
}

func TestService_CreateItem_NegativePrice(t *testing.T) {
	lens, _, _ := newTestServices()
	_, err := lens.CreateItem(context.Background(), as(auth.RoleManager, validation.Input{
		"name":  "Bifocal",
		"price": -1,
	}))
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) || verr.First("price") == "" {
		t.Fatalf("expected price violation, got %v", err)
	}
}

func TestService_CreateItem_OnlyManagers(t *testing.T) {
	_, treatments, _ := newTestServices()
	_, err := treatments.CreateItem(context.Background(), as(auth.RoleSeller, validation.Input{
		"name":  "Anti-glare",
		"price": 30,
	}))
	if !errors.Is(err, apperr.ErrAuthorizationDenied) {
		t.Errorf("expected authorization denied, got %v", err)
	}
}

func TestService_NameUniqueWithSelfExclusion(t *testing.T) {
	lens, treatments, _ := newTestServices()
	ctx := context.Background()

	single, err := lens.CreateItem(ctx, as(auth.RoleManager, validation.Input{"name": "Single vision", "price": 80}))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	other, err := lens.CreateItem(ctx, as(auth.RoleManager, validation.Input{"name": "Bifocal", "price": 120}))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Same name, other record.
	_, err = lens.CreateItem(ctx, as(auth.RoleManager, validation.Input{"name": "Single vision", "price": 90}))
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) || verr.First("name") == "" {
		t.Errorf("expected unique violation, got %v", err)
	}
	_, err = lens.UpdateItem(ctx, other.ID, withID(as(auth.RoleManager, validation.Input{"name": "Single vision"}), other.ID))
	if !apperr.IsValidation(err) {
		t.Errorf("expected unique violation on rename, got %v", err)
	}

	// Own unchanged name.
	updated, err := lens.UpdateItem(ctx, single.ID, withID(as(auth.RoleManager, validation.Input{"name": "Single vision", "price": 85}), single.ID))
	if err != nil {
		t.Fatalf("self update must pass: %v", err)
	}
	if updated.Price != 85 {
		t.Errorf("expected price 85, got %v", updated.Price)
	}

	// Uniqueness is per kind.
	if _, err := treatments.CreateItem(ctx, as(auth.RoleManager, validation.Input{"name": "Single vision", "price": 10})); err != nil {
		t.Errorf("treatment may reuse a lens type name: %v", err)
	}
}

func TestService_DeleteItem(t *testing.T) {
	lens, _, events := newTestServices()
	ctx := context.Background()
	i, _ := lens.CreateItem(ctx, as(auth.RoleManager, validation.Input{"name": "Photochromic", "price": 200}))

	if err := lens.DeleteItem(ctx, i.ID, as(auth.RoleManager, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := lens.GetItem(ctx, i.ID); !apperr.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
	if events.events[len(events.events)-1].Kind() != "deleted" {
		t.Error("expected a deleted event")
	}
	if err := lens.DeleteItem(ctx, uuid.New(), as(auth.RoleManager, nil)); !apperr.IsNotFound(err) {
		t.Errorf("expected not found for unknown id, got %v", err)
	}
}
