package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/auth"
	"github.com/optiretail/optiretail/internal/platform/i18n"
	"github.com/optiretail/optiretail/internal/platform/lifecycle"
	"github.com/optiretail/optiretail/internal/platform/store"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

// -- Mock Repositories --

// mockRepo keeps records of one type and mirrors them into the record store.
type mockRepo[T any] struct {
	items      map[uuid.UUID]*T
	mem        *store.Memory
	collection store.Collection
	id         func(*T) *uuid.UUID
	record     func(*T) store.Record
}

func (m *mockRepo[T]) Create(_ context.Context, v *T) error {
	*m.id(v) = uuid.New()
	cp := *v
	m.items[*m.id(v)] = &cp
	m.mem.Put(m.collection, *m.id(v), m.record(v))
	return nil
}

func (m *mockRepo[T]) GetByID(_ context.Context, id uuid.UUID) (*T, error) {
	v, ok := m.items[id]
	if !ok {
		return nil, apperr.NewNotFound(string(m.collection), id)
	}
	cp := *v
	return &cp, nil
}

func (m *mockRepo[T]) Update(_ context.Context, v *T) error {
	cp := *v
	m.items[*m.id(v)] = &cp
	m.mem.Put(m.collection, *m.id(v), m.record(v))
	return nil
}

func (m *mockRepo[T]) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return apperr.NewNotFound(string(m.collection), id)
	}
	delete(m.items, id)
	m.mem.Delete(m.collection, id)
	return nil
}

func (m *mockRepo[T]) Search(_ context.Context, _ map[string]string, limit, offset int) ([]*T, int, error) {
	var result []*T
	for _, v := range m.items {
		cp := *v
		result = append(result, &cp)
	}
	return result, len(result), nil
}

func newMockRepo[T any](mem *store.Memory, c store.Collection, id func(*T) *uuid.UUID, record func(*T) store.Record) *mockRepo[T] {
	return &mockRepo[T]{items: make(map[uuid.UUID]*T), mem: mem, collection: c, id: id, record: record}
}

type fixture struct {
	svc *Service
	mem *store.Memory
}

func newFixture() *fixture {
	mem := store.NewMemory()
	wh := newMockRepo(mem, store.Warehouses,
		func(w *Warehouse) *uuid.UUID { return &w.ID },
		func(w *Warehouse) store.Record { return store.Record{"name": w.Name} })
	loc := newMockRepo(mem, store.WarehouseLocations,
		func(l *Location) *uuid.UUID { return &l.ID },
		func(l *Location) store.Record { return store.Record{"warehouse_id": l.WarehouseID, "code": l.Code} })
	prod := newMockRepo(mem, store.Products,
		func(p *Product) *uuid.UUID { return &p.ID },
		func(p *Product) store.Record { return store.Record{"sku": p.SKU, "price": p.Price} })
	tr := newMockRepo(mem, store.InventoryTransfers,
		func(t *Transfer) *uuid.UUID { return &t.ID },
		func(t *Transfer) store.Record { return store.Record{"status": t.Status} })

	engine := validation.NewEngine(mem, i18n.Default("en"), zerolog.Nop())
	return &fixture{svc: NewService(wh, loc, prod, tr, engine, lifecycle.Nop{}), mem: mem}
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

func validationErr(t *testing.T, err error) *apperr.ValidationError {
	t.Helper()
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	return verr
}

func (f *fixture) warehouse(t *testing.T, name string) *Warehouse {
	t.Helper()
	w, err := f.svc.CreateWarehouse(context.Background(), as(auth.RoleManager, validation.Input{"name": name}))
	if err != nil {
		t.Fatalf("create warehouse: %v", err)
	}
	return w
}

func (f *fixture) location(t *testing.T, warehouseID uuid.UUID, code string) *Location {
	t.Helper()
	l, err := f.svc.CreateLocation(context.Background(), as(auth.RoleManager, validation.Input{
		"warehouse_id": warehouseID.String(),
		"code":         code,
	}))
	if err != nil {
		t.Fatalf("create location: %v", err)
	}
	return l
}

func (f *fixture) product(t *testing.T, sku string) *Product {
	t.Helper()
	p, err := f.svc.CreateProduct(context.Background(), as(auth.RoleManager, validation.Input{
		"sku":   sku,
		"name":  "Frame " + sku,
		"price": 99.9,
	}))
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func TestService_WarehouseNameUnique(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	hq := f.warehouse(t, "Main")

	_, err := f.svc.CreateWarehouse(ctx, as(auth.RoleManager, validation.Input{"name": "Main"}))
	if validationErr(t, err).First("name") == "" {
		t.Error("expected name to be taken")
	}
	if _, err := f.svc.UpdateWarehouse(ctx, hq.ID, withID(as(auth.RoleManager, validation.Input{"name": "Main"}), hq.ID)); err != nil {
		t.Errorf("self update must pass: %v", err)
	}
}

func TestService_LocationCodeUniquePerWarehouse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	north := f.warehouse(t, "North")
	south := f.warehouse(t, "South")
	a1 := f.location(t, north.ID, "A-1")

	_, err := f.svc.CreateLocation(ctx, as(auth.RoleManager, validation.Input{
		"warehouse_id": north.ID.String(),
		"code":         "A-1",
	}))
	if validationErr(t, err).First("code") == "" {
		t.Error("expected code to be taken within the warehouse")
	}

	// Same code in another warehouse.
	f.location(t, south.ID, "A-1")

	// Partial update of the code alone scopes by the stored warehouse.
	b2 := f.location(t, north.ID, "B-2")
	_, err = f.svc.UpdateLocation(ctx, b2.ID, withID(as(auth.RoleManager, validation.Input{"code": "A-1"}), b2.ID))
	if validationErr(t, err).First("code") == "" {
		t.Error("expected code clash with the stored warehouse")
	}
	if _, err := f.svc.UpdateLocation(ctx, a1.ID, withID(as(auth.RoleManager, validation.Input{"code": "A-1"}), a1.ID)); err != nil {
		t.Errorf("self update must pass: %v", err)
	}
}

func TestService_UpdateLocation_MoveKeepsCodeUnique(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	north := f.warehouse(t, "North")
	south := f.warehouse(t, "South")
	f.location(t, north.ID, "A-1")
	moved := f.location(t, south.ID, "A-1")

	_, err := f.svc.UpdateLocation(ctx, moved.ID, withID(as(auth.RoleManager, validation.Input{
		"warehouse_id": north.ID.String(),
	}), moved.ID))
	if validationErr(t, err).First("code") == "" {
		t.Error("expected the stored code to clash in the new warehouse")
	}

	east := f.warehouse(t, "East")
	updated, err := f.svc.UpdateLocation(ctx, moved.ID, withID(as(auth.RoleManager, validation.Input{
		"warehouse_id": east.ID.String(),
	}), moved.ID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.WarehouseID != east.ID || updated.Code != "A-1" {
		t.Errorf("unexpected location %+v", updated)
	}
}

func TestService_CreateLocation_UnknownWarehouse(t *testing.T) {
	f := newFixture()
	_, err := f.svc.CreateLocation(context.Background(), as(auth.RoleManager, validation.Input{
		"warehouse_id": uuid.New().String(),
		"code":         "A-1",
	}))
	if validationErr(t, err).First("warehouse_id") != "The selected warehouse is invalid." {
		t.Errorf("unexpected message %v", err)
	}
}

func TestService_CreateProduct_Price(t *testing.T) {
	tests := []struct {
		price interface{}
		ok    bool
	}{
		{0.01, true},
		{"15", true},
		{0, false},
		{-5, false},
		{"cheap", false},
	}
	for _, tt := range tests {
		f := newFixture()
		_, err := f.svc.CreateProduct(context.Background(), as(auth.RoleManager, validation.Input{
			"sku":   "SKU-1",
			"name":  "Frame",
			"price": tt.price,
		}))
		if tt.ok && err != nil {
			t.Errorf("price %v: unexpected error %v", tt.price, err)
		}
		if !tt.ok && validationErr(t, err).First("price") == "" {
			t.Errorf("price %v: expected violation", tt.price)
		}
	}
}

func TestService_CreateProduct_LensType(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	lensType := uuid.New()
	f.mem.Put(store.LensTypes, lensType, store.Record{"name": "Progressive"})

	p, err := f.svc.CreateProduct(ctx, as(auth.RoleManager, validation.Input{
		"sku": "LENS-1", "name": "Lens", "price": 150, "lens_type_id": lensType.String(),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.LensTypeID == nil || *p.LensTypeID != lensType {
		t.Errorf("expected lens type, got %v", p.LensTypeID)
	}

	_, err = f.svc.CreateProduct(ctx, as(auth.RoleManager, validation.Input{
		"sku": "LENS-2", "name": "Lens", "price": 150, "lens_type_id": uuid.New().String(),
	}))
	if validationErr(t, err).First("lens_type_id") == "" {
		t.Error("expected unknown lens type to fail")
	}
}

func TestService_CreateTransfer(t *testing.T) {
	f := newFixture()
	w := f.warehouse(t, "Main")
	src := f.location(t, w.ID, "A-1")
	dst := f.location(t, w.ID, "B-1")
	p := f.product(t, "F-1")

	req := as(auth.RoleSeller, validation.Input{
		"product_id":              p.ID.String(),
		"source_location_id":      src.ID.String(),
		"destination_location_id": dst.ID.String(),
		"quantity":                3,
	})
	tr, err := f.svc.CreateTransfer(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Status != TransferPending || tr.Quantity != 3 || tr.RequestedBy != req.Identity.UserID {
		t.Errorf("unexpected transfer %+v", tr)
	}
}

func TestService_CreateTransfer_Rules(t *testing.T) {
	f := newFixture()
	w := f.warehouse(t, "Main")
	src := f.location(t, w.ID, "A-1")
	dst := f.location(t, w.ID, "B-1")
	p := f.product(t, "F-1")

	tests := []struct {
		name  string
		dest  uuid.UUID
		qty   interface{}
		field string
	}{
		{"same location", src.ID, 1, "destination_location_id"},
		{"zero quantity", dst.ID, 0, "quantity"},
		{"fractional quantity", dst.ID, 1.5, "quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateTransfer(context.Background(), as(auth.RoleManager, validation.Input{
				"product_id":              p.ID.String(),
				"source_location_id":      src.ID.String(),
				"destination_location_id": tt.dest.String(),
				"quantity":                tt.qty,
			}))
			if validationErr(t, err).First(tt.field) == "" {
				t.Errorf("expected %s to fail", tt.field)
			}
		})
	}
}

func TestService_UpdateTransfer_MustStillDiffer(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	w := f.warehouse(t, "Main")
	src := f.location(t, w.ID, "A-1")
	dst := f.location(t, w.ID, "B-1")
	p := f.product(t, "F-1")
	tr, err := f.svc.CreateTransfer(ctx, as(auth.RoleManager, validation.Input{
		"product_id":              p.ID.String(),
		"source_location_id":      src.ID.String(),
		"destination_location_id": dst.ID.String(),
		"quantity":                1,
	}))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = f.svc.UpdateTransfer(ctx, tr.ID, withID(as(auth.RoleManager, validation.Input{
		"destination_location_id": src.ID.String(),
	}), tr.ID))
	if validationErr(t, err).First("destination_location_id") == "" {
		t.Error("expected destination to clash with the stored source")
	}

	updated, err := f.svc.UpdateTransfer(ctx, tr.ID, withID(as(auth.RoleManager, validation.Input{
		"status": TransferInTransit,
	}), tr.ID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != TransferInTransit || updated.DestinationLocationID != dst.ID {
		t.Errorf("unexpected transfer %+v", updated)
	}
}

func TestService_DeleteTransfer_OnlyManagers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	w := f.warehouse(t, "Main")
	src := f.location(t, w.ID, "A-1")
	dst := f.location(t, w.ID, "B-1")
	p := f.product(t, "F-1")
	tr, _ := f.svc.CreateTransfer(ctx, as(auth.RoleManager, validation.Input{
		"product_id":              p.ID.String(),
		"source_location_id":      src.ID.String(),
		"destination_location_id": dst.ID.String(),
		"quantity":                1,
	}))

	if err := f.svc.DeleteTransfer(ctx, tr.ID, as(auth.RoleSeller, nil)); !errors.Is(err, apperr.ErrAuthorizationDenied) {
		t.Errorf("expected authorization denied, got %v", err)
	}
	if err := f.svc.DeleteTransfer(ctx, tr.ID, as(auth.RoleManager, nil)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := f.svc.GetTransfer(ctx, tr.ID); !apperr.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}
