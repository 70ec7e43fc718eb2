package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/lifecycle"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

type Service struct {
	warehouses WarehouseRepository
	locations  LocationRepository
	products   ProductRepository
	transfers  TransferRepository
	engine     *validation.Engine
	events     lifecycle.Emitter
}

func NewService(wh WarehouseRepository, loc LocationRepository, prod ProductRepository, tr TransferRepository, engine *validation.Engine, events lifecycle.Emitter) *Service {
	if events == nil {
		events = lifecycle.Nop{}
	}
	return &Service{
		warehouses: wh,
		locations:  loc,
		products:   prod,
		transfers:  tr,
		engine:     engine,
		events:     events,
	}
}

// -- Warehouse --

func (s *Service) CreateWarehouse(ctx context.Context, req validation.Request) (*Warehouse, error) {
	in, err := s.engine.Validate(ctx, createWarehouseForm, req)
	if err != nil {
		return nil, err
	}
	w := &Warehouse{}
	if err := validation.Decode(in, w); err != nil {
		return nil, err
	}
	if err := s.warehouses.Create(ctx, w); err != nil {
		return nil, apperr.Persistence("create warehouse", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Created{Entity: EntityWarehouse, Record: w}); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Service) GetWarehouse(ctx context.Context, id uuid.UUID) (*Warehouse, error) {
	w, err := s.warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get warehouse", err)
	}
	return w, nil
}

func (s *Service) UpdateWarehouse(ctx context.Context, id uuid.UUID, req validation.Request) (*Warehouse, error) {
	w, err := s.GetWarehouse(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := s.engine.Validate(ctx, updateWarehouseForm, req)
	if err != nil {
		return nil, err
	}
	if err := validation.Decode(in, w); err != nil {
		return nil, err
	}
	if err := s.warehouses.Update(ctx, w); err != nil {
		return nil, apperr.Persistence("update warehouse", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Updated{Entity: EntityWarehouse, Record: w}); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Service) DeleteWarehouse(ctx context.Context, id uuid.UUID, req validation.Request) error {
	w, err := s.GetWarehouse(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.engine.Validate(ctx, deleteWarehouseForm, req); err != nil {
		return err
	}
	if err := s.warehouses.Delete(ctx, id); err != nil {
		return apperr.Persistence("delete warehouse", err)
	}
	return s.events.Dispatch(ctx, lifecycle.Deleted{Entity: EntityWarehouse, Record: w})
}

func (s *Service) SearchWarehouses(ctx context.Context, params map[string]string, limit, offset int) ([]*Warehouse, int, error) {
	items, total, err := s.warehouses.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, apperr.Persistence("search warehouses", err)
	}
	return items, total, nil
}

// -- Location --

func (s *Service) CreateLocation(ctx context.Context, req validation.Request) (*Location, error) {
	in, err := s.engine.Validate(ctx, createLocationForm, req)
	if err != nil {
		return nil, err
	}
	l := &Location{}
	if err := validation.Decode(in, l); err != nil {
		return nil, err
	}
	if err := s.locations.Create(ctx, l); err != nil {
		return nil, apperr.Persistence("create warehouse location", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Created{Entity: EntityLocation, Record: l}); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) GetLocation(ctx context.Context, id uuid.UUID) (*Location, error) {
	l, err := s.locations.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get warehouse location", err)
	}
	return l, nil
}

func (s *Service) UpdateLocation(ctx context.Context, id uuid.UUID, req validation.Request) (*Location, error) {
	l, err := s.GetLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := s.engine.Validate(ctx, updateLocationForm, req)
	if err != nil {
		return nil, err
	}
	if err := validation.Decode(in, l); err != nil {
		return nil, err
	}
	if err := s.locations.Update(ctx, l); err != nil {
		return nil, apperr.Persistence("update warehouse location", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Updated{Entity: EntityLocation, Record: l}); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) DeleteLocation(ctx context.Context, id uuid.UUID, req validation.Request) error {
	l, err := s.GetLocation(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.engine.Validate(ctx, deleteLocationForm, req); err != nil {
		return err
	}
	if err := s.locations.Delete(ctx, id); err != nil {
		return apperr.Persistence("delete warehouse location", err)
	}
	return s.events.Dispatch(ctx, lifecycle.Deleted{Entity: EntityLocation, Record: l})
}

func (s *Service) SearchLocations(ctx context.Context, params map[string]string, limit, offset int) ([]*Location, int, error) {
	items, total, err := s.locations.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, apperr.Persistence("search warehouse locations", err)
	}
	return items, total, nil
}

// -- Product --

func (s *Service) CreateProduct(ctx context.Context, req validation.Request) (*Product, error) {
	in, err := s.engine.Validate(ctx, createProductForm, req)
	if err != nil {
		return nil, err
	}
	p := &Product{}
	if err := validation.Decode(in, p); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, apperr.Persistence("create product", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Created{Entity: EntityProduct, Record: p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get product", err)
	}
	return p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, req validation.Request) (*Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := s.engine.Validate(ctx, updateProductForm, req)
	if err != nil {
		return nil, err
	}
	if err := validation.Decode(in, p); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, apperr.Persistence("update product", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Updated{Entity: EntityProduct, Record: p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID, req validation.Request) error {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.engine.Validate(ctx, deleteProductForm, req); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return apperr.Persistence("delete product", err)
	}
	return s.events.Dispatch(ctx, lifecycle.Deleted{Entity: EntityProduct, Record: p})
}

func (s *Service) SearchProducts(ctx context.Context, params map[string]string, limit, offset int) ([]*Product, int, error) {
	items, total, err := s.products.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, apperr.Persistence("search products", err)
	}
	return items, total, nil
}

// -- Transfer --

func (s *Service) CreateTransfer(ctx context.Context, req validation.Request) (*Transfer, error) {
	in, err := s.engine.Validate(ctx, createTransferForm, req)
	if err != nil {
		return nil, err
	}
	t := &Transfer{Status: TransferPending, RequestedBy: req.Identity.UserID}
	if err := validation.Decode(in, t); err != nil {
		return nil, err
	}
	if err := s.transfers.Create(ctx, t); err != nil {
		return nil, apperr.Persistence("create inventory transfer", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Created{Entity: EntityTransfer, Record: t}); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) GetTransfer(ctx context.Context, id uuid.UUID) (*Transfer, error) {
	t, err := s.transfers.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get inventory transfer", err)
	}
	return t, nil
}

// UpdateTransfer applies a partial update. The source and destination must
// still differ afterwards, including when only one of them is sent.
func (s *Service) UpdateTransfer(ctx context.Context, id uuid.UUID, req validation.Request) (*Transfer, error) {
	t, err := s.GetTransfer(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := s.engine.Validate(ctx, updateTransferForm, req)
	if err != nil {
		return nil, err
	}
	if err := validation.Decode(in, t); err != nil {
		return nil, err
	}
	if t.SourceLocationID == t.DestinationLocationID {
		verr := apperr.NewValidationError()
		field := "destination_location_id"
		if !in.Has(field) {
			field = "source_location_id"
		}
		verr.Add(field, s.engine.Message(req.Lang, field, "different", map[string]string{"other": otherLocation(field)}))
		return nil, verr
	}
	if err := s.transfers.Update(ctx, t); err != nil {
		return nil, apperr.Persistence("update inventory transfer", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Updated{Entity: EntityTransfer, Record: t}); err != nil {
		return nil, err
	}
	return t, nil
}

func otherLocation(field string) string {
	if field == "source_location_id" {
		return "destination_location_id"
	}
	return "source_location_id"
}

func (s *Service) DeleteTransfer(ctx context.Context, id uuid.UUID, req validation.Request) error {
	t, err := s.GetTransfer(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.engine.Validate(ctx, deleteTransferForm, req); err != nil {
		return err
	}
	if err := s.transfers.Delete(ctx, id); err != nil {
		return apperr.Persistence("delete inventory transfer", err)
	}
	return s.events.Dispatch(ctx, lifecycle.Deleted{Entity: EntityTransfer, Record: t})
}

func (s *Service) SearchTransfers(ctx context.Context, params map[string]string, limit, offset int) ([]*Transfer, int, error) {
	items, total, err := s.transfers.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, apperr.Persistence("search inventory transfers", err)
	}
	return items, total, nil
}
