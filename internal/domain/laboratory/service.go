package laboratory

import (
	"context"

	"github.com/google/uuid"

	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/lifecycle"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

type Service struct {
	labs   LaboratoryRepository
	orders OrderRepository
	engine *validation.Engine
	events lifecycle.Emitter
}

func NewService(labs LaboratoryRepository, orders OrderRepository, engine *validation.Engine, events lifecycle.Emitter) *Service {
	if events == nil {
		events = lifecycle.Nop{}
	}
	return &Service{labs: labs, orders: orders, engine: engine, events: events}
}

// -- Laboratory --

func (s *Service) CreateLaboratory(ctx context.Context, req validation.Request) (*Laboratory, error) {
	in, err := s.engine.Validate(ctx, createLaboratoryForm, req)
	if err != nil {
		return nil, err
	}
	l := &Laboratory{}
	if err := validation.Decode(in, l); err != nil {
		return nil, err
	}
	if err := s.labs.Create(ctx, l); err != nil {
		return nil, apperr.Persistence("create laboratory", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Created{Entity: EntityLaboratory, Record: l}); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) GetLaboratory(ctx context.Context, id uuid.UUID) (*Laboratory, error) {
	l, err := s.labs.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get laboratory", err)
	}
	return l, nil
}

func (s *Service) UpdateLaboratory(ctx context.Context, id uuid.UUID, req validation.Request) (*Laboratory, error) {
	l, err := s.GetLaboratory(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := s.engine.Validate(ctx, updateLaboratoryForm, req)
	if err != nil {
		return nil, err
	}
	if err := validation.Decode(in, l); err != nil {
		return nil, err
	}
	if err := s.labs.Update(ctx, l); err != nil {
		return nil, apperr.Persistence("update laboratory", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Updated{Entity: EntityLaboratory, Record: l}); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) DeleteLaboratory(ctx context.Context, id uuid.UUID, req validation.Request) error {
	l, err := s.GetLaboratory(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.engine.Validate(ctx, deleteLaboratoryForm, req); err != nil {
		return err
	}
	if err := s.labs.Delete(ctx, id); err != nil {
		return apperr.Persistence("delete laboratory", err)
	}
	return s.events.Dispatch(ctx, lifecycle.Deleted{Entity: EntityLaboratory, Record: l})
}

func (s *Service) SearchLaboratories(ctx context.Context, params map[string]string, limit, offset int) ([]*Laboratory, int, error) {
	items, total, err := s.labs.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, apperr.Persistence("search laboratories", err)
	}
	return items, total, nil
}

// -- Lab order --

func (s *Service) CreateOrder(ctx context.Context, req validation.Request) (*Order, error) {
	in, err := s.engine.Validate(ctx, createOrderForm, req)
	if err != nil {
		return nil, err
	}
	o := &Order{Status: OrderPending}
	if err := validation.Decode(in, o); err != nil {
		return nil, err
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, apperr.Persistence("create lab order", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Created{Entity: EntityLabOrder, Record: o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get lab order", err)
	}
	return o, nil
}

// UpdateOrder applies a partial update. The due date must still fall after
// the order date when only one of them is sent.
func (s *Service) UpdateOrder(ctx context.Context, id uuid.UUID, req validation.Request) (*Order, error) {
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := s.engine.Validate(ctx, updateOrderForm, req)
	if err != nil {
		return nil, err
	}
	if err := validation.Decode(in, o); err != nil {
		return nil, err
	}
	if o.DueDate != nil && !o.DueDate.After(o.OrderedAt) {
		verr := apperr.NewValidationError()
		if in.Has("due_date") {
			verr.Add("due_date", s.engine.Message(req.Lang, "due_date", "after", map[string]string{"other": "ordered_at"}))
		} else {
			verr.Add("ordered_at", s.engine.Message(req.Lang, "ordered_at", "before", map[string]string{"other": "due_date"}))
		}
		return nil, verr
	}
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, apperr.Persistence("update lab order", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Updated{Entity: EntityLabOrder, Record: o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id uuid.UUID, req validation.Request) error {
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.engine.Validate(ctx, deleteOrderForm, req); err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return apperr.Persistence("delete lab order", err)
	}
	return s.events.Dispatch(ctx, lifecycle.Deleted{Entity: EntityLabOrder, Record: o})
}

func (s *Service) SearchOrders(ctx context.Context, params map[string]string, limit, offset int) ([]*Order, int, error) {
	items, total, err := s.orders.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, apperr.Persistence("search lab orders", err)
	}
	return items, total, nil
}
