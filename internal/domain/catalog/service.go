package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/lifecycle"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

// Service manages the items of one kind.
type Service struct {
	items  ItemRepository
	forms  forms
	engine *validation.Engine
	events lifecycle.Emitter
}

func NewService(items ItemRepository, engine *validation.Engine, events lifecycle.Emitter) *Service {
	if events == nil {
		events = lifecycle.Nop{}
	}
	return &Service{
		items:  items,
		forms:  formsFor(items.Kind()),
		engine: engine,
		events: events,
	}
}

func (s *Service) Kind() Kind { return s.items.Kind() }

func (s *Service) op(verb string) string { return verb + " " + string(s.Kind()) }

func (s *Service) CreateItem(ctx context.Context, req validation.Request) (*Item, error) {
	in, err := s.engine.Validate(ctx, s.forms.create, req)
	if err != nil {
		return nil, err
	}
	i := &Item{Kind: s.Kind()}
	if err := validation.Decode(in, i); err != nil {
		return nil, err
	}
	if err := s.items.Create(ctx, i); err != nil {
		return nil, apperr.Persistence(s.op("create"), err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Created{Entity: s.Kind().Entity(), Record: i}); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *Service) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	i, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence(s.op("get"), err)
	}
	return i, nil
}

func (s *Service) UpdateItem(ctx context.Context, id uuid.UUID, req validation.Request) (*Item, error) {
	i, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := s.engine.Validate(ctx, s.forms.update, req)
	if err != nil {
		return nil, err
	}
	if err := validation.Decode(in, i); err != nil {
		return nil, err
	}
	if err := s.items.Update(ctx, i); err != nil {
		return nil, apperr.Persistence(s.op("update"), err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Updated{Entity: s.Kind().Entity(), Record: i}); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *Service) DeleteItem(ctx context.Context, id uuid.UUID, req validation.Request) error {
	i, err := s.GetItem(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.engine.Validate(ctx, s.forms.delete, req); err != nil {
		return err
	}
	if err := s.items.Delete(ctx, id); err != nil {
		return apperr.Persistence(s.op("delete"), err)
	}
	return s.events.Dispatch(ctx, lifecycle.Deleted{Entity: s.Kind().Entity(), Record: i})
}

func (s *Service) SearchItems(ctx context.Context, params map[string]string, limit, offset int) ([]*Item, int, error) {
	items, total, err := s.items.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, apperr.Persistence(s.op("search"), err)
	}
	return items, total, nil
}
