package payroll

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/lifecycle"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

type Service struct {
	repo   Repository
	engine *validation.Engine
	events lifecycle.Emitter
}

func NewService(repo Repository, engine *validation.Engine, events lifecycle.Emitter) *Service {
	if events == nil {
		events = lifecycle.Nop{}
	}
	return &Service{repo: repo, engine: engine, events: events}
}

// check enforces the rules that need the merged record: the period must
// still be ordered and deductions may not exceed the gross pay.
func (s *Service) check(p *Payroll, in validation.Input, req validation.Request) error {
	verr := apperr.NewValidationError()
	if !p.PeriodEnd.After(p.PeriodStart) {
		if in.Has("period_end") {
			verr.Add("period_end", s.engine.Message(req.Lang, "period_end", "after", map[string]string{"other": "period_start"}))
		} else {
			verr.Add("period_start", s.engine.Message(req.Lang, "period_start", "before", map[string]string{"other": "period_end"}))
		}
	}
	if p.Deductions > p.Gross() {
		limit := strconv.FormatFloat(p.Gross(), 'f', 2, 64)
		verr.Add("deductions", s.engine.Message(req.Lang, "deductions", "max.numeric", map[string]string{"max": limit}))
	}
	if !verr.Empty() {
		return verr
	}
	p.computeNet()
	return nil
}

func (s *Service) CreatePayroll(ctx context.Context, req validation.Request) (*Payroll, error) {
	in, err := s.engine.Validate(ctx, createForm, req)
	if err != nil {
		return nil, err
	}
	p := &Payroll{}
	if err := validation.Decode(in, p); err != nil {
		return nil, err
	}
	if err := s.check(p, in, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apperr.Persistence("create payroll", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Created{Entity: EntityPayroll, Record: p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetPayroll(ctx context.Context, id uuid.UUID) (*Payroll, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get payroll", err)
	}
	return p, nil
}

func (s *Service) UpdatePayroll(ctx context.Context, id uuid.UUID, req validation.Request) (*Payroll, error) {
	p, err := s.GetPayroll(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := s.engine.Validate(ctx, updateForm, req)
	if err != nil {
		return nil, err
	}
	if err := validation.Decode(in, p); err != nil {
		return nil, err
	}
	if err := s.check(p, in, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, apperr.Persistence("update payroll", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Updated{Entity: EntityPayroll, Record: p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) DeletePayroll(ctx context.Context, id uuid.UUID, req validation.Request) error {
	p, err := s.GetPayroll(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.engine.Validate(ctx, deleteForm, req); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Persistence("delete payroll", err)
	}
	return s.events.Dispatch(ctx, lifecycle.Deleted{Entity: EntityPayroll, Record: p})
}

func (s *Service) SearchPayrolls(ctx context.Context, params map[string]string, limit, offset int) ([]*Payroll, int, error) {
	items, total, err := s.repo.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, apperr.Persistence("search payrolls", err)
	}
	return items, total, nil
}
