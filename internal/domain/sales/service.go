package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/optiretail/optiretail/internal/domain/identity"
	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/db"
	"github.com/optiretail/optiretail/internal/platform/lifecycle"
	"github.com/optiretail/optiretail/internal/platform/resource"
	"github.com/optiretail/optiretail/internal/platform/store"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

// PatientReader loads patients for the "patient" include.
type PatientReader interface {
	GetPatient(ctx context.Context, id uuid.UUID) (*identity.Patient, error)
}

type Service struct {
	sales       SaleRepository
	payments    PaymentRepository
	adjustments AdjustmentRepository
	patients    PatientReader
	tx          db.Transactor
	engine      *validation.Engine
	events      lifecycle.Emitter
}

func NewService(sales SaleRepository, payments PaymentRepository, adjustments AdjustmentRepository, patients PatientReader, tx db.Transactor, engine *validation.Engine, events lifecycle.Emitter) *Service {
	if events == nil {
		events = lifecycle.Nop{}
	}
	if tx == nil {
		tx = db.NoTx{}
	}
	return &Service{
		sales:       sales,
		payments:    payments,
		adjustments: adjustments,
		patients:    patients,
		tx:          tx,
		engine:      engine,
		events:      events,
	}
}

// -- Sales --

// CreateSale opens a sale. The balance starts at the total and the seller
// defaults to the caller.
func (s *Service) CreateSale(ctx context.Context, req validation.Request) (*Sale, error) {
	in, err := s.engine.Validate(ctx, createSaleForm, req)
	if err != nil {
		return nil, err
	}
	sale := &Sale{Status: StatusOpen, SellerID: req.Identity.UserID}
	if err := validation.Decode(in, sale); err != nil {
		return nil, err
	}
	sale.Balance = sale.Total
	if err := s.sales.Create(ctx, sale); err != nil {
		return nil, apperr.Persistence("create sale", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Created{Entity: EntitySale, Record: sale}); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *Service) GetSale(ctx context.Context, id uuid.UUID, in resource.Includes) (*Sale, error) {
	sale, err := s.sales.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get sale", err)
	}
	if err := s.load(ctx, []*Sale{sale}, in); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *Service) load(ctx context.Context, items []*Sale, in resource.Includes) error {
	patients := map[uuid.UUID]*identity.Patient{}
	for _, sale := range items {
		if in.Has("patient") && s.patients != nil {
			p, ok := patients[sale.PatientID]
			if !ok {
				var err error
				p, err = s.patients.GetPatient(ctx, sale.PatientID)
				if err != nil && !apperr.IsNotFound(err) {
					return apperr.Persistence("load patient", err)
				}
				patients[sale.PatientID] = p
			}
			sale.Patient = p
		}
		if in.Has("payments") {
			payments, err := s.payments.ListBySale(ctx, sale.ID)
			if err != nil {
				return apperr.Persistence("load payments", err)
			}
			sale.Payments = payments
		}
		if in.Has("adjustments") {
			adjustments, err := s.adjustments.ListBySale(ctx, sale.ID)
			if err != nil {
				return apperr.Persistence("load adjustments", err)
			}
			sale.Adjustments = adjustments
		}
	}
	return nil
}

// UpdateSale applies a partial update. A new total keeps what was already
// paid, so the balance moves by the difference and may not go negative. The
// status follows the balance between open and paid.
func (s *Service) UpdateSale(ctx context.Context, id uuid.UUID, req validation.Request) (*Sale, error) {
	sale, err := s.sales.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get sale", err)
	}
	in, err := s.engine.Validate(ctx, updateSaleForm, req)
	if err != nil {
		return nil, err
	}
	paid := sale.Paid()
	if err := validation.Decode(in, sale); err != nil {
		return nil, err
	}
	if in.Has("total") || in.Has("status") {
		if cents(sale.Total) < cents(paid) {
			verr := apperr.NewValidationError()
			verr.Add("total", s.engine.Message(req.Lang, "total", "min.numeric", map[string]string{"min": money(paid)}))
			return nil, verr
		}
		sale.settle(paid)
	}
	if err := s.sales.Update(ctx, sale); err != nil {
		return nil, apperr.Persistence("update sale", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Updated{Entity: EntitySale, Record: sale}); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *Service) DeleteSale(ctx context.Context, id uuid.UUID, req validation.Request) error {
	sale, err := s.sales.GetByID(ctx, id)
	if err != nil {
		return apperr.Persistence("get sale", err)
	}
	if _, err := s.engine.Validate(ctx, deleteSaleForm, req); err != nil {
		return err
	}
	if err := s.sales.Delete(ctx, id); err != nil {
		return apperr.Persistence("delete sale", err)
	}
	return s.events.Dispatch(ctx, lifecycle.Deleted{Entity: EntitySale, Record: sale})
}

func (s *Service) SearchSales(ctx context.Context, params map[string]string, in resource.Includes, limit, offset int) ([]*Sale, int, error) {
	items, total, err := s.sales.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, apperr.Persistence("search sales", err)
	}
	if err := s.load(ctx, items, in); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// -- Partial payments --

// CreatePayment records a payment and lowers the sale balance in one
// transaction. The amount was checked against the balance during validation;
// concurrent payments on the same sale are not serialized.
func (s *Service) CreatePayment(ctx context.Context, req validation.Request) (*Payment, error) {
	in, err := s.engine.Validate(ctx, createPaymentForm, req)
	if err != nil {
		return nil, err
	}
	p := &Payment{ReceivedBy: req.Identity.UserID}
	if err := validation.Decode(in, p); err != nil {
		return nil, err
	}
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.payments.Create(ctx, p); err != nil {
			return apperr.Persistence("create partial payment", err)
		}
		sale, err := s.sales.ApplyPayment(ctx, p.SaleID, p.Amount)
		if err != nil {
			return apperr.Persistence("apply payment", err)
		}
		if err := s.events.Dispatch(ctx, lifecycle.Created{Entity: EntityPayment, Record: p}); err != nil {
			return err
		}
		return s.events.Dispatch(ctx, lifecycle.Updated{Entity: EntitySale, Record: sale})
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetPayment(ctx context.Context, id uuid.UUID) (*Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get partial payment", err)
	}
	return p, nil
}

func (s *Service) SearchPayments(ctx context.Context, params map[string]string, limit, offset int) ([]*Payment, int, error) {
	items, total, err := s.payments.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, apperr.Persistence("search partial payments", err)
	}
	return items, total, nil
}

// -- Lens price adjustments --

func (s *Service) CreateAdjustment(ctx context.Context, req validation.Request) (*Adjustment, error) {
	in, err := s.engine.Validate(ctx, createAdjustmentForm, req)
	if err != nil {
		return nil, err
	}
	a := &Adjustment{}
	if err := validation.Decode(in, a); err != nil {
		return nil, err
	}
	if err := s.adjustments.Create(ctx, a); err != nil {
		return nil, apperr.Persistence("create price adjustment", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Created{Entity: EntityAdjustment, Record: a}); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) GetAdjustment(ctx context.Context, id uuid.UUID) (*Adjustment, error) {
	a, err := s.adjustments.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get price adjustment", err)
	}
	return a, nil
}

func (s *Service) UpdateAdjustment(ctx context.Context, id uuid.UUID, req validation.Request) (*Adjustment, error) {
	a, err := s.GetAdjustment(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := s.engine.Validate(ctx, updateAdjustmentForm, req)
	if err != nil {
		return nil, err
	}
	if err := validation.Decode(in, a); err != nil {
		return nil, err
	}
	if in.Has("product_id") && !in.Has("adjusted_price") {
		if err := s.checkAdjustedPrice(ctx, req, a); err != nil {
			return nil, err
		}
	}
	if err := s.adjustments.Update(ctx, a); err != nil {
		return nil, apperr.Persistence("update price adjustment", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Updated{Entity: EntityAdjustment, Record: a}); err != nil {
		return nil, err
	}
	return a, nil
}

// checkAdjustedPrice holds the stored adjusted price against the price of a
// newly chosen product.
func (s *Service) checkAdjustedPrice(ctx context.Context, req validation.Request, a *Adjustment) error {
	product, err := s.engine.Lookup().Find(ctx, store.Products, a.ProductID)
	if err != nil {
		return apperr.Persistence("get product", err)
	}
	base, ok := product.Float("price")
	if !ok {
		return apperr.Persistence("get product", fmt.Errorf("product %s has no readable price", a.ProductID))
	}
	if cents(a.AdjustedPrice) <= cents(base) {
		verr := apperr.NewValidationError()
		verr.Add("adjusted_price", s.engine.Message(req.Lang, "adjusted_price", "exceeds_price", map[string]string{"price": money(base)}))
		return verr
	}
	return nil
}

func (s *Service) DeleteAdjustment(ctx context.Context, id uuid.UUID, req validation.Request) error {
	a, err := s.GetAdjustment(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.engine.Validate(ctx, deleteAdjustmentForm, req); err != nil {
		return err
	}
	if err := s.adjustments.Delete(ctx, id); err != nil {
		return apperr.Persistence("delete price adjustment", err)
	}
	return s.events.Dispatch(ctx, lifecycle.Deleted{Entity: EntityAdjustment, Record: a})
}

func (s *Service) SearchAdjustments(ctx context.Context, params map[string]string, limit, offset int) ([]*Adjustment, int, error) {
	items, total, err := s.adjustments.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, apperr.Persistence("search price adjustments", err)
	}
	return items, total, nil
}
