package sales

import (
	"context"

	"github.com/google/uuid"
)

type SaleRepository interface {
	Create(ctx context.Context, s *Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	Update(ctx context.Context, s *Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Sale, int, error)
	// ApplyPayment lowers the balance by amount and marks the sale paid once
	// nothing is owed. It returns the updated sale.
	ApplyPayment(ctx context.Context, id uuid.UUID, amount float64) (*Sale, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]*Payment, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Payment, int, error)
}

type AdjustmentRepository interface {
	Create(ctx context.Context, a *Adjustment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Adjustment, error)
	Update(ctx context.Context, a *Adjustment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]*Adjustment, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Adjustment, int, error)
}
