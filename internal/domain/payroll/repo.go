package payroll

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Payroll) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payroll, error)
	Update(ctx context.Context, p *Payroll) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Payroll, int, error)
}
