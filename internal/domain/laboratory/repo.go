package laboratory

import (
	"context"

	"github.com/google/uuid"
)

type LaboratoryRepository interface {
	Create(ctx context.Context, l *Laboratory) error
	GetByID(ctx context.Context, id uuid.UUID) (*Laboratory, error)
	Update(ctx context.Context, l *Laboratory) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Laboratory, int, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Order, int, error)
}
