package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ItemRepository persists the items of one kind.
type ItemRepository interface {
	Kind() Kind
	Create(ctx context.Context, i *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	Update(ctx context.Context, i *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Item, int, error)
}
